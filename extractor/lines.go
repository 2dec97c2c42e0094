package extractor

import (
	"fmt"
	"math"

	"github.com/notargets/vortrack/store"
	"github.com/notargets/vortrack/vortex"
	"github.com/plan-systems/klog"
	"gonum.org/v1/gonum/spatial/r3"
)

// VortexLines converts the objects of a slot into polylines through the
// crossing positions of their trace faces, one line per trace. Lines are
// unwrapped across periodic boundaries and colored by global id.
func (x *Extractor) VortexLines(slot int) ([]vortex.Line, error) {
	if err := checkSlot("vortex lines", slot); err != nil {
		return nil, err
	}
	if !x.traced[slot] {
		return nil, stageError("vortex lines", "slot %d not traced", slot)
	}
	info := x.ds.Info()

	var lines []vortex.Line
	for _, obj := range x.objects[slot] {
		colorID := obj.GID
		if colorID < 0 {
			colorID = obj.ID
		}
		r, g, b := vortex.SequenceColor(colorID)

		for _, trace := range obj.Traces {
			l := vortex.Line{
				ID:       obj.ID,
				GID:      obj.GID,
				TimeStep: obj.TimeStep,
				R:        r,
				G:        g,
				B:        b,
				Points:   make([]r3.Vec, 0, len(trace)),
			}
			for _, fid := range trace {
				pf, ok := x.faces[slot].Get(fid)
				if !ok {
					return nil, &InvariantError{
						Stage: "vortex lines",
						Kind:  "face",
						ID:    uint32(fid),
						Slot:  slot,
						Msg:   fmt.Sprintf("trace of object %d has no puncture", obj.ID),
					}
				}
				if math.IsNaN(pf.Pos.X) {
					klog.V(1).Infof("face %d: no crossing position, point dropped", fid)
					continue
				}
				l.Points = append(l.Points, pf.Pos)
			}
			l.Flatten(info)
			if x.cfg.Bezier {
				l.ToBezier()
			}
			lines = append(lines, l)
		}
	}
	return lines, nil
}

// SaveVortexLines stores the lines of a slot with the data set header
func (x *Extractor) SaveVortexLines(slot int) error {
	if x.cfg.Store == nil {
		return fmt.Errorf("save vortex lines: no store configured")
	}
	lines, err := x.VortexLines(slot)
	if err != nil {
		return err
	}
	key := store.LinesKey(x.ds.Name(), x.ds.TimeStep(slot))
	return x.cfg.Store.Put(key, store.EncodeLines(x.ds.Info(), lines))
}
