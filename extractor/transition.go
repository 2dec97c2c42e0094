package extractor

import (
	"github.com/notargets/vortrack/vortex"
	"github.com/plan-systems/klog"
)

// TraceOverTime relates the two slots if needed, builds the transition
// matrix between their objects, adds it to the history and assigns global
// ids to the objects of both slots
func (x *Extractor) TraceOverTime() (*vortex.TransitionMatrix, error) {
	if x.transitionBuilt {
		return nil, stageError("trace over time", "transition already built")
	}
	if !x.relatedDone {
		if err := x.RelateOverTime(); err != nil {
			return nil, err
		}
	}

	tm, ok := x.loadMatrix()
	if !ok {
		tm = x.buildMatrix()
		x.saveMatrix(tm)
	}

	x.history.AddMatrix(tm)
	for slot := 0; slot < 2; slot++ {
		t := x.ds.TimeStep(slot)
		for i := range x.objects[slot] {
			x.objects[slot][i].GID = x.history.GlobalID(t, x.objects[slot][i].ID)
		}
	}

	x.matrix = tm
	x.transitionBuilt = true
	x.stage = TransitionBuilt
	for _, ev := range tm.Events() {
		klog.V(1).Infof("%s %d-%d: %s %v -> %v", x.ds.Name(), tm.T0, tm.T1, ev.Kind, ev.From, ev.To)
	}
	return tm, nil
}

// Matrix returns the transition matrix of the current pair, nil before
// TraceOverTime
func (x *Extractor) Matrix() *vortex.TransitionMatrix { return x.matrix }

// buildMatrix sets entry (i,j) once when a face of object i is related to a
// face of object j
func (x *Extractor) buildMatrix() *vortex.TransitionMatrix {
	obj0, obj1 := x.objects[0], x.objects[1]
	tm := vortex.NewTransitionMatrix(x.ds.TimeStep(0), x.ds.TimeStep(1), len(obj0), len(obj1))
	for i := range obj0 {
		for j := range obj1 {
			if x.objectsRelated(&obj0[i], &obj1[j]) {
				tm.Inc(i, j)
			}
		}
	}
	return tm
}

func (x *Extractor) objectsRelated(a, b *vortex.Object) bool {
	for _, f := range a.Faces {
		for _, r := range x.related[f] {
			if b.Contains(r) {
				return true
			}
		}
	}
	return false
}
