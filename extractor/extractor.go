package extractor

import (
	"fmt"

	"github.com/notargets/vortrack/meshgraph"
	"github.com/notargets/vortrack/puncture"
	"github.com/notargets/vortrack/vortex"
	"github.com/plan-systems/klog"
)

// Stage names the last completed step of the current step pair
type Stage int

const (
	Idle Stage = iota
	EdgesExtracted
	FacesExtracted
	SpaceTraced
	Related
	TransitionBuilt
	Rotated
)

func (s Stage) String() string {
	return [...]string{"idle", "edges extracted", "faces extracted", "space traced",
		"related", "transition built", "rotated"}[s]
}

// Extractor finds the vortex lines of a data set one step pair at a time.
// Slot 0 holds step t0 and slot 1 holds t1; RotateTimeSteps moves slot 1 to
// slot 0 so the next pair only samples the new step.
type Extractor struct {
	g   *meshgraph.MeshGraph
	ds  Dataset
	cfg Config
	det puncture.Detector

	edges  *puncture.EdgeMap
	faces  [2]*puncture.FaceMap
	cells  [2]*cellMap // Mesh cells touched by punctured faces, per slot
	vcells *cellMap    // Space-time face prisms, keyed by face

	objects [2][]vortex.Object
	special [2][]meshgraph.CellID
	related map[meshgraph.FaceID][]meshgraph.FaceID
	matrix  *vortex.TransitionMatrix
	history *vortex.History

	stage           Stage
	edgesDone       bool
	facesDone       [2]bool
	traced          [2]bool
	relatedDone     bool
	transitionBuilt bool
}

// New creates an extractor over the graph g and the data set ds
func New(g *meshgraph.MeshGraph, ds Dataset, cfg Config) *Extractor {
	if g == nil {
		panic("mesh graph cannot be nil")
	}
	if ds == nil {
		panic("dataset cannot be nil")
	}
	cfg = cfg.withDefaults()
	x := &Extractor{
		g:       g,
		ds:      ds,
		cfg:     cfg,
		det:     puncture.Detector{Gauge: cfg.Gauge},
		history: vortex.NewHistory(cfg.Sequence),
	}
	x.Clear()
	return x
}

// Clear drops every result of the current step pair. The history is kept.
func (x *Extractor) Clear() {
	x.edges = puncture.NewEdgeMap()
	x.faces = [2]*puncture.FaceMap{puncture.NewFaceMap(), puncture.NewFaceMap()}
	x.cells = [2]*cellMap{newCellMap(), newCellMap()}
	x.vcells = newCellMap()
	x.objects = [2][]vortex.Object{}
	x.special = [2][]meshgraph.CellID{}
	x.related = nil
	x.matrix = nil

	x.stage = Idle
	x.edgesDone = false
	x.facesDone = [2]bool{}
	x.traced = [2]bool{}
	x.relatedDone = false
	x.transitionBuilt = false
}

func (x *Extractor) Stage() Stage { return x.stage }

func (x *Extractor) Graph() *meshgraph.MeshGraph { return x.g }

func (x *Extractor) History() *vortex.History { return x.history }

func (x *Extractor) Edges() *puncture.EdgeMap { return x.edges }

func (x *Extractor) Faces(slot int) *puncture.FaceMap { return x.faces[slot] }

// Objects returns the vortex objects traced for a slot
func (x *Extractor) Objects(slot int) []vortex.Object { return x.objects[slot] }

// SpecialCells lists the cells excluded from tracing in the last trace of a slot
func (x *Extractor) SpecialCells(slot int) []meshgraph.CellID { return x.special[slot] }

// Cell returns the punctures recorded on the faces of cell c at a slot
func (x *Extractor) Cell(slot int, c meshgraph.CellID) (PuncturedCell, bool) {
	pc, ok := x.cells[slot].get(uint32(c))
	if !ok {
		return PuncturedCell{}, false
	}
	return *pc, true
}

func checkSlot(op string, slot int) error {
	if slot != 0 && slot != 1 {
		return fmt.Errorf("%s: invalid slot %d", op, slot)
	}
	return nil
}

// AddPuncturedEdge records a space-time edge puncture and propagates it into
// the side slots of the prisms of every face containing the edge
func (x *Extractor) AddPuncturedEdge(id meshgraph.EdgeID, pe puncture.PuncturedEdge) error {
	if int(id) >= x.g.NumEdges() {
		return fmt.Errorf("punctured edge %d out of range", id)
	}
	x.edges.Put(id, pe)
	e := x.g.Edge(id)
	for j, fid := range e.Faces {
		x.vcells.at(uint32(fid)).Set(2+e.FaceEdgeIndex[j], pe.Chirality*e.FaceChirality[j])
	}
	return nil
}

// AddPuncturedFace records a face puncture at a slot and propagates it into
// the cells on both sides and into the cap of the face prism
func (x *Extractor) AddPuncturedFace(slot int, id meshgraph.FaceID, pf puncture.PuncturedFace) error {
	if err := checkSlot("add punctured face", slot); err != nil {
		return err
	}
	if int(id) >= x.g.NumFaces() {
		return fmt.Errorf("punctured face %d out of range", id)
	}
	x.faces[slot].Put(id, pf)
	x.propagateFace(slot, id, pf.Chirality)
	return nil
}

func (x *Extractor) propagateFace(slot int, id meshgraph.FaceID, chi int8) {
	f := x.g.Face(id)
	for side := 0; side < 2; side++ {
		if f.Cells[side] == meshgraph.None {
			continue
		}
		x.cells[slot].at(uint32(f.Cells[side])).Set(f.CellFaceIndex[side], chi*f.CellChirality(side))
	}
	// The prism is bounded by the face reversed at t0 and the face at t1
	if slot == 0 {
		chi = -chi
	}
	x.vcells.at(uint32(id)).Set(slot, chi)
}

// ExtractEdges finds the space-time edges punctured between slots 0 and 1
func (x *Extractor) ExtractEdges() error {
	if x.edgesDone {
		return stageError("extract edges", "edges already extracted")
	}
	em, ok := x.loadEdges()
	if !ok {
		var err error
		if em, err = x.detectEdges(); err != nil {
			return err
		}
		x.saveEdges(em)
	}
	var err error
	em.Each(func(id meshgraph.EdgeID, pe puncture.PuncturedEdge) {
		if err == nil {
			err = x.AddPuncturedEdge(id, pe)
		}
	})
	if err != nil {
		return err
	}
	x.edgesDone = true
	x.stage = EdgesExtracted
	klog.V(1).Infof("%s %d-%d: %d punctured edges", x.ds.Name(),
		x.ds.TimeStep(0), x.ds.TimeStep(1), x.edges.Len())
	return nil
}

// ExtractFaces finds the faces punctured at one slot
func (x *Extractor) ExtractFaces(slot int) error {
	if err := checkSlot("extract faces", slot); err != nil {
		return err
	}
	if x.facesDone[slot] {
		return stageError("extract faces", "slot %d already extracted", slot)
	}
	fm, ok := x.loadFaces(slot)
	if !ok {
		var err error
		if fm, err = x.detectFaces(slot); err != nil {
			return err
		}
		x.saveFaces(slot, fm)
	}
	var err error
	fm.Each(func(id meshgraph.FaceID, pf puncture.PuncturedFace) {
		if err == nil {
			err = x.AddPuncturedFace(slot, id, pf)
		}
	})
	if err != nil {
		return err
	}
	x.facesDone[slot] = true
	x.stage = FacesExtracted
	klog.V(1).Infof("%s %d: %d punctured faces in %d cells", x.ds.Name(),
		x.ds.TimeStep(slot), x.faces[slot].Len(), x.cells[slot].len())
	return nil
}

// ClassifyVirtualCells checks that every face prism conserves its punctures
func (x *Extractor) ClassifyVirtualCells() (VirtualCellReport, error) {
	var rep VirtualCellReport
	if !x.edgesDone || !x.facesDone[0] || !x.facesDone[1] {
		return rep, stageError("classify virtual cells", "edges and both face slots are required")
	}
	x.vcells.each(func(id uint32, pc *PuncturedCell) {
		caps := pc.Slots[0] != 0 || pc.Slots[1] != 0
		sides := false
		for _, c := range pc.Slots[2:] {
			sides = sides || c != 0
		}
		switch {
		case pc.Slots[0] != 0 && pc.Slots[1] != 0 && !sides:
			rep.Self++
		case !caps && sides:
			rep.Pure++
		case caps && sides:
			rep.Cross++
		}
		if pc.Sum() != 0 {
			rep.Invalid++
			rep.InvalidFaces = append(rep.InvalidFaces, meshgraph.FaceID(id))
			klog.Warningf("face %d: space-time punctures do not balance %v", id, pc.Slots)
		}
	})
	return rep, nil
}

// ExtractPair runs every missing step of the current step pair and returns
// the transition matrix
func (x *Extractor) ExtractPair() (*vortex.TransitionMatrix, error) {
	if x.transitionBuilt {
		return x.matrix, nil
	}
	if !x.edgesDone {
		if err := x.ExtractEdges(); err != nil {
			return nil, err
		}
	}
	for slot := 0; slot < 2; slot++ {
		if !x.facesDone[slot] {
			if err := x.ExtractFaces(slot); err != nil {
				return nil, err
			}
		}
	}
	for slot := 0; slot < 2; slot++ {
		if !x.traced[slot] {
			if _, err := x.TraceOverSpace(slot); err != nil {
				return nil, err
			}
		}
	}
	return x.TraceOverTime()
}

// RotateTimeSteps moves the faces and objects of slot 1 into slot 0 and drops
// everything that depends on the old t0. The caller then advances the data set.
func (x *Extractor) RotateTimeSteps() error {
	if !x.transitionBuilt {
		return stageError("rotate", "transition not built")
	}
	faces, cells, objects := x.faces[1], x.cells[1], x.objects[1]
	special := x.special[1]
	x.Clear()

	x.faces[0], x.cells[0], x.objects[0] = faces, cells, objects
	x.special[0] = special
	x.facesDone[0] = true
	x.traced[0] = true
	faces.Each(func(id meshgraph.FaceID, pf puncture.PuncturedFace) {
		x.vcells.at(uint32(id)).Set(0, -pf.Chirality)
	})
	x.stage = Rotated
	return nil
}
