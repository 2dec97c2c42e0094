package extractor

import (
	"slices"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/notargets/vortrack/meshgraph"
	"github.com/plan-systems/klog"
)

// frontier is one face reached by the relate search and the chirality the
// singularity must have there
type frontier struct {
	face meshgraph.FaceID
	chi  int8
}

// RelateOverTime finds, for every face punctured at t0, the faces punctured
// at t1 that the same singularity reaches by sweeping across punctured edges
func (x *Extractor) RelateOverTime() error {
	if !x.edgesDone || !x.traced[0] || !x.traced[1] {
		return stageError("relate over time", "edges and both space traces are required")
	}
	x.related = make(map[meshgraph.FaceID][]meshgraph.FaceID, x.faces[0].Len())
	links := 0
	for _, id := range x.faces[0].IDs() {
		pf, _ := x.faces[0].Get(id)
		rel := x.relateFace(id, pf.Chirality)
		if len(rel) > 0 {
			x.related[id] = rel
			links += len(rel)
		}
	}
	x.relatedDone = true
	x.stage = Related
	klog.V(1).Infof("%s %d-%d: %d of %d faces related, %d links", x.ds.Name(),
		x.ds.TimeStep(0), x.ds.TimeStep(1), len(x.related), x.faces[0].Len(), links)
	return nil
}

// Related returns the t1 faces related to a t0 face, ascending
func (x *Extractor) Related(id meshgraph.FaceID) []meshgraph.FaceID {
	return x.related[id]
}

// relateFace runs a depth first search from seed. A punctured edge of the
// current face is crossed once per search, and only when its chirality seen
// from the face matches the current one; the faces beyond it are pushed in
// descending id order so the lowest is explored first.
func (x *Extractor) relateFace(seed meshgraph.FaceID, chi int8) []meshgraph.FaceID {
	visitedFaces := make(map[meshgraph.FaceID]bool)
	visitedEdges := make(map[meshgraph.EdgeID]bool)
	var related []meshgraph.FaceID

	stack := arraystack.New()
	stack.Push(frontier{face: seed, chi: chi})
	for !stack.Empty() {
		v, _ := stack.Pop()
		cur := v.(frontier)
		if visitedFaces[cur.face] {
			continue
		}
		visitedFaces[cur.face] = true

		if pf, ok := x.faces[1].Get(cur.face); ok && pf.Chirality == cur.chi {
			related = append(related, cur.face)
		}

		f := x.g.Face(cur.face)
		for i, eid := range f.Edges {
			pe, ok := x.edges.Get(eid)
			if !ok || visitedEdges[eid] {
				continue
			}
			visitedEdges[eid] = true
			if f.EdgeChirality[i]*pe.Chirality != cur.chi {
				continue
			}
			e := x.g.Edge(eid)
			for j := len(e.Faces) - 1; j >= 0; j-- {
				if visitedFaces[e.Faces[j]] {
					continue
				}
				stack.Push(frontier{face: e.Faces[j], chi: -e.FaceChirality[j] * pe.Chirality})
			}
		}
	}
	slices.Sort(related)
	return related
}
