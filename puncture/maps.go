package puncture

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/notargets/vortrack/meshgraph"
)

// EdgeMap holds punctured edges ordered by edge id
type EdgeMap struct {
	m *treemap.Map
}

// NewEdgeMap returns an empty map
func NewEdgeMap() *EdgeMap {
	return &EdgeMap{m: treemap.NewWith(utils.UInt32Comparator)}
}

// Put stores or replaces the record of an edge
func (em *EdgeMap) Put(id meshgraph.EdgeID, pe PuncturedEdge) {
	em.m.Put(uint32(id), pe)
}

// Get returns the record of an edge
func (em *EdgeMap) Get(id meshgraph.EdgeID) (PuncturedEdge, bool) {
	v, ok := em.m.Get(uint32(id))
	if !ok {
		return PuncturedEdge{}, false
	}
	return v.(PuncturedEdge), true
}

// Has reports whether an edge is punctured
func (em *EdgeMap) Has(id meshgraph.EdgeID) bool {
	_, ok := em.m.Get(uint32(id))
	return ok
}

// Len is the number of punctured edges
func (em *EdgeMap) Len() int { return em.m.Size() }

// Clear removes all records
func (em *EdgeMap) Clear() { em.m.Clear() }

// Each visits the records in ascending id order
func (em *EdgeMap) Each(fn func(id meshgraph.EdgeID, pe PuncturedEdge)) {
	it := em.m.Iterator()
	for it.Next() {
		fn(meshgraph.EdgeID(it.Key().(uint32)), it.Value().(PuncturedEdge))
	}
}

// IDs returns the punctured edge ids in ascending order
func (em *EdgeMap) IDs() []meshgraph.EdgeID {
	ids := make([]meshgraph.EdgeID, 0, em.m.Size())
	for _, k := range em.m.Keys() {
		ids = append(ids, meshgraph.EdgeID(k.(uint32)))
	}
	return ids
}

// Merge copies every record of o into em
func (em *EdgeMap) Merge(o *EdgeMap) {
	o.Each(func(id meshgraph.EdgeID, pe PuncturedEdge) { em.Put(id, pe) })
}

// FaceMap holds punctured faces of one time slot ordered by face id
type FaceMap struct {
	m *treemap.Map
}

// NewFaceMap returns an empty map
func NewFaceMap() *FaceMap {
	return &FaceMap{m: treemap.NewWith(utils.UInt32Comparator)}
}

// Put stores or replaces the record of a face
func (fm *FaceMap) Put(id meshgraph.FaceID, pf PuncturedFace) {
	fm.m.Put(uint32(id), pf)
}

// Get returns the record of a face
func (fm *FaceMap) Get(id meshgraph.FaceID) (PuncturedFace, bool) {
	v, ok := fm.m.Get(uint32(id))
	if !ok {
		return PuncturedFace{}, false
	}
	return v.(PuncturedFace), true
}

// Has reports whether a face is punctured
func (fm *FaceMap) Has(id meshgraph.FaceID) bool {
	_, ok := fm.m.Get(uint32(id))
	return ok
}

// Len is the number of punctured faces
func (fm *FaceMap) Len() int { return fm.m.Size() }

// Clear removes all records
func (fm *FaceMap) Clear() { fm.m.Clear() }

// Each visits the records in ascending id order
func (fm *FaceMap) Each(fn func(id meshgraph.FaceID, pf PuncturedFace)) {
	it := fm.m.Iterator()
	for it.Next() {
		fn(meshgraph.FaceID(it.Key().(uint32)), it.Value().(PuncturedFace))
	}
}

// IDs returns the punctured face ids in ascending order
func (fm *FaceMap) IDs() []meshgraph.FaceID {
	ids := make([]meshgraph.FaceID, 0, fm.m.Size())
	for _, k := range fm.m.Keys() {
		ids = append(ids, meshgraph.FaceID(k.(uint32)))
	}
	return ids
}

// Merge copies every record of o into fm
func (fm *FaceMap) Merge(o *FaceMap) {
	o.Each(func(id meshgraph.FaceID, pf PuncturedFace) { fm.Put(id, pf) })
}
