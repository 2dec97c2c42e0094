package vortex

import (
	"slices"

	"github.com/notargets/vortrack/meshgraph"
)

// Object is one vortex line found at a single time step: the punctured faces
// that belong to it and the ordered face paths that trace it
type Object struct {
	ID       int // Index within its time step
	GID      int // Global id across time steps, -1 until assigned
	TimeStep int

	Faces  []meshgraph.FaceID // Sorted, unique
	Traces [][]meshgraph.FaceID
}

// NewObject returns an empty object without a global id
func NewObject(id, timeStep int) Object {
	return Object{ID: id, GID: -1, TimeStep: timeStep}
}

// AddFace inserts f into the member set
func (o *Object) AddFace(f meshgraph.FaceID) {
	i, found := slices.BinarySearch(o.Faces, f)
	if !found {
		o.Faces = slices.Insert(o.Faces, i, f)
	}
}

// Contains reports whether f is a member face
func (o *Object) Contains(f meshgraph.FaceID) bool {
	_, found := slices.BinarySearch(o.Faces, f)
	return found
}

// AddTrace appends a trace and adds its faces to the member set
func (o *Object) AddTrace(trace []meshgraph.FaceID) {
	o.Traces = append(o.Traces, trace)
	for _, f := range trace {
		o.AddFace(f)
	}
}

// NumPoints is the total number of trace entries
func (o *Object) NumPoints() int {
	n := 0
	for _, tr := range o.Traces {
		n += len(tr)
	}
	return n
}
