package meshgraph

import (
	"math"
)

// NodeID indexes a mesh node
type NodeID uint32

// EdgeID indexes an Edge in MeshGraph.Edges
type EdgeID uint32

// FaceID indexes a Face in MeshGraph.Faces
type FaceID uint32

// CellID indexes a Cell in MeshGraph.Cells
type CellID uint32

// None marks an absent reference, e.g. the missing neighbor of a boundary face
const None = math.MaxUint32

// Edge is a canonical (ascending) node pair and the faces that contain it
type Edge struct {
	Nodes [2]NodeID

	// Parallel slices, one entry per containing face
	Faces         []FaceID
	FaceChirality []int8 // +1 if the face traverses Nodes[0]->Nodes[1]
	FaceEdgeIndex []int  // Local index of this edge within the face
}

// Valid reports whether both nodes are set and at least one face contains the edge
func (e *Edge) Valid() bool {
	return e.Nodes[0] != None && e.Nodes[1] != None && len(e.Faces) > 0
}

// Face is a canonical node cycle with its edges and the two cells that share it.
// Cells[0] sees the face reversed (chirality -1), Cells[1] sees it in canonical
// order (chirality +1). Either side may be None on the mesh boundary.
type Face struct {
	Nodes         []NodeID
	Edges         []EdgeID
	EdgeChirality []int8 // +1 if Nodes[i]->Nodes[i+1] is the canonical edge direction

	Cells         [2]CellID
	CellFaceIndex [2]int // Local index of this face within Cells[side], -1 if absent
}

// Valid reports whether the node and edge slots are populated and at least one cell owns the face
func (f *Face) Valid() bool {
	if len(f.Nodes) < 3 || len(f.Edges) != len(f.Nodes) || len(f.EdgeChirality) != len(f.Nodes) {
		return false
	}
	for _, e := range f.Edges {
		if e == None {
			return false
		}
	}
	return f.Cells[0] != None || f.Cells[1] != None
}

// Boundary reports whether the face has a single owning cell
func (f *Face) Boundary() bool {
	return f.Cells[0] == None || f.Cells[1] == None
}

// CellChirality returns the orientation of the face as seen from Cells[side]
func (f *Face) CellChirality(side int) int8 {
	if side == 0 {
		return -1
	}
	return 1
}

// Side returns which slot of Cells holds c, or -1
func (f *Face) Side(c CellID) int {
	switch {
	case f.Cells[0] == c:
		return 0
	case f.Cells[1] == c:
		return 1
	}
	return -1
}

// Other returns the cell across the face from c
func (f *Face) Other(c CellID) CellID {
	switch f.Side(c) {
	case 0:
		return f.Cells[1]
	case 1:
		return f.Cells[0]
	}
	return None
}

// Cell is an element with its bounding faces and the neighbor across each face
type Cell struct {
	Nodes         []NodeID
	Faces         []FaceID
	FaceChirality []int8 // +1 when the outward face ordering matches the canonical face
	Neighbors     []CellID
}

// Valid reports whether every node, face and neighbor slot is populated
func (c *Cell) Valid() bool {
	if len(c.Nodes) == 0 || len(c.Faces) == 0 {
		return false
	}
	if len(c.FaceChirality) != len(c.Faces) || len(c.Neighbors) != len(c.Faces) {
		return false
	}
	for _, f := range c.Faces {
		if f == None {
			return false
		}
	}
	return true
}

// MeshGraph is the immutable incidence graph of a conforming mesh.
// All cross references are indices into the flat slices.
type MeshGraph struct {
	Shape    Shape
	NumNodes int
	Edges    []Edge
	Faces    []Face
	Cells    []Cell
}

// NumEdges returns the number of unique edges
func (g *MeshGraph) NumEdges() int { return len(g.Edges) }

// NumFaces returns the number of unique faces
func (g *MeshGraph) NumFaces() int { return len(g.Faces) }

// NumCells returns the number of cells
func (g *MeshGraph) NumCells() int { return len(g.Cells) }

// Edge returns the edge with the given id
func (g *MeshGraph) Edge(id EdgeID) *Edge { return &g.Edges[id] }

// Face returns the face with the given id
func (g *MeshGraph) Face(id FaceID) *Face { return &g.Faces[id] }

// Cell returns the cell with the given id
func (g *MeshGraph) Cell(id CellID) *Cell { return &g.Cells[id] }

// Stats summarizes a graph
type Stats struct {
	Nodes, Edges, Faces, Cells int
	BoundaryFaces              int
	MaxEdgeValence             int // Largest number of faces sharing an edge
}

// Stats counts the graph entities
func (g *MeshGraph) Stats() Stats {
	s := Stats{
		Nodes: g.NumNodes,
		Edges: len(g.Edges),
		Faces: len(g.Faces),
		Cells: len(g.Cells),
	}
	for i := range g.Faces {
		if g.Faces[i].Boundary() {
			s.BoundaryFaces++
		}
	}
	for i := range g.Edges {
		if n := len(g.Edges[i].Faces); n > s.MaxEdgeValence {
			s.MaxEdgeValence = n
		}
	}
	return s
}
