package meshgraph

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMesh = errors.New("invalid mesh")
	ErrFaceArity   = errors.New("face arity does not match shape")
	ErrNodeRange   = errors.New("node id out of range")
	ErrCellRange   = errors.New("cell id out of range")
	ErrOrientation = errors.New("inconsistent face orientation")
	ErrNonManifold = errors.New("face shared by more than two cells")
	ErrNeighbor    = errors.New("neighbor list disagrees with shared faces")
)

// maxFaceArity bounds the node count of any supported face
const maxFaceArity = 4

type faceKey [maxFaceArity]NodeID

// Builder assembles a MeshGraph one cell at a time, deduplicating the
// shared faces and edges through canonical keys
type Builder struct {
	shape    Shape
	numNodes int

	g         *MeshGraph
	edgeIndex map[[2]NodeID]EdgeID
	faceIndex map[faceKey]FaceID
}

// NewBuilder creates a builder for cells of the given shape over numNodes nodes
func NewBuilder(shape Shape, numNodes int) *Builder {
	return &Builder{
		shape:    shape,
		numNodes: numNodes,
		g: &MeshGraph{
			Shape:    shape,
			NumNodes: numNodes,
		},
		edgeIndex: make(map[[2]NodeID]EdgeID),
		faceIndex: make(map[faceKey]FaceID),
	}
}

// AddCell registers a cell from its node list, the neighbor across each face
// and the outward oriented node tuple of each face. All faces are checked
// before any is registered, so a rejected cell leaves the builder unchanged.
func (b *Builder) AddCell(nodes []NodeID, neighbors []CellID, faces [][]NodeID) (CellID, error) {
	cid := CellID(len(b.g.Cells))

	// Validate inputs
	if len(nodes) != b.shape.NumNodes() {
		return None, fmt.Errorf("cell %d: %d nodes for %s: %w", cid, len(nodes), b.shape, ErrInvalidMesh)
	}
	if len(faces) != b.shape.NumFaces() || len(neighbors) != len(faces) {
		return None, fmt.Errorf("cell %d: %d faces, %d neighbors for %s: %w",
			cid, len(faces), len(neighbors), b.shape, ErrInvalidMesh)
	}
	for _, n := range nodes {
		if int(n) >= b.numNodes {
			return None, fmt.Errorf("cell %d: node %d: %w", cid, n, ErrNodeRange)
		}
	}

	type pendingFace struct {
		k    faceKey
		key  []NodeID
		o    Orientation
		side int
	}
	pending := make([]pendingFace, len(faces))
	claimed := make(map[faceKey]bool, len(faces))
	for i, fn := range faces {
		if len(fn) != b.shape.FaceArity() {
			return None, fmt.Errorf("cell %d face %d: %d nodes: %w", cid, i, len(fn), ErrFaceArity)
		}
		k, key, o, err := b.canonicalFace(fn)
		if err != nil {
			return None, fmt.Errorf("cell %d face %d: %w", cid, i, err)
		}
		if claimed[k] {
			return None, fmt.Errorf("cell %d face %d: face listed twice: %w", cid, i, ErrInvalidMesh)
		}
		claimed[k] = true

		side := 0
		if o.Sign() > 0 {
			side = 1
		}
		if fid, ok := b.faceIndex[k]; ok {
			f := &b.g.Faces[fid]
			if f.Cells[side] != None {
				if f.Cells[1-side] != None {
					return None, fmt.Errorf("cell %d face %d: %w", cid, fid, ErrNonManifold)
				}
				return None, fmt.Errorf("cell %d and cell %d see face %d with the same chirality: %w",
					cid, f.Cells[side], fid, ErrOrientation)
			}
		}
		pending[i] = pendingFace{k: k, key: key, o: o, side: side}
	}

	cell := Cell{
		Nodes:         append([]NodeID(nil), nodes...),
		Faces:         make([]FaceID, len(faces)),
		FaceChirality: make([]int8, len(faces)),
		Neighbors:     append([]CellID(nil), neighbors...),
	}
	for i, p := range pending {
		fid := b.face(p.k, p.key)
		f := &b.g.Faces[fid]
		f.Cells[p.side] = cid
		f.CellFaceIndex[p.side] = i

		cell.Faces[i] = fid
		cell.FaceChirality[i] = p.o.Sign()
	}

	b.g.Cells = append(b.g.Cells, cell)
	return cid, nil
}

// canonicalFace returns the registry key, the canonical cycle and the
// orientation of nodes. Node ids must be in range and distinct.
func (b *Builder) canonicalFace(nodes []NodeID) (faceKey, []NodeID, Orientation, error) {
	key, o := Canonicalize(nodes)

	var k faceKey
	for i := range k {
		k[i] = None
	}
	for i, n := range key {
		if int(n) >= b.numNodes {
			return k, nil, o, fmt.Errorf("node %d: %w", n, ErrNodeRange)
		}
		for _, m := range key[:i] {
			if m == n {
				return k, nil, o, fmt.Errorf("repeated node %d: %w", n, ErrInvalidMesh)
			}
		}
		k[i] = n
	}
	return k, key, o, nil
}

// face looks up or registers the face with canonical cycle key
func (b *Builder) face(k faceKey, key []NodeID) FaceID {
	if fid, ok := b.faceIndex[k]; ok {
		return fid
	}

	fid := FaceID(len(b.g.Faces))
	f := Face{
		Nodes:         key,
		Edges:         make([]EdgeID, len(key)),
		EdgeChirality: make([]int8, len(key)),
		Cells:         [2]CellID{None, None},
		CellFaceIndex: [2]int{-1, -1},
	}
	for i := range key {
		eid, chi := b.edge(key[i], key[(i+1)%len(key)])
		f.Edges[i] = eid
		f.EdgeChirality[i] = chi

		e := &b.g.Edges[eid]
		e.Faces = append(e.Faces, fid)
		e.FaceChirality = append(e.FaceChirality, chi)
		e.FaceEdgeIndex = append(e.FaceEdgeIndex, i)
	}
	b.g.Faces = append(b.g.Faces, f)
	b.faceIndex[k] = fid
	return fid
}

// edge looks up or registers the edge a->c and returns its chirality.
// a and c are distinct nodes of a checked face.
func (b *Builder) edge(a, c NodeID) (EdgeID, int8) {
	key, chi := CanonicalEdge(a, c)
	if eid, ok := b.edgeIndex[key]; ok {
		return eid, chi
	}
	eid := EdgeID(len(b.g.Edges))
	b.g.Edges = append(b.g.Edges, Edge{Nodes: key})
	b.edgeIndex[key] = eid
	return eid, chi
}

// Build checks the neighbor lists against the shared faces and returns the graph
func (b *Builder) Build() (*MeshGraph, error) {
	numCells := len(b.g.Cells)
	for cid := range b.g.Cells {
		c := &b.g.Cells[cid]
		for i, nb := range c.Neighbors {
			if nb != None && int(nb) >= numCells {
				return nil, fmt.Errorf("cell %d neighbor %d: %w", cid, nb, ErrCellRange)
			}
			other := b.g.Faces[c.Faces[i]].Other(CellID(cid))
			if other != nb {
				return nil, fmt.Errorf("cell %d face %d: neighbor %d, face joins %d: %w",
					cid, i, nb, other, ErrNeighbor)
			}
		}
	}
	if err := b.g.Verify(); err != nil {
		return nil, err
	}
	return b.g, nil
}

// BuildFromCells builds a graph from per-cell node lists, deriving the faces
// from the shape's local face table and the neighbors from shared faces
func BuildFromCells(shape Shape, numNodes int, cells [][]NodeID) (*MeshGraph, error) {
	neighbors, err := ConnectCells(shape, cells)
	if err != nil {
		return nil, err
	}
	b := NewBuilder(shape, numNodes)
	for k, nodes := range cells {
		if len(nodes) != shape.NumNodes() {
			return nil, fmt.Errorf("cell %d: %d nodes for %s: %w", k, len(nodes), shape, ErrInvalidMesh)
		}
		if _, err := b.AddCell(nodes, neighbors[k], shape.CellFaces(nodes)); err != nil {
			return nil, err
		}
	}
	return b.Build()
}
