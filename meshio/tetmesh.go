package meshio

import (
	"fmt"

	"github.com/notargets/gocfd/DG3D/mesh/readers"
	"github.com/notargets/gocfd/utils"
	"github.com/notargets/vortrack/meshgraph"
	"gonum.org/v1/gonum/spatial/r3"
)

// TetMesh is a linear tetrahedral mesh: vertex positions and cell corners
type TetMesh struct {
	Vertices []r3.Vec
	EToV     [][4]int
}

// ReadTetMesh loads a Gambit, Gmsh or SU2 file and keeps the corner nodes of
// every tetrahedron
func ReadTetMesh(path string) (*TetMesh, error) {
	m, err := readers.ReadMeshFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	tm := &TetMesh{
		Vertices: make([]r3.Vec, len(m.Vertices)),
		EToV:     make([][4]int, 0, m.NumElements),
	}
	for i, v := range m.Vertices {
		if len(v) < 3 {
			return nil, fmt.Errorf("vertex %d has %d coordinates", i, len(v))
		}
		tm.Vertices[i] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	}

	for k := 0; k < m.NumElements; k++ {
		elemType := m.ElementTypes[k]
		if elemType.GetDimension() != 3 {
			return nil, fmt.Errorf("element %d is not 3D (type=%v)", k, elemType)
		}
		if elemType != utils.Tet && elemType != utils.Tet10 {
			return nil, fmt.Errorf("element %d is not tetrahedral (type=%v)", k, elemType)
		}
		// Corner nodes only
		nodes := m.EtoV[k]
		if len(nodes) < 4 {
			return nil, fmt.Errorf("tetrahedral element %d has insufficient nodes", k)
		}
		tm.EToV = append(tm.EToV, [4]int{nodes[0], nodes[1], nodes[2], nodes[3]})
	}

	if err := tm.Orient(); err != nil {
		return nil, err
	}
	return tm, nil
}

// SignedVolume returns six times the signed volume of cell k
func (tm *TetMesh) SignedVolume(k int) float64 {
	v := tm.EToV[k]
	p0 := tm.Vertices[v[0]]
	a := r3.Sub(tm.Vertices[v[1]], p0)
	b := r3.Sub(tm.Vertices[v[2]], p0)
	c := r3.Sub(tm.Vertices[v[3]], p0)
	return r3.Dot(a, r3.Cross(b, c))
}

// Orient swaps corners so that every cell has positive volume
func (tm *TetMesh) Orient() error {
	for k := range tm.EToV {
		for _, n := range tm.EToV[k] {
			if n < 0 || n >= len(tm.Vertices) {
				return fmt.Errorf("cell %d: node %d: %w", k, n, meshgraph.ErrNodeRange)
			}
		}
		vol := tm.SignedVolume(k)
		switch {
		case vol == 0:
			return fmt.Errorf("cell %d is degenerate: %w", k, meshgraph.ErrInvalidMesh)
		case vol < 0:
			tm.EToV[k][1], tm.EToV[k][2] = tm.EToV[k][2], tm.EToV[k][1]
		}
	}
	return nil
}

// Graph builds the incidence graph of the mesh
func (tm *TetMesh) Graph() (*meshgraph.MeshGraph, error) {
	cells := make([][]meshgraph.NodeID, len(tm.EToV))
	for k, v := range tm.EToV {
		cells[k] = []meshgraph.NodeID{
			meshgraph.NodeID(v[0]), meshgraph.NodeID(v[1]),
			meshgraph.NodeID(v[2]), meshgraph.NodeID(v[3]),
		}
	}
	return meshgraph.BuildFromCells(meshgraph.Tet, len(tm.Vertices), cells)
}

// Matches reports whether g was built from this mesh: same node count and
// the same corner nodes in every cell
func (tm *TetMesh) Matches(g *meshgraph.MeshGraph) bool {
	if g.Shape != meshgraph.Tet || g.NumNodes != len(tm.Vertices) || len(g.Cells) != len(tm.EToV) {
		return false
	}
	for k, v := range tm.EToV {
		nodes := g.Cells[k].Nodes
		if len(nodes) != len(v) {
			return false
		}
		for i := range v {
			if int(nodes[i]) != v[i] {
				return false
			}
		}
	}
	return true
}

// Bounds returns the axis aligned bounding box of the vertices
func (tm *TetMesh) Bounds() (lo, hi r3.Vec) {
	for i, v := range tm.Vertices {
		if i == 0 {
			lo, hi = v, v
			continue
		}
		lo = r3.Vec{X: min(lo.X, v.X), Y: min(lo.Y, v.Y), Z: min(lo.Z, v.Z)}
		hi = r3.Vec{X: max(hi.X, v.X), Y: max(hi.Y, v.Y), Z: max(hi.Z, v.Z)}
	}
	return lo, hi
}
