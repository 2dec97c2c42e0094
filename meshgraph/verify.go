package meshgraph

import (
	"fmt"
)

// Verify checks the incidence invariants of a built graph
func (g *MeshGraph) Verify() error {
	numCells := CellID(len(g.Cells))
	if g.Shape != Tet && g.Shape != Hex {
		return fmt.Errorf("shape %d: %w", g.Shape, ErrInvalidMesh)
	}

	for fid := range g.Faces {
		f := &g.Faces[fid]
		if len(f.Nodes) != g.Shape.FaceArity() || len(f.Edges) != len(f.Nodes) ||
			len(f.EdgeChirality) != len(f.Nodes) {
			return fmt.Errorf("face %d: %d nodes, %d edges: %w", fid, len(f.Nodes), len(f.Edges), ErrFaceArity)
		}
		for i, n := range f.Nodes {
			if int(n) >= g.NumNodes {
				return fmt.Errorf("face %d: node %d: %w", fid, n, ErrNodeRange)
			}
			if int(f.Edges[i]) >= len(g.Edges) {
				return fmt.Errorf("face %d: edge %d out of range: %w", fid, f.Edges[i], ErrInvalidMesh)
			}
		}
		if f.Cells[0] == None && f.Cells[1] == None {
			return fmt.Errorf("face %d has no cells: %w", fid, ErrInvalidMesh)
		}
		for side, cid := range f.Cells {
			if cid == None {
				continue
			}
			if cid >= numCells {
				return fmt.Errorf("face %d side %d: cell %d: %w", fid, side, cid, ErrCellRange)
			}
			c := &g.Cells[cid]
			li := f.CellFaceIndex[side]
			if li < 0 || li >= len(c.Faces) || c.Faces[li] != FaceID(fid) {
				return fmt.Errorf("face %d: cell %d does not list it at index %d: %w",
					fid, cid, li, ErrInvalidMesh)
			}
			if c.FaceChirality[li] != f.CellChirality(side) {
				return fmt.Errorf("face %d: cell %d chirality %d on side %d: %w",
					fid, cid, c.FaceChirality[li], side, ErrOrientation)
			}
		}
	}

	for cid := range g.Cells {
		c := &g.Cells[cid]
		if len(c.Nodes) != g.Shape.NumNodes() || len(c.Faces) != g.Shape.NumFaces() ||
			len(c.FaceChirality) != len(c.Faces) || len(c.Neighbors) != len(c.Faces) {
			return fmt.Errorf("cell %d: %d nodes, %d faces for %s: %w",
				cid, len(c.Nodes), len(c.Faces), g.Shape, ErrInvalidMesh)
		}
		for _, n := range c.Nodes {
			if int(n) >= g.NumNodes {
				return fmt.Errorf("cell %d: node %d: %w", cid, n, ErrNodeRange)
			}
		}
		for i, fid := range c.Faces {
			if int(fid) >= len(g.Faces) {
				return fmt.Errorf("cell %d: face %d out of range: %w", cid, fid, ErrInvalidMesh)
			}
			f := &g.Faces[fid]
			side := f.Side(CellID(cid))
			if side < 0 || f.CellFaceIndex[side] != i {
				return fmt.Errorf("cell %d: face %d does not list it at index %d: %w",
					cid, fid, i, ErrInvalidMesh)
			}
			nb := c.Neighbors[i]
			if nb != None && nb >= numCells {
				return fmt.Errorf("cell %d neighbor %d: %w", cid, nb, ErrCellRange)
			}
			if other := f.Other(CellID(cid)); other != nb {
				return fmt.Errorf("cell %d face %d: neighbor %d, face joins %d: %w",
					cid, i, nb, other, ErrNeighbor)
			}
		}
	}

	for eid := range g.Edges {
		e := &g.Edges[eid]
		if int(e.Nodes[0]) >= g.NumNodes || int(e.Nodes[1]) >= g.NumNodes {
			return fmt.Errorf("edge %d: nodes %v: %w", eid, e.Nodes, ErrNodeRange)
		}
		if len(e.FaceChirality) != len(e.Faces) || len(e.FaceEdgeIndex) != len(e.Faces) {
			return fmt.Errorf("edge %d: ragged face lists: %w", eid, ErrInvalidMesh)
		}
		for j, fid := range e.Faces {
			if int(fid) >= len(g.Faces) {
				return fmt.Errorf("edge %d: face %d out of range: %w", eid, fid, ErrInvalidMesh)
			}
			f := &g.Faces[fid]
			li := e.FaceEdgeIndex[j]
			if li < 0 || li >= len(f.Edges) || f.Edges[li] != EdgeID(eid) {
				return fmt.Errorf("edge %d: face %d does not list it at index %d: %w",
					eid, fid, li, ErrInvalidMesh)
			}
			if f.EdgeChirality[li] != e.FaceChirality[j] {
				return fmt.Errorf("edge %d: chirality mismatch in face %d: %w", eid, fid, ErrOrientation)
			}
		}
	}
	return nil
}
