package meshgraph

import (
	"fmt"
	"sort"
)

// ConnectCells computes the neighbor across every local face of every cell.
// Faces are matched on their sorted node tuple; a face seen once is a
// boundary face and gets None.
func ConnectCells(shape Shape, cells [][]NodeID) ([][]CellID, error) {
	nfaces := shape.NumFaces()

	// Initialize with boundary
	neighbors := make([][]CellID, len(cells))
	for k := range cells {
		if len(cells[k]) != shape.NumNodes() {
			return nil, fmt.Errorf("cell %d: %d nodes for %s: %w", k, len(cells[k]), shape, ErrInvalidMesh)
		}
		neighbors[k] = make([]CellID, nfaces)
		for f := range neighbors[k] {
			neighbors[k][f] = None
		}
	}

	type faceRef struct {
		cell CellID
		face int
	}
	seen := make(map[faceKey]faceRef)

	for k, nodes := range cells {
		for f, fn := range shape.CellFaces(nodes) {
			key := sortedKey(fn)
			ref, ok := seen[key]
			if !ok {
				seen[key] = faceRef{cell: CellID(k), face: f}
				continue
			}
			if ref.cell == None {
				return nil, fmt.Errorf("cell %d face %d: %w", k, f, ErrNonManifold)
			}
			neighbors[k][f] = ref.cell
			neighbors[ref.cell][ref.face] = CellID(k)
			// Mark the pair as complete
			seen[key] = faceRef{cell: None}
		}
	}
	return neighbors, nil
}

func sortedKey(nodes []NodeID) faceKey {
	var k faceKey
	for i := range k {
		k[i] = None
	}
	copy(k[:], nodes)
	sort.Slice(k[:len(nodes)], func(i, j int) bool { return k[i] < k[j] })
	return k
}
