package meshgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hexColumn returns n unit cubes stacked along z
func hexColumn(n int) (numNodes int, cells [][]NodeID) {
	numNodes = 4 * (n + 1)
	for k := 0; k < n; k++ {
		b := NodeID(4 * k)
		cells = append(cells, []NodeID{b, b + 1, b + 2, b + 3, b + 4, b + 5, b + 6, b + 7})
	}
	return numNodes, cells
}

// twoTets shares face {1,2,3} between two positively oriented tets
func twoTets() [][]NodeID {
	return [][]NodeID{{0, 1, 2, 3}, {1, 2, 3, 4}}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	cases := [][]NodeID{
		{7, 3},
		{3, 7},
		{5, 2, 9},
		{9, 2, 5},
		{4, 8, 1, 6},
		{6, 1, 8, 4},
	}
	for _, nodes := range cases {
		key, o := Canonicalize(nodes)
		again, o2 := Canonicalize(key)
		assert.Equal(t, key, again, "canonical key of %v", nodes)
		assert.Equal(t, Orientation{}, o2, "canonical key of %v must have identity orientation", nodes)
		assert.Equal(t, nodes, Alternate(key, o), "alternate of %v", nodes)
	}
}

func TestCanonicalizeAllOrderings(t *testing.T) {
	base := []NodeID{2, 5, 3, 8}
	want, _ := Canonicalize(base)
	n := len(base)
	for r := 0; r < n; r++ {
		for _, flip := range []bool{false, true} {
			nodes := make([]NodeID, n)
			for j := 0; j < n; j++ {
				if flip {
					nodes[j] = base[((r-j)%n+n)%n]
				} else {
					nodes[j] = base[(j+r)%n]
				}
			}
			key, o := Canonicalize(nodes)
			assert.Equal(t, want, key)
			assert.Equal(t, nodes, Alternate(key, o))
		}
	}

	// Triangles canonicalize to an ascending rotation or its reflection
	key, o := Canonicalize([]NodeID{3, 1, 2})
	assert.Equal(t, []NodeID{1, 2, 3}, key)
	assert.Equal(t, int8(1), o.Sign())
	key, o = Canonicalize([]NodeID{3, 2, 1})
	assert.Equal(t, []NodeID{1, 2, 3}, key)
	assert.Equal(t, int8(-1), o.Sign())
}

func TestBuildTwoTets(t *testing.T) {
	g, err := BuildFromCells(Tet, 5, twoTets())
	require.NoError(t, err)

	s := g.Stats()
	assert.Equal(t, 2, s.Cells)
	assert.Equal(t, 7, s.Faces)
	assert.Equal(t, 9, s.Edges)
	assert.Equal(t, 6, s.BoundaryFaces)

	interior := 0
	for fid := range g.Faces {
		f := g.Face(FaceID(fid))
		if f.Boundary() {
			// Exactly one side is the sentinel
			assert.True(t, (f.Cells[0] == None) != (f.Cells[1] == None))
			continue
		}
		interior++
		assert.Equal(t, []NodeID{1, 2, 3}, f.Nodes)
		assert.Equal(t, CellID(1), f.Other(0))
		assert.Equal(t, CellID(0), f.Other(1))
	}
	assert.Equal(t, 1, interior)

	assert.Equal(t, CellID(1), g.Cell(0).Neighbors[3])
	assert.Equal(t, CellID(0), g.Cell(1).Neighbors[0])
	assert.Equal(t, -g.Cell(0).FaceChirality[3], g.Cell(1).FaceChirality[0])
}

func TestBuilderInvariants(t *testing.T) {
	numNodes, cells := hexColumn(4)
	g, err := BuildFromCells(Hex, numNodes, cells)
	require.NoError(t, err)
	require.NoError(t, g.Verify())

	assert.Equal(t, 21, g.NumFaces())
	assert.Equal(t, 18, g.Stats().BoundaryFaces)

	for eid := range g.Edges {
		e := g.Edge(EdgeID(eid))
		assert.True(t, e.Valid())
		assert.Less(t, e.Nodes[0], e.Nodes[1])
		for j, fid := range e.Faces {
			f := g.Face(fid)
			assert.Equal(t, EdgeID(eid), f.Edges[e.FaceEdgeIndex[j]])
			assert.Equal(t, e.FaceChirality[j], f.EdgeChirality[e.FaceEdgeIndex[j]])
		}
	}
	for k := 0; k < 4; k++ {
		c := g.Cell(CellID(k))
		assert.True(t, c.Valid())
		if k > 0 {
			assert.Equal(t, CellID(k-1), c.Neighbors[0])
		} else {
			assert.Equal(t, CellID(None), c.Neighbors[0])
		}
		if k < 3 {
			assert.Equal(t, CellID(k+1), c.Neighbors[1])
		} else {
			assert.Equal(t, CellID(None), c.Neighbors[1])
		}
	}
}

func TestBuilderErrors(t *testing.T) {
	faces := func(nodes []NodeID) [][]NodeID { return Tet.CellFaces(nodes) }
	boundary := []CellID{None, None, None, None}

	t.Run("FaceArity", func(t *testing.T) {
		b := NewBuilder(Tet, 4)
		bad := faces([]NodeID{0, 1, 2, 3})
		bad[2] = []NodeID{0, 3, 2, 1}
		_, err := b.AddCell([]NodeID{0, 1, 2, 3}, boundary, bad)
		assert.True(t, errors.Is(err, ErrFaceArity), "got %v", err)
	})
	t.Run("NodeRange", func(t *testing.T) {
		b := NewBuilder(Tet, 4)
		_, err := b.AddCell([]NodeID{0, 1, 2, 9}, boundary, faces([]NodeID{0, 1, 2, 9}))
		assert.True(t, errors.Is(err, ErrNodeRange), "got %v", err)
	})
	t.Run("Orientation", func(t *testing.T) {
		b := NewBuilder(Tet, 4)
		_, err := b.AddCell([]NodeID{0, 1, 2, 3}, boundary, faces([]NodeID{0, 1, 2, 3}))
		require.NoError(t, err)
		_, err = b.AddCell([]NodeID{0, 1, 2, 3}, boundary, faces([]NodeID{0, 1, 2, 3}))
		assert.True(t, errors.Is(err, ErrOrientation), "got %v", err)
	})
	t.Run("NonManifold", func(t *testing.T) {
		b := NewBuilder(Tet, 6)
		for _, nodes := range twoTets() {
			_, err := b.AddCell(nodes, boundary, faces(nodes))
			require.NoError(t, err)
		}
		// A second apex over face {1,2,3}
		_, err := b.AddCell([]NodeID{1, 2, 3, 5}, boundary, faces([]NodeID{1, 2, 3, 5}))
		assert.True(t, errors.Is(err, ErrNonManifold), "got %v", err)
	})
	t.Run("Neighbor", func(t *testing.T) {
		b := NewBuilder(Tet, 5)
		for _, nodes := range twoTets() {
			_, err := b.AddCell(nodes, boundary, faces(nodes))
			require.NoError(t, err)
		}
		_, err := b.Build()
		assert.True(t, errors.Is(err, ErrNeighbor), "got %v", err)
	})
	t.Run("CellRange", func(t *testing.T) {
		b := NewBuilder(Tet, 4)
		_, err := b.AddCell([]NodeID{0, 1, 2, 3}, []CellID{None, 7, None, None}, faces([]NodeID{0, 1, 2, 3}))
		require.NoError(t, err)
		_, err = b.Build()
		assert.True(t, errors.Is(err, ErrCellRange), "got %v", err)
	})
	t.Run("RejectedCellLeavesBuilderUnchanged", func(t *testing.T) {
		b := NewBuilder(Tet, 6)
		for _, nodes := range twoTets() {
			_, err := b.AddCell(nodes, boundary, faces(nodes))
			require.NoError(t, err)
		}
		before := b.g.Stats()

		// Three new faces, then a third cell on {1,2,3}
		_, err := b.AddCell([]NodeID{5, 1, 2, 3}, boundary, faces([]NodeID{5, 1, 2, 3}))
		require.True(t, errors.Is(err, ErrNonManifold), "got %v", err)
		assert.Equal(t, before, b.g.Stats())

		// A face listed twice
		bad := faces([]NodeID{1, 2, 4, 5})
		bad[3] = bad[0]
		_, err = b.AddCell([]NodeID{1, 2, 4, 5}, boundary, bad)
		require.True(t, errors.Is(err, ErrInvalidMesh), "got %v", err)
		assert.Equal(t, before, b.g.Stats())

		clean := NewBuilder(Tet, 6)
		for _, nodes := range twoTets() {
			_, err := clean.AddCell(nodes, boundary, faces(nodes))
			require.NoError(t, err)
		}
		assert.Equal(t, clean.g.Faces, b.g.Faces)
		assert.Equal(t, clean.g.Edges, b.g.Edges)
		assert.Len(t, b.g.Cells, 2)
	})
	t.Run("Connect", func(t *testing.T) {
		_, err := BuildFromCells(Tet, 5, [][]NodeID{{0, 1, 2}})
		assert.True(t, errors.Is(err, ErrInvalidMesh), "got %v", err)
	})
}

func TestMarshalRoundTrip(t *testing.T) {
	numNodes, cells := hexColumn(3)
	g, err := BuildFromCells(Hex, numNodes, cells)
	require.NoError(t, err)

	data, err := g.MarshalBinary()
	require.NoError(t, err)

	var back MeshGraph
	require.NoError(t, back.UnmarshalBinary(data))
	assert.Equal(t, *g, back)

	var short MeshGraph
	err = short.UnmarshalBinary(data[:len(data)/2])
	assert.True(t, errors.Is(err, ErrInvalidMesh), "got %v", err)
}

func TestVerifyRejectsCorruptGraph(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(g *MeshGraph)
		want    error
	}{
		{"FaceNode", func(g *MeshGraph) { g.Faces[0].Nodes[0] = 50 }, ErrNodeRange},
		{"FaceEdge", func(g *MeshGraph) { g.Faces[0].Edges[1] = 99 }, ErrInvalidMesh},
		{"CellNode", func(g *MeshGraph) { g.Cells[1].Nodes[3] = 50 }, ErrNodeRange},
		{"CellFace", func(g *MeshGraph) { g.Cells[0].Faces[0] = 99 }, ErrInvalidMesh},
		{"CellNeighbor", func(g *MeshGraph) { g.Cells[0].Neighbors[0] = 7 }, ErrCellRange},
		{"EdgeNode", func(g *MeshGraph) { g.Edges[0].Nodes[1] = 50 }, ErrNodeRange},
		{"Shape", func(g *MeshGraph) { g.Shape = 9 }, ErrInvalidMesh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := BuildFromCells(Tet, 5, twoTets())
			require.NoError(t, err)
			tt.corrupt(g)

			err = g.Verify()
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			data, err := g.MarshalBinary()
			require.NoError(t, err)
			var back MeshGraph
			err = back.UnmarshalBinary(data)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Nil(t, back.Cells)
		})
	}
}
