package meshgraph

// Shape identifies the fixed cell topology of a graph
type Shape uint8

const (
	Tet Shape = iota // Tetrahedron
	Hex              // Hexahedron
)

// Local face tables. Each face is listed counter-clockwise seen from outside
// a positively oriented cell.
var (
	tetFaces = [][]int{
		{0, 2, 1},
		{0, 1, 3},
		{0, 3, 2},
		{1, 2, 3},
	}
	// Nodes 0-3 are the bottom quad counter-clockwise from above, 4-7 the top
	hexFaces = [][]int{
		{0, 3, 2, 1},
		{4, 5, 6, 7},
		{0, 1, 5, 4},
		{1, 2, 6, 5},
		{2, 3, 7, 6},
		{3, 0, 4, 7},
	}
)

func (s Shape) String() string {
	switch s {
	case Tet:
		return "Tet"
	case Hex:
		return "Hex"
	}
	return "Unknown"
}

// NumNodes is the number of corner nodes per cell
func (s Shape) NumNodes() int {
	if s == Hex {
		return 8
	}
	return 4
}

// NumFaces is the number of faces per cell
func (s Shape) NumFaces() int {
	return len(s.LocalFaces())
}

// FaceArity is the number of nodes per face
func (s Shape) FaceArity() int {
	if s == Hex {
		return 4
	}
	return 3
}

// LocalFaces returns the outward oriented local node indices of each face
func (s Shape) LocalFaces() [][]int {
	if s == Hex {
		return hexFaces
	}
	return tetFaces
}

// CellFaces expands the local face table over a cell's global node ids
func (s Shape) CellFaces(nodes []NodeID) [][]NodeID {
	local := s.LocalFaces()
	faces := make([][]NodeID, len(local))
	for i, lf := range local {
		faces[i] = make([]NodeID, len(lf))
		for j, ln := range lf {
			faces[i][j] = nodes[ln]
		}
	}
	return faces
}
