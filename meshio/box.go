package meshio

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// kuhnPaths lists the axis orders of the six tetrahedra of a cube. Each tet
// walks from corner 0 to corner 7 adding one axis at a time, so the split is
// conforming between neighboring cubes.
var kuhnPaths = [6][3]int{
	{0, 1, 2},
	{0, 2, 1},
	{1, 0, 2},
	{1, 2, 0},
	{2, 0, 1},
	{2, 1, 0},
}

// NewBoxMesh splits the box [lo,hi] into nx*ny*nz cubes of six tetrahedra each
func NewBoxMesh(nx, ny, nz int, lo, hi r3.Vec) (*TetMesh, error) {
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, fmt.Errorf("invalid box dimensions: %d x %d x %d", nx, ny, nz)
	}
	size := r3.Sub(hi, lo)
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, fmt.Errorf("invalid box extent: %v to %v", lo, hi)
	}

	vid := func(i, j, k int) int {
		return i + (nx+1)*(j+(ny+1)*k)
	}

	tm := &TetMesh{
		Vertices: make([]r3.Vec, (nx+1)*(ny+1)*(nz+1)),
		EToV:     make([][4]int, 0, 6*nx*ny*nz),
	}
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				tm.Vertices[vid(i, j, k)] = r3.Vec{
					X: lo.X + size.X*float64(i)/float64(nx),
					Y: lo.Y + size.Y*float64(j)/float64(ny),
					Z: lo.Z + size.Z*float64(k)/float64(nz),
				}
			}
		}
	}

	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				for _, path := range kuhnPaths {
					c := [3]int{i, j, k}
					var tet [4]int
					tet[0] = vid(c[0], c[1], c[2])
					for s, axis := range path {
						c[axis]++
						tet[s+1] = vid(c[0], c[1], c[2])
					}
					tm.EToV = append(tm.EToV, tet)
				}
			}
		}
	}

	if err := tm.Orient(); err != nil {
		return nil, err
	}
	return tm, nil
}
