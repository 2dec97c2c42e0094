package puncture

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// zeroTol is the slack allowed outside the unit parameter domain
const zeroTol = 1e-9

// unitQuad lists the parametric corners of the unit quad in loop order
var unitQuad = [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

func inUnit(x float64) bool {
	return x >= -zeroTol && x <= 1+zeroTol
}

func clampUnit(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}

// ZeroTriangle returns the barycentric coordinates where the linear
// interpolant of the three corner values vanishes
func ZeroTriangle(re, im [3]float64) (lambda [3]float64, ok bool) {
	a := mat.NewDense(2, 2, []float64{
		re[1] - re[0], re[2] - re[0],
		im[1] - im[0], im[2] - im[0],
	})
	b := mat.NewVecDense(2, []float64{-re[0], -im[0]})

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return lambda, false
	}
	l1, l2 := x.AtVec(0), x.AtVec(1)
	lambda = [3]float64{1 - l1 - l2, l1, l2}
	for _, l := range lambda {
		if !inUnit(l) || math.IsNaN(l) {
			return lambda, false
		}
	}
	return lambda, true
}

// ZeroUnitQuadBilinear solves for the common zero of the bilinear
// interpolants of re and im over the unit quad with corners in loop order
func ZeroUnitQuadBilinear(re, im [4]float64) (p [2]float64, ok bool) {
	// f(u,v) = a + b*u + c*v + d*u*v
	coef := func(f [4]float64) (a, b, c, d float64) {
		return f[0], f[1] - f[0], f[3] - f[0], f[0] - f[1] + f[2] - f[3]
	}
	ar, br, cr, dr := coef(re)
	ai, bi, ci, di := coef(im)

	// Eliminating v leaves qa*u^2 + qb*u + qc = 0
	qa := bi*dr - di*br
	qb := ai*dr + bi*cr - ci*br - di*ar
	qc := ai*cr - ci*ar

	var roots []float64
	scale := math.Abs(qa) + math.Abs(qb) + math.Abs(qc)
	if scale == 0 {
		return p, false
	}
	switch {
	case math.Abs(qa) <= 1e-14*scale:
		if math.Abs(qb) <= 1e-14*scale {
			return p, false
		}
		roots = []float64{-qc / qb}
	default:
		disc := qb*qb - 4*qa*qc
		if disc < 0 {
			return p, false
		}
		sq := math.Sqrt(disc)
		q := -0.5 * (qb + math.Copysign(sq, qb))
		roots = []float64{q / qa}
		if q != 0 {
			roots = append(roots, qc/q)
		}
	}

	for _, u := range roots {
		if !inUnit(u) {
			continue
		}
		dre, dim := cr+dr*u, ci+di*u
		var v float64
		switch {
		case math.Abs(dre) >= math.Abs(dim) && dre != 0:
			v = -(ar + br*u) / dre
		case dim != 0:
			v = -(ai + bi*u) / dim
		default:
			continue
		}
		if !inUnit(v) {
			continue
		}
		return [2]float64{clampUnit(u), clampUnit(v)}, true
	}
	return p, false
}

// ZeroUnitQuadBarycentric splits the unit quad into two triangles and
// solves each linearly
func ZeroUnitQuadBarycentric(re, im [4]float64) (p [2]float64, ok bool) {
	for _, tri := range [2][3]int{{0, 1, 2}, {0, 2, 3}} {
		lambda, found := ZeroTriangle(
			[3]float64{re[tri[0]], re[tri[1]], re[tri[2]]},
			[3]float64{im[tri[0]], im[tri[1]], im[tri[2]]},
		)
		if !found {
			continue
		}
		for k, c := range tri {
			p[0] += lambda[k] * unitQuad[c][0]
			p[1] += lambda[k] * unitQuad[c][1]
		}
		return p, true
	}
	return p, false
}

// SpaceTimeEdgeZero returns the crossing time in [0,1] of a space-time edge
// quad, trying the bilinear solver first
func SpaceTimeEdgeZero(re, im [4]float64) (t float64, ok bool) {
	p, ok := ZeroUnitQuadBilinear(re, im)
	if !ok {
		p, ok = ZeroUnitQuadBarycentric(re, im)
	}
	if !ok {
		return math.NaN(), false
	}
	return p[1], true
}

// FaceZero locates the zero of the field on a face and interpolates its position
func FaceZero(x []r3.Vec, re, im []float64) (r3.Vec, bool) {
	switch len(x) {
	case 3:
		lambda, ok := ZeroTriangle([3]float64(re), [3]float64(im))
		if !ok {
			return r3.Vec{}, false
		}
		return blend(x, []int{0, 1, 2}, lambda[:]), true
	case 4:
		var r4, i4 [4]float64
		copy(r4[:], re)
		copy(i4[:], im)
		if p, ok := ZeroUnitQuadBilinear(r4, i4); ok {
			u, v := p[0], p[1]
			return blend(x, []int{0, 1, 2, 3},
				[]float64{(1 - u) * (1 - v), u * (1 - v), u * v, (1 - u) * v}), true
		}
	}
	// Fan triangulation
	for i := 1; i+1 < len(x); i++ {
		lambda, ok := ZeroTriangle(
			[3]float64{re[0], re[i], re[i+1]},
			[3]float64{im[0], im[i], im[i+1]},
		)
		if ok {
			return blend(x, []int{0, i, i + 1}, lambda[:]), true
		}
	}
	return r3.Vec{}, false
}

func blend(x []r3.Vec, idx []int, w []float64) r3.Vec {
	var out r3.Vec
	for k, i := range idx {
		out = r3.Add(out, r3.Scale(w[k], x[i]))
	}
	return out
}
