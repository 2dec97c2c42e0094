package vortex

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// DataInfo is the header stored with the vortex lines of a data set. It
// describes the domain box used to unwrap lines across periodic boundaries.
type DataInfo struct {
	Origin   r3.Vec
	Lengths  r3.Vec
	Periodic [3]bool
}

func axis(v r3.Vec, k int) float64 {
	switch k {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

func setAxis(v *r3.Vec, k int, x float64) {
	switch k {
	case 0:
		v.X = x
	case 1:
		v.Y = x
	default:
		v.Z = x
	}
}

// Line is the geometric form of an Object: the crossing positions of its
// trace faces, optionally converted to cubic Bezier control points
type Line struct {
	ID       int
	GID      int
	TimeStep int
	R, G, B  uint8
	IsBezier bool
	Points   []r3.Vec
}

// Flatten removes jumps across periodic boundaries so consecutive points are
// never more than half a period apart
func (l *Line) Flatten(info DataInfo) {
	var shift r3.Vec
	for i := 1; i < len(l.Points); i++ {
		raw := l.Points[i]
		prev := l.Points[i-1]
		for k := 0; k < 3; k++ {
			period := axis(info.Lengths, k)
			if !info.Periodic[k] || period <= 0 {
				continue
			}
			d := axis(raw, k) + axis(shift, k) - axis(prev, k)
			switch {
			case d > period/2:
				setAxis(&shift, k, axis(shift, k)-period)
			case d < -period/2:
				setAxis(&shift, k, axis(shift, k)+period)
			}
		}
		l.Points[i] = r3.Add(raw, shift)
	}
}

// Unflatten wraps every point back into the periodic domain
func (l *Line) Unflatten(info DataInfo) {
	for i := range l.Points {
		for k := 0; k < 3; k++ {
			period := axis(info.Lengths, k)
			if !info.Periodic[k] || period <= 0 {
				continue
			}
			o := axis(info.Origin, k)
			x := math.Mod(axis(l.Points[i], k)-o, period)
			if x < 0 {
				x += period
			}
			setAxis(&l.Points[i], k, o+x)
		}
	}
}

// ToBezier replaces the polyline by the control points of a Catmull-Rom
// spline through it: P0, C0a, C0b, P1, C1a, C1b, P2, ...
func (l *Line) ToBezier() {
	n := len(l.Points)
	if l.IsBezier || n < 2 {
		return
	}
	p := l.Points
	at := func(i int) r3.Vec {
		return p[max(0, min(n-1, i))]
	}
	out := make([]r3.Vec, 0, 3*(n-1)+1)
	for i := 0; i < n-1; i++ {
		c1 := r3.Add(p[i], r3.Scale(1.0/6, r3.Sub(at(i+1), at(i-1))))
		c2 := r3.Sub(p[i+1], r3.Scale(1.0/6, r3.Sub(at(i+2), at(i))))
		out = append(out, p[i], c1, c2)
	}
	out = append(out, p[n-1])
	l.Points = out
	l.IsBezier = true
}

// bezierSamples is the number of evaluations per cubic segment in ToRegular
const bezierSamples = 16

// polyline returns the points of the line as a polyline, sampling Bezier
// segments when needed
func (l *Line) polyline() []r3.Vec {
	if !l.IsBezier {
		return l.Points
	}
	var out []r3.Vec
	for s := 0; s+3 < len(l.Points); s += 3 {
		b0, b1, b2, b3 := l.Points[s], l.Points[s+1], l.Points[s+2], l.Points[s+3]
		for j := 0; j < bezierSamples; j++ {
			t := float64(j) / bezierSamples
			u := 1 - t
			pt := r3.Scale(u*u*u, b0)
			pt = r3.Add(pt, r3.Scale(3*u*u*t, b1))
			pt = r3.Add(pt, r3.Scale(3*u*t*t, b2))
			pt = r3.Add(pt, r3.Scale(t*t*t, b3))
			out = append(out, pt)
		}
	}
	if len(l.Points) > 0 {
		out = append(out, l.Points[len(l.Points)-1])
	}
	return out
}

func segmentLengths(pts []r3.Vec) []float64 {
	if len(pts) < 2 {
		return nil
	}
	seg := make([]float64, len(pts)-1)
	for i := range seg {
		seg[i] = r3.Norm(r3.Sub(pts[i+1], pts[i]))
	}
	return seg
}

// Length is the arc length of the line
func (l *Line) Length() float64 {
	seg := segmentLengths(l.polyline())
	if len(seg) == 0 {
		return 0
	}
	return floats.Sum(seg)
}

// ToRegular resamples the line at arc length spacing step. The result is a
// plain polyline that keeps both end points.
func (l *Line) ToRegular(step float64) {
	pts := l.polyline()
	seg := segmentLengths(pts)
	if step <= 0 || len(seg) == 0 {
		return
	}
	cum := make([]float64, len(seg))
	floats.CumSum(cum, seg)
	total := cum[len(cum)-1]

	out := []r3.Vec{pts[0]}
	i := 0
	// The end point is appended below, so stop short of it
	for s := step; s < total-1e-9*step; s += step {
		for cum[i] < s {
			i++
		}
		start := 0.0
		if i > 0 {
			start = cum[i-1]
		}
		f := 0.0
		if seg[i] > 0 {
			f = (s - start) / seg[i]
		}
		out = append(out, r3.Add(pts[i], r3.Scale(f, r3.Sub(pts[i+1], pts[i]))))
	}
	out = append(out, pts[len(pts)-1])
	l.Points = out
	l.IsBezier = false
}
