package field

import (
	"math"

	"github.com/notargets/vortrack/meshgraph"
	"github.com/notargets/vortrack/puncture"
	"github.com/notargets/vortrack/vortex"
	"gonum.org/v1/gonum/spatial/r3"
)

// LineVortex is a straight phase singularity line moving at constant velocity.
// A positive charge winds counterclockwise about Dir.
type LineVortex struct {
	Point    r3.Vec // Point on the line at t = 0
	Dir      r3.Vec
	Velocity r3.Vec
	Charge   int
}

// basis returns unit vectors e1, e2 spanning the plane normal to Dir with
// e1 x e2 along Dir
func (v LineVortex) basis() (e1, e2 r3.Vec) {
	d := r3.Unit(v.Dir)
	// Cross with the coordinate axis least aligned with d
	axis := r3.Vec{X: 1}
	ax, ay, az := math.Abs(d.X), math.Abs(d.Y), math.Abs(d.Z)
	switch {
	case ay < ax && ay <= az:
		axis = r3.Vec{Y: 1}
	case az < ax && az < ay:
		axis = r3.Vec{Z: 1}
	}
	e1 = r3.Unit(r3.Cross(d, axis))
	e2 = r3.Cross(d, e1)
	return e1, e2
}

// value is the complex factor contributed by the vortex at x and time t
func (v LineVortex) value(x r3.Vec, t float64) complex128 {
	e1, e2 := v.basis()
	r := r3.Sub(x, r3.Add(v.Point, r3.Scale(t, v.Velocity)))
	n := v.Charge
	sign := 1.0
	if n < 0 {
		sign, n = -1, -n
	}
	z := complex(r3.Dot(r, e1), sign*r3.Dot(r, e2))
	out := complex(1, 0)
	for i := 0; i < n; i++ {
		out *= z
	}
	return out
}

// Analytic is a synthetic data set: the product of straight line vortices
// sampled at fixed node positions, with an optional uniform vector potential.
type Analytic struct {
	name     string
	nodes    []r3.Vec
	info     vortex.DataInfo
	vortices []LineVortex

	Dt    float64 // Time between steps
	Twist float64 // Phase gradient along x, compensated by A = (Twist, 0, 0)

	steps [2]int
}

// NewAnalytic returns a data set over the given node positions at steps 0 and 1
func NewAnalytic(name string, nodes []r3.Vec, info vortex.DataInfo, vortices ...LineVortex) *Analytic {
	return &Analytic{
		name:     name,
		nodes:    nodes,
		info:     info,
		vortices: vortices,
		Dt:       1,
		steps:    [2]int{0, 1},
	}
}

func (a *Analytic) Name() string { return a.name }

func (a *Analytic) Info() vortex.DataInfo { return a.info }

// TimeStep returns the step held in slot 0 or 1
func (a *Analytic) TimeStep(slot int) int { return a.steps[slot] }

// SetTimeSteps selects the two steps sampled by slots 0 and 1
func (a *Analytic) SetTimeSteps(t0, t1 int) { a.steps = [2]int{t0, t1} }

// Value evaluates the field at x and time t
func (a *Analytic) Value(x r3.Vec, t float64) complex128 {
	psi := complex(1, 0)
	for _, v := range a.vortices {
		psi *= v.value(x, t)
	}
	if a.Twist != 0 {
		s, c := math.Sincos(a.Twist * x.X)
		psi *= complex(c, s)
	}
	return psi
}

func (a *Analytic) NodeSample(n meshgraph.NodeID, slot int) puncture.Sample {
	x := a.nodes[n]
	psi := a.Value(x, float64(a.steps[slot])*a.Dt)
	return puncture.Sample{
		X:  x,
		A:  r3.Vec{X: a.Twist},
		Re: real(psi),
		Im: imag(psi),
	}
}

// LineIntegral integrates A along the segment with the trapezoid rule
func (a *Analytic) LineIntegral(x0, x1, a0, a1 r3.Vec) float64 {
	return 0.5 * r3.Dot(r3.Add(a0, a1), r3.Sub(x1, x0))
}

// QP is zero: the synthetic field carries no periodic phase offset
func (a *Analytic) QP(x0, x1 r3.Vec) float64 { return 0 }
