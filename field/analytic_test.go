package field

import (
	"math/cmplx"
	"testing"

	"github.com/notargets/vortrack/meshgraph"
	"github.com/notargets/vortrack/puncture"
	"github.com/notargets/vortrack/vortex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// square returns the corners of a unit square about the z axis, counterclockwise
func square() []r3.Vec {
	return []r3.Vec{
		{X: -0.5, Y: -0.5},
		{X: 0.5, Y: -0.5},
		{X: 0.5, Y: 0.5},
		{X: -0.5, Y: 0.5},
	}
}

func loopWinding(t *testing.T, a *Analytic, gauge bool) float64 {
	t.Helper()
	n := len(a.nodes)
	samples := make([]puncture.Sample, n)
	li := make([]float64, n)
	qp := make([]float64, n)
	for i := range samples {
		samples[i] = a.NodeSample(meshgraph.NodeID(i), 0)
	}
	for i := range samples {
		j := (i + 1) % n
		li[i] = a.LineIntegral(samples[i].X, samples[j].X, samples[i].A, samples[j].A)
		qp[i] = a.QP(samples[i].X, samples[j].X)
	}
	_, phi := puncture.Phases(samples)
	w, _ := puncture.Winding(phi, li, qp, gauge)
	return w
}

func TestLineVortexWinding(t *testing.T) {
	tests := []struct {
		name   string
		dir    r3.Vec
		charge int
		expect float64
	}{
		{"Up", r3.Vec{Z: 1}, 1, 1},
		{"Down", r3.Vec{Z: -1}, 1, -1},
		{"Negative", r3.Vec{Z: 1}, -1, -1},
		{"Tilted", r3.Vec{X: 0.2, Y: -0.1, Z: 1}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalytic("loop", square(), vortex.DataInfo{},
				LineVortex{Dir: tt.dir, Charge: tt.charge})
			assert.InDelta(t, tt.expect, loopWinding(t, a, false), 1e-9)
		})
	}
}

func TestLineVortexMovesAndVanishesOnLine(t *testing.T) {
	v := LineVortex{Point: r3.Vec{X: 1, Y: 2}, Dir: r3.Vec{Z: 1}, Velocity: r3.Vec{X: 0.5}, Charge: 1}
	a := NewAnalytic("move", nil, vortex.DataInfo{}, v)
	assert.InDelta(t, 0, cmplx.Abs(a.Value(r3.Vec{X: 1, Y: 2, Z: 7}, 0)), 1e-12)
	assert.InDelta(t, 0, cmplx.Abs(a.Value(r3.Vec{X: 2, Y: 2, Z: -3}, 2)), 1e-12)
	assert.InDelta(t, 1, cmplx.Abs(a.Value(r3.Vec{X: 2, Y: 2}, 0)), 1e-12)

	a.SetTimeSteps(4, 5)
	assert.Equal(t, 4, a.TimeStep(0))
	assert.Equal(t, 5, a.TimeStep(1))
	assert.Equal(t, "move", a.Name())
}

func TestTwistIsRemovedByGauge(t *testing.T) {
	// Without a vortex the twist alone winds the loop when it is large enough
	a := NewAnalytic("twist", []r3.Vec{{X: 0}, {X: 1.6}, {X: 1.6, Y: 1}, {X: 3.2}, {X: 3.2, Y: -1}}, vortex.DataInfo{})
	a.Twist = 2.2
	require.NotEqual(t, int8(0), puncture.Chirality(loopWinding(t, a, false)))
	assert.InDelta(t, 0, loopWinding(t, a, true), 1e-9)

	b := NewAnalytic("twist", square(), vortex.DataInfo{}, LineVortex{Dir: r3.Vec{Z: 1}, Charge: 1})
	b.Twist = 2.2
	assert.InDelta(t, 1, loopWinding(t, b, true), 1e-9)
}
