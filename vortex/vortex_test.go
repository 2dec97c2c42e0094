package vortex

import (
	"testing"

	"github.com/notargets/vortrack/meshgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestObjectFacesAreTraceUnion(t *testing.T) {
	o := NewObject(0, 3)
	assert.Equal(t, -1, o.GID)
	o.AddTrace([]meshgraph.FaceID{9, 4, 7})
	o.AddTrace([]meshgraph.FaceID{2, 4})

	assert.Equal(t, []meshgraph.FaceID{2, 4, 7, 9}, o.Faces)
	assert.True(t, o.Contains(7))
	assert.False(t, o.Contains(5))
	assert.Equal(t, 5, o.NumPoints())
}

func TestSequencesAreIndependent(t *testing.T) {
	a, b := NewSequence(0), NewSequence(0)
	assert.Equal(t, 0, a.Next())
	assert.Equal(t, 1, a.Next())
	assert.Equal(t, 0, b.Next())
	assert.Equal(t, 2, a.Peek())
}

func TestFlattenPeriodic(t *testing.T) {
	info := DataInfo{Lengths: r3.Vec{X: 10, Y: 10, Z: 10}, Periodic: [3]bool{true, false, false}}
	l := Line{Points: []r3.Vec{{X: 8}, {X: 9.5}, {X: 0.5, Y: 1}, {X: 2, Y: 2}}}
	l.Flatten(info)
	assert.Equal(t, []r3.Vec{{X: 8}, {X: 9.5}, {X: 10.5, Y: 1}, {X: 12, Y: 2}}, l.Points)

	l.Unflatten(info)
	assert.InDelta(t, 0.5, l.Points[2].X, 1e-12)
	assert.InDelta(t, 2.0, l.Points[3].X, 1e-12)
	assert.InDelta(t, 9.5, l.Points[1].X, 1e-12)
}

func TestBezierAndRegular(t *testing.T) {
	l := Line{Points: []r3.Vec{{}, {X: 1}, {X: 2}, {X: 3}}}
	assert.InDelta(t, 3.0, l.Length(), 1e-12)

	l.ToBezier()
	require.True(t, l.IsBezier)
	assert.Len(t, l.Points, 3*3+1)
	// Collinear input keeps the curve on the segment
	assert.InDelta(t, 3.0, l.Length(), 1e-9)

	l.ToRegular(0.5)
	assert.False(t, l.IsBezier)
	require.Len(t, l.Points, 7)
	for i, p := range l.Points {
		assert.InDelta(t, 0.5*float64(i), p.X, 1e-9)
	}
}

func TestTransitionEvents(t *testing.T) {
	// 0 -> 0 continues, 1 splits into 1 and 2, 2 dies, 3 is born from nothing
	tm := NewTransitionMatrix(4, 5, 3, 4)
	tm.Inc(0, 0)
	tm.Inc(1, 1)
	tm.Inc(1, 2)

	assert.Equal(t, 2, tm.RowSum(1))
	assert.Equal(t, 0, tm.ColSum(3))

	events := tm.Events()
	assert.Equal(t, []Event{
		{Kind: Continued, From: []int{0}, To: []int{0}},
		{Kind: Split, From: []int{1}, To: []int{1, 2}},
		{Kind: Died, From: []int{2}},
		{Kind: Born, To: []int{3}},
	}, events)

	d := tm.Dense()
	r, c := d.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 4, c)
	assert.Equal(t, 1.0, d.At(1, 2))
	assert.Nil(t, NewTransitionMatrix(0, 1, 0, 2).Dense())

	other := NewTransitionMatrix(4, 5, 3, 4)
	assert.False(t, tm.Equal(other))
	other.Set(0, 0, 1)
	other.Set(1, 1, 1)
	other.Set(1, 2, 1)
	assert.True(t, tm.Equal(other))
}

func TestHistoryRenumbering(t *testing.T) {
	h := NewHistory(NewSequence(100))

	// Two objects merge into one
	m0 := NewTransitionMatrix(0, 1, 2, 1)
	m0.Inc(0, 0)
	m0.Inc(1, 0)
	h.AddMatrix(m0)
	assert.Equal(t, 100, h.GlobalID(0, 0))
	assert.Equal(t, 101, h.GlobalID(0, 1))
	assert.Equal(t, 102, h.GlobalID(1, 0))

	// The merged object continues, a new one appears
	m1 := NewTransitionMatrix(1, 2, 1, 2)
	m1.Inc(0, 1)
	h.AddMatrix(m1)
	assert.Equal(t, 103, h.GlobalID(2, 0))
	assert.Equal(t, 102, h.GlobalID(2, 1))
	assert.Equal(t, 1, h.SequenceIdx(2, 102))
	assert.Equal(t, -1, h.SequenceIdx(2, 100))
	assert.Equal(t, -1, h.GlobalID(7, 0))
	assert.Equal(t, 4, h.NumGlobal())

	assert.Equal(t, []int{0, 1}, h.TimeSteps())
	got, ok := h.Matrix(1)
	require.True(t, ok)
	assert.True(t, got.Equal(m1))
}

func TestHistoriesShareSequence(t *testing.T) {
	seq := NewSequence(50)
	a, b := NewHistory(seq), NewHistory(seq)

	m := NewTransitionMatrix(0, 1, 1, 1)
	m.Inc(0, 0)
	a.AddMatrix(m)
	b.AddMatrix(m)

	assert.Equal(t, 50, a.GlobalID(1, 0))
	assert.Equal(t, 51, b.GlobalID(1, 0))
	assert.Equal(t, 1, a.NumGlobal())
	assert.Equal(t, 1, b.NumGlobal())
	assert.Equal(t, 52, seq.Peek())
}

func TestSequenceColorIsStable(t *testing.T) {
	r0, g0, b0 := SequenceColor(7)
	r1, g1, b1 := SequenceColor(7)
	assert.Equal(t, [3]uint8{r0, g0, b0}, [3]uint8{r1, g1, b1})
	r2, g2, b2 := SequenceColor(8)
	assert.NotEqual(t, [3]uint8{r0, g0, b0}, [3]uint8{r2, g2, b2})
}
