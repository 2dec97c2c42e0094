package puncture

import (
	"math"
	"testing"

	"github.com/notargets/vortrack/meshgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// lineField is a vertical vortex line through center[slot] with an optional
// phase twist exp(iKx) that the vector potential (K,0,0) gauges away
type lineField struct {
	nodes  []r3.Vec
	center [2]r3.Vec
	K      float64
}

func (lf *lineField) NodeSample(n meshgraph.NodeID, slot int) Sample {
	x := lf.nodes[n]
	z := complex(x.X-lf.center[slot].X, x.Y-lf.center[slot].Y)
	if lf.K != 0 {
		z *= complex(math.Cos(lf.K*x.X), math.Sin(lf.K*x.X))
	}
	return Sample{X: x, A: r3.Vec{X: lf.K}, Re: real(z), Im: imag(z)}
}

func (lf *lineField) LineIntegral(x0, x1, a0, a1 r3.Vec) float64 {
	return 0.5 * r3.Dot(r3.Add(a0, a1), r3.Sub(x1, x0))
}

func (lf *lineField) QP(x0, x1 r3.Vec) float64 { return 0 }

func unitTet(t *testing.T) (*meshgraph.MeshGraph, []r3.Vec) {
	g, err := meshgraph.BuildFromCells(meshgraph.Tet, 4, [][]meshgraph.NodeID{{0, 1, 2, 3}})
	require.NoError(t, err)
	return g, []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}}
}

func loop(turns float64, n int, offset float64) []Sample {
	s := make([]Sample, n)
	for k := 0; k < n; k++ {
		a := offset + 2*math.Pi*turns*float64(k)/float64(n)
		s[k] = Sample{Re: 2 * math.Cos(a), Im: 2 * math.Sin(a)}
	}
	return s
}

func TestMod2Pi(t *testing.T) {
	cases := map[float64]float64{
		0:               0,
		math.Pi:         math.Pi,
		-math.Pi:        math.Pi,
		3 * math.Pi / 2: -math.Pi / 2,
		-3 * math.Pi:    math.Pi,
		7:               7 - 2*math.Pi,
	}
	for in, want := range cases {
		assert.InDelta(t, want, Mod2Pi(in), 1e-12, "Mod2Pi(%v)", in)
	}
}

func TestWindingQuantization(t *testing.T) {
	for _, n := range []int{3, 4} {
		for _, turns := range []float64{0, 1, -1} {
			_, phi := Phases(loop(turns, n, 0.3))
			w, _ := Winding(phi, nil, nil, false)
			assert.InDelta(t, turns, w, 1e-12, "n=%d turns=%v", n, turns)
			assert.Equal(t, int8(turns), Chirality(w), "n=%d turns=%v", n, turns)
		}
		// Zero winding with uneven phases never punctures
		_, phi := Phases([]Sample{{Re: 1, Im: 0.2}, {Re: 0.3, Im: 1}, {Re: -0.2, Im: 0.9}, {Re: 1, Im: 1}}[:n])
		w, _ := Winding(phi, nil, nil, false)
		assert.Equal(t, int8(0), Chirality(w))
	}
}

func TestZeroLocators(t *testing.T) {
	// re = u - 0.3, im = v - 0.6 at the unit quad corners
	re := [4]float64{-0.3, 0.7, 0.7, -0.3}
	im := [4]float64{-0.6, -0.6, 0.4, 0.4}

	p, ok := ZeroUnitQuadBilinear(re, im)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{0.3, 0.6}, p[:], 1e-12)

	p, ok = ZeroUnitQuadBarycentric(re, im)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{0.3, 0.6}, p[:], 1e-12)

	tm, ok := SpaceTimeEdgeZero(re, im)
	require.True(t, ok)
	assert.InDelta(t, 0.6, tm, 1e-12)

	_, ok = SpaceTimeEdgeZero([4]float64{1, 2, 3, 4}, im)
	assert.False(t, ok)

	lambda, ok := ZeroTriangle([3]float64{-0.25, 0.75, -0.25}, [3]float64{-0.5, -0.5, 0.5})
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.5}, lambda[:], 1e-12)

	pos, ok := FaceZero(
		[]r3.Vec{{}, {X: 2}, {X: 2, Y: 2}, {Y: 2}},
		re[:], im[:])
	require.True(t, ok)
	assert.InDelta(t, 0.6, pos.X, 1e-12)
	assert.InDelta(t, 1.2, pos.Y, 1e-12)
}

func TestDetectFaces(t *testing.T) {
	g, nodes := unitTet(t)
	field := &lineField{nodes: nodes, center: [2]r3.Vec{{X: 0.2, Y: 0.3}, {X: 0.2, Y: 0.3}}}

	var det Detector
	found := NewFaceMap()
	for fid := range g.Faces {
		if pf, ok := det.DetectFace(g, meshgraph.FaceID(fid), 0, field); ok {
			found.Put(meshgraph.FaceID(fid), pf)
		}
	}
	require.Equal(t, 2, found.Len())

	var zs []float64
	found.Each(func(id meshgraph.FaceID, pf PuncturedFace) {
		assert.Equal(t, int8(1), pf.Chirality, "face %d", id)
		assert.InDelta(t, 0.2, pf.Pos.X, 1e-9)
		assert.InDelta(t, 0.3, pf.Pos.Y, 1e-9)
		zs = append(zs, pf.Pos.Z)
	})
	assert.ElementsMatch(t, []float64{0, 0.5}, roundAll(zs))
}

func TestDetectMovingEdge(t *testing.T) {
	g, nodes := unitTet(t)
	field := &lineField{nodes: nodes, center: [2]r3.Vec{{X: 0.2, Y: 0.3}, {X: 0.8, Y: 0.3}}}

	var det Detector
	edges := NewEdgeMap()
	for eid := range g.Edges {
		if pe, ok := det.DetectEdge(g, meshgraph.EdgeID(eid), field); ok {
			edges.Put(meshgraph.EdgeID(eid), pe)
		}
	}
	require.Equal(t, 1, edges.Len())
	edges.Each(func(id meshgraph.EdgeID, pe PuncturedEdge) {
		assert.Equal(t, [2]meshgraph.NodeID{1, 2}, g.Edge(id).Nodes)
		assert.Equal(t, int8(1), pe.Chirality)
		assert.InDelta(t, 0.5/0.6, pe.T, 1e-9)
	})
}

func TestGaugeRemovesTwist(t *testing.T) {
	g, nodes := unitTet(t)
	plain := &lineField{nodes: nodes, center: [2]r3.Vec{{X: 0.2, Y: 0.3}, {X: 0.8, Y: 0.3}}}
	twisted := &lineField{nodes: nodes, center: plain.center, K: 2.5}

	gauge := Detector{Gauge: true}
	for fid := range g.Faces {
		want, wantOK := gauge.DetectFace(g, meshgraph.FaceID(fid), 0, plain)
		got, gotOK := gauge.DetectFace(g, meshgraph.FaceID(fid), 0, twisted)
		require.Equal(t, wantOK, gotOK, "face %d", fid)
		if wantOK {
			assert.Equal(t, want.Chirality, got.Chirality)
			assert.InDelta(t, want.Pos.X, got.Pos.X, 1e-9)
			assert.InDelta(t, want.Pos.Y, got.Pos.Y, 1e-9)
			assert.InDelta(t, want.Pos.Z, got.Pos.Z, 1e-9)
		}
	}
	for eid := range g.Edges {
		want, wantOK := gauge.DetectEdge(g, meshgraph.EdgeID(eid), plain)
		got, gotOK := gauge.DetectEdge(g, meshgraph.EdgeID(eid), twisted)
		require.Equal(t, wantOK, gotOK, "edge %d", eid)
		if wantOK {
			assert.Equal(t, want.Chirality, got.Chirality)
			assert.InDelta(t, want.T, got.T, 1e-9)
		}
	}
}

func TestMapsIterateInOrder(t *testing.T) {
	em := NewEdgeMap()
	for _, id := range []meshgraph.EdgeID{9, 2, 5} {
		em.Put(id, PuncturedEdge{Chirality: 1, T: float64(id)})
	}
	var ids []meshgraph.EdgeID
	em.Each(func(id meshgraph.EdgeID, pe PuncturedEdge) { ids = append(ids, id) })
	assert.Equal(t, []meshgraph.EdgeID{2, 5, 9}, ids)
	assert.True(t, em.Has(5))
	assert.False(t, em.Has(6))

	other := NewEdgeMap()
	other.Put(1, PuncturedEdge{Chirality: -1})
	em.Merge(other)
	pe, ok := em.Get(1)
	require.True(t, ok)
	assert.Equal(t, int8(-1), pe.Chirality)
	assert.Equal(t, 4, em.Len())
	assert.Equal(t, []meshgraph.EdgeID{1, 2, 5, 9}, em.IDs())

	fm := NewFaceMap()
	fm.Put(7, PuncturedFace{Chirality: 1})
	fm.Put(3, PuncturedFace{Chirality: -1})
	assert.Equal(t, []meshgraph.FaceID{3, 7}, fm.IDs())
}

func roundAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = math.Round(x*1e6) / 1e6
	}
	return out
}
