package puncture

import (
	"math"

	"github.com/notargets/vortrack/meshgraph"
	"github.com/plan-systems/klog"
	"gonum.org/v1/gonum/spatial/r3"
)

// PuncturedEdge records a singularity crossing a mesh edge between two time steps
type PuncturedEdge struct {
	Chirality int8
	T         float64 // Crossing time in [0,1], NaN when the locator failed
}

// PuncturedFace records a singularity threading a mesh face at one time step
type PuncturedFace struct {
	Chirality int8
	Pos       r3.Vec // Crossing position, NaN components when the locator failed
}

// Detector decides whether edges and faces carry a phase singularity
type Detector struct {
	Gauge bool // Subtract the vector potential line integral from each phase step
}

// DetectEdge evaluates the space-time quad of edge id across slots 0 and 1
func (d Detector) DetectEdge(g *meshgraph.MeshGraph, id meshgraph.EdgeID, s Sampler) (PuncturedEdge, bool) {
	e := g.Edge(id)
	if !e.Valid() {
		return PuncturedEdge{}, false
	}
	q := SpaceTimeEdgeSamples(s, e)
	x0, x1 := q[0].X, q[1].X

	li := []float64{
		s.LineIntegral(x0, x1, q[0].A, q[1].A),
		0,
		s.LineIntegral(x1, x0, q[2].A, q[3].A),
		0,
	}
	qp := []float64{s.QP(x0, x1), 0, s.QP(x1, x0), 0}

	rho, phi := Phases(q[:])
	w, delta := Winding(phi, li, qp, d.Gauge)
	chi := Chirality(w)
	if chi == 0 {
		return PuncturedEdge{}, false
	}

	var re, im [4]float64
	for i := range q {
		re[i], im[i] = q[i].Re, q[i].Im
	}
	if d.Gauge {
		Regauge(rho, phi, delta, re[:], im[:])
	}

	t, ok := SpaceTimeEdgeZero(re, im)
	if !ok {
		klog.Warningf("edge %d: punctured (chirality %d) but crossing time not found", id, chi)
	}
	return PuncturedEdge{Chirality: chi, T: t}, true
}

// DetectFace evaluates the corner loop of face id at the given slot
func (d Detector) DetectFace(g *meshgraph.MeshGraph, id meshgraph.FaceID, slot int, s Sampler) (PuncturedFace, bool) {
	f := g.Face(id)
	if !f.Valid() {
		return PuncturedFace{}, false
	}
	samples := FaceSamples(s, f, slot)
	n := len(samples)

	x := make([]r3.Vec, n)
	li := make([]float64, n)
	qp := make([]float64, n)
	re := make([]float64, n)
	im := make([]float64, n)
	for i := range samples {
		j := (i + 1) % n
		x[i] = samples[i].X
		li[i] = s.LineIntegral(samples[i].X, samples[j].X, samples[i].A, samples[j].A)
		qp[i] = s.QP(samples[i].X, samples[j].X)
		re[i], im[i] = samples[i].Re, samples[i].Im
	}

	rho, phi := Phases(samples)
	w, delta := Winding(phi, li, qp, d.Gauge)
	chi := Chirality(w)
	if chi == 0 {
		return PuncturedFace{}, false
	}
	if d.Gauge {
		Regauge(rho, phi, delta, re, im)
	}

	pos, ok := FaceZero(x, re, im)
	if !ok {
		klog.Warningf("face %d slot %d: punctured (chirality %d) but singularity not found", id, slot, chi)
		pos = r3.Vec{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}
	}
	return PuncturedFace{Chirality: chi, Pos: pos}, true
}
