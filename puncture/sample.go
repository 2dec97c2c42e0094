package puncture

import (
	"github.com/notargets/vortrack/meshgraph"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sample is the field state at one mesh node and time slot
type Sample struct {
	X      r3.Vec // Position
	A      r3.Vec // Vector potential
	Re, Im float64
}

// Sampler provides node samples and the gauge corrections between two nodes.
// Implementations are read concurrently by the detection workers.
type Sampler interface {
	NodeSample(n meshgraph.NodeID, slot int) Sample
	LineIntegral(x0, x1, a0, a1 r3.Vec) float64
	QP(x0, x1 r3.Vec) float64
}

// SpaceTimeEdgeSamples returns the edge quad n0@t0, n1@t0, n1@t1, n0@t1
func SpaceTimeEdgeSamples(s Sampler, e *meshgraph.Edge) [4]Sample {
	return [4]Sample{
		s.NodeSample(e.Nodes[0], 0),
		s.NodeSample(e.Nodes[1], 0),
		s.NodeSample(e.Nodes[1], 1),
		s.NodeSample(e.Nodes[0], 1),
	}
}

// FaceSamples returns the samples at the face corners in canonical order
func FaceSamples(s Sampler, f *meshgraph.Face, slot int) []Sample {
	out := make([]Sample, len(f.Nodes))
	for i, n := range f.Nodes {
		out[i] = s.NodeSample(n, slot)
	}
	return out
}
