package extractor

import (
	"runtime"

	"github.com/notargets/vortrack/partitions"
	"github.com/notargets/vortrack/puncture"
	"github.com/notargets/vortrack/store"
	"github.com/notargets/vortrack/vortex"
)

// Dataset is the field sampled at the mesh nodes for the two time slots of
// the current step pair
type Dataset interface {
	puncture.Sampler
	Name() string
	TimeStep(slot int) int
	Info() vortex.DataInfo
}

// Config selects the extractor options. Zero values are filled in by New.
type Config struct {
	Gauge    bool // Subtract the vector potential line integral from phase steps
	Archive  bool // Load and save intermediate results through Store
	Bezier   bool // Emit vortex lines as Bezier control points
	Workers  int  // Detection goroutines, default runtime.NumCPU()
	Strategy partitions.PartitionStrategy

	Store    store.Store
	Sequence *vortex.Sequence // Global id source, default starts at 0
}

func (cfg Config) withDefaults() Config {
	if cfg.Workers < 1 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Sequence == nil {
		cfg.Sequence = vortex.NewSequence(0)
	}
	if cfg.Store == nil {
		cfg.Archive = false
	}
	return cfg
}
