package main

import (
	"fmt"
	"os"

	"github.com/notargets/vortrack/field"
	"github.com/notargets/vortrack/meshgraph"
	"github.com/notargets/vortrack/meshio"
	"github.com/notargets/vortrack/partitions"
	"github.com/notargets/vortrack/store"
	"github.com/notargets/vortrack/vortex"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// RunFile is the YAML description of an extraction run. Command line flags
// override the values read from the file.
type RunFile struct {
	Name string `yaml:"name"`

	Mesh struct {
		File string     `yaml:"file"` // Gambit, Gmsh or SU2; empty selects the box
		Box  [3]int     `yaml:"box"`
		Lo   [3]float64 `yaml:"lo"`
		Hi   [3]float64 `yaml:"hi"`
	} `yaml:"mesh"`
	Periodic [3]bool `yaml:"periodic"`

	First int     `yaml:"first"`
	Last  int     `yaml:"last"`
	Dt    float64 `yaml:"dt"`
	Twist float64 `yaml:"twist"`

	Gauge    bool   `yaml:"gauge"`
	Bezier   bool   `yaml:"bezier"`
	Workers  int    `yaml:"workers"`
	Strategy string `yaml:"strategy"`

	Store struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
		Archive bool   `yaml:"archive"`
	} `yaml:"store"`

	Vortices []VortexSpec `yaml:"vortices"`
}

// VortexSpec is one analytic line vortex
type VortexSpec struct {
	Point    [3]float64 `yaml:"point"`
	Dir      [3]float64 `yaml:"dir"`
	Velocity [3]float64 `yaml:"velocity"`
	Charge   int        `yaml:"charge"`
}

func vec(a [3]float64) r3.Vec { return r3.Vec{X: a[0], Y: a[1], Z: a[2]} }

func defaultRunFile() *RunFile {
	rf := &RunFile{Name: "box", Last: 1, Dt: 1, Strategy: "block"}
	rf.Mesh.Box = [3]int{4, 4, 4}
	rf.Mesh.Hi = [3]float64{4, 4, 4}
	rf.Store.Backend = "badger"
	rf.Vortices = []VortexSpec{{
		Point:    [3]float64{1.37, 1.52, 0},
		Dir:      [3]float64{0.13, -0.07, 1},
		Velocity: [3]float64{0.2, 0.1, 0},
		Charge:   1,
	}}
	return rf
}

// loadRunFile reads path over the defaults; an empty path keeps the defaults
func loadRunFile(path string) (*RunFile, error) {
	rf := defaultRunFile()
	if path == "" {
		return rf, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	if err := yaml.Unmarshal(data, rf); err != nil {
		return nil, fmt.Errorf("parsing run file %s: %w", path, err)
	}
	return rf, nil
}

// runFlags are the flags shared by the commands that build a mesh
type runFlags struct {
	config   string
	name     string
	mesh     string
	box      []int
	backend  string
	path     string
	workers  int
	strategy string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "YAML run file")
	cmd.Flags().StringVar(&f.name, "name", "", "Data set name used in store keys")
	cmd.Flags().StringVar(&f.mesh, "mesh", "", "Tetrahedral mesh file (Gambit .neu, Gmsh .msh, SU2)")
	cmd.Flags().IntSliceVar(&f.box, "box", nil, "Box mesh cells per axis, e.g. 4,4,4")
	cmd.Flags().StringVar(&f.backend, "backend", "", "Store backend: badger or sqlite")
	cmd.Flags().StringVar(&f.path, "store", "", "Store location; empty disables persistence")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Detection workers (default: number of CPUs)")
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "Work split: block or roundrobin")
}

// resolve loads the run file and applies the flags that were set
func (f *runFlags) resolve(cmd *cobra.Command) (*RunFile, error) {
	rf, err := loadRunFile(f.config)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("name") {
		rf.Name = f.name
	}
	if flags.Changed("mesh") {
		rf.Mesh.File = f.mesh
	}
	if flags.Changed("box") {
		if len(f.box) != 3 {
			return nil, fmt.Errorf("--box needs three values, got %v", f.box)
		}
		rf.Mesh.File = ""
		copy(rf.Mesh.Box[:], f.box)
	}
	if flags.Changed("backend") {
		rf.Store.Backend = f.backend
	}
	if flags.Changed("store") {
		rf.Store.Path = f.path
	}
	if flags.Changed("workers") {
		rf.Workers = f.workers
	}
	if flags.Changed("strategy") {
		rf.Strategy = f.strategy
	}
	return rf, nil
}

func (rf *RunFile) strategy() (partitions.PartitionStrategy, error) {
	return partitions.ParseStrategy(rf.Strategy)
}

// tetMesh reads the mesh file or builds the box
func (rf *RunFile) tetMesh() (*meshio.TetMesh, error) {
	if rf.Mesh.File != "" {
		return meshio.ReadTetMesh(rf.Mesh.File)
	}
	b := rf.Mesh.Box
	return meshio.NewBoxMesh(b[0], b[1], b[2], vec(rf.Mesh.Lo), vec(rf.Mesh.Hi))
}

// openStore returns nil when no store path is configured
func (rf *RunFile) openStore() (store.Store, error) {
	if rf.Store.Path == "" {
		return nil, nil
	}
	return store.Open(rf.Store.Backend, rf.Store.Path)
}

// graph loads the incidence graph from the store or builds and saves it
func (rf *RunFile) graph(tm *meshio.TetMesh, s store.Store) (*meshgraph.MeshGraph, error) {
	if s != nil {
		g, err := store.GetMesh(s, rf.Name)
		switch {
		case err == nil && tm.Matches(g):
			klog.Infof("%s: mesh graph loaded from store", rf.Name)
			return g, nil
		case err == nil:
			klog.Warningf("%s: stored mesh graph (%d nodes, %d cells) was built from another mesh; rebuilding",
				rf.Name, g.NumNodes, len(g.Cells))
		case !store.IsNotFound(err):
			klog.Warningf("%s: %v; rebuilding", rf.Name, err)
		}
	}

	g, err := tm.Graph()
	if err != nil {
		return nil, err
	}
	if s != nil {
		if err := store.PutMesh(s, rf.Name, g); err != nil {
			klog.Warningf("%s: saving mesh graph: %v", rf.Name, err)
		}
	}
	return g, nil
}

// dataset builds the analytic field over the mesh nodes
func (rf *RunFile) dataset(tm *meshio.TetMesh) *field.Analytic {
	lo, hi := tm.Bounds()
	info := vortex.DataInfo{Origin: lo, Lengths: r3.Sub(hi, lo), Periodic: rf.Periodic}

	vortices := make([]field.LineVortex, len(rf.Vortices))
	for i, v := range rf.Vortices {
		vortices[i] = field.LineVortex{
			Point:    vec(v.Point),
			Dir:      vec(v.Dir),
			Velocity: vec(v.Velocity),
			Charge:   v.Charge,
		}
	}
	ds := field.NewAnalytic(rf.Name, tm.Vertices, info, vortices...)
	ds.Dt = rf.Dt
	ds.Twist = rf.Twist
	return ds
}
