package main

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/notargets/vortrack/partitions"
	"github.com/notargets/vortrack/store"
	"github.com/spf13/cobra"
)

func meshCmd() *cobra.Command {
	var rflags runFlags

	cmd := &cobra.Command{
		Use:   "mesh",
		Short: "Build, verify and describe the incidence graph of a mesh",
		Long: `Builds the edge, face and cell incidence graph of the mesh, verifies it and
reports how the cells split over the detection workers. With --store the
graph is saved under the data set name for later runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rf, err := rflags.resolve(cmd)
			if err != nil {
				return err
			}
			return runMesh(rf)
		},
	}
	rflags.register(cmd)
	return cmd
}

func runMesh(rf *RunFile) error {
	strategy, err := rf.strategy()
	if err != nil {
		return err
	}
	tm, err := rf.tetMesh()
	if err != nil {
		return err
	}
	g, err := tm.Graph()
	if err != nil {
		return err
	}

	ok := color.New(color.FgGreen).Sprint("OK")
	if err := g.Verify(); err != nil {
		ok = color.New(color.FgRed).Sprint(err)
	}
	st := g.Stats()
	fmt.Printf("%s (%s)\n", color.New(color.Bold).Sprint(rf.Name), g.Shape)
	fmt.Printf("  nodes %d  edges %d  faces %d  cells %d\n", st.Nodes, st.Edges, st.Faces, st.Cells)
	fmt.Printf("  boundary faces %d  max edge valence %d\n", st.BoundaryFaces, st.MaxEdgeValence)
	fmt.Printf("  verify: %s\n", ok)

	workers := rf.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	layout, err := partitions.NewWorkerBuilder(g.NumCells(), workers, strategy).BuildPartitions()
	if err != nil {
		return err
	}
	ps := layout.PartitionStatistics()
	cut, err := partitions.CutFaces(layout, g)
	if err != nil {
		return err
	}
	fmt.Printf("  %s: %d partitions, %d-%d cells (imbalance %.2f), %d cut faces\n",
		strategy, ps.NumPartitions, ps.MinElements, ps.MaxElements, ps.Imbalance, cut)

	s, err := rf.openStore()
	if err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	defer s.Close()
	if err := store.PutMesh(s, rf.Name, g); err != nil {
		return err
	}
	fmt.Printf("  saved %s\n", store.MeshKey(rf.Name))
	return nil
}
