package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/notargets/vortrack/extractor"
	"github.com/notargets/vortrack/vortex"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
)

func extractCmd() *cobra.Command {
	var (
		rflags  runFlags
		first   int
		last    int
		gauge   bool
		bezier  bool
		archive bool
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract and track vortex lines over a range of time steps",
		Long: `Samples the analytic field described by the run file on the mesh, extracts
the vortex lines of every time step from --first to --last and links
consecutive steps. With --store the lines and transition matrices are saved,
and with --archive the intermediate punctures are reused across runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rf, err := rflags.resolve(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("first") {
				rf.First = first
			}
			if flags.Changed("last") {
				rf.Last = last
			}
			if flags.Changed("gauge") {
				rf.Gauge = gauge
			}
			if flags.Changed("bezier") {
				rf.Bezier = bezier
			}
			if flags.Changed("archive") {
				rf.Store.Archive = archive
			}
			return runExtract(rf)
		},
	}
	rflags.register(cmd)
	cmd.Flags().IntVar(&first, "first", 0, "First time step")
	cmd.Flags().IntVar(&last, "last", 1, "Last time step")
	cmd.Flags().BoolVar(&gauge, "gauge", false, "Apply the vector potential gauge correction")
	cmd.Flags().BoolVar(&bezier, "bezier", false, "Store lines as Bezier control points")
	cmd.Flags().BoolVar(&archive, "archive", false, "Reuse stored punctures and matrices")
	return cmd
}

func runExtract(rf *RunFile) error {
	if rf.Last <= rf.First {
		return fmt.Errorf("last step %d must follow first step %d", rf.Last, rf.First)
	}
	strategy, err := rf.strategy()
	if err != nil {
		return err
	}

	tm, err := rf.tetMesh()
	if err != nil {
		return err
	}
	s, err := rf.openStore()
	if err != nil {
		return err
	}
	if s != nil {
		defer s.Close()
	}
	g, err := rf.graph(tm, s)
	if err != nil {
		return err
	}

	ds := rf.dataset(tm)
	x := extractor.New(g, ds, extractor.Config{
		Gauge:    rf.Gauge,
		Archive:  rf.Store.Archive,
		Bezier:   rf.Bezier,
		Workers:  rf.Workers,
		Strategy: strategy,
		Store:    s,
	})

	st := g.Stats()
	fmt.Printf("%s: %d cells, %d faces, %d edges, steps %d..%d\n",
		color.New(color.Bold).Sprint(rf.Name), st.Cells, st.Faces, st.Edges, rf.First, rf.Last)

	for t := rf.First; t < rf.Last; t++ {
		if t > rf.First {
			if err := x.RotateTimeSteps(); err != nil {
				return err
			}
		}
		ds.SetTimeSteps(t, t+1)

		m, err := x.ExtractPair()
		if err != nil {
			return fmt.Errorf("steps %d-%d: %w", t, t+1, err)
		}
		rep, err := x.ClassifyVirtualCells()
		if err != nil {
			return err
		}
		printPair(x, m, rep)

		if s == nil {
			continue
		}
		if t == rf.First {
			if err := x.SaveVortexLines(0); err != nil {
				return err
			}
		}
		if err := x.SaveVortexLines(1); err != nil {
			return err
		}
	}

	h := x.History()
	fmt.Printf("%d global vortices over %d steps\n", h.NumGlobal(), len(h.TimeSteps()))
	if s != nil {
		klog.Infof("%s: results stored in %s (%s)", rf.Name, rf.Store.Path, rf.Store.Backend)
	}
	return nil
}

func printPair(x *extractor.Extractor, m *vortex.TransitionMatrix, rep extractor.VirtualCellReport) {
	status := color.New(color.FgGreen).Sprint("OK")
	if rep.Invalid > 0 {
		status = color.New(color.FgRed).Sprintf("%d invalid", rep.Invalid)
	}
	fmt.Printf("  %d -> %d: %d edges, %d/%d faces, %d/%d objects, prisms self=%d pure=%d cross=%d %s\n",
		m.T0, m.T1, x.Edges().Len(), x.Faces(0).Len(), x.Faces(1).Len(),
		len(x.Objects(0)), len(x.Objects(1)), rep.Self, rep.Pure, rep.Cross, status)

	for slot := 0; slot < 2; slot++ {
		if n := len(x.SpecialCells(slot)); n > 0 {
			fmt.Printf("    %s %d special cells at step %d\n",
				color.New(color.FgYellow).Sprint("!"), n, m.T0+slot)
		}
	}
	for _, ev := range m.Events() {
		if ev.Kind == vortex.Continued {
			continue
		}
		fmt.Printf("    %s %v -> %v\n", eventColor(ev.Kind).Sprint(ev.Kind), ev.From, ev.To)
	}
}

func eventColor(k vortex.EventKind) *color.Color {
	switch k {
	case vortex.Born:
		return color.New(color.FgGreen)
	case vortex.Died:
		return color.New(color.FgRed)
	case vortex.Split, vortex.Merged:
		return color.New(color.FgCyan)
	}
	return color.New(color.Reset)
}
