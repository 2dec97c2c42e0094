package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/notargets/vortrack/store"
	"github.com/spf13/cobra"
)

func linesCmd() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "lines <store> <name> <step>",
		Short: "Summarize the stored vortex lines of one time step",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var step int
			if _, err := fmt.Sscan(args[2], &step); err != nil {
				return fmt.Errorf("invalid step %q", args[2])
			}

			s, err := store.Open(backend, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			data, err := s.Get(store.LinesKey(args[1], step))
			if err != nil {
				return err
			}
			info, lines, err := store.DecodeLines(data)
			if err != nil {
				return err
			}

			fmt.Printf("%s step %d: %d lines, domain %v + %v periodic %v\n",
				color.New(color.Bold).Sprint(args[1]), step, len(lines),
				info.Origin, info.Lengths, info.Periodic)
			for _, l := range lines {
				kind := "polyline"
				if l.IsBezier {
					kind = "bezier"
				}
				swatch := color.RGB(int(l.R), int(l.G), int(l.B)).Sprint("##")
				fmt.Printf("  %s id %d gid %d: %d points (%s), length %.4g\n",
					swatch, l.ID, l.GID, len(l.Points), kind, l.Length())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "badger", "Store backend: badger or sqlite")
	return cmd
}
