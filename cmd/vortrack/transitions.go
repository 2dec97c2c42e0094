package main

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/fatih/color"
	"github.com/notargets/vortrack/store"
	"github.com/notargets/vortrack/vortex"
	"github.com/spf13/cobra"
)

func transitionsCmd() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "transitions <store> <name>",
		Short: "Print the stored transition matrices of a data set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(backend, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			keys, err := s.Keys(store.MatrixPrefix(args[1]))
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Printf("no transition matrices for %s\n", args[1])
				return nil
			}

			// Keys sort as text, the history needs step order
			byStep := treemap.NewWithIntComparator()
			for _, key := range keys {
				data, err := s.Get(key)
				if err != nil {
					return err
				}
				tm, err := store.DecodeMatrix(data)
				if err != nil {
					return fmt.Errorf("%s: %w", key, err)
				}
				byStep.Put(tm.T0, tm)
			}

			h := vortex.NewHistory(vortex.NewSequence(0))
			byStep.Each(func(_ interface{}, v interface{}) {
				tm := v.(*vortex.TransitionMatrix)
				h.AddMatrix(tm)
				fmt.Println(color.New(color.Bold).Sprint(tm))
				for _, ev := range tm.Events() {
					fmt.Printf("  %s %v -> %v\n", eventColor(ev.Kind).Sprint(ev.Kind), ev.From, ev.To)
				}
			})
			fmt.Printf("%d global vortices\n", h.NumGlobal())
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "badger", "Store backend: badger or sqlite")
	return cmd
}
