package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
)

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	rootCmd := &cobra.Command{
		Use:   "vortrack",
		Short: "Vortex line extraction and tracking on unstructured meshes",
		Long: `vortrack locates phase singularities of a complex field sampled on a
tetrahedral or hexahedral mesh, traces them into vortex lines at every time
step and links the lines of consecutive steps through transition matrices.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().AddGoFlagSet(fset)

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(meshCmd())
	rootCmd.AddCommand(transitionsCmd())
	rootCmd.AddCommand(linesCmd())

	err := rootCmd.Execute()
	klog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
