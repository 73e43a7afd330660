// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/katalvlaran/lvlembed/datasets"
	"github.com/spf13/cobra"
)

type generateFlags struct {
	kind    string
	n       int
	noise   float64
	seed    int64
	centers int
	dim     int
}

func newGenerateCmd() *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic point cloud as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.noise < 0 {
				return fmt.Errorf("--noise must be non-negative, got %v", f.noise)
			}
			opts := []datasets.Option{datasets.WithSeed(f.seed), datasets.WithNoise(f.noise)}
			var (
				ds  *datasets.Dataset
				err error
			)
			switch f.kind {
			case "swissroll":
				ds, err = datasets.SwissRoll(f.n, opts...)
			case "scurve":
				ds, err = datasets.SCurve(f.n, opts...)
			case "helix":
				ds, err = datasets.Helix(f.n, opts...)
			case "grid":
				ds, err = datasets.Grid(f.n, f.n, opts...)
			case "blobs":
				ds, err = datasets.Blobs(f.n, f.centers, f.dim, opts...)
			default:
				return fmt.Errorf("unknown dataset %q", f.kind)
			}
			if err != nil {
				return err
			}
			return writePoints(cmd.OutOrStdout(), ds.Points)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.kind, "kind", "swissroll", "swissroll, scurve, helix, grid (n×n) or blobs")
	fl.IntVarP(&f.n, "points", "n", 500, "number of points (grid side for grid)")
	fl.Float64Var(&f.noise, "noise", 0, "Gaussian noise stdev")
	fl.Int64Var(&f.seed, "seed", datasets.DefaultSeed, "random seed")
	fl.IntVar(&f.centers, "centers", 3, "clusters (blobs)")
	fl.IntVar(&f.dim, "dim", 2, "dimension (blobs)")
	return cmd
}
