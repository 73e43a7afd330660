// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/katalvlaran/lvlembed/embed"
	"github.com/katalvlaran/lvlembed/params"
	"github.com/spf13/cobra"
)

type embedFlags struct {
	method      string
	paramsPath  string
	in          string
	out         string
	kernel      string
	width       float64
	dimension   int
	neighbors   int
	seed        int64
	workers     int
	verbose     bool
	projectPath string
}

func newEmbedCmd() *cobra.Command {
	var f embedFlags
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Embed a CSV point cloud",
		Long: `Reads one point per CSV row, embeds the cloud with the chosen method and
writes one row of coordinates per point. Method parameters come from a YAML
file (--params); --dimension, --neighbors and --seed override it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEmbed(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.method, "method", "m", "pca", "embedding method (see `lvlembed methods`)")
	fl.StringVarP(&f.paramsPath, "params", "p", "", "YAML parameter file")
	fl.StringVarP(&f.in, "in", "i", "-", "input CSV, - for stdin")
	fl.StringVarP(&f.out, "out", "o", "-", "output CSV, - for stdout")
	fl.StringVar(&f.kernel, "kernel", "linear", "kernel of kernel methods: linear or gaussian")
	fl.Float64Var(&f.width, "kernel-width", 1, "width of the gaussian kernel")
	fl.IntVarP(&f.dimension, "dimension", "d", 0, "target dimension (0 keeps the parameter file value)")
	fl.IntVarP(&f.neighbors, "neighbors", "k", 0, "number of neighbors (0 keeps the parameter file value)")
	fl.Int64Var(&f.seed, "seed", 0, "random seed (0 keeps the parameter file value)")
	fl.IntVar(&f.workers, "workers", 0, "worker goroutines (0 selects the CPU count)")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log stages to stderr")
	fl.StringVar(&f.projectPath, "project", "", "CSV of held-out points to map with the fitted projection (linear methods)")
	return cmd
}

func runEmbed(cmd *cobra.Command, f embedFlags) error {
	method, err := embed.ParseMethod(f.method)
	if err != nil {
		return err
	}

	pm := params.Map{}
	if f.paramsPath != "" {
		file, err := os.Open(f.paramsPath)
		if err != nil {
			return err
		}
		pm, err = readParams(file)
		file.Close()
		if err != nil {
			return err
		}
	}
	if f.dimension > 0 {
		pm[params.TargetDimension] = f.dimension
	}
	if f.neighbors > 0 {
		pm[params.NumberOfNeighbors] = f.neighbors
	}
	if f.seed != 0 {
		pm[params.RandomSeed] = f.seed
	}

	in, err := openInput(f.in)
	if err != nil {
		return err
	}
	pts, err := readPoints(in)
	in.Close()
	if err != nil {
		return err
	}

	cb := embed.VectorCallbacks(len(pts[0]))
	switch f.kernel {
	case "linear":
	case "gaussian":
		cb.Kernel = embed.GaussianKernel(f.width)
	default:
		return fmt.Errorf("unknown kernel %q", f.kernel)
	}

	opts := []embed.Option{}
	if f.verbose {
		opts = append(opts, embed.WithLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	if f.workers > 0 {
		opts = append(opts, embed.WithWorkers(f.workers))
	}

	res, err := embed.Embed(cmd.Context(), method, pts, cb, pm, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.out != "-" && f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}
	if err = writeMatrix(out, res.Embedding); err != nil {
		return err
	}
	if f.projectPath == "" {
		return nil
	}
	return writeProjected(out, res, f.projectPath)
}

// writeProjected maps held-out points through the fitted projection and
// writes them after the embedding, preceded by a comment line.
func writeProjected(out io.Writer, res *embed.Result, path string) error {
	if res.Projection == nil {
		return fmt.Errorf("--project: method has no projection")
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	held, err := readPoints(file)
	file.Close()
	if err != nil {
		return err
	}
	projected := make([][]float64, len(held))
	for i, p := range held {
		if projected[i], err = res.Projection.Project(p); err != nil {
			return fmt.Errorf("held-out row %d: %w", i+1, err)
		}
	}
	fmt.Fprintln(out, "# projected")
	return writePoints(out, projected)
}
