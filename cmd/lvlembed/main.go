// SPDX-License-Identifier: MIT

// Command lvlembed embeds CSV point clouds from the command line.
//
//	lvlembed generate --kind swissroll -n 800 > roll.csv
//	lvlembed embed --method isomap --params isomap.yaml --in roll.csv > out.csv
//	lvlembed methods
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lvlembed",
		Short:         "Dimensionality reduction of CSV point clouds",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEmbedCmd())
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newMethodsCmd())
	return root
}
