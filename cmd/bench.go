// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"io"

	"github.com/featurebasedb/datazoo/ctl"
	"github.com/spf13/cobra"
)

func newBenchCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewBenchCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the containers over every storage kind.",
		Long: `
Times bit set writes and iteration, jagged row pushes and pops, and packed
integer writes and reads, once per storage kind, all kinds concurrently.
`,
		Args: cobra.NoArgs,
		RunE: runWrapper(cmd),
	}

	flags := ccmd.Flags()
	flags.IntVar(&cmd.N, "n", cmd.N, "Operations per jagged and packed benchmark.")
	flags.IntVar(&cmd.Bits, "bits", cmd.Bits, "Length of the benchmarked bit sets.")
	flags.IntVar(&cmd.Width, "width", cmd.Width, "Bit width of the benchmarked packed integers.")
	flags.BoolVar(&cmd.Metrics, "metrics", false, "Print the gathered timing histograms.")
	return ccmd
}
