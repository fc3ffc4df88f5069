// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"io"

	"github.com/featurebasedb/datazoo/ctl"
	"github.com/spf13/cobra"
)

func newInspectCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewInspectCommand(stdin, stdout, stderr)
	run := runWrapper(cmd)
	ccmd := &cobra.Command{
		Use:   "inspect <graph-file>",
		Short: "Print per-node statistics of a graph file.",
		Long: `
Loads a graph file and prints, for every node, its number of dependencies
and dependents and its depth, followed by the graph's fingerprint.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.Path = args[0]
			return run(c, args)
		},
	}

	flags := ccmd.Flags()
	flags.BoolVar(&cmd.Dump, "dump", false, "Dump the decoded file and adjacency rows.")
	flags.BoolVar(&cmd.Rows, "rows", false, "List the dependencies of every node.")
	return ccmd
}
