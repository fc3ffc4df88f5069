// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"io"

	"github.com/featurebasedb/datazoo/ctl"
	"github.com/spf13/cobra"
)

func newResolveCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewResolveCommand(stdin, stdout, stderr)
	run := runWrapper(cmd)
	return &cobra.Command{
		Use:   "resolve <graph-file> [node]...",
		Short: "Print what nodes depend on, dependencies first.",
		Long: `
Prints the given nodes and everything they transitively depend on, one per
line, each after all of its dependencies. Without nodes the whole graph is
printed in that order.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.Path, cmd.Nodes = args[0], args[1:]
			return run(c, args)
		},
	}
}
