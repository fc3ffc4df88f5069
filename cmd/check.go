// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"io"

	"github.com/featurebasedb/datazoo/ctl"
	"github.com/spf13/cobra"
)

func newCheckCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewCheckCommand(stdin, stdout, stderr)
	run := runWrapper(cmd)
	return &cobra.Command{
		Use:   "check <graph-file>...",
		Short: "Run consistency checks on graph files.",
		Long: `
Builds every graph file and runs the consistency checks of the containers
behind it, printing "ok" or each finding per file.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.Paths = args
			return run(c, args)
		},
	}
}
