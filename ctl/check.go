// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package ctl

import (
	"context"
	"fmt"
	"io"

	"github.com/featurebasedb/datazoo"
	"github.com/featurebasedb/datazoo/errors"
)

// CheckCommand runs the consistency checks of every container behind one or
// more graph files.
type CheckCommand struct {
	// Graph file paths.
	Paths []string

	*datazoo.CmdIO
}

// NewCheckCommand returns a new instance of CheckCommand.
func NewCheckCommand(stdin io.Reader, stdout, stderr io.Writer) *CheckCommand {
	return &CheckCommand{
		CmdIO: datazoo.NewCmdIO(stdin, stdout, stderr),
	}
}

// Run executes the check command. Every path is checked; the returned error
// counts the ones that failed.
func (cmd *CheckCommand) Run(_ context.Context) error {
	if len(cmd.Paths) == 0 {
		return errors.New(ErrPathRequired, "at least one graph file path required")
	}
	failed := 0
	for _, path := range cmd.Paths {
		if !cmd.checkFile(path) {
			failed++
		}
	}
	if failed > 0 {
		return errors.Newf(ErrCheckFailed, "%d of %d files failed", failed, len(cmd.Paths))
	}
	return nil
}

// checkFile reports on one file and returns whether it passed.
func (cmd *CheckCommand) checkFile(path string) bool {
	g, _, err := loadGraph(path, cmd.Logger())
	if err != nil {
		fmt.Fprintf(cmd.Stdout, "%s: %v\n", path, err)
		return false
	}
	err = g.Check()
	if err == nil {
		if g.Acyclic() {
			fmt.Fprintf(cmd.Stdout, "%s: ok\n", path)
		} else {
			fmt.Fprintf(cmd.Stdout, "%s: ok (cyclic)\n", path)
		}
		return true
	}
	var el errors.ErrorList
	if !errors.As(err, &el) {
		el = errors.ErrorList{err}
	}
	for _, e := range el {
		fmt.Fprintf(cmd.Stdout, "%s: %v\n", path, e)
	}
	return false
}
