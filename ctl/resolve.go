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

// ResolveCommand prints the transitive dependencies of some nodes, each one
// after everything it depends on.
type ResolveCommand struct {
	// Path of the graph file.
	Path string

	// Nodes to resolve. All nodes when empty.
	Nodes []string

	*datazoo.CmdIO
}

// NewResolveCommand returns a new instance of ResolveCommand.
func NewResolveCommand(stdin io.Reader, stdout, stderr io.Writer) *ResolveCommand {
	return &ResolveCommand{
		CmdIO: datazoo.NewCmdIO(stdin, stdout, stderr),
	}
}

// Run executes the resolve command.
func (cmd *ResolveCommand) Run(_ context.Context) error {
	g, _, err := loadGraph(cmd.Path, cmd.Logger())
	if err != nil {
		return err
	}
	var order []string
	if len(cmd.Nodes) == 0 {
		order, err = g.TopoOrder()
	} else {
		order, err = g.Resolve(cmd.Nodes...)
	}
	if err != nil {
		return errors.Wrap(err, "resolving")
	}
	cmd.Logger().Debugf("resolved %d of %d nodes", len(order), g.Len())
	for _, name := range order {
		fmt.Fprintln(cmd.Stdout, name)
	}
	return nil
}
