// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package ctl

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/featurebasedb/datazoo"
	"github.com/featurebasedb/datazoo/errors"
	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
)

// InspectCommand prints per-node statistics of a graph file.
type InspectCommand struct {
	// Path of the graph file.
	Path string

	// Dump writes the decoded file and the adjacency rows after the table.
	Dump bool

	// Rows adds a column listing each node's dependencies.
	Rows bool

	*datazoo.CmdIO
}

// NewInspectCommand returns a new instance of InspectCommand.
func NewInspectCommand(stdin io.Reader, stdout, stderr io.Writer) *InspectCommand {
	return &InspectCommand{
		CmdIO: datazoo.NewCmdIO(stdin, stdout, stderr),
	}
}

// Run executes the inspect command.
func (cmd *InspectCommand) Run(_ context.Context) error {
	g, f, err := loadGraph(cmd.Path, cmd.Logger())
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.Stdout)
	t.Style().Format.Header = text.FormatDefault
	header := table.Row{"id", "node", "deps", "dependents", "depth"}
	if cmd.Rows {
		header = append(header, "dependencies")
	}
	t.AppendHeader(header)

	for id, name := range g.Nodes() {
		deps, err := g.Dependencies(name)
		if err != nil {
			return errors.Wrapf(err, "node %q", name)
		}
		users, err := g.Dependents(name)
		if err != nil {
			return errors.Wrapf(err, "node %q", name)
		}
		var depth interface{} = "-"
		if g.Acyclic() {
			d, err := g.Depth(name)
			if err != nil {
				return errors.Wrapf(err, "node %q", name)
			}
			depth = d
		}
		row := table.Row{id, name, len(deps), len(users), depth}
		if cmd.Rows {
			row = append(row, strings.Join(deps, " "))
		}
		t.AppendRow(row)
	}
	t.Render()

	fmt.Fprintf(cmd.Stdout, "nodes: %d, edges: %d, depth width: %d bits\n", g.Len(), g.EdgeCount(), g.DepthWidth())
	if !g.Acyclic() {
		_, err := g.TopoOrder()
		fmt.Fprintf(cmd.Stdout, "cyclic: %v\n", err)
	}
	fmt.Fprintf(cmd.Stdout, "fingerprint: %016x\n", g.Fingerprint())
	fmt.Fprintf(cmd.Stdout, "digest: %s\n", g.Digest())

	if cmd.Dump {
		cfg := spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			DisableMethods:          true,
		}
		cfg.Fdump(cmd.Stdout, f, g.Adjacency().KeyRows())
	}
	return nil
}
