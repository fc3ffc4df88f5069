// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package datazoo

import (
	"io"

	"github.com/featurebasedb/datazoo/logger"
)

// CmdIO holds standard unix inputs and outputs.
type CmdIO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	logger logger.Logger
}

// NewCmdIO returns a new instance of CmdIO with inputs and outputs set to the
// arguments. Log lines go to stderr.
func NewCmdIO(stdin io.Reader, stdout, stderr io.Writer) *CmdIO {
	return &CmdIO{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		logger: logger.NewStandardLogger(stderr),
	}
}

// SetVerbose switches the logger to one which also writes debug lines.
func (c *CmdIO) SetVerbose(verbose bool) {
	c.logger = logger.NewLogger(c.Stderr, verbose)
}

// SetLogger replaces the logger.
func (c *CmdIO) SetLogger(l logger.Logger) {
	c.logger = l
}

func (c *CmdIO) Logger() logger.Logger {
	return c.logger
}
