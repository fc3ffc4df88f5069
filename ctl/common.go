// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package ctl

import (
	"path/filepath"

	"github.com/featurebasedb/datazoo/depgraph"
	"github.com/featurebasedb/datazoo/errors"
	"github.com/featurebasedb/datazoo/logger"
)

const (
	ErrPathRequired errors.Code = "PathRequired"
	ErrCheckFailed  errors.Code = "CheckFailed"
	ErrBadBench     errors.Code = "BadBench"
)

// loadGraph reads the graph file at path and builds it, logging under the
// file's base name.
func loadGraph(path string, log logger.Logger) (*depgraph.Graph, *depgraph.File, error) {
	if path == "" {
		return nil, nil, errors.New(ErrPathRequired, "graph file path required")
	}
	f, err := depgraph.Load(path)
	if err != nil {
		return nil, nil, err
	}
	g, err := depgraph.FromFile(f, log.WithPrefix(filepath.Base(path)+": "))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "building %s", path)
	}
	return g, f, nil
}
