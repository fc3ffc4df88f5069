// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package depgraph

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/featurebasedb/datazoo/errors"
	"github.com/featurebasedb/datazoo/logger"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v2"
)

const ErrUnknownFormat errors.Code = "UnknownFormat"

// File is the on-disk description of a graph.
type File struct {
	Nodes []Node `toml:"nodes" yaml:"nodes" json:"nodes"`
}

// Node is one declared node and the names it depends on.
type Node struct {
	Name string   `toml:"name" yaml:"name" json:"name"`
	Deps []string `toml:"deps" yaml:"deps" json:"deps"`
}

// LoadTOML reads a graph description written as TOML:
//
//	[[nodes]]
//	name = "app"
//	deps = ["net", "ui"]
func LoadTOML(r io.Reader) (*File, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading toml")
	}
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "decoding toml")
	}
	return &f, nil
}

// LoadYAML reads a graph description written as YAML. Unknown fields are an
// error.
func LoadYAML(r io.Reader) (*File, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading yaml")
	}
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, errors.Wrap(err, "decoding yaml")
	}
	return &f, nil
}

// LoadJSON reads a graph description written as JSON. Unknown fields are an
// error.
func LoadJSON(r io.Reader) (*File, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decoding json")
	}
	return &f, nil
}

// Load reads a graph description, picking the format from the extension of
// path.
func Load(path string) (*File, error) {
	var load func(io.Reader) (*File, error)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		load = LoadTOML
	case ".yaml", ".yml":
		load = LoadYAML
	case ".json":
		load = LoadJSON
	default:
		return nil, errors.Newf(ErrUnknownFormat, "unknown graph format %q", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading graph")
	}
	f, err := load(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return f, nil
}

// FromFile builds the graph a File describes. Nodes are numbered in
// declaration order, then in order of first mention as a dependency. A node
// declared twice keeps the union of its dependencies.
func FromFile(f *File, log logger.Logger) (*Graph, error) {
	b := NewBuilder(log)
	seen := make(map[string]bool, len(f.Nodes))
	for _, n := range f.Nodes {
		if n.Name == "" {
			return nil, errors.New(ErrUnknownNode, "node without a name")
		}
		if seen[n.Name] {
			b.log.Warnf("node %q declared more than once", n.Name)
		}
		seen[n.Name] = true
		b.AddNode(n.Name)
	}
	for _, n := range f.Nodes {
		for _, d := range n.Deps {
			b.AddEdge(n.Name, d)
		}
	}
	return b.Build()
}
