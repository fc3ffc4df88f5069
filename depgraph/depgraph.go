// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package depgraph resolves dependency graphs over named nodes.
//
// Nodes get dense ids in the order they are first mentioned. The edges are
// held in a Bimultimap of node ids, so both the dependencies and the
// dependents of a node are a row lookup away. Reachability is computed with
// bit sets, a frontier at a time, and node depths are stored in a packed
// integer array no wider than the deepest chain needs.
package depgraph

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
	"github.com/featurebasedb/datazoo/bitset"
	"github.com/featurebasedb/datazoo/errors"
	"github.com/featurebasedb/datazoo/hash"
	"github.com/featurebasedb/datazoo/logger"
	"github.com/featurebasedb/datazoo/multimap"
	"github.com/featurebasedb/datazoo/packed"
	"github.com/featurebasedb/datazoo/storage"
)

const (
	ErrCycle       errors.Code = "Cycle"
	ErrUnknownNode errors.Code = "UnknownNode"
)

func NewErrUnknownNode(name string) error {
	return errors.Newf(ErrUnknownNode, "unknown node %q", name)
}

func NewErrCycle(names []string) error {
	return errors.Newf(ErrCycle, "dependency cycle through %d nodes, including %q", len(names), names[0])
}

// NodeSet is a set of node ids.
type NodeSet = bitset.Bitset[uint32, *storage.Heap[uint32]]

// Builder collects nodes and edges.
type Builder struct {
	log   logger.Logger
	ids   map[string]uint32
	names []string
	edges []multimap.Pair[uint32, uint32]
}

// NewBuilder returns an empty Builder. A nil log discards messages.
func NewBuilder(log logger.Logger) *Builder {
	if log == nil {
		log = logger.NopLogger
	}
	return &Builder{log: log, ids: make(map[string]uint32)}
}

// AddNode adds a node if it is not known yet, and returns its id.
func (b *Builder) AddNode(name string) uint32 {
	if id, ok := b.ids[name]; ok {
		return id
	}
	id := uint32(len(b.names))
	b.ids[name] = id
	b.names = append(b.names, name)
	return id
}

// AddEdge records that from depends on to, adding either node if needed.
func (b *Builder) AddEdge(from, to string) {
	f, t := b.AddNode(from), b.AddNode(to)
	b.edges = append(b.edges, multimap.Pair[uint32, uint32]{Key: f, Value: t})
}

// Build freezes the graph. A cyclic graph builds, but has no topological
// order and no depths.
func (b *Builder) Build() (*Graph, error) {
	if err := storage.CheckLen("node count", uint64(len(b.names))); err != nil {
		return nil, err
	}
	deps, err := multimap.NewBimultimap(b.edges)
	if err != nil {
		return nil, errors.Wrap(err, "building adjacency")
	}
	g := &Graph{
		log:   b.log,
		ids:   b.ids,
		names: b.names,
		deps:  deps,
	}
	g.order, g.cycle = g.sort()
	if g.cycle == nil {
		if g.depth, err = g.depths(); err != nil {
			return nil, errors.Wrap(err, "computing depths")
		}
		b.log.Debugf("built graph of %d nodes and %d edges, depth %d", len(g.names), deps.Len(), g.maxDepth())
	} else {
		b.log.Warnf("graph of %d nodes has a cycle: %v", len(g.names), g.cycle)
	}
	b.ids, b.names, b.edges = make(map[string]uint32), nil, nil
	return g, nil
}

// Graph is a frozen dependency graph.
type Graph struct {
	log   logger.Logger
	ids   map[string]uint32
	names []string
	deps  *multimap.Bimultimap[uint32, uint32]
	depth *packed.Ints[uint32, uint32, *storage.Heap[uint32]]
	order []uint32
	cycle error
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.names) }

// Nodes returns every node name in id order.
func (g *Graph) Nodes() []string { return append([]string(nil), g.names...) }

// ID returns the id of a node.
func (g *Graph) ID(name string) (uint32, bool) {
	id, ok := g.ids[name]
	return id, ok
}

// Name returns the name of node id. It panics on an unknown id.
func (g *Graph) Name(id uint32) string { return g.names[id] }

// Adjacency exposes the edges as node ids, keyed by the depending node.
func (g *Graph) Adjacency() *multimap.Bimultimap[uint32, uint32] { return g.deps }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return g.deps.Len() }

func (g *Graph) lookup(name string) (uint32, error) {
	id, ok := g.ids[name]
	if !ok {
		return 0, NewErrUnknownNode(name)
	}
	return id, nil
}

func (g *Graph) namesOf(ids []uint32) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.names[id]
	}
	return out
}

// Dependencies returns the direct dependencies of a node, in id order.
func (g *Graph) Dependencies(name string) ([]string, error) {
	id, err := g.lookup(name)
	if err != nil {
		return nil, err
	}
	return g.namesOf(g.deps.Values(id)), nil
}

// Dependents returns the nodes depending directly on a node, in id order.
func (g *Graph) Dependents(name string) ([]string, error) {
	id, err := g.lookup(name)
	if err != nil {
		return nil, err
	}
	return g.namesOf(g.deps.Keys(id)), nil
}

// Reachable returns the ids of every node name transitively depends on. The
// node itself is only included if it is part of a cycle.
func (g *Graph) Reachable(name string) (*NodeSet, error) {
	id, err := g.lookup(name)
	if err != nil {
		return nil, err
	}
	seed := bitset.NewHeap[uint32](len(g.names))
	seed.Set(int(id))
	return g.reach(seed), nil
}

// reach expands the frontier one dependency level at a time until it stops
// finding new nodes.
func (g *Graph) reach(frontier *NodeSet) *NodeSet {
	seen := bitset.NewHeap[uint32](len(g.names))
	for frontier.Any() {
		next := bitset.NewHeap[uint32](len(g.names))
		frontier.ForEach(func(i int) {
			for _, d := range g.deps.Values(uint32(i)) {
				next.Set(int(d))
			}
		})
		must(next.AndNot(seen))
		must(seen.Or(next))
		frontier = next
	}
	return seen
}

// must panics on errors from combining node sets, which always have one bit
// per node.
func must(err error) {
	if err != nil {
		panic(errors.Wrap(err, "combining node sets"))
	}
}

// Resolve returns every node the given nodes transitively depend on, plus
// the nodes themselves, dependencies first.
func (g *Graph) Resolve(names ...string) ([]string, error) {
	if g.cycle != nil {
		return nil, g.cycle
	}
	seed := bitset.NewHeap[uint32](len(g.names))
	for _, name := range names {
		id, err := g.lookup(name)
		if err != nil {
			return nil, err
		}
		seed.Set(int(id))
	}
	all := g.reach(seed)
	must(all.Or(seed))

	out := make([]string, 0, all.Count())
	for _, id := range g.order {
		if all.Get(int(id)) {
			out = append(out, g.names[id])
		}
	}
	return out, nil
}

// TopoOrder returns every node, each one after all of its dependencies. It
// fails with ErrCycle on a cyclic graph.
func (g *Graph) TopoOrder() ([]string, error) {
	if g.cycle != nil {
		return nil, g.cycle
	}
	return g.namesOf(g.order), nil
}

// sort orders the nodes dependencies first, picking ready nodes in id order.
func (g *Graph) sort() ([]uint32, error) {
	n := len(g.names)
	pending := make([]int, n)
	ready := make([]uint32, 0, n)
	for id := 0; id < n; id++ {
		pending[id] = len(g.deps.Values(uint32(id)))
		if pending[id] == 0 {
			ready = append(ready, uint32(id))
		}
	}
	order := make([]uint32, 0, n)
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		for _, d := range g.deps.Keys(id) {
			pending[d]--
			if pending[d] == 0 {
				ready = append(ready, d)
			}
		}
	}
	if len(order) == n {
		return order, nil
	}
	var stuck []string
	for id, p := range pending {
		if p > 0 {
			stuck = append(stuck, g.names[id])
		}
	}
	return nil, NewErrCycle(stuck)
}

// depths packs, for every node, the length of its longest dependency chain.
func (g *Graph) depths() (*packed.Ints[uint32, uint32, *storage.Heap[uint32]], error) {
	depth := make([]uint32, len(g.names))
	var deepest uint32
	for _, id := range g.order {
		for _, d := range g.deps.Values(id) {
			if depth[d]+1 > depth[id] {
				depth[id] = depth[d] + 1
			}
		}
		if depth[id] > deepest {
			deepest = depth[id]
		}
	}
	a, err := packed.NewHeap[uint32, uint32](packed.WidthFor(uint64(deepest)), len(g.names))
	if err != nil {
		return nil, err
	}
	for id, d := range depth {
		if err := a.Set(uint32(id), d); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (g *Graph) maxDepth() uint32 {
	var deepest uint32
	g.depth.Each(func(_ uint32, d uint32) {
		if d > deepest {
			deepest = d
		}
	})
	return deepest
}

// Depth returns the length of the longest dependency chain below a node:
// 0 for a node without dependencies. It fails with ErrCycle on a cyclic
// graph.
func (g *Graph) Depth(name string) (int, error) {
	if g.cycle != nil {
		return 0, g.cycle
	}
	id, err := g.lookup(name)
	if err != nil {
		return 0, err
	}
	return int(g.depth.Get(id)), nil
}

// DepthWidth returns the number of bits each stored depth takes, or 0 for a
// cyclic graph.
func (g *Graph) DepthWidth() int {
	if g.depth == nil {
		return 0
	}
	return g.depth.Width()
}

// Acyclic reports whether the graph has a topological order.
func (g *Graph) Acyclic() bool { return g.cycle == nil }

// encode writes the node names, then the edges as little-endian id pairs.
// Names are length prefixed.
func (g *Graph) encode() (names, edges []byte) {
	var buf [4]byte
	for _, name := range g.names {
		binary.LittleEndian.PutUint32(buf[:], uint32(len(name)))
		names = append(names, buf[:]...)
		names = append(names, name...)
	}
	edges = make([]byte, 0, 8*g.deps.Len())
	var pair [8]byte
	g.deps.Each(func(k, v uint32) {
		binary.LittleEndian.PutUint32(pair[:4], k)
		binary.LittleEndian.PutUint32(pair[4:], v)
		edges = append(edges, pair[:]...)
	})
	return names, edges
}

// Fingerprint hashes the node names and edges. Two graphs with the same
// nodes, declared in the same order, and the same edges have the same
// fingerprint.
func (g *Graph) Fingerprint() uint64 {
	names, edges := g.encode()
	h := xxhash.New()
	_, _ = h.Write(names)
	_, _ = h.Write(edges)
	return h.Sum64()
}

// Digest is a cryptographic hash of the same content as Fingerprint, as 32
// hex digits.
func (g *Graph) Digest() string {
	names, edges := g.encode()
	return hash.Blake3sum16(names, edges)
}

// Check runs the consistency checks of every internal container.
func (g *Graph) Check() error {
	var el errors.ErrorList
	el.AppendWithPrefix(g.deps.Check(), "adjacency")
	if g.depth != nil {
		el.AppendWithPrefix(g.depth.Check(), "depths")
		if g.depth.Len() != len(g.names) {
			el.Append(errors.Newf(storage.ErrOutOfBounds, "%d depths for %d nodes", g.depth.Len(), len(g.names)))
		}
	}
	if len(g.ids) != len(g.names) {
		el.Append(errors.Newf(ErrUnknownNode, "%d ids for %d names", len(g.ids), len(g.names)))
	}
	return el.Err()
}
