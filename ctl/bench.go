// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package ctl

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/featurebasedb/datazoo"
	"github.com/featurebasedb/datazoo/bitset"
	"github.com/featurebasedb/datazoo/errors"
	"github.com/featurebasedb/datazoo/jagged"
	"github.com/featurebasedb/datazoo/packed"
	"github.com/featurebasedb/datazoo/storage"
	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"golang.org/x/sync/errgroup"
	"modernc.org/mathutil"
)

// Storage kinds the bench runs against.
var benchKinds = []string{"heap", "fixed", "small", "view"}

// BenchCommand times the containers over every storage kind. Each kind runs
// in its own goroutine on its own containers.
type BenchCommand struct {
	// Operations per jagged and packed benchmark.
	N int

	// Length of the benchmarked bit sets.
	Bits int

	// Width of the benchmarked packed integers.
	Width int

	// Metrics prints the gathered histograms after the table.
	Metrics bool

	*datazoo.CmdIO
}

// NewBenchCommand returns a new instance of BenchCommand.
func NewBenchCommand(stdin io.Reader, stdout, stderr io.Writer) *BenchCommand {
	return &BenchCommand{
		N:     10000,
		Bits:  1 << 16,
		Width: 13,
		CmdIO: datazoo.NewCmdIO(stdin, stdout, stderr),
	}
}

type benchResult struct {
	kind    string
	op      string
	ops     int
	elapsed time.Duration
}

// benchRun collects the timings of one storage kind.
type benchRun struct {
	kind    string
	hist    *prometheus.HistogramVec
	results []benchResult
}

// time runs fn and records it as ops operations of kind op.
func (r *benchRun) time(op string, ops int, fn func() error) error {
	start := time.Now()
	if err := fn(); err != nil {
		return errors.Wrapf(err, "%s %s", r.kind, op)
	}
	elapsed := time.Since(start)
	r.hist.WithLabelValues(r.kind, op).Observe(elapsed.Seconds())
	r.results = append(r.results, benchResult{kind: r.kind, op: op, ops: ops, elapsed: elapsed})
	return nil
}

func (cmd *BenchCommand) validate() error {
	switch {
	case cmd.N < 1:
		return errors.Newf(ErrBadBench, "operation count must be positive, got %d", cmd.N)
	case cmd.Bits < 2:
		return errors.Newf(ErrBadBench, "bit set length must be at least 2, got %d", cmd.Bits)
	case cmd.Width < 1 || cmd.Width > 32:
		return errors.Newf(ErrBadBench, "width must be in [1, 32], got %d", cmd.Width)
	}
	return nil
}

// Run executes the bench command.
func (cmd *BenchCommand) Run(ctx context.Context) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	order, err := fullCycle(cmd.Bits)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	hist := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "datazoo",
		Subsystem: "bench",
		Name:      "pass_seconds",
		Help:      "Time taken by one benchmark pass.",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
	}, []string{"kind", "op"})
	reg.MustRegister(hist)

	runs := make([]*benchRun, len(benchKinds))
	eg, ctx := errgroup.WithContext(ctx)
	for i, kind := range benchKinds {
		i, kind := i, kind
		runs[i] = &benchRun{kind: kind, hist: hist}
		eg.Go(func() error {
			cmd.Logger().Debugf("bench %s: start", kind)
			return cmd.runKind(ctx, runs[i], order)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.Stdout)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"kind", "op", "ops", "total", "ns/op"})
	for _, run := range runs {
		for _, r := range run.results {
			t.AppendRow(table.Row{r.kind, r.op, r.ops, r.elapsed.Round(time.Microsecond), r.elapsed.Nanoseconds() / int64(r.ops)})
		}
	}
	t.Render()

	if cmd.Metrics {
		mfs, err := reg.Gather()
		if err != nil {
			return errors.Wrap(err, "gathering metrics")
		}
		writeHistograms(cmd.Stdout, mfs)
	}
	return nil
}

// fullCycle returns every index below n exactly once, in a scrambled order.
func fullCycle(n int) ([]int, error) {
	fc, err := mathutil.NewFC32(0, n-1, true)
	if err != nil {
		return nil, errors.Wrap(err, "creating index generator")
	}
	order := make([]int, n)
	for i := range order {
		order[i] = fc.Next()
	}
	return order, nil
}

func (cmd *BenchCommand) runKind(ctx context.Context, run *benchRun, order []int) error {
	words := storage.WordsFor[uint32](cmd.Bits)
	packedWords := storage.WordsFor[uint32](cmd.N * cmd.Width)

	switch run.kind {
	case "heap":
		if err := runBits(ctx, run, order, storage.NewHeap[uint32](words)); err != nil {
			return err
		}
		if err := runRows(ctx, run, cmd.N, jagged.NewHeapVec[uint32]()); err != nil {
			return err
		}
		return runPacked(ctx, run, cmd.N, cmd.Width, storage.NewHeap[uint32](packedWords))
	case "fixed":
		if err := runBits(ctx, run, order, storage.FixedOf(make([]uint32, words))); err != nil {
			return err
		}
		v, err := jagged.NewVec[uint32](storage.NewFixed[uint32](cmd.N+1), storage.NewFixed[uint32](cmd.N))
		if err != nil {
			return err
		}
		if err := runRows(ctx, run, cmd.N, v); err != nil {
			return err
		}
		return runPacked(ctx, run, cmd.N, cmd.Width, storage.FixedOf(make([]uint32, packedWords)))
	case "small":
		if err := runBits(ctx, run, order, storage.NewSmall[uint32](words)); err != nil {
			return err
		}
		v, err := jagged.NewVec[uint32](storage.NewSmall[uint32](0), storage.NewSmall[uint32](0))
		if err != nil {
			return err
		}
		if err := runRows(ctx, run, cmd.N, v); err != nil {
			return err
		}
		return runPacked(ctx, run, cmd.N, cmd.Width, storage.NewSmall[uint32](packedWords))
	case "view":
		// views cannot grow, so there is no jagged pass
		if err := runBits(ctx, run, order, storage.ViewOf(make([]uint32, words))); err != nil {
			return err
		}
		return runPacked(ctx, run, cmd.N, cmd.Width, storage.ViewOf(make([]uint32, packedWords)))
	}
	return errors.Newf(ErrBadBench, "unknown storage kind %q", run.kind)
}

func runBits[S storage.Storage[uint32]](ctx context.Context, run *benchRun, order []int, words S) error {
	b, err := bitset.New[uint32](words, len(order))
	if err != nil {
		return err
	}
	if err := run.time("bitset set", len(order), func() error {
		for _, i := range order {
			b.Set(i)
		}
		return nil
	}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return run.time("bitset ones", len(order), func() error {
		it := b.Ones()
		n := 0
		for _, eof := it.Next(); !eof; _, eof = it.Next() {
			n++
		}
		if n != len(order) {
			return errors.Newf(ErrCheckFailed, "iterated %d of %d set bits", n, len(order))
		}
		return nil
	})
}

func runRows[E storage.Growable[uint32], D storage.Growable[uint32]](ctx context.Context, run *benchRun, n int, v *jagged.Vec[uint32, E, D]) error {
	if err := run.time("jagged push", n, func() error {
		for i := 0; i < n; i++ {
			if err := v.AppendRow(uint32(i)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return run.time("jagged pop", n, func() error {
		for i := n - 1; i >= 0; i-- {
			row, ok := v.PopRow()
			if !ok || len(row) != 1 || row[0] != uint32(i) {
				return errors.Newf(ErrCheckFailed, "popped %v, ok=%v, want [%d]", row, ok, i)
			}
		}
		return nil
	})
}

func runPacked[S storage.Storage[uint32]](ctx context.Context, run *benchRun, n, width int, words S) error {
	a, err := packed.New[uint32, uint32](words, width, n)
	if err != nil {
		return err
	}
	mask := a.MaxValue()
	if err := run.time("packed set", n, func() error {
		for k := 0; k < n; k++ {
			if err := a.Set(uint32(k), uint32(k)&mask); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return run.time("packed get", n, func() error {
		for k := 0; k < n; k++ {
			if got := a.Get(uint32(k)); got != uint32(k)&mask {
				return errors.Newf(ErrCheckFailed, "key %d reads %d, want %d", k, got, uint32(k)&mask)
			}
		}
		return nil
	})
}

// writeHistograms prints one line per histogram series.
func writeHistograms(w io.Writer, mfs []*dto.MetricFamily) {
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			h := m.GetHistogram()
			if h == nil {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			fmt.Fprintf(w, "%s{%s} count=%d sum=%.6f\n", mf.GetName(), strings.Join(labels, ","), h.GetSampleCount(), h.GetSampleSum())
		}
	}
}
