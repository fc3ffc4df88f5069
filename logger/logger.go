// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package logger

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

const RFC3339UsecTz0 = "2006-01-02T15:04:05.000000Z07:00"

// Ensure the implementations satisfy the interface.
var (
	_ Logger = &nopLogger{}
	_ Logger = &standardLogger{}
	_ Logger = &LogfLogger{}
	_ Logger = &BufferLogger{}
)

// Logger represents an interface for a shared logger.
type Logger interface {
	Printf(format string, v ...interface{})
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Panicf(format string, v ...interface{})
	// WithPrefix returns a new Logger with the same configuration as
	// this one, but all logs will have the given prefix.
	WithPrefix(prefix string) Logger
}

const (
	LevelPanic = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

func LevelPrefix(level int) string {
	return [...]string{"PANIC: ", "ERROR: ", "WARN:  ", "INFO:  ", "DEBUG: "}[level]
}

// NopLogger represents a Logger that doesn't do anything.
var NopLogger Logger = &nopLogger{}

type nopLogger struct{}

func (n *nopLogger) Printf(format string, v ...interface{}) {}
func (n *nopLogger) Debugf(format string, v ...interface{}) {}
func (n *nopLogger) Infof(format string, v ...interface{})  {}
func (n *nopLogger) Warnf(format string, v ...interface{})  {}
func (n *nopLogger) Errorf(format string, v ...interface{}) {}
func (n *nopLogger) Panicf(format string, v ...interface{}) {}

func (n *nopLogger) WithPrefix(prefix string) Logger {
	return n
}

// standardLogger writes leveled lines through a log.Logger, dropping
// anything above its verbosity.
type standardLogger struct {
	logger    *log.Logger
	verbosity int
	prefix    string
	w         io.Writer
}

// formatLog stamps each line in UTC with constant width and microsecond
// resolution.
type formatLog struct {
	w io.Writer
}

func (fl formatLog) Write(p []byte) (int, error) {
	return fmt.Fprintf(fl.w, "%v %s", time.Now().UTC().Format(RFC3339UsecTz0), p)
}

func newStandardLogger(w io.Writer, verbosity int, prefix string) *standardLogger {
	return &standardLogger{
		logger:    log.New(formatLog{w: w}, prefix, 0),
		verbosity: verbosity,
		prefix:    prefix,
		w:         w,
	}
}

// NewStandardLogger logs everything up to LevelInfo to w.
func NewStandardLogger(w io.Writer) Logger {
	return newStandardLogger(w, LevelInfo, "")
}

// NewVerboseLogger logs everything, including debug output, to w.
func NewVerboseLogger(w io.Writer) Logger {
	return newStandardLogger(w, LevelDebug, "")
}

// NewLogger picks NewVerboseLogger or NewStandardLogger.
func NewLogger(w io.Writer, verbose bool) Logger {
	if verbose {
		return NewVerboseLogger(w)
	}
	return NewStandardLogger(w)
}

func (s *standardLogger) printf(level int, format string, v ...interface{}) {
	if level > s.verbosity {
		return
	}
	s.logger.Printf(LevelPrefix(level)+format, v...)
}

func (s *standardLogger) Printf(format string, v ...interface{}) { s.printf(LevelInfo, format, v...) }
func (s *standardLogger) Debugf(format string, v ...interface{}) { s.printf(LevelDebug, format, v...) }
func (s *standardLogger) Infof(format string, v ...interface{})  { s.printf(LevelInfo, format, v...) }
func (s *standardLogger) Warnf(format string, v ...interface{})  { s.printf(LevelWarn, format, v...) }
func (s *standardLogger) Errorf(format string, v ...interface{}) { s.printf(LevelError, format, v...) }

// Panicf logs at LevelPanic and then panics with the formatted message.
func (s *standardLogger) Panicf(format string, v ...interface{}) {
	s.printf(LevelPanic, format, v...)
	panic(fmt.Sprintf(format, v...))
}

func (s *standardLogger) WithPrefix(prefix string) Logger {
	return newStandardLogger(s.w, s.verbosity, s.prefix+prefix)
}

// Logfer is a thing that has only a Logf() method, like for instance,
// testing.T or testing.B.
type Logfer interface {
	Logf(format string, v ...interface{})
}

// LogfLogger is a test logger that wraps something that has a Logf interface
// and makes it act like our logger.
type LogfLogger struct {
	wrapped Logfer
	prefix  string
}

func NewLogfLogger(l Logfer) *LogfLogger {
	return &LogfLogger{wrapped: l}
}

func (ll *LogfLogger) logf(level int, format string, v ...interface{}) {
	ll.wrapped.Logf(ll.prefix+LevelPrefix(level)+format, v...)
}

func (ll *LogfLogger) Printf(format string, v ...interface{}) { ll.logf(LevelInfo, format, v...) }
func (ll *LogfLogger) Debugf(format string, v ...interface{}) { ll.logf(LevelDebug, format, v...) }
func (ll *LogfLogger) Infof(format string, v ...interface{})  { ll.logf(LevelInfo, format, v...) }
func (ll *LogfLogger) Warnf(format string, v ...interface{})  { ll.logf(LevelWarn, format, v...) }
func (ll *LogfLogger) Errorf(format string, v ...interface{}) { ll.logf(LevelError, format, v...) }
func (ll *LogfLogger) Panicf(format string, v ...interface{}) { ll.logf(LevelPanic, format, v...) }

func (ll *LogfLogger) WithPrefix(prefix string) Logger {
	return &LogfLogger{wrapped: ll.wrapped, prefix: ll.prefix + prefix}
}

// BufferLogger holds log lines in memory for review in tests. Debug output
// is dropped.
type BufferLogger struct {
	mu     sync.Mutex
	buf    *bytes.Buffer
	prefix string
}

// NewBufferLogger returns a new instance of BufferLogger.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{buf: &bytes.Buffer{}}
}

func (b *BufferLogger) logf(level int, format string, v ...interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.buf, b.prefix+LevelPrefix(level)+format+"\n", v...)
}

func (b *BufferLogger) Printf(format string, v ...interface{}) { b.logf(LevelInfo, format, v...) }
func (b *BufferLogger) Debugf(format string, v ...interface{}) {}
func (b *BufferLogger) Infof(format string, v ...interface{})  { b.logf(LevelInfo, format, v...) }
func (b *BufferLogger) Warnf(format string, v ...interface{})  { b.logf(LevelWarn, format, v...) }
func (b *BufferLogger) Errorf(format string, v ...interface{}) { b.logf(LevelError, format, v...) }
func (b *BufferLogger) Panicf(format string, v ...interface{}) { b.logf(LevelPanic, format, v...) }

// WithPrefix shares the buffer of the parent logger.
func (b *BufferLogger) WithPrefix(prefix string) Logger {
	return &bufferChild{parent: b, prefix: prefix}
}

// String returns everything logged so far.
func (b *BufferLogger) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type bufferChild struct {
	parent *BufferLogger
	prefix string
}

func (c *bufferChild) logf(level int, format string, v ...interface{}) {
	c.parent.logf(level, c.prefix+format, v...)
}

func (c *bufferChild) Printf(format string, v ...interface{}) { c.logf(LevelInfo, format, v...) }
func (c *bufferChild) Debugf(format string, v ...interface{}) {}
func (c *bufferChild) Infof(format string, v ...interface{})  { c.logf(LevelInfo, format, v...) }
func (c *bufferChild) Warnf(format string, v ...interface{})  { c.logf(LevelWarn, format, v...) }
func (c *bufferChild) Errorf(format string, v ...interface{}) { c.logf(LevelError, format, v...) }
func (c *bufferChild) Panicf(format string, v ...interface{}) { c.logf(LevelPanic, format, v...) }

func (c *bufferChild) WithPrefix(prefix string) Logger {
	return &bufferChild{parent: c.parent, prefix: c.prefix + prefix}
}
