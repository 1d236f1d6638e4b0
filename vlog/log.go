// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vlog provides leveled, glog style logging. Info and Errorf
// messages are always logged, V-leveled messages are logged only when
// the configured verbosity is at least that level:
//
//   vlog.Infof("waiting for %v", names)
//   vlog.VI(2).Infof("snapshot: %v", snap)
//
// Package level functions log via the global Log instance, which is
// typically configured once from command line flags; see
// RegisterLoggingFlags.
package vlog

import (
	"errors"
	"sync"

	"github.com/cosnicolaou/llog"
)

// Logger is a leveled logger backed by llog.
type Logger struct {
	log        *llog.Log
	mu         sync.Mutex // guards updates to the vars below.
	autoFlush  bool
	configured bool
}

func (l *Logger) maybeFlush() {
	if l.autoFlush {
		l.log.Flush()
	}
}

var (
	// Log is the global logger used by the package level functions.
	Log *Logger
	// ErrConfigured is returned by Configure if the logger has already
	// been configured.
	ErrConfigured = errors.New("logger has already been configured")
)

const stackSkip = 1

func init() {
	Log = NewLogger("ifwait")
}

// NewLogger creates a new, unconfigured, logger.
func NewLogger(name string) *Logger {
	return &Logger{log: llog.NewLogger(name, stackSkip)}
}

// Configure configures all future logging. The ErrConfigured error is
// returned if Configure has already been called unless the
// OverridePriorConfiguration option is included.
func (l *Logger) Configure(opts ...LoggingOpts) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	override := false
	for _, o := range opts {
		if v, ok := o.(OverridePriorConfiguration); ok {
			override = bool(v)
		}
	}
	if l.configured && !override {
		return ErrConfigured
	}
	for _, o := range opts {
		switch v := o.(type) {
		case AlsoLogToStderr:
			l.log.SetAlsoLogToStderr(bool(v))
		case Level:
			l.log.SetV(llog.Level(v))
		case LogDir:
			l.log.SetLogDir(string(v))
		case LogToStderr:
			l.log.SetLogToStderr(bool(v))
		case StderrThreshold:
			l.log.SetStderrThreshold(llog.Severity(v))
		case AutoFlush:
			l.autoFlush = bool(v)
		}
	}
	l.configured = true
	return nil
}

// Info logs to the INFO log.
// Arguments are handled in the manner of fmt.Print; a newline is appended if missing.
func (l *Logger) Info(args ...interface{}) {
	l.log.Print(llog.InfoLog, args...)
	l.maybeFlush()
}

// Infof logs to the INFO log.
// Arguments are handled in the manner of fmt.Printf; a newline is appended if missing.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log.Printf(llog.InfoLog, format, args...)
	l.maybeFlush()
}

// Errorf logs to the ERROR and INFO logs.
// Arguments are handled in the manner of fmt.Printf; a newline is appended if missing.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log.Printf(llog.ErrorLog, format, args...)
	l.maybeFlush()
}

// V returns true if the configured logging level is greater than or equal
// to its parameter.
func (l *Logger) V(v Level) bool {
	return l.log.V(llog.Level(v))
}

type discardInfo struct{}

func (*discardInfo) Info(args ...interface{})                 {}
func (*discardInfo) Infof(format string, args ...interface{}) {}

// VI is like V, except that it returns an instance of InfoLog that will
// either log (if v >= the configured level) or discard its parameters.
func (l *Logger) VI(v Level) InfoLog {
	if l.log.V(llog.Level(v)) {
		return l
	}
	return &discardInfo{}
}

// FlushLog flushes all pending log I/O.
func (l *Logger) FlushLog() {
	l.log.Flush()
}
