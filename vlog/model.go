// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vlog

import (
	"github.com/cosnicolaou/llog"
)

// InfoLog is implemented by loggers, and by the value returned by VI for
// levels that are not enabled.
type InfoLog interface {
	// Info logs to the INFO log.
	// Arguments are handled in the manner of fmt.Print; a newline is appended if missing.
	Info(args ...interface{})

	// Infof logs to the INFO log.
	// Arguments are handled in the manner of fmt.Printf; a newline is appended if missing.
	Infof(format string, args ...interface{})
}

// Level specifies a level of verbosity for V logs.
// It implements the pflag.Value interface to support command line option
// parsing.
type Level llog.Level

// Set is part of the pflag.Value interface.
func (l *Level) Set(v string) error {
	return (*llog.Level)(l).Set(v)
}

// String is part of the pflag.Value interface.
func (l *Level) String() string {
	return (*llog.Level)(l).String()
}

// Type is part of the pflag.Value interface.
func (l *Level) Type() string {
	return "level"
}

// StderrThreshold identifies the severity at or above which log messages
// are also written to stderr: INFO, WARNING, ERROR or FATAL.
// It implements the pflag.Value interface to support command line option
// parsing.
type StderrThreshold llog.Severity

// Set is part of the pflag.Value interface.
func (s *StderrThreshold) Set(v string) error {
	return (*llog.Severity)(s).Set(v)
}

// String is part of the pflag.Value interface.
func (s *StderrThreshold) String() string {
	return (*llog.Severity)(s).String()
}

// Type is part of the pflag.Value interface.
func (s *StderrThreshold) Type() string {
	return "severity"
}
