// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"fmt"
	"io"
	"os"
)

// NewEnv returns a new environment with defaults based on the operating system.
func NewEnv() *Env {
	return &Env{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Env represents the environment for command parsing and running. Typically
// NewEnv is used to produce a default environment. The environment may be
// explicitly set for finer control; e.g. in tests.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer

	// Usage is a function that prints usage information to w. Set by
	// ParseAndRun to print the usage of the command being run.
	Usage func(w io.Writer)
}

// UsageErrorf prints the error message represented by the printf-style format
// and args, followed by the output of the Usage function. Returns ErrUsage to
// make it easy to use from within the Runner.Run function.
func (e *Env) UsageErrorf(format string, args ...interface{}) error {
	fmt.Fprint(e.Stderr, "ERROR: ")
	fmt.Fprintf(e.Stderr, format, args...)
	fmt.Fprint(e.Stderr, "\n\n")
	if e.Usage != nil {
		e.Usage(e.Stderr)
	} else {
		fmt.Fprint(e.Stderr, "usage error\n")
	}
	return ErrUsage
}
