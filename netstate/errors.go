// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netstate

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the way in which reading a snapshot failed.
type ErrorKind int

const (
	// ToolMissing indicates that the interface query facility could not be
	// located or executed.
	ToolMissing ErrorKind = iota + 1
	// CommandFailed indicates that the query facility ran but exited with
	// a non-zero status.
	CommandFailed
	// ParseFailed indicates that the query output could not be decoded.
	ParseFailed
)

func (k ErrorKind) String() string {
	switch k {
	case ToolMissing:
		return "tool missing"
	case CommandFailed:
		return "command failed"
	case ParseFailed:
		return "parse failed"
	default:
		return fmt.Sprintf("unknown error kind %d", int(k))
	}
}

// QueryError is returned by Readers when a snapshot cannot be obtained. All
// such errors are fatal for callers that wait on network state; none of
// them indicate a condition that is expected to clear by retrying.
type QueryError struct {
	Kind     ErrorKind
	Tool     string // Name or path of the facility that was queried.
	ExitCode int    // Valid for CommandFailed only.
	Stderr   string // Valid for CommandFailed only, may be empty.
	Err      error
}

func (e *QueryError) Error() string {
	switch e.Kind {
	case ToolMissing:
		return fmt.Sprintf("could not find the %s command: %v", e.Tool, e.Err)
	case CommandFailed:
		if e.ExitCode < 0 {
			return fmt.Sprintf("%s query failed: %v", e.Tool, e.Err)
		}
		msg := fmt.Sprintf("got non-zero return code executing %s command %d", e.Tool, e.ExitCode)
		if len(e.Stderr) > 0 {
			msg += ", " + e.Stderr
		}
		if e.Err != nil {
			msg += fmt.Sprintf(" (%v)", e.Err)
		}
		return msg
	case ParseFailed:
		return fmt.Sprintf("failed to parse output of %s: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Tool, e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsKind returns true if err is, or wraps, a *QueryError of the specified
// kind.
func IsKind(err error, kind ErrorKind) bool {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind == kind
	}
	return false
}
