// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package readiness decides whether a set of network interfaces is ready
// for use and waits, polling at a fixed interval, until it is.
//
// An interface is ready when it is present in a snapshot, its operational
// state is "UP" and it has at least one IPv4 ("inet") address.
package readiness

import (
	"fmt"

	"v.io/x/ifwait/netstate"
)

const (
	notAvailableFmt = "%s is not available"
	linkNotUpFmt    = "%s is present but link is not up"
	noIPv4Fmt       = "%s does not have an ipv4 address"
)

// Ready is the netstate.Predicate satisfied by interfaces that are ready.
func Ready(r netstate.InterfaceRecord) bool {
	return netstate.IsOperUp(r) && netstate.HasIPv4(r)
}

// Check returns the reason the named interface is not ready in snap, or
// the empty string if it is ready.
func Check(snap netstate.Snapshot, name string) string {
	rec, ok := snap[name]
	switch {
	case !ok:
		return fmt.Sprintf(notAvailableFmt, name)
	case !netstate.IsOperUp(rec):
		return fmt.Sprintf(linkNotUpFmt, name)
	case !netstate.HasIPv4(rec):
		return fmt.Sprintf(noIPv4Fmt, name)
	}
	return ""
}

// Evaluate checks every target against snap, in order, and returns true
// if all of them are ready. Otherwise it returns false and one violation
// per target that is not ready, in the order the targets were given.
func Evaluate(snap netstate.Snapshot, targets []string) (bool, []string) {
	var violations []string
	for _, name := range targets {
		if v := Check(snap, name); len(v) > 0 {
			violations = append(violations, v)
		}
	}
	return len(violations) == 0, violations
}
