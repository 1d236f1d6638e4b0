// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package netstate

import (
	"context"
	"fmt"
	"runtime"
)

const netlinkTool = "netlink"

// Netlink is only supported on Linux; elsewhere every Snapshot fails with
// ToolMissing.
type Netlink struct{}

// NewNetlink returns a new netlink based Reader.
func NewNetlink() *Netlink {
	return &Netlink{}
}

func (*Netlink) String() string {
	return netlinkTool
}

// Snapshot implements Reader.
func (n *Netlink) Snapshot(ctx context.Context) (Snapshot, error) {
	return nil, &QueryError{
		Kind: ToolMissing,
		Tool: netlinkTool,
		Err:  fmt.Errorf("not supported on %s", runtime.GOOS),
	}
}
