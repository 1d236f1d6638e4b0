// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package netstate_test

import (
	"context"
	"testing"

	"v.io/x/ifwait/netstate"
)

func TestIPCommandProcessGroup(t *testing.T) {
	// Field 5 of /proc/<pid>/stat is the process group id.
	ip := writeIPScript(t, t.TempDir(),
		"test \"$(cut -d' ' -f5 /proc/$$/stat)\" = \"$$\" || exit 9\ncat <<'EOF'\n"+ipAddrOutput+"\nEOF\n")
	snap, err := netstate.NewIPCommand(ip).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("ip was not run in its own process group: %v", err)
	}
	if got, want := len(snap), 4; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
