// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netstate_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"v.io/x/ifwait/netstate"
)

const ipAddrOutput = `[
  {"ifindex":1,"ifname":"lo","flags":["LOOPBACK","UP","LOWER_UP"],"mtu":65536,"qdisc":"noqueue","operstate":"UNKNOWN","group":"default","txqlen":1000,"link_type":"loopback","address":"00:00:00:00:00:00","broadcast":"00:00:00:00:00:00",
   "addr_info":[{"family":"inet","local":"127.0.0.1","prefixlen":8,"scope":"host","label":"lo","valid_life_time":4294967295,"preferred_life_time":4294967295},
                {"family":"inet6","local":"::1","prefixlen":128,"scope":"host","valid_life_time":4294967295,"preferred_life_time":4294967295}]},
  {"ifindex":2,"ifname":"eth0","flags":["BROADCAST","MULTICAST","UP","LOWER_UP"],"mtu":1500,"operstate":"UP",
   "addr_info":[{"family":"inet","local":"10.0.2.15","prefixlen":24,"broadcast":"10.0.2.255","scope":"global","dynamic":true,"label":"eth0"}]},
  {"ifindex":3,"ifname":"eth1","flags":["NO-CARRIER","BROADCAST","MULTICAST","UP"],"mtu":1500,"operstate":"DOWN","addr_info":[]},
  {"ifindex":4,"ifname":"wlan0","operstate":"UP",
   "addr_info":[{"family":"inet6","local":"fe80::a00:27ff:fe4e:66a1","prefixlen":64,"scope":"link"}]},
  {},
  {"ifindex":3,"ifname":"eth1","operstate":"UP","addr_info":[{"family":"inet","local":"10.0.3.4","prefixlen":16}]}
]`

func TestParseIPAddrJSON(t *testing.T) {
	snap, err := netstate.ParseIPAddrJSON([]byte(ipAddrOutput))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := snap.Names(), []string{"eth0", "eth1", "lo", "wlan0"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	want := netstate.Snapshot{
		"lo": {Name: "lo", OperState: "UNKNOWN", Addrs: []netstate.AddrInfo{
			{Family: "inet", Local: "127.0.0.1", PrefixLen: 8},
			{Family: "inet6", Local: "::1", PrefixLen: 128},
		}},
		"eth0": {Name: "eth0", OperState: "UP", Addrs: []netstate.AddrInfo{
			{Family: "inet", Local: "10.0.2.15", PrefixLen: 24},
		}},
		"eth1": {Name: "eth1", OperState: "UP", Addrs: []netstate.AddrInfo{
			{Family: "inet", Local: "10.0.3.4", PrefixLen: 16},
		}},
		"wlan0": {Name: "wlan0", OperState: "UP", Addrs: []netstate.AddrInfo{
			{Family: "inet6", Local: "fe80::a00:27ff:fe4e:66a1", PrefixLen: 64},
		}},
	}
	if !reflect.DeepEqual(snap, want) {
		t.Errorf("got %v, want %v", snap, want)
	}

	snap, err = netstate.ParseIPAddrJSON([]byte("[]"))
	if err != nil || len(snap) != 0 {
		t.Errorf("got %v, %v, want an empty snapshot", snap, err)
	}

	for i, bad := range []string{
		"",
		"not json",
		`{"ifname":"eth0"}`,
		`[{"ifname":"eth0","addr_info":"none"}]`,
		`[{"ifname":"eth0","operstate":"UP","addr_info":[{"local":"10.0.0.1"}]}]`,
		`[{"ifname":"eth0"`,
	} {
		if _, err := netstate.ParseIPAddrJSON([]byte(bad)); err == nil {
			t.Errorf("%d: expected an error for %q", i, bad)
		}
	}
}

func writeIPScript(t *testing.T, dir, body string) string {
	path := filepath.Join(dir, "ip")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIPCommand(t *testing.T) {
	dir := t.TempDir()
	writeIPScript(t, dir, "test \"$1 $2\" = \"-j addr\" || exit 3\ncat <<'EOF'\n"+ipAddrOutput+"\nEOF\n")
	cmd := netstate.NewIPCommand("")
	cmd.Env = map[string]string{"PATH": dir}
	cmd.ExtraDirs = nil
	if got, want := cmd.String(), "ip -j addr"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	snap, err := cmd.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(snap), 4; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if !netstate.HasIPv4(snap["eth0"]) || !netstate.IsOperUp(snap["eth0"]) {
		t.Errorf("eth0 should be up with an ipv4 address: %v", snap["eth0"])
	}
}

func TestIPCommandErrors(t *testing.T) {
	ctx := context.Background()

	missing := netstate.NewIPCommand(filepath.Join(t.TempDir(), "ip"))
	_, err := missing.Snapshot(ctx)
	if !netstate.IsKind(err, netstate.ToolMissing) {
		t.Errorf("got %v, want a %v error", err, netstate.ToolMissing)
	}

	notInPath := netstate.NewIPCommand("ip-command-that-does-not-exist")
	notInPath.ExtraDirs = nil
	_, err = notInPath.Snapshot(ctx)
	if !netstate.IsKind(err, netstate.ToolMissing) {
		t.Errorf("got %v, want a %v error", err, netstate.ToolMissing)
	}

	failing := writeIPScript(t, t.TempDir(), "echo 'Object \"addr\" is unknown, try \"ip help\".' >&2\nexit 255\n")
	_, err = netstate.NewIPCommand(failing).Snapshot(ctx)
	var qerr *netstate.QueryError
	if !errors.As(err, &qerr) || qerr.Kind != netstate.CommandFailed {
		t.Fatalf("got %v, want a %v error", err, netstate.CommandFailed)
	}
	if got, want := qerr.ExitCode, 255; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := qerr.Stderr, `Object "addr" is unknown, try "ip help".`; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if !strings.Contains(err.Error(), "command 255") {
		t.Errorf("exit code missing from %q", err)
	}

	garbled := writeIPScript(t, t.TempDir(), "echo '[{\"ifname\": '\n")
	_, err = netstate.NewIPCommand(garbled).Snapshot(ctx)
	if !netstate.IsKind(err, netstate.ParseFailed) {
		t.Errorf("got %v, want a %v error", err, netstate.ParseFailed)
	}
}

func TestIPCommandCancel(t *testing.T) {
	slow := writeIPScript(t, t.TempDir(), "exec sleep 60\n")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := netstate.NewIPCommand(slow).Snapshot(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v, want %v", err, context.DeadlineExceeded)
	}
	if time.Since(start) > 30*time.Second {
		t.Errorf("the command was not killed")
	}
}
