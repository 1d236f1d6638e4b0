// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netstate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"v.io/x/ifwait/lookpath"
	"v.io/x/ifwait/vlog"
)

// DefaultIPCommand is the name of the iproute2 command used by IPCommand
// when no other is specified.
const DefaultIPCommand = "ip"

// The JSON shape emitted by 'ip -j addr', restricted to the fields we use.
type ipAddrInfo struct {
	Family    string `json:"family"`
	Local     string `json:"local"`
	PrefixLen int    `json:"prefixlen"`
}

type ipLink struct {
	IfName    string       `json:"ifname"`
	OperState string       `json:"operstate"`
	AddrInfo  []ipAddrInfo `json:"addr_info"`
}

// IPCommand is a Reader that runs the iproute2 'ip' command, requesting
// JSON output for all interfaces and their addresses.
type IPCommand struct {
	// Path is the name or path of the ip command. Names without a path
	// separator are looked up in Env's PATH followed by ExtraDirs.
	Path string
	// Args are the arguments passed to the command.
	Args []string
	// Env is consulted to locate Path, it defaults to the process
	// environment.
	Env map[string]string
	// ExtraDirs are consulted after PATH.
	ExtraDirs []string
}

// NewIPCommand returns an IPCommand that runs 'path -j addr', path defaults
// to DefaultIPCommand if empty. The system administration directories
// (see lookpath.SystemDirs) are searched after PATH.
func NewIPCommand(path string) *IPCommand {
	if len(path) == 0 {
		path = DefaultIPCommand
	}
	return &IPCommand{
		Path:      path,
		Args:      []string{"-j", "addr"},
		ExtraDirs: lookpath.SystemDirs,
	}
}

func (c *IPCommand) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Snapshot implements Reader. It returns ctx.Err() rather than a
// *QueryError if ctx is done before the command completes.
func (c *IPCommand) Snapshot(ctx context.Context) (Snapshot, error) {
	env := c.Env
	if env == nil {
		env = lookpath.Env()
	}
	bin, err := lookpath.Look(env, c.Path, c.ExtraDirs...)
	if err != nil {
		return nil, &QueryError{Kind: ToolMissing, Tool: c.Path, Err: err}
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, c.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	isolate(cmd)
	vlog.VI(2).Infof("running %s %s", bin, strings.Join(c.Args, " "))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &QueryError{
				Kind:     CommandFailed,
				Tool:     c.Path,
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
				Err:      err,
			}
		}
		// The binary exists but could not be started, e.g. permission
		// denied or a bad interpreter line.
		return nil, &QueryError{Kind: ToolMissing, Tool: c.Path, Err: err}
	}
	snap, err := ParseIPAddrJSON(stdout.Bytes())
	if err != nil {
		return nil, &QueryError{Kind: ParseFailed, Tool: c.Path, Err: err}
	}
	return snap, nil
}

// ParseIPAddrJSON parses the output of 'ip -j addr' into a Snapshot.
// Entries without an interface name are ignored, duplicate names are
// resolved in favour of the last entry.
func ParseIPAddrJSON(data []byte) (Snapshot, error) {
	var links []ipLink
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, err
	}
	snap := make(Snapshot, len(links))
	for i, l := range links {
		if len(l.IfName) == 0 {
			vlog.VI(1).Infof("ignoring entry %d without an interface name", i)
			continue
		}
		rec := InterfaceRecord{
			Name:      l.IfName,
			OperState: l.OperState,
		}
		for _, a := range l.AddrInfo {
			if len(a.Family) == 0 {
				return nil, fmt.Errorf("%s: address %q has no family", l.IfName, a.Local)
			}
			rec.Addrs = append(rec.Addrs, AddrInfo{Family: a.Family, Local: a.Local, PrefixLen: a.PrefixLen})
		}
		snap.Add(rec)
	}
	return snap, nil
}
