// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package netstate

import (
	"context"
	"errors"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

const netlinkTool = "netlink"

// Dumps from the kernel may be interrupted by concurrent changes, in which
// case they are retried this many times.
const maxDumpAttempts = 3

// Netlink is a Reader that obtains interface state directly from the
// kernel via a netlink route socket rather than by running a command.
type Netlink struct{}

// NewNetlink returns a new netlink based Reader.
func NewNetlink() *Netlink {
	return &Netlink{}
}

func (*Netlink) String() string {
	return netlinkTool
}

// operStateName returns the name used by iproute2 for the supplied
// operational state so that snapshots compare the same regardless of
// the Reader used.
func operStateName(s netlink.LinkOperState) string {
	switch s {
	case netlink.OperUp:
		return OperUp
	case netlink.OperDown:
		return "DOWN"
	case netlink.OperLowerLayerDown:
		return "LOWERLAYERDOWN"
	case netlink.OperDormant:
		return "DORMANT"
	case netlink.OperTesting:
		return "TESTING"
	case netlink.OperNotPresent:
		return "NOTPRESENT"
	default:
		return "UNKNOWN"
	}
}

func familyName(family int) string {
	switch family {
	case unix.AF_INET:
		return FamilyIPv4
	case unix.AF_INET6:
		return FamilyIPv6
	}
	return ""
}

func addrInfo(a netlink.Addr) AddrInfo {
	family := unix.AF_INET6
	if a.IP.To4() != nil {
		family = unix.AF_INET
	}
	ones, _ := a.Mask.Size()
	return AddrInfo{Family: familyName(family), Local: a.IP.String(), PrefixLen: ones}
}

func linkList() ([]netlink.Link, error) {
	var err error
	for i := 0; i < maxDumpAttempts; i++ {
		var links []netlink.Link
		if links, err = netlink.LinkList(); err == nil {
			return links, nil
		}
		if !errors.Is(err, netlink.ErrDumpInterrupted) {
			break
		}
	}
	return nil, err
}

// addrList returns the addresses of all links, which are obtained with a
// single dump, keyed by link index.
func addrList() (map[int][]AddrInfo, error) {
	var err error
	for i := 0; i < maxDumpAttempts; i++ {
		var addrs []netlink.Addr
		if addrs, err = netlink.AddrList(nil, netlink.FAMILY_ALL); err == nil {
			return groupAddrs(addrs), nil
		}
		if !errors.Is(err, netlink.ErrDumpInterrupted) {
			break
		}
	}
	return nil, err
}

func groupAddrs(addrs []netlink.Addr) map[int][]AddrInfo {
	byLink := map[int][]AddrInfo{}
	for _, a := range addrs {
		if a.IPNet == nil {
			continue
		}
		byLink[a.LinkIndex] = append(byLink[a.LinkIndex], addrInfo(a))
	}
	return byLink
}

// Snapshot implements Reader.
func (n *Netlink) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	links, err := linkList()
	if err != nil {
		return nil, &QueryError{Kind: CommandFailed, Tool: netlinkTool, ExitCode: -1, Err: err}
	}
	addrs, err := addrList()
	if err != nil {
		return nil, &QueryError{Kind: CommandFailed, Tool: netlinkTool, ExitCode: -1, Err: err}
	}
	snap := make(Snapshot, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		snap.Add(InterfaceRecord{
			Name:      attrs.Name,
			OperState: operStateName(attrs.OperState),
			Addrs:     addrs[attrs.Index],
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return snap, nil
}
