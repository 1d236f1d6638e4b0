// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package netstate implements utilities for retrieving and inspecting the
// state of the host's network interfaces.
//
// A Snapshot is a single point-in-time read of all interfaces, their
// operational state and the addresses assigned to them. Snapshots are
// obtained from a Reader; the default Reader runs the iproute2 'ip' command
// with JSON output, an alternative reads the same information directly from
// the kernel over netlink (Linux only).
//
// The predicates in this package (functions with names of the form
// Is<condition> or Has<condition>) are used to test interface records, e.g.
//
//   snap, _ := netstate.NewIPCommand("").Snapshot(ctx)
//   if rec, ok := snap["eth0"]; ok && netstate.IsOperUp(rec) && netstate.HasIPv4(rec) {
//       // eth0 is usable.
//   }
//
// Operational state is treated as an opaque string and is only ever compared
// for equality against OperUp. Address families use the iproute2 names,
// "inet" for IPv4 and "inet6" for IPv6.
package netstate

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

const (
	// OperUp is the operational state reported for an interface whose link
	// is up.
	OperUp = "UP"
	// FamilyIPv4 is the address family tag for IPv4 addresses.
	FamilyIPv4 = "inet"
	// FamilyIPv6 is the address family tag for IPv6 addresses.
	FamilyIPv6 = "inet6"
)

// AddrInfo represents a single address assigned to an interface.
type AddrInfo struct {
	Family    string
	Local     string
	PrefixLen int
}

func (a AddrInfo) String() string {
	if a.PrefixLen > 0 {
		return fmt.Sprintf("%s %s/%d", a.Family, a.Local, a.PrefixLen)
	}
	return a.Family + " " + a.Local
}

// InterfaceRecord represents one network interface as observed in a
// Snapshot. Records are not modified once a Snapshot has been built.
type InterfaceRecord struct {
	Name      string
	OperState string
	Addrs     []AddrInfo
}

// return a comma separated string of addresses
func addrsToStr(addrs []AddrInfo) string {
	r := ""
	for _, a := range addrs {
		r += a.String() + ", "
	}
	return strings.TrimSuffix(r, ", ")
}

func (r InterfaceRecord) String() string {
	return fmt.Sprintf("(%s %s [%s])", r.Name, r.OperState, addrsToStr(r.Addrs))
}

// Snapshot maps interface names to the records read for them.
type Snapshot map[string]InterfaceRecord

// Add adds rec to the snapshot, replacing any existing record with the
// same name.
func (s Snapshot) Add(rec InterfaceRecord) {
	s[rec.Name] = rec
}

// Names returns the interface names in the snapshot in sorted order.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s Snapshot) String() string {
	r := ""
	for _, n := range s.Names() {
		r += s[n].String() + " "
	}
	return strings.TrimRight(r, " ")
}

// Reader represents a source of network interface snapshots.
type Reader interface {
	// Snapshot reads the current state of all network interfaces. Errors
	// are returned as instances of *QueryError.
	Snapshot(ctx context.Context) (Snapshot, error)
}

// ReaderFunc is a convenience for implementations that wish to supply a
// function literal implementation of Reader.
type ReaderFunc func(ctx context.Context) (Snapshot, error)

// Snapshot implements Reader.
func (f ReaderFunc) Snapshot(ctx context.Context) (Snapshot, error) {
	return f(ctx)
}

// Predicate defines the function signature for predicate functions used
// to test interface records.
type Predicate func(r InterfaceRecord) bool

// IsOperUp returns true if the interface's operational state is OperUp.
func IsOperUp(r InterfaceRecord) bool {
	return r.OperState == OperUp
}

// HasFamily returns a Predicate that is true for interfaces with at least
// one address of the specified family.
func HasFamily(family string) Predicate {
	return func(r InterfaceRecord) bool {
		for _, a := range r.Addrs {
			if a.Family == family {
				return true
			}
		}
		return false
	}
}

// HasIPv4 returns true if the interface has at least one IPv4 address.
func HasIPv4(r InterfaceRecord) bool {
	return HasFamily(FamilyIPv4)(r)
}

// Filter returns the records in the snapshot for which the predicate is
// true, sorted by name.
func (s Snapshot) Filter(predicate Predicate) []InterfaceRecord {
	r := []InterfaceRecord{}
	for _, n := range s.Names() {
		if rec := s[n]; predicate(rec) {
			r = append(r, rec)
		}
	}
	return r
}
