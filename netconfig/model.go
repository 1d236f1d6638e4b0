// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package netconfig implements a network configuration watcher, or more
// accurately an interface to a network configuration watcher. On Linux the
// OS specific implementation subscribes to link and address updates over
// netlink; elsewhere NewOSNotifier returns a Notifier whose NotifyChange
// always fails.
package netconfig

import (
	"errors"
	"sync"
	"time"
)

// DefaultDelay is the hysteresis applied by NewOSNotifier when a zero
// delay is requested.
const DefaultDelay = 250 * time.Millisecond

// ErrShutdown is returned by NotifyChange once a notifier has been
// shut down.
var ErrShutdown = errors.New("notifier has been shut down")

// Notifier represents a notifier of network configuration changes.
type Notifier interface {
	// NotifyChange returns a channel that will be closed when the network
	// configuration changes from the time this function was invoked.
	//
	// This may provide false positives, i.e., a network change
	// will cause the channel to be closed but a channel closure
	// may not imply a network change.
	NotifyChange() (<-chan struct{}, error)

	// Shutdown will shutdown the notifier and close the channel returned
	// by NotifyChange.
	Shutdown()
}

// NewOSNotifier returns the Notifier for the current operating system.
// Changes are reported delay after the first of a burst of changes is
// observed.
func NewOSNotifier(delay time.Duration) Notifier {
	if delay == 0 {
		delay = DefaultDelay
	}
	return newOSNotifier(delay)
}

// NullNotifier represents a null implementation of Notifier that will
// never return any notifications. It is provided as a default.
type NullNotifier struct {
	mu       sync.Mutex
	ch       chan struct{}
	shutdown bool
}

// NotifyChange implements Notifier.
func (n *NullNotifier) NotifyChange() (<-chan struct{}, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.shutdown {
		return nil, ErrShutdown
	}
	if n.ch == nil {
		n.ch = make(chan struct{})
	}
	return n.ch, nil
}

// Shutdown implements Notifier.
func (n *NullNotifier) Shutdown() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.ch != nil && !n.shutdown {
		close(n.ch)
	}
	n.shutdown = true
}

// debouncer closes and replaces its channel delay after the first of
// a burst of calls to ding.
type debouncer struct {
	mu       sync.Mutex
	ch       chan struct{}
	timer    *time.Timer
	delay    time.Duration
	shutdown bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{ch: make(chan struct{}), delay: delay}
}

func (d *debouncer) channel() (<-chan struct{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown {
		return nil, ErrShutdown
	}
	return d.ch, nil
}

func (d *debouncer) ding() {
	// A single change, e.g. a link coming up, usually produces several
	// link and address messages.
	d.mu.Lock()
	if d.timer == nil && !d.shutdown {
		d.timer = time.AfterFunc(d.delay, d.resetChan)
	}
	d.mu.Unlock()
}

func (d *debouncer) resetChan() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.timer = nil
	if d.shutdown {
		return
	}
	close(d.ch)
	d.ch = make(chan struct{})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown {
		return
	}
	d.shutdown = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	close(d.ch)
}
