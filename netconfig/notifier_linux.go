// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package netconfig

import (
	"fmt"
	"sync"
	"time"

	"github.com/vishvananda/netlink"

	"v.io/x/ifwait/vlog"
)

// NetlinkNotifier is a Notifier driven by the kernel's link and address
// update messages. Subscriptions are made on the first call to NotifyChange.
type NetlinkNotifier struct {
	*debouncer
	once    sync.Once
	done    chan struct{}
	stopped sync.Once
	initErr error
}

// NewNetlinkNotifier returns a new NetlinkNotifier with the specified
// hysteresis delay.
func NewNetlinkNotifier(delay time.Duration) *NetlinkNotifier {
	return &NetlinkNotifier{
		debouncer: newDebouncer(delay),
		done:      make(chan struct{}),
	}
}

func newOSNotifier(delay time.Duration) Notifier {
	return NewNetlinkNotifier(delay)
}

func (n *NetlinkNotifier) subscribe() error {
	links := make(chan netlink.LinkUpdate, 16)
	if err := netlink.LinkSubscribe(links, n.done); err != nil {
		return fmt.Errorf("failed to subscribe to link updates: %v", err)
	}
	addrs := make(chan netlink.AddrUpdate, 16)
	if err := netlink.AddrSubscribe(addrs, n.done); err != nil {
		return fmt.Errorf("failed to subscribe to address updates: %v", err)
	}
	go n.watch(links, addrs)
	return nil
}

func (n *NetlinkNotifier) watch(links <-chan netlink.LinkUpdate, addrs <-chan netlink.AddrUpdate) {
	for {
		select {
		case u, ok := <-links:
			if !ok {
				return
			}
			if attrs := u.Link.Attrs(); attrs != nil {
				vlog.VI(2).Infof("link update: %v %v", attrs.Name, attrs.OperState)
			}
			n.ding()
		case u, ok := <-addrs:
			if !ok {
				return
			}
			vlog.VI(2).Infof("address update: index %d %v new %v", u.LinkIndex, u.LinkAddress.String(), u.NewAddr)
			n.ding()
		case <-n.done:
			return
		}
	}
}

// NotifyChange implements Notifier.
func (n *NetlinkNotifier) NotifyChange() (<-chan struct{}, error) {
	n.once.Do(func() {
		n.initErr = n.subscribe()
	})
	if n.initErr != nil {
		return nil, n.initErr
	}
	return n.channel()
}

// Shutdown implements Notifier.
func (n *NetlinkNotifier) Shutdown() {
	n.stopped.Do(func() {
		close(n.done)
		n.stop()
	})
}
