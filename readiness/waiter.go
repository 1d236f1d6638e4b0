// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readiness

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"v.io/x/ifwait/config"
	"v.io/x/ifwait/netconfig"
	"v.io/x/ifwait/netstate"
	"v.io/x/ifwait/vlog"
)

// Waiter polls a netstate.Reader until all of its targets are ready.
type Waiter struct {
	cfg      config.Config
	reader   netstate.Reader
	notifier netconfig.Notifier
	stdout   io.Writer
}

// Option represents an option to NewWaiter.
type Option func(*Waiter)

// WithNotifier arranges for the sleep between checks to end early when
// n reports a network configuration change.
func WithNotifier(n netconfig.Notifier) Option {
	return func(w *Waiter) {
		w.notifier = n
	}
}

// NewWaiter returns a Waiter for the targets and poll interval in cfg that
// reads snapshots from reader and writes its progress to stdout.
func NewWaiter(cfg config.Config, reader netstate.Reader, stdout io.Writer, opts ...Option) *Waiter {
	w := &Waiter{
		cfg:      cfg,
		reader:   reader,
		notifier: &netconfig.NullNotifier{},
		stdout:   stdout,
	}
	for _, fn := range opts {
		fn(w)
	}
	return w
}

func (w *Waiter) targets() string {
	return "[" + strings.Join(w.cfg.Targets, ", ") + "]"
}

// Wait checks the targets immediately and then every poll interval until
// they are all ready, in which case it returns nil. It returns ctx.Err()
// as soon as ctx is cancelled, without reading another snapshot, and any
// error returned by the Reader otherwise. There is no bound on the number
// of checks.
func (w *Waiter) Wait(ctx context.Context) error {
	fmt.Fprintf(w.stdout, "waiting for ifaces %s\n", w.targets())
	for iteration := 1; ; iteration++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		changed := w.changes()
		snap, err := w.reader.Snapshot(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return err
		}
		vlog.VI(1).Infof("check %d: %v", iteration, snap)
		if vlog.V(2) {
			vlog.Infof("check %d: ready interfaces: %v", iteration, snap.Filter(Ready))
		}
		ready, violations := Evaluate(snap, w.cfg.Targets)
		if ready {
			fmt.Fprintf(w.stdout, "ifaces %s are ready, exiting\n", w.targets())
			return nil
		}
		fmt.Fprintf(w.stdout, "ifaces %s are not ready, sleeping %v: [%s]\n",
			w.targets(), w.cfg.PollInterval, strings.Join(violations, "; "))
		if err := w.sleep(ctx, changed); err != nil {
			return err
		}
	}
}

// changes returns the channel to wait on for network changes, or nil
// if changes are not being watched.
func (w *Waiter) changes() <-chan struct{} {
	ch, err := w.notifier.NotifyChange()
	if err != nil {
		vlog.VI(1).Infof("not watching for network changes: %v", err)
		return nil
	}
	return ch
}

func (w *Waiter) sleep(ctx context.Context, changed <-chan struct{}) error {
	timer := time.NewTimer(w.cfg.PollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	case <-changed:
		vlog.VI(1).Info("network configuration changed, checking early")
	}
	return nil
}
