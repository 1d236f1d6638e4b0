// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"v.io/x/ifwait/vlog"
)

type signalCaught struct {
	sig os.Signal
}

func (s *signalCaught) Error() string {
	return "caught " + s.sig.String()
}

// withSignals returns a context that is cancelled when one of sigs is
// received. The returned function stops signal delivery and must be
// called once the context is no longer needed.
func withSignals(ctx context.Context, sigs ...os.Signal) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	done := make(chan struct{})
	go func() {
		select {
		case sig := <-ch:
			vlog.VI(1).Infof("caught signal %v", sig)
			cancel(&signalCaught{sig})
		case <-done:
		}
	}()
	return ctx, func() {
		signal.Stop(ch)
		close(done)
		cancel(nil)
	}
}

// caughtSignal returns the signal that cancelled ctx, if any.
func caughtSignal(ctx context.Context) os.Signal {
	var sc *signalCaught
	if errors.As(context.Cause(ctx), &sc) {
		return sc.sig
	}
	return nil
}
