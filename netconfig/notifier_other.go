// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package netconfig

import (
	"fmt"
	"runtime"
	"time"
)

type unsupported struct {
	NullNotifier
}

func newOSNotifier(time.Duration) Notifier {
	return &unsupported{}
}

// NotifyChange implements Notifier.
func (*unsupported) NotifyChange() (<-chan struct{}, error) {
	return nil, fmt.Errorf("network change notifications are not supported on %v", runtime.GOOS)
}
