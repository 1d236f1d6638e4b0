// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/coreos/go-systemd/v22/daemon"

	"v.io/x/ifwait/vlog"
)

// sdNotify tells systemd that the service is ready.
func sdNotify() error {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		return err
	}
	if !sent {
		vlog.Info("notify was requested, but notification is not supported")
		return nil
	}
	vlog.VI(1).Info("sent sd_notify READY")
	return nil
}
