// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package netstate

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// isolate runs cmd in a process group of its own so that signals sent to
// our process group, such as the SIGINT a terminal sends for ^C, do not
// reach it. The command is then only ever terminated when its context is
// done, at which point its entire process group is killed.
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
}
