// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"v.io/x/ifwait/buildinfo"
	"v.io/x/ifwait/cmdline"
	"v.io/x/ifwait/config"
	"v.io/x/ifwait/netconfig"
	"v.io/x/ifwait/netstate"
	"v.io/x/ifwait/readiness"
	"v.io/x/ifwait/vlog"
)

func main() {
	cmd, _ := newCommand()
	cmdline.Main(cmd)
}

type runner struct {
	cmd         *cmdline.Command
	flags       config.Flags
	logging     vlog.LoggingFlags
	showVersion bool

	signals   []os.Signal
	newReader func(config.Config) netstate.Reader
	notify    func() error
}

func newCommand() (*cmdline.Command, *runner) {
	r := &runner{
		signals:   []os.Signal{unix.SIGINT, unix.SIGTERM},
		newReader: newReader,
		notify:    sdNotify,
	}
	r.cmd = &cmdline.Command{
		Name:  "wait-for-ifs",
		Short: "wait for network interfaces to be ready",
		Long: `
Command wait-for-ifs waits until every named network interface is present,
has its link up and has an IPv4 address, then exits with status 0. The
interfaces are checked immediately and then at a fixed interval, with no
limit on the number of checks. An interrupt or termination signal ends the
wait with status 0. Any failure to read the state of the interfaces is
fatal and results in exit status 1.
`,
		ArgsName: "<iface> ...",
		ArgsLong: "<iface> ... are the names of the interfaces to wait for; they are appended to any interfaces named in the configuration file.",
		Runner:   r,
	}
	fs := r.cmd.FlagSet()
	if err := config.RegisterFlags(fs, &r.flags); err != nil {
		panic(err)
	}
	vlog.RegisterLoggingFlags(fs, &r.logging, "")
	fs.BoolVar(&r.showVersion, "version", false, "print build information and exit")
	return r.cmd, r
}

func newReader(cfg config.Config) netstate.Reader {
	if cfg.Source == config.SourceNetlink {
		return netstate.NewNetlink()
	}
	return netstate.NewIPCommand(cfg.IPCommand)
}

// Run implements cmdline.Runner.
func (r *runner) Run(env *cmdline.Env, args []string) error {
	if r.showVersion {
		fmt.Fprintln(env.Stdout, buildinfo.Info())
		return nil
	}
	if err := vlog.Log.ConfigureFromLoggingFlags(&r.logging, vlog.AutoFlush(true)); err != nil && err != vlog.ErrConfigured {
		return err
	}
	defer vlog.FlushLog()

	cfg, err := config.Merge(r.cmd.FlagSet(), &r.flags, args)
	if err != nil {
		return env.UsageErrorf("%v", err)
	}
	vlog.VI(1).Infof("configuration: %v", cfg)

	ctx, stop := withSignals(context.Background(), r.signals...)
	defer stop()

	var opts []readiness.Option
	if cfg.Watch {
		n := netconfig.NewOSNotifier(0)
		defer n.Shutdown()
		opts = append(opts, readiness.WithNotifier(n))
	}
	reader := r.newReader(cfg)
	vlog.VI(1).Infof("reading interface state using %v", reader)

	err = readiness.NewWaiter(cfg, reader, env.Stdout, opts...).Wait(ctx)
	if sig := caughtSignal(ctx); sig != nil {
		fmt.Fprintf(env.Stdout, "caught %v, exiting\n", sig)
		return nil
	}
	if err != nil {
		vlog.VI(1).Infof("giving up: %v", err)
		return err
	}
	if cfg.Notify {
		if err := r.notify(); err != nil {
			vlog.Errorf("failed to notify systemd: %v", err)
		}
	}
	return nil
}
