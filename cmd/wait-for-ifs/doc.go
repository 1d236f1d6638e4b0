// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Command wait-for-ifs waits until every named network interface is present,
has its link up and has an IPv4 address, then exits with status 0. The
interfaces are checked immediately and then at a fixed interval, with no
limit on the number of checks. An interrupt or termination signal ends the
wait with status 0. Any failure to read the state of the interfaces is
fatal and results in exit status 1.

Usage:

	wait-for-ifs [flags] <iface> ...

<iface> ... are the names of the interfaces to wait for; they are appended
to any interfaces named in the configuration file.

The wait-for-ifs flags are:

	--config string
	    YAML configuration file, explicitly set flags override its contents
	--interval duration
	    time to sleep between readiness checks (default 2s)
	--ip-command string
	    name or path of the ip command (default "ip")
	--notify
	    notify systemd once the interfaces are ready
	--source string
	    source of interface state, one of ip or netlink (default "ip")
	--watch
	    re-check as soon as the kernel reports a link or address change
	--version
	    print build information and exit
	--v level
	    log level for V logs
	--log_dir string
	    if non-empty, write log files to this directory
	--logtostderr
	    log to standard error instead of files (default true)
	--alsologtostderr
	    log to standard error as well as files
	--stderrthreshold severity
	    logs at or above this threshold go to stderr (default ERROR)

A configuration file has the form:

	interfaces: [eth0, eth1]
	interval: 2s
	ip_command: /sbin/ip
	source: ip
	notify: false
	watch: false
*/
package main
