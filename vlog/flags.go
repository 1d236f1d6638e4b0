// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vlog

import (
	"github.com/cosnicolaou/llog"
	"github.com/spf13/pflag"
)

// LoggingFlags represents all of the flags that can be used to configure
// logging.
type LoggingFlags struct {
	ToStderr        bool
	AlsoToStderr    bool
	LogDir          string
	Verbosity       Level
	StderrThreshold StderrThreshold
}

// RegisterLoggingFlags registers the logging flags with the specified
// flagset and with prefix prepended to their flag names.
//   --<prefix>v
//   --<prefix>log_dir
//   --<prefix>logtostderr
//   --<prefix>alsologtostderr
//   --<prefix>stderrthreshold
//
// Unlike glog, logging to stderr rather than to files is the default
// since the commands in this module are short lived and typically run
// from init scripts whose output is already captured.
func RegisterLoggingFlags(fs *pflag.FlagSet, lf *LoggingFlags, prefix string) {
	lf.StderrThreshold = StderrThreshold(llog.ErrorLog)
	fs.Var(&lf.Verbosity, prefix+"v", "log level for V logs")
	fs.StringVar(&lf.LogDir, prefix+"log_dir", "", "if non-empty, write log files to this directory")
	fs.BoolVar(&lf.ToStderr, prefix+"logtostderr", true, "log to standard error instead of files")
	fs.BoolVar(&lf.AlsoToStderr, prefix+"alsologtostderr", false, "log to standard error as well as files")
	fs.Var(&lf.StderrThreshold, prefix+"stderrthreshold", "logs at or above this threshold go to stderr")
}

// ConfigureFromLoggingFlags will configure the logger using the specified
// LoggingFlags. Setting a log directory implies logging to files.
func (l *Logger) ConfigureFromLoggingFlags(lf *LoggingFlags, opts ...LoggingOpts) error {
	toStderr := lf.ToStderr
	if len(lf.LogDir) > 0 {
		toStderr = false
	}
	all := []LoggingOpts{
		LogToStderr(toStderr),
		AlsoLogToStderr(lf.AlsoToStderr),
		Level(lf.Verbosity),
		StderrThreshold(lf.StderrThreshold),
	}
	if len(lf.LogDir) > 0 {
		all = append(all, LogDir(lf.LogDir))
	}
	all = append(all, opts...)
	return l.Configure(all...)
}
