// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdline provides a data-driven framework to simplify writing
// single command programs, with built-in support for formatted help.
//
// The syntax for each command-line program is:
//
//	command [flags] [args]
//
// Flags are parsed with github.com/spf13/pflag and may be interspersed with
// args. -h and --help print the usage of the command to stdout.
//
// Most main packages should be implemented as follows:
//
//	var root = &cmdline.Command{...}
//
//	func main() {
//	  cmdline.Main(root)
//	}
package cmdline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// ErrExitCode may be returned by a Runner to cause the program to exit
// with a specific error code.
type ErrExitCode int

func (x ErrExitCode) Error() string {
	return fmt.Sprintf("exit code %d", x)
}

// ErrUsage is returned to indicate an error in command usage; e.g. unknown
// flags or missing args. It corresponds to exit code 1.
const ErrUsage = ErrExitCode(1)

// Command represents a command-line program.
type Command struct {
	Name     string         // Name of the command.
	Short    string         // Short description, shown on the first line of help.
	Long     string         // Long description, shown in help.
	Flags    *pflag.FlagSet // Flags for the command, created on demand if nil.
	ArgsName string         // Name of the args, shown in usage line.
	ArgsLong string         // Long description of the args, shown in help.

	// Runner runs the command once flags have been parsed.
	Runner Runner
}

// Runner is the interface for running commands. Return ErrExitCode to
// indicate the command should exit with a specific exit code.
type Runner interface {
	Run(env *Env, args []string) error
}

// FlagSet returns the command's flag set, creating it if need be.
func (cmd *Command) FlagSet() *pflag.FlagSet {
	if cmd.Flags == nil {
		cmd.Flags = pflag.NewFlagSet(cmd.Name, pflag.ContinueOnError)
	}
	return cmd.Flags
}

// Main implements the main function for cmd. It parses os.Args[1:] against
// cmd, runs it and calls os.Exit with the resulting exit code.
func Main(cmd *Command) {
	env := NewEnv()
	err := ParseAndRun(cmd, env, os.Args[1:])
	os.Exit(ExitCode(err, env.Stderr))
}

// ParseAndRun parses args against the flags of cmd and runs its Runner with
// the remaining args. env.Usage is set to print the usage of cmd. A request
// for help is not an error.
func ParseAndRun(cmd *Command, env *Env, args []string) error {
	if cmd.Runner == nil {
		return fmt.Errorf("%v: no runner specified", cmd.Name)
	}
	fs := cmd.FlagSet()
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	env.Usage = cmd.usage
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			env.Usage(env.Stdout)
			return nil
		}
		return env.UsageErrorf("%v: %v", cmd.Name, err)
	}
	return cmd.Runner.Run(env, fs.Args())
}

// ExitCode returns the exit code corresponding to err.
//
//	0:    if err == nil
//	code: if err is ErrExitCode(code)
//	1:    all other errors
//
// Writes the error message for "all other errors" to w, if w is non-nil.
func ExitCode(err error, w io.Writer) int {
	if err == nil {
		return 0
	}
	var code ErrExitCode
	if errors.As(err, &code) {
		return int(code)
	}
	if w != nil {
		fmt.Fprintf(w, "ERROR: %v\n", err)
	}
	return 1
}

func (cmd *Command) usage(w io.Writer) {
	if len(cmd.Long) > 0 {
		fmt.Fprintln(w, strings.TrimSpace(cmd.Long))
	} else if len(cmd.Short) > 0 {
		fmt.Fprintln(w, strings.TrimSpace(cmd.Short))
	}
	fmt.Fprintf(w, "\nUsage:\n   %s", cmd.Name)
	fs := cmd.FlagSet()
	if fs.HasAvailableFlags() {
		fmt.Fprint(w, " [flags]")
	}
	if len(cmd.ArgsName) > 0 {
		fmt.Fprintf(w, " %s", cmd.ArgsName)
	}
	fmt.Fprintln(w)
	if len(cmd.ArgsLong) > 0 {
		fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(cmd.ArgsLong))
	}
	if fs.HasAvailableFlags() {
		fmt.Fprintf(w, "\nThe %s flags are:\n%s", cmd.Name, fs.FlagUsages())
	}
}
