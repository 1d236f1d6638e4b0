// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lookpath implements utilities to find executables.
package lookpath

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// PathEnvVar is the environment variable name for command paths.
const PathEnvVar = "PATH"

// SystemDirs are the directories that hold system administration tools.
// They are often missing from the PATH of init scripts and container
// entrypoints, so callers looking for such tools may want to consult them
// after PATH.
var SystemDirs = []string{"/sbin", "/usr/sbin", "/bin", "/usr/bin"}

// Env returns the current process environment as a map, suitable for
// passing to Look.
func Env() map[string]string {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		if idx := strings.IndexByte(kv, '='); idx > 0 {
			env[kv[:idx]] = kv[idx+1:]
		}
	}
	return env
}

func splitPath(env map[string]string) []string {
	var dirs []string
	for _, dir := range strings.Split(env[PathEnvVar], string(filepath.ListSeparator)) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func isExecutable(info os.FileInfo) bool {
	mode := info.Mode()
	return !mode.IsDir() && mode&0111 != 0
}

func isExecutablePath(dir, base string) (string, bool) {
	file, err := filepath.Abs(filepath.Join(dir, base))
	if err != nil {
		return "", false
	}
	info, err := os.Stat(file)
	if err != nil || !isExecutable(info) {
		return "", false
	}
	return file, true
}

// Look returns the absolute path of the executable with the given name.  If
// name only contains a single path component, the dirs in env["PATH"]
// are consulted followed by extraDirs, and the first match is returned.
// Otherwise, for multi-component paths, the absolute path of the name is
// looked up directly and extraDirs are ignored.
//
// The behavior is the same as LookPath in the os/exec package, but allows the
// env to be passed in explicitly. The returned error is an *exec.Error
// wrapping exec.ErrNotFound.
func Look(env map[string]string, name string, extraDirs ...string) (string, error) {
	var file string
	if base := filepath.Base(name); base == name {
		file = LookIn(append(splitPath(env), extraDirs...), name)
	} else if f, ok := isExecutablePath(filepath.Dir(name), base); ok {
		file = f
	}
	if len(file) == 0 {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return file, nil
}

// LookIn returns the absolute path of the executable with the given name,
// based on the given dirs.  If multiple executables match the name, the
// first match in dirs is returned.  Invalid dirs are silently ignored and
// names containing a path separator never match.
func LookIn(dirs []string, name string) string {
	if strings.Contains(name, string(filepath.Separator)) {
		return ""
	}
	for _, dir := range dirs {
		if file, ok := isExecutablePath(dir, name); ok {
			return file
		}
	}
	return ""
}
