// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vlog_test

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"v.io/x/ifwait/vlog"
)

func ExampleInfo() {
	vlog.Info("hello")
}

func ExampleVI() {
	vlog.Errorf("%s", "error")
	if vlog.V(2) {
		vlog.Info("some spammy message")
	}
	vlog.VI(2).Infof("another spammy message")
}

func readLogFiles(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var contents []string
	for _, fi := range files {
		// Skip symlinks to avoid double-counting log lines.
		if !fi.Type().IsRegular() {
			continue
		}
		file, err := os.Open(filepath.Join(dir, fi.Name()))
		if err != nil {
			return nil, err
		}
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			if line := scanner.Text(); len(line) > 0 && line[0] == 'I' {
				contents = append(contents, line)
			}
		}
		file.Close()
	}
	return contents, nil
}

func TestHeaders(t *testing.T) {
	dir := t.TempDir()
	logger := vlog.NewLogger("testHeader")
	logger.Configure(vlog.LogDir(dir), vlog.Level(2))
	logger.Infof("abc\n")
	logger.Infof("wombats\n")
	logger.VI(1).Infof("wombats again\n")
	logger.VI(3).Infof("not logged\n")
	logger.FlushLog()
	contents, err := readLogFiles(dir)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	fileRE := regexp.MustCompile(`\S+ \S+\s+\S+ (.*):.*`)
	for _, line := range contents {
		name := fileRE.FindStringSubmatch(line)
		if len(name) < 2 {
			t.Errorf("failed to find file in %s", line)
			continue
		}
		if got, want := name[1], "log_test.go"; got != want {
			t.Errorf("unexpected file name: got %s, want %s\n%v", got, want, contents)
			continue
		}
	}
	if want, got := 3, len(contents); want != got {
		t.Errorf("Expected %d info lines, got %d instead", want, got)
	}
}

func TestConfigure(t *testing.T) {
	dir := t.TempDir()
	logger := vlog.NewLogger("testConfigure")
	if got, want := logger.Configure(vlog.LogDir(dir), vlog.AlsoLogToStderr(false)), error(nil); got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got, want := logger.Configure(vlog.AlsoLogToStderr(true)), vlog.ErrConfigured; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got, want := logger.Configure(vlog.OverridePriorConfiguration(true), vlog.AlsoLogToStderr(false)), error(nil); got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAutoFlush(t *testing.T) {
	dir := t.TempDir()
	logger := vlog.NewLogger("testAutoFlush")
	logger.Configure(vlog.LogDir(dir), vlog.AutoFlush(true))
	logger.Infof("flushed without FlushLog")
	contents, err := readLogFiles(dir)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got, want := len(contents), 1; got != want {
		t.Errorf("got %v, want %v: %v", got, want, contents)
	}
}

func TestVerbosity(t *testing.T) {
	logger := vlog.NewLogger("testVerbosity")
	logger.Configure(vlog.LogToStderr(true), vlog.Level(1))
	if !logger.V(1) {
		t.Errorf("logger.V(1) should be true")
	}
	if logger.V(2) {
		t.Errorf("logger.V(2) should be false")
	}
	if logger.VI(1) != vlog.InfoLog(logger) {
		t.Errorf("logger.VI(1) should be the logger")
	}
	if logger.VI(2) == vlog.InfoLog(logger) {
		t.Errorf("logger.VI(2) should not be the logger")
	}
}
