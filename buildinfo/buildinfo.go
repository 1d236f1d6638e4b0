// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package buildinfo provides build-time metadata for binaries. Values are
// taken from the module information recorded by the go toolchain and may be
// overridden at link time.
package buildinfo

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
)

// These variables may be filled in at link time, using:
//
//	-ldflags "-X v.io/x/ifwait/buildinfo.<varname>=<value>"
var version, timestamp, username string

// T describes binary metadata.
type T struct {
	GoVersion      string `json:"go_version"`
	Module         string `json:"module,omitempty"`
	Version        string `json:"version,omitempty"`
	Revision       string `json:"revision,omitempty"`
	Modified       bool   `json:"modified,omitempty"`
	BuildTimestamp string `json:"build_timestamp,omitempty"`
	BuildUser      string `json:"build_user,omitempty"`
	BuildPlatform  string `json:"build_platform"`
}

// Info returns metadata about the current binary.
func Info() *T {
	t := &T{
		GoVersion:      runtime.Version(),
		Version:        version,
		BuildTimestamp: timestamp,
		BuildUser:      username,
		BuildPlatform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return t
	}
	t.Module = bi.Main.Path
	if len(t.Version) == 0 && bi.Main.Version != "(devel)" {
		t.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			t.Revision = s.Value
		case "vcs.time":
			if len(t.BuildTimestamp) == 0 {
				t.BuildTimestamp = s.Value
			}
		case "vcs.modified":
			t.Modified = s.Value == "true"
		}
	}
	return t
}

// String returns the binary metadata as a JSON-encoded string, under the
// expectation that clients may want to parse it for specific bits of metadata.
func (t *T) String() string {
	jsonT, err := json.Marshal(t)
	if err != nil {
		return ""
	}
	return string(jsonT)
}
