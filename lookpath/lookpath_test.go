// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lookpath_test

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"v.io/x/ifwait/lookpath"
)

func mkdir(t *testing.T, d ...string) string {
	path := filepath.Join(d...)
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func mkfile(t *testing.T, dir, file string, perm os.FileMode) string {
	path := filepath.Join(dir, file)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLookIn(t *testing.T) {
	tmpDir := t.TempDir()
	dirA, dirB := mkdir(t, tmpDir, "a"), mkdir(t, tmpDir, "b")
	aFoo, aBar := mkfile(t, dirA, "foo", 0755), mkfile(t, dirA, "bar", 0755)
	bBar, bBaz := mkfile(t, dirB, "bar", 0755), mkfile(t, dirB, "baz", 0755)
	_, bExe := mkfile(t, dirA, "exe", 0644), mkfile(t, dirB, "exe", 0755)
	tests := []struct {
		Dirs []string
		Name string
		Want string
	}{
		{nil, "", ""},
		{nil, "foo", ""},
		{[]string{dirA}, "foo", aFoo},
		{[]string{dirA}, "bar", aBar},
		{[]string{dirA}, "baz", ""},
		{[]string{dirB}, "foo", ""},
		{[]string{dirB}, "bar", bBar},
		{[]string{dirB}, "baz", bBaz},
		{[]string{dirA, dirB}, "foo", aFoo},
		{[]string{dirA, dirB}, "bar", aBar},
		{[]string{dirA, dirB}, "baz", bBaz},
		// Make sure we find bExe, since aExe isn't executable
		{[]string{dirA, dirB}, "exe", bExe},
		{[]string{dirA, dirB}, filepath.Join("a", "foo"), ""},
		{[]string{tmpDir}, "a", ""},
	}
	for _, test := range tests {
		if got, want := lookpath.LookIn(test.Dirs, test.Name), test.Want; got != want {
			t.Errorf("dirs=%v name=%v got %v, want %v", test.Dirs, test.Name, got, want)
		}
	}
}

func TestLook(t *testing.T) {
	tmpDir := t.TempDir()
	dirA, dirB, dirC := mkdir(t, tmpDir, "a"), mkdir(t, tmpDir, "b"), mkdir(t, tmpDir, "c")
	aFoo := mkfile(t, dirA, "foo", 0755)
	bFoo, bBar := mkfile(t, dirB, "foo", 0755), mkfile(t, dirB, "bar", 0755)
	cIP := mkfile(t, dirC, "ip", 0755)
	mkfile(t, dirA, "noexec", 0644)

	path := dirA + string(filepath.ListSeparator) + dirB
	env := map[string]string{lookpath.PathEnvVar: path}

	tests := []struct {
		Name  string
		Extra []string
		Want  string
	}{
		{"foo", nil, aFoo},
		{"bar", nil, bBar},
		{"ip", nil, ""},
		{"ip", []string{dirC}, cIP},
		{"foo", []string{dirC}, aFoo},
		{bFoo, nil, bFoo},
		{bFoo, []string{dirA}, bFoo},
		{filepath.Join(dirC, "missing"), []string{dirA}, ""},
		{"noexec", nil, ""},
	}
	for _, test := range tests {
		got, err := lookpath.Look(env, test.Name, test.Extra...)
		if got != test.Want {
			t.Errorf("name=%v extra=%v got %v, want %v", test.Name, test.Extra, got, test.Want)
		}
		if test.Want == "" {
			if !errors.Is(err, exec.ErrNotFound) {
				t.Errorf("name=%v: got error %v, want %v", test.Name, err, exec.ErrNotFound)
			}
			continue
		}
		if err != nil {
			t.Errorf("name=%v: unexpected error: %v", test.Name, err)
		}
	}
}

func TestLookEmptyPath(t *testing.T) {
	if _, err := lookpath.Look(map[string]string{}, "ip"); err == nil {
		t.Errorf("expected an error for an empty PATH")
	}
}

func TestEnv(t *testing.T) {
	t.Setenv("LOOKPATH_TEST_VAR", "a=b")
	if got, want := lookpath.Env()["LOOKPATH_TEST_VAR"], "a=b"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
