// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	savedCommit, savedDirty, savedTime := GitCommit, GitDirty, BuildTime
	t.Cleanup(func() { GitCommit, GitDirty, BuildTime = savedCommit, savedDirty, savedTime })

	GitCommit, GitDirty, BuildTime = "abc1234", "false", "2026-01-01T00:00:00Z"
	if got, want := Info(), Version+" (abc1234, 2026-01-01T00:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}

	GitDirty = "true"
	if got := Info(); !strings.Contains(got, "abc1234-dirty") {
		t.Errorf("Info() = %q, want dirty marker", got)
	}
}

func TestFull(t *testing.T) {
	got := Full("notesfs")
	if !strings.HasPrefix(got, "notesfs "+Version) {
		t.Errorf("Full() = %q, want binary and version first", got)
	}
	if !strings.Contains(got, runtime.Version()) {
		t.Errorf("Full() = %q, missing Go version", got)
	}
}
