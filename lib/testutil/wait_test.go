// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// recorder captures Fatalf calls without stopping the test.
type recorder struct {
	message string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...any) {
	r.message = fmt.Sprintf(format, args...)
}

func TestRequireWaitReturns(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	wg.Add(1)
	go wg.Done()

	var r recorder
	RequireWait(&r, wg.Wait, 10*time.Second, "done")
	if r.message != "" {
		t.Errorf("unexpected failure: %s", r.message)
	}
}

func TestRequireWaitTimesOut(t *testing.T) {
	t.Parallel()
	block := make(chan struct{})
	defer close(block)

	var r recorder
	RequireWait(&r, func() { <-block }, 10*time.Millisecond, "waiting for %s", "nothing")
	if !strings.Contains(r.message, "waiting for nothing") {
		t.Errorf("failure message = %q", r.message)
	}
}

func TestFormatMessage(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args []any
		want string
	}{
		{nil, "(no message)"},
		{[]any{"plain"}, "plain"},
		{[]any{42}, "42"},
		{[]any{"%d items", 3}, "3 items"},
	}
	for _, test := range tests {
		if got := formatMessage(test.args); got != test.want {
			t.Errorf("formatMessage(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}
