// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for notesfs packages.
//
// [RequireWait] bounds a blocking wait with a wall-clock timeout. It is
// the only place tests use real time; everything else runs on
// clock.Fake.
//
// Helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
