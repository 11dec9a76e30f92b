// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the wall clock for testability. Production code
// injects Real(); tests inject Fake() and move time explicitly.
//
// Code that stamps audit records or renders timestamps should take a
// Clock instead of calling time.Now directly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}
