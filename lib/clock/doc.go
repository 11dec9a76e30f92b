// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable wall clock.
//
// Production code accepts a [Clock] instead of calling time.Now. In
// production, [Real] provides the standard library behavior. In tests,
// [Fake] provides a clock that only moves when [FakeClock.Advance] or
// [FakeClock.Set] is called, so rendered timestamps are exact.
//
// # Wiring Pattern
//
// Add a Clock field to structs that need the time:
//
//	type Engine struct {
//	    clock clock.Clock
//	    // ...
//	}
//
// In production:
//
//	engine, err := vfs.New(vfs.Options{Clock: clock.Real()})
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	engine, err := vfs.New(vfs.Options{Clock: c})
//	c.Advance(5 * time.Second)
package clock
