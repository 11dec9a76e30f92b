// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import "errors"

// Sentinel errors returned by the engine. Callers match them with
// errors.Is; the returned errors wrap them with the offending path.
var (
	// ErrNotFound means the path does not resolve to a root, static
	// file, dynamic directory, or existing entry.
	ErrNotFound = errors.New("no such file or directory")

	// ErrAlreadyExists is returned by Create when an entry with the
	// same derived path is already stored.
	ErrAlreadyExists = errors.New("file exists")

	// ErrCapacityExceeded is returned by Create when the store holds
	// Limits.MaxEntries entries.
	ErrCapacityExceeded = errors.New("entry store is full")

	// ErrInvalidPath is returned by Create when the destination is not
	// a single name directly under /notes or /secure, or the name is
	// too long.
	ErrInvalidPath = errors.New("invalid path for new entry")

	// ErrPermissionDenied is returned for mutations of read-only
	// static files.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory is returned when a file operation targets one of
	// the directories.
	ErrIsDirectory = errors.New("is a directory")

	// ErrFileTooLarge is returned when a write starts at or past the
	// per-entry capacity, or a truncate asks for more than it.
	ErrFileTooLarge = errors.New("file too large")
)
