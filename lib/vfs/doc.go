// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package vfs implements the namespace engine behind the notesfs FUSE
// mount: path classification, the bounded entry store, the /secure
// content mask, and the audit log.
//
// The tree it serves:
//
//	/
//	├── hello       constant greeting
//	├── info.txt    constant blurb
//	├── time.txt    "Current time: ..." rendered per read
//	├── log.txt     the audit log
//	├── notes/      user entries, stored as written
//	└── secure/     user entries, stored XOR-masked
//
// # Engine
//
// [Engine] owns the [Store] and the [AuditLog] and guards both with one
// mutex. Its methods mirror filesystem verbs (Attributes, ListDirectory,
// Open, Read, Write, Create, Delete, Truncate) and take absolute paths.
// Failures wrap the sentinel errors in errors.go; the FUSE layer maps
// them to errno values.
//
// # Capacities
//
// [Limits] bounds the store (100 entries), each entry (1024 bytes), the
// audit log (2048 bytes), and entry names (63 bytes). Creating past the
// entry limit fails with [ErrCapacityExceeded]. Writes are clamped to
// the entry capacity. The audit log is the one place overflow is
// silent: the first record that does not fit freezes it.
//
// # /secure writes
//
// By default ([SecureWriteRemask]) a write copies plaintext over the
// stored masked bytes and then masks the whole buffer again, so bytes
// written earlier come back garbled after a second write. Set
// [SecureWriteReencrypt] to unmask, modify, and remask instead.
package vfs
