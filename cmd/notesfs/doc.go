// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// notesfs mounts an in-memory notes filesystem over FUSE and serves it
// until interrupted or unmounted.
//
// Configuration comes from --config, else the NOTESFS_CONFIG file,
// else built-in defaults; flags override the file. The mountpoint is
// the positional argument or --mountpoint.
package main
