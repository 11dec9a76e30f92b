// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fuse mounts a [vfs.Engine] as a FUSE filesystem.
//
// Every node carries the absolute path it was looked up under and
// forwards each kernel request to the engine with that path. The
// engine does all the work; this package only translates attributes,
// directory listings, and errors.
//
// Opens set FOPEN_DIRECT_IO. /time.txt reports a fixed size that is
// larger than what a read returns, and /log.txt grows while open, so
// the kernel page cache would serve stale or truncated content.
//
// Errors map to errno values as follows:
//
//	ErrNotFound          ENOENT
//	ErrAlreadyExists     EEXIST
//	ErrCapacityExceeded  ENOSPC
//	ErrInvalidPath       EACCES
//	ErrPermissionDenied  EACCES
//	ErrIsDirectory       EISDIR
//	ErrFileTooLarge      EFBIG
//
// Anything else is logged and reported as EIO.
package fuse
