// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fuse

import (
	"errors"
	"syscall"

	"github.com/bureau-foundation/notesfs/lib/vfs"
)

var errnoTable = []struct {
	err   error
	errno syscall.Errno
}{
	{vfs.ErrNotFound, syscall.ENOENT},
	{vfs.ErrAlreadyExists, syscall.EEXIST},
	{vfs.ErrCapacityExceeded, syscall.ENOSPC},
	{vfs.ErrInvalidPath, syscall.EACCES},
	{vfs.ErrPermissionDenied, syscall.EACCES},
	{vfs.ErrIsDirectory, syscall.EISDIR},
	{vfs.ErrFileTooLarge, syscall.EFBIG},
}

// errnoFor maps an engine error to the errno returned to the kernel.
// A nil error maps to 0. Unrecognized errors map to EIO.
func errnoFor(err error) syscall.Errno {
	if err == nil {
		return 0
	}
	for _, mapping := range errnoTable {
		if errors.Is(err, mapping.err) {
			return mapping.errno
		}
	}
	return syscall.EIO
}
