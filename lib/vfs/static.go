// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import "time"

// Paths of the fixed files in the root directory.
const (
	HelloPath = "/hello"
	InfoPath  = "/info.txt"
	TimePath  = "/time.txt"
	LogPath   = "/log.txt"
)

// TimeFileSize is the size reported for /time.txt. The content is
// rendered at read time, so this is an upper bound rather than the
// length a read returns.
const TimeFileSize = 64

var (
	helloContent = []byte("Hello FUSE World!\n")
	infoContent  = []byte("This is our FUSE project.\n")
)

// staticPaths is the root listing order of the fixed files.
var staticPaths = []string{HelloPath, InfoPath, TimePath, LogPath}

func isStaticPath(path string) bool {
	for _, static := range staticPaths {
		if path == static {
			return true
		}
	}
	return false
}

// renderTime produces the /time.txt content for now.
func renderTime(now time.Time) []byte {
	return []byte("Current time: " + now.Format(time.ANSIC) + "\n")
}

// staticSize returns the attribute size of a fixed file.
func (e *Engine) staticSize(path string) int64 {
	switch path {
	case HelloPath:
		return int64(len(helloContent))
	case InfoPath:
		return int64(len(infoContent))
	case TimePath:
		return TimeFileSize
	case LogPath:
		return int64(e.log.Len())
	}
	return 0
}

// staticContent returns the full content of a fixed file as of now.
// The constant files return shared slices; callers must not modify
// the result.
func (e *Engine) staticContent(path string) []byte {
	switch path {
	case HelloPath:
		return helloContent
	case InfoPath:
		return infoContent
	case TimePath:
		return renderTime(e.clock.Now())
	case LogPath:
		return e.log.Bytes()
	}
	return nil
}
