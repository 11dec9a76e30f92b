// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fuse

import (
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/bureau-foundation/notesfs/lib/vfs"
	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"golang.org/x/sys/unix"
)

// Default kernel cache timeouts.
const (
	DefaultEntryTimeout    = 1 * time.Second
	DefaultAttrTimeout     = 1 * time.Second
	DefaultNegativeTimeout = 100 * time.Millisecond
)

// DefaultFsName is the filesystem name shown in /proc/mounts.
const DefaultFsName = "notesfs"

// Options configures the FUSE mount.
type Options struct {
	// Mountpoint is the directory where the filesystem is mounted.
	Mountpoint string

	// Engine serves every request.
	Engine *vfs.Engine

	// FsName is the source column in /proc/mounts. Empty uses
	// DefaultFsName.
	FsName string

	// AllowOther permits other users (including root) to access
	// the mount. Requires user_allow_other in /etc/fuse.conf.
	AllowOther bool

	// Debug logs every FUSE request and reply to stderr.
	Debug bool

	// EntryTimeout, AttrTimeout and NegativeTimeout control how long
	// the kernel caches lookups, attributes and failed lookups. Zero
	// uses the defaults above. Attribute caching only affects stat;
	// reads always reach the engine.
	EntryTimeout    time.Duration
	AttrTimeout     time.Duration
	NegativeTimeout time.Duration

	// Logger receives diagnostic messages. If nil, errors go to
	// stderr.
	Logger *slog.Logger
}

// Mount mounts the engine at the configured mountpoint. The caller
// must call Unmount on the returned Server when done. The mountpoint
// directory is created if it does not exist.
func Mount(options Options) (*fuse.Server, error) {
	if options.Mountpoint == "" {
		return nil, fmt.Errorf("mountpoint is required")
	}
	if options.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}

	if options.FsName == "" {
		options.FsName = DefaultFsName
	}
	if options.EntryTimeout == 0 {
		options.EntryTimeout = DefaultEntryTimeout
	}
	if options.AttrTimeout == 0 {
		options.AttrTimeout = DefaultAttrTimeout
	}
	if options.NegativeTimeout == 0 {
		options.NegativeTimeout = DefaultNegativeTimeout
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
	}

	if err := os.MkdirAll(options.Mountpoint, 0o755); err != nil {
		return nil, fmt.Errorf("creating mountpoint %s: %w", options.Mountpoint, err)
	}
	// fusermount reports a missing write permission as a bare
	// "exit status 1"; check up front for a readable error.
	if err := unix.Access(options.Mountpoint, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return nil, fmt.Errorf("mountpoint %s is not accessible: %w", options.Mountpoint, err)
	}

	filesystem := &filesystem{engine: options.Engine, logger: options.Logger}
	root := &dirNode{filesystem: filesystem, path: "/"}

	server, err := gofuse.Mount(options.Mountpoint, root, &gofuse.Options{
		EntryTimeout:    &options.EntryTimeout,
		AttrTimeout:     &options.AttrTimeout,
		NegativeTimeout: &options.NegativeTimeout,
		MountOptions: fuse.MountOptions{
			FsName:     options.FsName,
			Name:       "notesfs",
			AllowOther: options.AllowOther,
			Debug:      options.Debug,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mounting FUSE filesystem at %s: %w", options.Mountpoint, err)
	}

	options.Logger.Info("notesfs mounted", "mountpoint", options.Mountpoint)
	return server, nil
}

// filesystem is the state shared by every node.
type filesystem struct {
	engine *vfs.Engine
	logger *slog.Logger
}

// errno maps err and logs it when it does not correspond to one of
// the engine's error kinds.
func (f *filesystem) errno(operation, path string, err error) syscall.Errno {
	errno := errnoFor(err)
	if errno == syscall.EIO {
		f.logger.Error("unexpected engine error",
			"operation", operation,
			"path", path,
			"error", err,
		)
	}
	return errno
}

// childPath joins a directory path and an entry name.
func childPath(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}

// fileType returns the S_IFMT bits for a kind.
func fileType(kind vfs.Kind) uint32 {
	if kind.IsDir() {
		return syscall.S_IFDIR
	}
	return syscall.S_IFREG
}

func fillAttr(out *fuse.Attr, attributes vfs.Attributes) {
	out.Mode = fileType(attributes.Kind) | attributes.Perm
	out.Size = uint64(attributes.Size)
	out.Nlink = attributes.Nlink
	out.Blocks = (out.Size + 511) / 512
	out.Blksize = 4096
	out.Uid = uint32(os.Getuid())
	out.Gid = uint32(os.Getgid())
}
