// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fuse

import (
	"context"
	"syscall"

	"github.com/bureau-foundation/notesfs/lib/vfs"
	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// newChild builds the inode for path from its attributes.
func newChild(ctx context.Context, parent *gofuse.Inode, filesystem *filesystem, path string, attributes vfs.Attributes) *gofuse.Inode {
	var node gofuse.InodeEmbedder
	if attributes.Kind.IsDir() {
		node = &dirNode{filesystem: filesystem, path: path}
	} else {
		node = &fileNode{filesystem: filesystem, path: path}
	}
	return parent.NewInode(ctx, node, gofuse.StableAttr{Mode: fileType(attributes.Kind)})
}

// dirNode is the root, /notes, or /secure.
type dirNode struct {
	gofuse.Inode
	filesystem *filesystem
	path       string
}

var _ gofuse.InodeEmbedder = (*dirNode)(nil)
var _ gofuse.NodeLookuper = (*dirNode)(nil)
var _ gofuse.NodeReaddirer = (*dirNode)(nil)
var _ gofuse.NodeCreater = (*dirNode)(nil)
var _ gofuse.NodeUnlinker = (*dirNode)(nil)
var _ gofuse.NodeGetattrer = (*dirNode)(nil)

func (d *dirNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*gofuse.Inode, syscall.Errno) {
	path := childPath(d.path, name)
	attributes, err := d.filesystem.engine.Attributes(path)
	if err != nil {
		return nil, d.filesystem.errno("lookup", path, err)
	}
	fillAttr(&out.Attr, attributes)
	return newChild(ctx, d.EmbeddedInode(), d.filesystem, path, attributes), 0
}

func (d *dirNode) Readdir(ctx context.Context) (gofuse.DirStream, syscall.Errno) {
	listing, err := d.filesystem.engine.ListDirectory(d.path)
	if err != nil {
		return nil, d.filesystem.errno("readdir", d.path, err)
	}
	entries := make([]fuse.DirEntry, 0, len(listing))
	for _, entry := range listing {
		mode := uint32(syscall.S_IFREG)
		if entry.IsDir {
			mode = syscall.S_IFDIR
		}
		entries = append(entries, fuse.DirEntry{Name: entry.Name, Mode: mode})
	}
	return gofuse.NewListDirStream(entries), 0
}

// Create adds an entry. The requested mode is ignored: entries are
// always 0666.
func (d *dirNode) Create(ctx context.Context, name string, _ uint32, _ uint32, out *fuse.EntryOut) (*gofuse.Inode, gofuse.FileHandle, uint32, syscall.Errno) {
	path := childPath(d.path, name)
	if err := d.filesystem.engine.Create(path); err != nil {
		return nil, nil, 0, d.filesystem.errno("create", path, err)
	}
	attributes, err := d.filesystem.engine.Attributes(path)
	if err != nil {
		return nil, nil, 0, d.filesystem.errno("create", path, err)
	}
	fillAttr(&out.Attr, attributes)
	child := newChild(ctx, d.EmbeddedInode(), d.filesystem, path, attributes)
	return child, nil, fuse.FOPEN_DIRECT_IO, 0
}

func (d *dirNode) Unlink(ctx context.Context, name string) syscall.Errno {
	path := childPath(d.path, name)
	if err := d.filesystem.engine.Delete(path); err != nil {
		return d.filesystem.errno("unlink", path, err)
	}
	return 0
}

func (d *dirNode) Getattr(ctx context.Context, f gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	attributes, err := d.filesystem.engine.Attributes(d.path)
	if err != nil {
		return d.filesystem.errno("getattr", d.path, err)
	}
	fillAttr(&out.Attr, attributes)
	return 0
}

// fileNode is a static file or an entry.
type fileNode struct {
	gofuse.Inode
	filesystem *filesystem
	path       string
}

var _ gofuse.InodeEmbedder = (*fileNode)(nil)
var _ gofuse.NodeGetattrer = (*fileNode)(nil)
var _ gofuse.NodeSetattrer = (*fileNode)(nil)
var _ gofuse.NodeOpener = (*fileNode)(nil)
var _ gofuse.NodeReader = (*fileNode)(nil)
var _ gofuse.NodeWriter = (*fileNode)(nil)

func (n *fileNode) Getattr(ctx context.Context, f gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	attributes, err := n.filesystem.engine.Attributes(n.path)
	if err != nil {
		return n.filesystem.errno("getattr", n.path, err)
	}
	fillAttr(&out.Attr, attributes)
	return 0
}

// Setattr handles truncation (O_TRUNC opens, truncate(2)). Mode,
// owner and timestamp changes are accepted and ignored.
func (n *fileNode) Setattr(ctx context.Context, f gofuse.FileHandle, in *fuse.SetAttrIn, out *fuse.AttrOut) syscall.Errno {
	if size, ok := in.GetSize(); ok {
		if err := n.filesystem.engine.Truncate(n.path, int64(size)); err != nil {
			return n.filesystem.errno("truncate", n.path, err)
		}
	}
	return n.Getattr(ctx, f, out)
}

// Open rejects write access to read-only files and records the open.
// No handle is returned; reads and writes go through the node.
func (n *fileNode) Open(ctx context.Context, flags uint32) (gofuse.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR) != 0 {
		attributes, err := n.filesystem.engine.Attributes(n.path)
		if err != nil {
			return nil, 0, n.filesystem.errno("open", n.path, err)
		}
		if attributes.Perm&0o222 == 0 {
			return nil, 0, syscall.EACCES
		}
	}
	if err := n.filesystem.engine.Open(n.path); err != nil {
		return nil, 0, n.filesystem.errno("open", n.path, err)
	}
	return nil, fuse.FOPEN_DIRECT_IO, 0
}

func (n *fileNode) Read(ctx context.Context, f gofuse.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	data, err := n.filesystem.engine.Read(n.path, off, len(dest))
	if err != nil {
		return nil, n.filesystem.errno("read", n.path, err)
	}
	return fuse.ReadResultData(data), 0
}

func (n *fileNode) Write(ctx context.Context, f gofuse.FileHandle, data []byte, off int64) (uint32, syscall.Errno) {
	written, err := n.filesystem.engine.Write(n.path, off, data)
	if err != nil {
		return 0, n.filesystem.errno("write", n.path, err)
	}
	return uint32(written), 0
}
