// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"fmt"
	"sync"

	"github.com/bureau-foundation/notesfs/lib/clock"
)

// Permission bits per file class.
const (
	DirPerm    = 0o755
	StaticPerm = 0o444
	EntryPerm  = 0o666
)

// Options configures an Engine.
type Options struct {
	// Limits holds the capacities. The zero value uses DefaultLimits.
	Limits Limits

	// Key is the /secure mask byte. Zero uses DefaultKey.
	Key byte

	// SecureWrite selects the /secure write behavior. Empty uses
	// SecureWriteRemask.
	SecureWrite SecureWriteMode

	// Clock stamps audit records and renders /time.txt. If nil,
	// defaults to clock.Real().
	Clock clock.Clock
}

// Attributes describes a path as a stat call would.
type Attributes struct {
	Kind Kind

	// Perm holds the permission bits (no file type bits).
	Perm uint32

	// Size is the byte size. For /time.txt this is TimeFileSize, not
	// the length a read returns.
	Size int64

	// Nlink is the link count.
	Nlink uint32
}

// DirEntry is one name in a directory listing.
type DirEntry struct {
	Name  string
	IsDir bool
}

// Engine is the virtual namespace: the entry store, the audit log,
// and the lock that guards both. Every method takes the lock for its
// whole duration; none of them block on I/O.
type Engine struct {
	mu    sync.Mutex
	clock clock.Clock
	store *Store
	log   *AuditLog
}

// New returns an Engine with an empty store and log.
func New(options Options) (*Engine, error) {
	if options.Limits == (Limits{}) {
		options.Limits = DefaultLimits()
	}
	if err := options.Limits.Validate(); err != nil {
		return nil, err
	}
	if options.Key == 0 {
		options.Key = DefaultKey
	}
	if options.SecureWrite == "" {
		options.SecureWrite = SecureWriteRemask
	}
	if err := options.SecureWrite.Validate(); err != nil {
		return nil, err
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}

	return &Engine{
		clock: options.Clock,
		store: NewStore(options.Limits, NewCipher(options.Key), options.SecureWrite),
		log:   NewAuditLog(options.Limits.MaxLogSize),
	}, nil
}

// Len returns the number of entries across both namespaces.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Len()
}

// LogSize returns the audit log length in bytes.
func (e *Engine) LogSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.Len()
}

// LogFrozen reports whether the audit log has stopped accepting
// records.
func (e *Engine) LogFrozen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.Frozen()
}

// audit appends a record. Must be called with e.mu held.
func (e *Engine) audit(action Action, path string) {
	e.log.Append(e.clock.Now(), action, path)
}

// Attributes stats path.
func (e *Engine) Attributes(path string) (Attributes, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	resolution := Classify(path)
	switch resolution.Kind {
	case KindRoot:
		return Attributes{Kind: KindRoot, Perm: DirPerm, Nlink: 2}, nil
	case KindStaticFile:
		return Attributes{Kind: KindStaticFile, Perm: StaticPerm, Size: e.staticSize(path), Nlink: 1}, nil
	case KindDynamicDir:
		// Counts every entry, not just this namespace's.
		return Attributes{Kind: KindDynamicDir, Perm: DirPerm, Nlink: uint32(2 + e.store.Len())}, nil
	case KindDynamicEntry:
		if entry := e.store.Find(path); entry != nil {
			return Attributes{Kind: KindDynamicEntry, Perm: EntryPerm, Size: int64(entry.Size()), Nlink: 1}, nil
		}
	}
	return Attributes{}, fmt.Errorf("stat %s: %w", path, ErrNotFound)
}

// ListDirectory returns the names in a directory, starting with "."
// and "..". Dynamic directories list entries in creation order.
func (e *Engine) ListDirectory(path string) ([]DirEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := []DirEntry{{Name: ".", IsDir: true}, {Name: "..", IsDir: true}}

	resolution := Classify(path)
	switch resolution.Kind {
	case KindRoot:
		for _, static := range staticPaths {
			entries = append(entries, DirEntry{Name: static[1:]})
		}
		for _, namespace := range Namespaces {
			entries = append(entries, DirEntry{Name: namespace.String(), IsDir: true})
		}
		return entries, nil
	case KindDynamicDir:
		for _, name := range e.store.List(resolution.Namespace) {
			entries = append(entries, DirEntry{Name: name})
		}
		return entries, nil
	}
	return nil, fmt.Errorf("readdir %s: %w", path, ErrNotFound)
}

// Open checks that path exists and records the open.
func (e *Engine) Open(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.existsLocked(path) {
		return fmt.Errorf("open %s: %w", path, ErrNotFound)
	}
	e.audit(ActionOpen, path)
	return nil
}

func (e *Engine) existsLocked(path string) bool {
	resolution := Classify(path)
	switch resolution.Kind {
	case KindRoot, KindStaticFile, KindDynamicDir:
		return true
	case KindDynamicEntry:
		return e.store.Find(path) != nil
	}
	return false
}

// Read returns up to length bytes of path starting at offset. An empty
// result at or past the end is not an error. Only reads that return
// data are audited.
func (e *Engine) Read(path string, offset int64, length int) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var data []byte
	resolution := Classify(path)
	switch resolution.Kind {
	case KindStaticFile:
		data = sliceRange(e.staticContent(path), offset, length)
	case KindDynamicEntry:
		var err error
		data, err = e.store.Read(path, offset, length)
		if err != nil {
			return nil, err
		}
	case KindRoot, KindDynamicDir:
		return nil, fmt.Errorf("read %s: %w", path, ErrIsDirectory)
	default:
		return nil, fmt.Errorf("read %s: %w", path, ErrNotFound)
	}

	if len(data) > 0 {
		e.audit(ActionRead, path)
	}
	return data, nil
}

// sliceRange copies content[offset:offset+length], clamped to the
// content length.
func sliceRange(content []byte, offset int64, length int) []byte {
	if offset < 0 || offset >= int64(len(content)) || length <= 0 {
		return []byte{}
	}
	start := int(offset)
	end := start + min(length, len(content)-start)
	out := make([]byte, end-start)
	copy(out, content[start:end])
	return out
}

// Write stores data at offset in the entry at path and returns the
// number of bytes accepted.
func (e *Engine) Write(path string, offset int64, data []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	resolution := Classify(path)
	switch resolution.Kind {
	case KindStaticFile:
		return 0, fmt.Errorf("write %s: %w", path, ErrPermissionDenied)
	case KindRoot, KindDynamicDir:
		return 0, fmt.Errorf("write %s: %w", path, ErrIsDirectory)
	case KindUnknown:
		return 0, fmt.Errorf("write %s: %w", path, ErrNotFound)
	}

	written, err := e.store.Write(path, offset, data)
	if err != nil {
		return 0, err
	}
	e.audit(ActionWrite, path)
	return written, nil
}

// Create adds an empty entry at path.
func (e *Engine) Create(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.store.Create(path); err != nil {
		return err
	}
	e.audit(ActionCreate, path)
	return nil
}

// Delete removes the entry at path.
func (e *Engine) Delete(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	resolution := Classify(path)
	switch resolution.Kind {
	case KindStaticFile:
		return fmt.Errorf("delete %s: %w", path, ErrPermissionDenied)
	case KindRoot, KindDynamicDir:
		return fmt.Errorf("delete %s: %w", path, ErrIsDirectory)
	case KindUnknown:
		return fmt.Errorf("delete %s: %w", path, ErrNotFound)
	}

	if err := e.store.Delete(path); err != nil {
		return err
	}
	e.audit(ActionDelete, path)
	return nil
}

// Truncate resizes the entry at path. Not audited.
func (e *Engine) Truncate(path string, size int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	resolution := Classify(path)
	switch resolution.Kind {
	case KindStaticFile:
		return fmt.Errorf("truncate %s: %w", path, ErrPermissionDenied)
	case KindRoot, KindDynamicDir:
		return fmt.Errorf("truncate %s: %w", path, ErrIsDirectory)
	case KindUnknown:
		return fmt.Errorf("truncate %s: %w", path, ErrNotFound)
	}
	return e.store.Truncate(path, size)
}
