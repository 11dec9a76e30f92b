// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"fmt"
	"slices"
)

// Default capacities.
const (
	DefaultMaxEntries    = 100
	DefaultMaxFileSize   = 1024
	DefaultMaxNameLength = 63
)

// Limits holds the hard capacities of the engine.
type Limits struct {
	// MaxEntries bounds the number of entries across both namespaces.
	MaxEntries int

	// MaxFileSize is the content capacity of each entry in bytes.
	MaxFileSize int

	// MaxLogSize is the audit log capacity in bytes.
	MaxLogSize int

	// MaxNameLength is the longest entry name accepted, in bytes.
	MaxNameLength int
}

// DefaultLimits returns the standard capacities.
func DefaultLimits() Limits {
	return Limits{
		MaxEntries:    DefaultMaxEntries,
		MaxFileSize:   DefaultMaxFileSize,
		MaxLogSize:    DefaultAuditLogSize,
		MaxNameLength: DefaultMaxNameLength,
	}
}

// Validate rejects non-positive capacities.
func (l Limits) Validate() error {
	if l.MaxEntries <= 0 {
		return fmt.Errorf("max entries must be positive, got %d", l.MaxEntries)
	}
	if l.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", l.MaxFileSize)
	}
	if l.MaxLogSize <= 0 {
		return fmt.Errorf("max log size must be positive, got %d", l.MaxLogSize)
	}
	if l.MaxNameLength <= 0 {
		return fmt.Errorf("max name length must be positive, got %d", l.MaxNameLength)
	}
	return nil
}

// SecureWriteMode selects how writes to /secure entries treat the
// bytes already stored.
type SecureWriteMode string

const (
	// SecureWriteRemask copies the new plaintext over the stored
	// ciphertext and then masks the whole buffer again. Bytes outside
	// the written range are masked a second time and read back as
	// garbage. This is the long-standing behavior and the default;
	// only a single write per entry round-trips.
	SecureWriteRemask SecureWriteMode = "remask"

	// SecureWriteReencrypt unmasks the stored content, applies the
	// write to the plaintext, and masks the result. Every write
	// round-trips.
	SecureWriteReencrypt SecureWriteMode = "reencrypt"
)

// Validate rejects unknown modes.
func (m SecureWriteMode) Validate() error {
	switch m {
	case SecureWriteRemask, SecureWriteReencrypt:
		return nil
	}
	return fmt.Errorf("unknown secure write mode %q (want %q or %q)", m, SecureWriteRemask, SecureWriteReencrypt)
}

// Entry is a user-created file in /notes or /secure. Entries in the
// Secure namespace hold masked bytes in content.
type Entry struct {
	name      string
	namespace Namespace
	content   []byte
	size      int
}

// Name returns the entry name within its namespace.
func (e *Entry) Name() string { return e.name }

// Namespace returns the directory the entry lives in.
func (e *Entry) Namespace() Namespace { return e.namespace }

// Size returns the number of valid content bytes.
func (e *Entry) Size() int { return e.size }

// Path returns the derived absolute path.
func (e *Entry) Path() string { return e.namespace.EntryPath(e.name) }

// Store is the bounded, insertion-ordered collection of entries.
// Lookups are linear scans over derived paths, which is fine at the
// configured capacity. Deletion shifts later entries down so that
// directory listings keep creation order.
//
// Store is not safe for concurrent use. Engine serializes access.
type Store struct {
	entries     []*Entry
	limits      Limits
	cipher      Cipher
	secureWrite SecureWriteMode
}

// NewStore returns an empty store.
func NewStore(limits Limits, cipher Cipher, secureWrite SecureWriteMode) *Store {
	return &Store{
		entries:     make([]*Entry, 0, limits.MaxEntries),
		limits:      limits,
		cipher:      cipher,
		secureWrite: secureWrite,
	}
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Find returns the entry whose derived path equals path, or nil.
func (s *Store) Find(path string) *Entry {
	if index := s.indexOf(path); index >= 0 {
		return s.entries[index]
	}
	return nil
}

func (s *Store) indexOf(path string) int {
	for index, entry := range s.entries {
		if entry.Path() == path {
			return index
		}
	}
	return -1
}

// List returns the names of entries in namespace, in store order.
func (s *Store) List(namespace Namespace) []string {
	var names []string
	for _, entry := range s.entries {
		if entry.namespace == namespace {
			names = append(names, entry.name)
		}
	}
	return names
}

// Create appends a new empty entry at path. The path must be a single
// name directly under /notes or /secure. A full store is reported
// before any problem with the path.
func (s *Store) Create(path string) (*Entry, error) {
	if len(s.entries) >= s.limits.MaxEntries {
		return nil, fmt.Errorf("create %s: %d entries: %w", path, len(s.entries), ErrCapacityExceeded)
	}
	if s.indexOf(path) >= 0 {
		return nil, fmt.Errorf("create %s: %w", path, ErrAlreadyExists)
	}
	resolution := Classify(path)
	if resolution.Kind != KindDynamicEntry {
		return nil, fmt.Errorf("create %s: %w", path, ErrInvalidPath)
	}
	if len(resolution.Name) > s.limits.MaxNameLength {
		return nil, fmt.Errorf("create %s: name is %d bytes, limit %d: %w",
			path, len(resolution.Name), s.limits.MaxNameLength, ErrInvalidPath)
	}

	entry := &Entry{
		name:      resolution.Name,
		namespace: resolution.Namespace,
		content:   make([]byte, s.limits.MaxFileSize),
	}
	s.entries = append(s.entries, entry)
	return entry, nil
}

// Delete removes the entry at path. Later entries move down one slot.
func (s *Store) Delete(path string) error {
	index := s.indexOf(path)
	if index < 0 {
		return fmt.Errorf("delete %s: %w", path, ErrNotFound)
	}
	s.entries = slices.Delete(s.entries, index, index+1)
	return nil
}

// Read returns up to length plaintext bytes starting at offset. Reading
// at or past the end returns an empty slice and no error.
func (s *Store) Read(path string, offset int64, length int) ([]byte, error) {
	entry := s.Find(path)
	if entry == nil {
		return nil, fmt.Errorf("read %s: %w", path, ErrNotFound)
	}
	if offset < 0 || offset >= int64(entry.size) || length <= 0 {
		return []byte{}, nil
	}

	start := int(offset)
	end := start + min(length, entry.size-start)

	if entry.namespace == Secure {
		plaintext := s.cipher.Masked(entry.content[:entry.size])
		return plaintext[start:end], nil
	}

	out := make([]byte, end-start)
	copy(out, entry.content[start:end])
	return out, nil
}

// Write copies data into the entry at offset and returns the number of
// bytes accepted. Data past the entry capacity is dropped; a write that
// starts at or past the capacity fails with ErrFileTooLarge.
func (s *Store) Write(path string, offset int64, data []byte) (int, error) {
	entry := s.Find(path)
	if entry == nil {
		return 0, fmt.Errorf("write %s: %w", path, ErrNotFound)
	}
	if len(data) == 0 {
		return 0, nil
	}
	if offset < 0 || offset >= int64(s.limits.MaxFileSize) {
		return 0, fmt.Errorf("write %s at offset %d: %w", path, offset, ErrFileTooLarge)
	}

	start := int(offset)
	written := min(len(data), s.limits.MaxFileSize-start)
	newSize := max(entry.size, start+written)

	if entry.namespace == Secure && s.secureWrite == SecureWriteReencrypt {
		// Unmask in place. Bytes between the old size and the write
		// are zero and stay plaintext zero until remasked below.
		s.cipher.Apply(entry.content[:entry.size])
	}

	copy(entry.content[start:], data[:written])
	entry.size = newSize

	if entry.namespace == Secure {
		s.cipher.Apply(entry.content[:entry.size])
	}
	return written, nil
}

// Truncate sets the entry size. Shrinking zeroes the dropped tail;
// growing exposes zero bytes.
func (s *Store) Truncate(path string, size int64) error {
	entry := s.Find(path)
	if entry == nil {
		return fmt.Errorf("truncate %s: %w", path, ErrNotFound)
	}
	if size < 0 || size > int64(s.limits.MaxFileSize) {
		return fmt.Errorf("truncate %s to %d bytes: %w", path, size, ErrFileTooLarge)
	}

	newSize := int(size)
	if newSize < entry.size {
		clear(entry.content[newSize:entry.size])
	} else if newSize > entry.size && entry.namespace == Secure {
		// Stored bytes are masked, so plaintext zero is the key byte.
		for i := entry.size; i < newSize; i++ {
			entry.content[i] = s.cipher.Key()
		}
	}
	entry.size = newSize
	return nil
}
