// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"fmt"
	"time"
)

// DefaultAuditLogSize is the audit log capacity in bytes.
const DefaultAuditLogSize = 2048

// Action names an audited filesystem operation.
type Action string

const (
	ActionOpen   Action = "OPEN"
	ActionRead   Action = "READ"
	ActionWrite  Action = "WRITE"
	ActionCreate Action = "CREATE"
	ActionDelete Action = "DELETE"
)

// FormatRecord renders one audit line:
//
//	[Mon Jan  2 15:04:05 2006] WRITE -> /notes/a.txt
//
// The timestamp is ctime-style with seconds resolution.
func FormatRecord(at time.Time, action Action, path string) string {
	return fmt.Sprintf("[%s] %s -> %s\n", at.Format(time.ANSIC), action, path)
}

// AuditLog is an append-only byte buffer with a hard capacity. Unlike
// a ring buffer it never overwrites: the first record that does not
// fit freezes the log, and that record and every later one are
// dropped. The retained content is therefore always a prefix of the
// full history.
//
// AuditLog is not safe for concurrent use. Engine serializes access
// under its own lock.
type AuditLog struct {
	data     []byte
	capacity int
	frozen   bool
}

// NewAuditLog returns an empty log holding at most capacity bytes.
func NewAuditLog(capacity int) *AuditLog {
	return &AuditLog{
		data:     make([]byte, 0, capacity),
		capacity: capacity,
	}
}

// Append records action on path at the given time. It reports whether
// the record was kept. A record is kept only while one byte of
// headroom remains after it.
func (l *AuditLog) Append(at time.Time, action Action, path string) bool {
	if l.frozen {
		return false
	}
	record := FormatRecord(at, action, path)
	if len(l.data)+len(record) >= l.capacity {
		l.frozen = true
		return false
	}
	l.data = append(l.data, record...)
	return true
}

// Bytes returns a copy of the accumulated log.
func (l *AuditLog) Bytes() []byte {
	out := make([]byte, len(l.data))
	copy(out, l.data)
	return out
}

// Len returns the number of bytes held.
func (l *AuditLog) Len() int {
	return len(l.data)
}

// Frozen reports whether a record has been dropped for lack of space.
func (l *AuditLog) Frozen() bool {
	return l.frozen
}
