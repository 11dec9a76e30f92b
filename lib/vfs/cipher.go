// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

// DefaultKey is the mask byte applied to /secure content when no key
// is configured.
const DefaultKey byte = 0xAA

// Cipher is a single-byte XOR mask. Applying it twice restores the
// input, so the same call encodes and decodes. It hides content from a
// casual glance at memory and offers no confidentiality.
type Cipher struct {
	key byte
}

// NewCipher returns a Cipher that masks with key.
func NewCipher(key byte) Cipher {
	return Cipher{key: key}
}

// Key returns the mask byte.
func (c Cipher) Key() byte {
	return c.key
}

// Apply masks data in place.
func (c Cipher) Apply(data []byte) {
	for i := range data {
		data[i] ^= c.key
	}
}

// Masked returns a masked copy of data, leaving data untouched.
func (c Cipher) Masked(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ c.key
	}
	return out
}
