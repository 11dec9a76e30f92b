// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for notesfs.
//
// Configuration is loaded from a single file specified by either the
// NOTESFS_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no automatic file search. A binary given
// neither starts from [Default].
//
// The configuration file supports environment-specific sections
// (development, production) that override base values when
// [Config].Environment matches. An override changes only the fields
// it sets, booleans included. Production without a section of its
// own logs at warn.
//
// ${HOME} and ${VAR:-default} patterns in mount.mountpoint are
// expanded after loading. No environment variable overrides a config
// value.
//
// Example:
//
//	environment: development
//	log_level: info
//	mount:
//	  mountpoint: ${HOME}/notes
//	  allow_other: false
//	  entry_timeout: 1s
//	limits:
//	  max_entries: 100
//	  max_file_size: 1024
//	  max_log_size: 2048
//	secure:
//	  key: 0xAA
//	  write_mode: remask
//
// This package depends on no other notesfs packages.
package config
