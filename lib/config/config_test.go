// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "notesfs.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return configPath
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}
	if cfg.Limits.MaxEntries != 100 || cfg.Limits.MaxFileSize != 1024 || cfg.Limits.MaxLogSize != 2048 {
		t.Errorf("unexpected default limits: %+v", cfg.Limits)
	}
	if cfg.Secure.Key != 0xAA {
		t.Errorf("expected key=0xAA, got %#x", cfg.Secure.Key)
	}
	if cfg.Secure.WriteMode != SecureWriteRemask {
		t.Errorf("expected write_mode=remask, got %s", cfg.Secure.WriteMode)
	}

	// Only the mountpoint is missing.
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected Validate to require a mountpoint")
	}
	if !strings.Contains(err.Error(), "mount.mountpoint is required") {
		t.Errorf("unexpected error: %v", err)
	}
	cfg.Mount.Mountpoint = "/mnt/notes"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate with mountpoint: %v", err)
	}
}

func TestLoad_RequiresNotesfsConfig(t *testing.T) {
	t.Setenv("NOTESFS_CONFIG", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when NOTESFS_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "NOTESFS_CONFIG environment variable not set") {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestLoad_WithNotesfsConfig(t *testing.T) {
	configPath := writeConfig(t, `
mount:
  mountpoint: /test/mount
`)
	t.Setenv("NOTESFS_CONFIG", configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Mount.Mountpoint != "/test/mount" {
		t.Errorf("expected mountpoint=/test/mount, got %s", cfg.Mount.Mountpoint)
	}
}

func TestLoadFile(t *testing.T) {
	configPath := writeConfig(t, `
log_level: debug

mount:
  mountpoint: /custom/mount
  fs_name: scratch
  allow_other: true
  entry_timeout: 5s

limits:
  max_entries: 10
  max_file_size: 4096

secure:
  key: 0x5A
  write_mode: reencrypt
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Mount.Mountpoint != "/custom/mount" {
		t.Errorf("expected mountpoint=/custom/mount, got %s", cfg.Mount.Mountpoint)
	}
	if cfg.Mount.FsName != "scratch" {
		t.Errorf("expected fs_name=scratch, got %s", cfg.Mount.FsName)
	}
	if !cfg.Mount.AllowOther {
		t.Error("expected allow_other=true")
	}
	if cfg.Limits.MaxEntries != 10 || cfg.Limits.MaxFileSize != 4096 {
		t.Errorf("unexpected limits: %+v", cfg.Limits)
	}
	// Unset fields keep their defaults.
	if cfg.Limits.MaxLogSize != 2048 {
		t.Errorf("expected max_log_size default 2048, got %d", cfg.Limits.MaxLogSize)
	}
	if cfg.Mount.AttrTimeout != "1s" {
		t.Errorf("expected attr_timeout default 1s, got %s", cfg.Mount.AttrTimeout)
	}
	if cfg.Secure.Key != 0x5A {
		t.Errorf("expected key=0x5A, got %#x", cfg.Secure.Key)
	}
	if cfg.Secure.WriteMode != SecureWriteReencrypt {
		t.Errorf("expected write_mode=reencrypt, got %s", cfg.Secure.WriteMode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	configPath := writeConfig(t, "limits: [not, a, map]\n")
	if _, err := LoadFile(configPath); err == nil {
		t.Error("expected parse error, got nil")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	configPath := writeConfig(t, `
environment: development
mount:
  mountpoint: /base/mount
development:
  log_level: debug
  mount:
    mountpoint: /dev/override
    debug: true
  secure:
    write_mode: reencrypt
production:
  log_level: error
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log_level=debug, got %s", cfg.LogLevel)
	}
	if cfg.Mount.Mountpoint != "/dev/override" {
		t.Errorf("expected mountpoint=/dev/override, got %s", cfg.Mount.Mountpoint)
	}
	if !cfg.Mount.Debug {
		t.Error("expected debug=true")
	}
	if cfg.Secure.WriteMode != SecureWriteReencrypt {
		t.Errorf("expected write_mode=reencrypt, got %s", cfg.Secure.WriteMode)
	}
	// Override sections never clobber unrelated fields.
	if cfg.Secure.Key != 0xAA {
		t.Errorf("expected key=0xAA, got %#x", cfg.Secure.Key)
	}
}

func TestEnvironmentOverrides_UnsetBooleansKeepBase(t *testing.T) {
	configPath := writeConfig(t, `
environment: production
mount:
  mountpoint: /srv/notes
  allow_other: true
  debug: true
production:
  mount:
    fs_name: prodnotes
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Mount.FsName != "prodnotes" {
		t.Errorf("expected fs_name=prodnotes, got %s", cfg.Mount.FsName)
	}
	if !cfg.Mount.AllowOther {
		t.Error("override without allow_other reset allow_other to false")
	}
	if !cfg.Mount.Debug {
		t.Error("override without debug reset debug to false")
	}
}

func TestEnvironmentOverrides_ExplicitFalse(t *testing.T) {
	configPath := writeConfig(t, `
environment: production
mount:
  mountpoint: /srv/notes
  allow_other: true
production:
  mount:
    allow_other: false
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Mount.AllowOther {
		t.Error("expected allow_other=false from production override")
	}
}

func TestProductionDefaults(t *testing.T) {
	configPath := writeConfig(t, `
environment: production
mount:
  mountpoint: /srv/notes
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected production log_level=warn, got %s", cfg.LogLevel)
	}
}

func TestExpandVariables(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	configPath := writeConfig(t, `
mount:
  mountpoint: ${HOME}/notes
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Mount.Mountpoint != "/home/tester/notes" {
		t.Errorf("expected mountpoint=/home/tester/notes, got %s", cfg.Mount.Mountpoint)
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("NOTESFS_TEST_VAR", "from-env")
	vars := map[string]string{"HOME": "/home/tester"}

	tests := []struct {
		input, want string
	}{
		{"${HOME}/x", "/home/tester/x"},
		{"${NOTESFS_TEST_VAR}", "from-env"},
		{"${NOTESFS_TEST_UNSET:-fallback}", "fallback"},
		{"${NOTESFS_TEST_UNSET}", ""},
		{"/plain/path", "/plain/path"},
	}
	for _, test := range tests {
		if got := expandVars(test.input, vars); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Environment = "staging"
	cfg.LogLevel = "loud"
	cfg.Mount.Mountpoint = "/mnt"
	cfg.Mount.EntryTimeout = "soon"
	cfg.Mount.NegativeTimeout = "-1s"
	cfg.Limits.MaxEntries = 0
	cfg.Secure.Key = 256
	cfg.Secure.WriteMode = "rot13"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors, got nil")
	}
	for _, want := range []string{
		"invalid environment: staging",
		"log_level",
		"mount.entry_timeout",
		"mount.negative_timeout must not be negative",
		"limits.max_entries must be positive",
		"secure.key must be between 1 and 255",
		"secure.write_mode must be one of",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q:\n%v", want, err)
		}
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
	}
	for _, test := range tests {
		cfg := Default()
		cfg.LogLevel = test.input
		got, err := cfg.SlogLevel()
		if err != nil {
			t.Errorf("SlogLevel(%q): %v", test.input, err)
			continue
		}
		if got != test.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", test.input, got, test.want)
		}
	}
}

func TestTimeouts(t *testing.T) {
	mount := MountConfig{EntryTimeout: "2s", AttrTimeout: "", NegativeTimeout: "250ms"}
	entry, attr, negative, err := mount.Timeouts()
	if err != nil {
		t.Fatalf("Timeouts: %v", err)
	}
	if entry != 2*time.Second || attr != 0 || negative != 250*time.Millisecond {
		t.Errorf("Timeouts = %v, %v, %v", entry, attr, negative)
	}

	mount.AttrTimeout = "forever"
	if _, _, _, err := mount.Timeouts(); err == nil {
		t.Error("expected error for unparseable attr_timeout")
	}
}
