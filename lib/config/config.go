// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local use and testing.
	Development Environment = "development"
	// Production is for long-running mounts.
	Production Environment = "production"
)

// Secure write modes accepted by secure.write_mode.
const (
	SecureWriteRemask    = "remask"
	SecureWriteReencrypt = "reencrypt"
)

// Config is the notesfs configuration.
type Config struct {
	// Environment identifies the deployment type (development, production).
	Environment Environment `yaml:"environment"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Mount configures the FUSE mount.
	Mount MountConfig `yaml:"mount"`

	// Limits configures the engine capacities.
	Limits LimitsConfig `yaml:"limits"`

	// Secure configures the /secure namespace.
	Secure SecureConfig `yaml:"secure"`

	// Per-environment overrides, applied after the base config is
	// loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	LogLevel string          `yaml:"log_level,omitempty"`
	Mount    *MountOverrides `yaml:"mount,omitempty"`
	Secure   *SecureConfig   `yaml:"secure,omitempty"`
}

// MountOverrides mirrors MountConfig with pointer booleans, so an
// override section only changes the flags it names.
type MountOverrides struct {
	Mountpoint      string `yaml:"mountpoint,omitempty"`
	FsName          string `yaml:"fs_name,omitempty"`
	AllowOther      *bool  `yaml:"allow_other,omitempty"`
	Debug           *bool  `yaml:"debug,omitempty"`
	EntryTimeout    string `yaml:"entry_timeout,omitempty"`
	AttrTimeout     string `yaml:"attr_timeout,omitempty"`
	NegativeTimeout string `yaml:"negative_timeout,omitempty"`
}

// MountConfig configures the FUSE mount.
type MountConfig struct {
	// Mountpoint is the directory to mount on. Usually given on the
	// command line instead.
	Mountpoint string `yaml:"mountpoint"`

	// FsName is the source column in /proc/mounts.
	// Default: notesfs
	FsName string `yaml:"fs_name"`

	// AllowOther permits other users to access the mount. Requires
	// user_allow_other in /etc/fuse.conf.
	AllowOther bool `yaml:"allow_other"`

	// Debug logs every FUSE request.
	Debug bool `yaml:"debug"`

	// Kernel cache timeouts, as Go durations.
	// Default: 1s, 1s, 100ms
	EntryTimeout    string `yaml:"entry_timeout"`
	AttrTimeout     string `yaml:"attr_timeout"`
	NegativeTimeout string `yaml:"negative_timeout"`
}

// LimitsConfig configures the engine capacities.
type LimitsConfig struct {
	// MaxEntries bounds the number of entries across /notes and /secure.
	// Default: 100
	MaxEntries int `yaml:"max_entries"`

	// MaxFileSize is the capacity of each entry in bytes.
	// Default: 1024
	MaxFileSize int `yaml:"max_file_size"`

	// MaxLogSize is the audit log capacity in bytes.
	// Default: 2048
	MaxLogSize int `yaml:"max_log_size"`

	// MaxNameLength is the longest entry name in bytes.
	// Default: 63
	MaxNameLength int `yaml:"max_name_length"`
}

// SecureConfig configures the /secure namespace.
type SecureConfig struct {
	// Key is the mask byte, 1 through 255. YAML accepts hex (0xAA).
	// Default: 0xAA
	Key int `yaml:"key"`

	// WriteMode is "remask" or "reencrypt".
	// Default: remask
	WriteMode string `yaml:"write_mode"`
}

// Default returns the default configuration. Every field has a usable
// value except Mount.Mountpoint, which the command line usually
// supplies.
func Default() *Config {
	return &Config{
		Environment: Development,
		LogLevel:    "info",
		Mount: MountConfig{
			FsName:          "notesfs",
			EntryTimeout:    "1s",
			AttrTimeout:     "1s",
			NegativeTimeout: "100ms",
		},
		Limits: LimitsConfig{
			MaxEntries:    100,
			MaxFileSize:   1024,
			MaxLogSize:    2048,
			MaxNameLength: 63,
		},
		Secure: SecureConfig{
			Key:       0xAA,
			WriteMode: SecureWriteRemask,
		},
	}
}

// Load loads configuration from the NOTESFS_CONFIG environment
// variable. It fails if the variable is not set.
func Load() (*Config, error) {
	configPath := os.Getenv("NOTESFS_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("NOTESFS_CONFIG environment variable not set; " +
			"set it to the path of your notesfs.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Values in
// the file replace the defaults; the environment section matching
// Environment is applied on top, then ${VAR} references in
// Mount.Mountpoint are expanded.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
		// Production defaults: quieter logs.
		if overrides == nil {
			overrides = &ConfigOverrides{LogLevel: "warn"}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.LogLevel != "" {
		c.LogLevel = overrides.LogLevel
	}

	if overrides.Mount != nil {
		if overrides.Mount.Mountpoint != "" {
			c.Mount.Mountpoint = overrides.Mount.Mountpoint
		}
		if overrides.Mount.FsName != "" {
			c.Mount.FsName = overrides.Mount.FsName
		}
		if overrides.Mount.AllowOther != nil {
			c.Mount.AllowOther = *overrides.Mount.AllowOther
		}
		if overrides.Mount.Debug != nil {
			c.Mount.Debug = *overrides.Mount.Debug
		}
		if overrides.Mount.EntryTimeout != "" {
			c.Mount.EntryTimeout = overrides.Mount.EntryTimeout
		}
		if overrides.Mount.AttrTimeout != "" {
			c.Mount.AttrTimeout = overrides.Mount.AttrTimeout
		}
		if overrides.Mount.NegativeTimeout != "" {
			c.Mount.NegativeTimeout = overrides.Mount.NegativeTimeout
		}
	}

	if overrides.Secure != nil {
		if overrides.Secure.Key != 0 {
			c.Secure.Key = overrides.Secure.Key
		}
		if overrides.Secure.WriteMode != "" {
			c.Secure.WriteMode = overrides.Secure.WriteMode
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Mount.Mountpoint = expandVars(c.Mount.Mountpoint, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if c.Mount.Mountpoint == "" {
		errs = append(errs, fmt.Errorf("mount.mountpoint is required"))
	}
	for name, value := range map[string]string{
		"mount.entry_timeout":    c.Mount.EntryTimeout,
		"mount.attr_timeout":     c.Mount.AttrTimeout,
		"mount.negative_timeout": c.Mount.NegativeTimeout,
	} {
		if _, err := parseTimeout(name, value); err != nil {
			errs = append(errs, err)
		}
	}

	for name, value := range map[string]int{
		"limits.max_entries":     c.Limits.MaxEntries,
		"limits.max_file_size":   c.Limits.MaxFileSize,
		"limits.max_log_size":    c.Limits.MaxLogSize,
		"limits.max_name_length": c.Limits.MaxNameLength,
	} {
		if value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, value))
		}
	}

	if c.Secure.Key < 1 || c.Secure.Key > 255 {
		errs = append(errs, fmt.Errorf("secure.key must be between 1 and 255, got %d", c.Secure.Key))
	}
	if c.Secure.WriteMode != SecureWriteRemask && c.Secure.WriteMode != SecureWriteReencrypt {
		errs = append(errs, fmt.Errorf("secure.write_mode must be one of: %v",
			[]string{SecureWriteRemask, SecureWriteReencrypt}))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Timeouts parses the mount cache timeouts. Call Validate first to
// report every bad value at once.
func (m MountConfig) Timeouts() (entry, attr, negative time.Duration, err error) {
	if entry, err = parseTimeout("mount.entry_timeout", m.EntryTimeout); err != nil {
		return 0, 0, 0, err
	}
	if attr, err = parseTimeout("mount.attr_timeout", m.AttrTimeout); err != nil {
		return 0, 0, 0, err
	}
	if negative, err = parseTimeout("mount.negative_timeout", m.NegativeTimeout); err != nil {
		return 0, 0, 0, err
	}
	return entry, attr, negative, nil
}

// parseTimeout parses a non-negative duration. Empty means zero,
// which the mount replaces with its default.
func parseTimeout(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if duration < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", name, value)
	}
	return duration, nil
}
