// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/notesfs/lib/config"
	"github.com/bureau-foundation/notesfs/lib/version"
	"github.com/bureau-foundation/notesfs/lib/vfs"
	vfsfuse "github.com/bureau-foundation/notesfs/lib/vfs/fuse"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, done, err := loadConfig(os.Args[1:], os.Getenv, os.Stdout)
	if err != nil || done {
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	engine, err := vfs.New(engineOptions(cfg))
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	entryTimeout, attrTimeout, negativeTimeout, err := cfg.Mount.Timeouts()
	if err != nil {
		return err
	}

	server, err := vfsfuse.Mount(vfsfuse.Options{
		Mountpoint:      cfg.Mount.Mountpoint,
		Engine:          engine,
		FsName:          cfg.Mount.FsName,
		AllowOther:      cfg.Mount.AllowOther,
		Debug:           cfg.Mount.Debug,
		EntryTimeout:    entryTimeout,
		AttrTimeout:     attrTimeout,
		NegativeTimeout: negativeTimeout,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("mounting FUSE filesystem: %w", err)
	}

	logger.Info("notesfs running",
		"version", version.Info(),
		"mountpoint", cfg.Mount.Mountpoint,
		"max_entries", cfg.Limits.MaxEntries,
		"entry_capacity", humanize.IBytes(uint64(cfg.Limits.MaxFileSize)),
		"log_capacity", humanize.IBytes(uint64(cfg.Limits.MaxLogSize)),
		"secure_write_mode", cfg.Secure.WriteMode,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wait returns when the filesystem is unmounted from outside
	// (fusermount -u).
	unmounted := make(chan struct{})
	go func() {
		server.Wait()
		close(unmounted)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		if err := server.Unmount(); err != nil {
			return fmt.Errorf("unmounting %s: %w", cfg.Mount.Mountpoint, err)
		}
		<-unmounted
	case <-unmounted:
		logger.Info("filesystem unmounted externally")
	}

	logger.Info("notesfs stopped",
		"entries", engine.Len(),
		"log_size", humanize.IBytes(uint64(engine.LogSize())),
		"log_frozen", engine.LogFrozen(),
	)
	return nil
}

// loadConfig parses the command line, loads the config file it names
// (or NOTESFS_CONFIG, or the defaults), and applies flag overrides.
// done is true when --help or --version was handled.
func loadConfig(args []string, getenv func(string) string, stdout io.Writer) (cfg *config.Config, done bool, err error) {
	var (
		configPath      string
		mountpoint      string
		allowOther      bool
		debug           bool
		logLevel        string
		secureWriteMode string
		showVersion     bool
		showHelp        bool
	)

	flagSet := pflag.NewFlagSet("notesfs", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&configPath, "config", "", "path to notesfs.yaml (default: $NOTESFS_CONFIG, else built-in defaults)")
	flagSet.StringVarP(&mountpoint, "mountpoint", "m", "", "directory to mount on (or pass it as the only argument)")
	flagSet.BoolVar(&allowOther, "allow-other", false, "let other users access the mount (needs user_allow_other)")
	flagSet.BoolVarP(&debug, "debug", "d", false, "log every FUSE request")
	flagSet.StringVar(&logLevel, "log-level", "", "debug, info, warn, or error")
	flagSet.StringVar(&secureWriteMode, "secure-write-mode", "", "remask or reencrypt")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	flagSet.BoolVarP(&showHelp, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(stdout, flagSet)
			return nil, true, nil
		}
		return nil, false, err
	}

	if showVersion {
		fmt.Fprintln(stdout, version.Full("notesfs"))
		return nil, true, nil
	}
	if showHelp {
		printHelp(stdout, flagSet)
		return nil, true, nil
	}

	positional := flagSet.Args()
	if len(positional) > 1 {
		return nil, false, fmt.Errorf("unexpected argument: %s", positional[1])
	}
	if len(positional) == 1 {
		if flagSet.Changed("mountpoint") {
			return nil, false, fmt.Errorf("mountpoint given twice: --mountpoint %s and %s", mountpoint, positional[0])
		}
		mountpoint = positional[0]
	}

	switch {
	case configPath != "":
		cfg, err = config.LoadFile(configPath)
	case getenv("NOTESFS_CONFIG") != "":
		cfg, err = config.LoadFile(getenv("NOTESFS_CONFIG"))
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading config: %w", err)
	}

	if mountpoint != "" {
		cfg.Mount.Mountpoint = mountpoint
	}
	if flagSet.Changed("allow-other") {
		cfg.Mount.AllowOther = allowOther
	}
	if flagSet.Changed("debug") {
		cfg.Mount.Debug = debug
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if secureWriteMode != "" {
		cfg.Secure.WriteMode = secureWriteMode
	}

	if err := cfg.Validate(); err != nil {
		return nil, false, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, false, nil
}

// engineOptions converts a validated config to engine options.
func engineOptions(cfg *config.Config) vfs.Options {
	return vfs.Options{
		Limits: vfs.Limits{
			MaxEntries:    cfg.Limits.MaxEntries,
			MaxFileSize:   cfg.Limits.MaxFileSize,
			MaxLogSize:    cfg.Limits.MaxLogSize,
			MaxNameLength: cfg.Limits.MaxNameLength,
		},
		Key:         byte(cfg.Secure.Key),
		SecureWrite: vfs.SecureWriteMode(cfg.Secure.WriteMode),
	}
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `notesfs - in-memory notes filesystem over FUSE

USAGE
    notesfs [flags] <mountpoint>

The mount serves /hello, /info.txt, /time.txt and /log.txt (the audit
log), plus two writable directories: /notes stores files as written,
/secure stores them XOR-masked. Everything lives in memory and is lost
on unmount. Stop with Ctrl-C or fusermount -u.

FLAGS
%s
EXAMPLES
    notesfs ~/mnt/notes
    notesfs --config /etc/notesfs.yaml --secure-write-mode reencrypt
`, flagSet.FlagUsages())
}
