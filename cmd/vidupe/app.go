package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/vidupe/internal/config"
	"github.com/vmunix/vidupe/internal/database"
	"github.com/vmunix/vidupe/internal/sampler"
)

// videoSampler is the decoder used by scans and the interactive prompt.
type videoSampler interface {
	sampler.FrameSource
	sampler.Prober
	Available() error
}

// newSampler is replaced in tests.
var newSampler = func(cfg config.FFmpegConfig, log *slog.Logger) videoSampler {
	return sampler.NewFFmpeg(sampler.Config{
		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,
		FrameSide:   cfg.FrameSide,
	}, log)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}

// loadConfig reads the config file named by --config, or the discovered
// one, and applies command-line overrides. Without any file the built-in
// defaults are used.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadWithoutValidation(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &config.ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// resolveConfigPath returns --config, else the discovered file, else "".
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	p, err := config.Discover()
	if errors.Is(err, config.ErrNotFound) {
		return "", nil
	}
	return p, err
}

// applyFlags copies explicitly set flags over config values.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database.Path = dbPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("threshold") {
		cfg.Scan.Threshold = scanOpts.threshold
	}
	if flags.Changed("skip") {
		cfg.Scan.Skip = scanOpts.skip
	}
	if flags.Changed("workers") {
		cfg.Scan.Workers = scanOpts.workers
	}
	if flags.Changed("ext") {
		cfg.Scan.Extensions = scanOpts.extensions
	}
	if flags.Changed("exclude") {
		cfg.Scan.Exclude = append(cfg.Scan.Exclude, scanOpts.exclude...)
	}
	if flags.Changed("algorithm") {
		cfg.Hash.Algorithm = scanOpts.algorithm
	}
	if flags.Changed("move") {
		if scanOpts.moveDir == "" {
			return fmt.Errorf("--move requires a folder")
		}
		cfg.Actions.MoveDir = scanOpts.moveDir
	}
	if flags.Changed("dry-run") {
		cfg.Actions.DryRun = scanOpts.dryRun
	}
	return nil
}

func openCache(cfg *config.Config) (*sql.DB, error) {
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", cfg.Database.Path, err)
	}
	return db, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
