// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/vmunix/vidupe/internal/database"
	"github.com/vmunix/vidupe/internal/matcher"
	"github.com/vmunix/vidupe/internal/phash"
	"github.com/vmunix/vidupe/internal/sampler"
	"github.com/vmunix/vidupe/internal/scan"
)

// Config is the root configuration structure.
type Config struct {
	Scan     ScanConfig     `toml:"scan"`
	Hash     HashConfig     `toml:"hash"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	FFmpeg   FFmpegConfig   `toml:"ffmpeg"`
	Actions  ActionsConfig  `toml:"actions"`
}

type ScanConfig struct {
	Threshold  float64  `toml:"threshold"`
	Skip       int      `toml:"skip"`
	Workers    int      `toml:"workers"`
	Extensions []string `toml:"extensions"`
	Exclude    []string `toml:"exclude"`
}

type HashConfig struct {
	Algorithm string `toml:"algorithm"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type FFmpegConfig struct {
	FFmpegPath  string `toml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path"`
	FrameSide   int    `toml:"frame_side"`
}

type ActionsConfig struct {
	MoveDir string `toml:"move_dir"`
	DryRun  bool   `toml:"dry_run"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file and applies
// defaults. Unresolved environment variables are still an error.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Scan.Threshold == 0 {
		c.Scan.Threshold = matcher.DefaultThreshold
	}
	if c.Scan.Skip == 0 {
		c.Scan.Skip = sampler.DefaultSkip
	}
	if c.Scan.Workers == 0 {
		c.Scan.Workers = 1
	}
	if len(c.Scan.Extensions) == 0 {
		c.Scan.Extensions = append([]string(nil), scan.DefaultExtensions...)
	}
	if c.Hash.Algorithm == "" {
		c.Hash.Algorithm = string(phash.DefaultAlgorithm)
	}
	if c.Database.Path == "" {
		c.Database.Path = database.DefaultPath
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.FFmpeg.FFmpegPath == "" {
		c.FFmpeg.FFmpegPath = "ffmpeg"
	}
	if c.FFmpeg.FFprobePath == "" {
		c.FFmpeg.FFprobePath = "ffprobe"
	}
	if c.FFmpeg.FrameSide == 0 {
		c.FFmpeg.FrameSide = sampler.DefaultFrameSide
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment references in content. Unresolved
// references are left in place and reported in missing. Comment lines are
// copied unchanged.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = substituteLine(line, &missing)
	}
	return strings.Join(lines, "\n"), missing
}

func substituteLine(line string, missing *[]string) string {
	return envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				*missing = append(*missing, name+": "+strings.TrimSpace(arg))
				return match
			}
			return value
		}
		if !ok {
			*missing = append(*missing, name)
			return match
		}
		return value
	})
}
