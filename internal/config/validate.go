package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/vmunix/vidupe/internal/phash"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Frame side bounds for the decoder output.
const (
	minFrameSide = 8
	maxFrameSide = 1024
)

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Scan.Threshold < 0 || math.IsNaN(c.Scan.Threshold) || math.IsInf(c.Scan.Threshold, 0) {
		errs = append(errs, fmt.Sprintf("scan.threshold: must be a non-negative number, got %v", c.Scan.Threshold))
	}
	if c.Scan.Skip < 1 {
		errs = append(errs, fmt.Sprintf("scan.skip: must be at least 1, got %d", c.Scan.Skip))
	}
	if c.Scan.Workers < 1 {
		errs = append(errs, fmt.Sprintf("scan.workers: must be at least 1, got %d", c.Scan.Workers))
	}
	for _, ext := range c.Scan.Extensions {
		if strings.TrimPrefix(strings.TrimSpace(ext), ".") == "" {
			errs = append(errs, "scan.extensions: empty extension")
			break
		}
	}

	if _, err := phash.ParseAlgorithm(c.Hash.Algorithm); err != nil {
		errs = append(errs, fmt.Sprintf("hash.algorithm: must be one of phash, dhash, ahash; got %q", c.Hash.Algorithm))
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if c.FFmpeg.FrameSide != 0 && (c.FFmpeg.FrameSide < minFrameSide || c.FFmpeg.FrameSide > maxFrameSide) {
		errs = append(errs, fmt.Sprintf("ffmpeg.frame_side: must be between %d and %d, got %d", minFrameSide, maxFrameSide, c.FFmpeg.FrameSide))
	}

	return errs
}
