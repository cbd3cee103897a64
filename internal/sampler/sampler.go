// Package sampler decodes keyframes out of video files.
package sampler

//go:generate mockgen -destination=mocks/mock_source.go -package=mocks . FrameSource,Frames

import (
	"context"
	"image"
	"time"
)

// DefaultSkip is the number of frames between two samples.
const DefaultSkip = 30

// Frames is a finite, forward-only sequence of decoded frames.
// Next returns io.EOF once the stream is exhausted.
type Frames interface {
	Next() (image.Image, error)
	Close() error
}

// FrameSource opens a video and samples frames 0, skip, 2*skip, ...
type FrameSource interface {
	Open(ctx context.Context, path string, skip int) (Frames, error)
}

// Info describes the primary video stream of a file.
type Info struct {
	Codec      string
	Width      int
	Height     int
	FrameCount int64 // 0 when the container does not report it
	Duration   time.Duration
}

// Prober reads stream metadata without decoding.
type Prober interface {
	Probe(ctx context.Context, path string) (Info, error)
}
