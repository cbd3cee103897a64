package sampler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultFrameSide is the square size frames are scaled to by the decoder.
const DefaultFrameSide = 64

// maxDetail bounds the decoder output kept for error messages.
const maxDetail = 512

// Config configures the ffmpeg-backed sampler.
type Config struct {
	FFmpegPath  string
	FFprobePath string
	FrameSide   int
}

// FFmpeg samples frames by running ffmpeg and reading raw rgb24 frames from
// its stdout. It also implements Prober via ffprobe.
type FFmpeg struct {
	ffmpeg  string
	ffprobe string
	side    int
	log     *slog.Logger
}

// NewFFmpeg creates a sampler. Empty config fields fall back to "ffmpeg",
// "ffprobe" on PATH and DefaultFrameSide.
func NewFFmpeg(cfg Config, log *slog.Logger) *FFmpeg {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	if cfg.FrameSide <= 0 {
		cfg.FrameSide = DefaultFrameSide
	}
	if log == nil {
		log = slog.Default()
	}
	return &FFmpeg{
		ffmpeg:  cfg.FFmpegPath,
		ffprobe: cfg.FFprobePath,
		side:    cfg.FrameSide,
		log:     log,
	}
}

// Available reports whether both binaries can be found.
func (f *FFmpeg) Available() error {
	for _, bin := range []string{f.ffmpeg, f.ffprobe} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s: %w", bin, err)
		}
	}
	return nil
}

// frameArgs builds the ffmpeg command line for sampling every skip-th frame.
func frameArgs(path string, skip, side int) []string {
	filter := fmt.Sprintf(`select=not(mod(n\,%d)),scale=%d:%d`, skip, side, side)
	return []string{
		"-nostdin",
		"-v", "error",
		"-i", path,
		"-an", "-sn",
		"-vf", filter,
		"-fps_mode", "vfr",
		"-pix_fmt", "rgb24",
		"-f", "rawvideo",
		"pipe:1",
	}
}

// Open starts the decoder for path. Frames are produced lazily as Next is called.
func (f *FFmpeg) Open(ctx context.Context, path string, skip int) (Frames, error) {
	if skip < 1 {
		return nil, ErrInvalidSkip
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &UnreadableVideoError{Path: path, Err: err}
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, f.ffmpeg, frameArgs(path, skip, f.side)...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, &UnreadableVideoError{Path: path, Err: err}
	}
	f.log.Debug("decoder started", "path", path, "skip", skip, "pid", cmd.Process.Pid)

	return newRawFrames(path, f.side, stdout, func() error {
		err := cmd.Wait()
		cancel()
		if err != nil {
			return decoderError(err, stderr.String())
		}
		return nil
	}, cancel), nil
}

// decoderError folds the tail of the decoder's stderr into err.
func decoderError(err error, detail string) error {
	detail = strings.TrimSpace(detail)
	if len(detail) > maxDetail {
		detail = detail[len(detail)-maxDetail:]
	}
	if detail == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, detail)
}

// rawFrames reads fixed-size rgb24 frames from r.
type rawFrames struct {
	path   string
	side   int
	r      *bufio.Reader
	wait   func() error
	cancel context.CancelFunc

	buf   []byte
	count int
	done  bool

	closeOnce sync.Once
}

func newRawFrames(path string, side int, r io.Reader, wait func() error, cancel context.CancelFunc) *rawFrames {
	frameBytes := side * side * 3
	return &rawFrames{
		path:   path,
		side:   side,
		r:      bufio.NewReaderSize(r, frameBytes),
		wait:   wait,
		cancel: cancel,
		buf:    make([]byte, frameBytes),
	}
}

// Next returns the next sampled frame.
func (f *rawFrames) Next() (image.Image, error) {
	if f.done {
		return nil, io.EOF
	}
	if _, err := io.ReadFull(f.r, f.buf); err != nil {
		f.done = true
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			f.finish()
			return nil, &UnreadableVideoError{Path: f.path, Err: err}
		}
		return nil, f.end()
	}
	f.count++
	return rgbToNRGBA(f.buf, f.side, f.side), nil
}

// end reaps the decoder once its output is exhausted. A decoder failure is
// only fatal when no frame was produced; a damaged tail keeps the prefix.
func (f *rawFrames) end() error {
	err := f.finish()
	if f.count == 0 {
		if err == nil {
			err = ErrNoFrames
		}
		return &UnreadableVideoError{Path: f.path, Err: err}
	}
	return io.EOF
}

func (f *rawFrames) finish() error {
	var err error
	f.closeOnce.Do(func() {
		if f.wait != nil {
			err = f.wait()
		}
	})
	return err
}

// Close stops the decoder and releases its resources.
func (f *rawFrames) Close() error {
	f.done = true
	if f.cancel != nil {
		f.cancel()
	}
	_ = f.finish()
	return nil
}

func rgbToNRGBA(buf []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, j := 0, 0; i+2 < len(buf); i, j = i+3, j+4 {
		img.Pix[j] = buf[i]
		img.Pix[j+1] = buf[i+1]
		img.Pix[j+2] = buf[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// probeOutput is the subset of ffprobe's JSON output we read.
type probeOutput struct {
	Streams []struct {
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		NbFrames  string `json:"nb_frames"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe reads codec, dimensions, frame count and duration of path.
func (f *FFmpeg) Probe(ctx context.Context, path string) (Info, error) {
	cmd := exec.CommandContext(ctx, f.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name,width,height,nb_frames:format=duration",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = decoderError(err, string(exitErr.Stderr))
		}
		return Info{}, &UnreadableVideoError{Path: path, Err: err}
	}
	info, err := parseProbe(out)
	if err != nil {
		return Info{}, &UnreadableVideoError{Path: path, Err: err}
	}
	return info, nil
}

func parseProbe(data []byte) (Info, error) {
	var p probeOutput
	if err := json.Unmarshal(data, &p); err != nil {
		return Info{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(p.Streams) == 0 {
		return Info{}, ErrNoVideoStream
	}
	s := p.Streams[0]
	info := Info{
		Codec:  s.CodecName,
		Width:  s.Width,
		Height: s.Height,
	}
	// Containers like mkv report "N/A" or omit nb_frames.
	if n, err := strconv.ParseInt(s.NbFrames, 10, 64); err == nil {
		info.FrameCount = n
	}
	if secs, err := strconv.ParseFloat(p.Format.Duration, 64); err == nil {
		info.Duration = time.Duration(secs * float64(time.Second))
	}
	return info, nil
}
