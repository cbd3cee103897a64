// Package samplertest provides synthetic in-memory videos for tests.
package samplertest

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"io"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/vmunix/vidupe/internal/sampler"
)

// Frame dimensions of generated clips.
const (
	Width  = 160
	Height = 120
	FPS    = 30
)

// Smooth renders a deterministic image made of a few low-frequency waves.
// Distinct seeds give visually unrelated images.
func Smooth(seed uint64, w, h int) *image.NRGBA {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	type wave struct{ fx, fy, phase, amp float64 }
	waves := make([]wave, 8)
	for i := range waves {
		waves[i] = wave{
			fx:    rng.Float64()*6 - 3,
			fy:    rng.Float64()*6 - 3,
			phase: rng.Float64() * 2 * math.Pi,
			amp:   12 + rng.Float64()*18,
		}
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := 128.0
			for _, wv := range waves {
				v += wv.amp * math.Sin(2*math.Pi*(wv.fx*float64(x)/float64(w)+wv.fy*float64(y)/float64(h))+wv.phase)
			}
			c := clamp(v)
			off := img.PixOffset(x, y)
			img.Pix[off] = c
			img.Pix[off+1] = clamp(v * 0.9)
			img.Pix[off+2] = clamp(255 - v)
			img.Pix[off+3] = 0xff
		}
	}
	return img
}

func clamp(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// Reencode simulates a lossy transcode at a different resolution.
func Reencode(img image.Image) image.Image {
	b := img.Bounds()
	scaled := imaging.Resize(img, b.Dx()*3/2, b.Dy()*3/2, imaging.Lanczos)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: 90}); err != nil {
		panic(err)
	}
	out, err := jpeg.Decode(&buf)
	if err != nil {
		panic(err)
	}
	return out
}

// Clip is an in-memory video of Len frames rendered on demand.
type Clip struct {
	Len   int
	Frame func(i int) image.Image
}

// Scenes builds a clip that shows a new scene every second.
func Scenes(seed uint64, seconds int) Clip {
	var mu sync.Mutex
	cache := map[int]image.Image{}
	return Clip{
		Len: seconds * FPS,
		Frame: func(i int) image.Image {
			scene := i / FPS
			mu.Lock()
			defer mu.Unlock()
			img, ok := cache[scene]
			if !ok {
				img = Smooth(seed*1000+uint64(scene), Width, Height)
				cache[scene] = img
			}
			return img
		},
	}
}

// TrimStart drops the first n frames.
func (c Clip) TrimStart(n int) Clip {
	frame := c.Frame
	return Clip{Len: max(c.Len-n, 0), Frame: func(i int) image.Image { return frame(i + n) }}
}

// TrimEnd drops the last n frames.
func (c Clip) TrimEnd(n int) Clip {
	return Clip{Len: max(c.Len-n, 0), Frame: c.Frame}
}

// Reencoded applies Reencode to every frame.
func (c Clip) Reencoded() Clip {
	frame := c.Frame
	return Clip{Len: c.Len, Frame: func(i int) image.Image { return Reencode(frame(i)) }}
}

// Source is a sampler.FrameSource over registered clips.
type Source struct {
	mu    sync.Mutex
	clips map[string]Clip
	opens map[string]int
}

// NewSource creates an empty source.
func NewSource() *Source {
	return &Source{clips: map[string]Clip{}, opens: map[string]int{}}
}

// Add registers clip under path.
func (s *Source) Add(path string, c Clip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clips[path] = c
}

// Opens reports how many times path has been opened.
func (s *Source) Opens(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens[path]
}

// Open implements sampler.FrameSource.
func (s *Source) Open(_ context.Context, path string, skip int) (sampler.Frames, error) {
	if skip < 1 {
		return nil, sampler.ErrInvalidSkip
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clips[path]
	if !ok {
		return nil, &sampler.UnreadableVideoError{Path: path, Err: sampler.ErrNoVideoStream}
	}
	s.opens[path]++
	return &clipFrames{clip: c, skip: skip}, nil
}

type clipFrames struct {
	clip Clip
	skip int
	pos  int
}

func (f *clipFrames) Next() (image.Image, error) {
	if f.pos >= f.clip.Len {
		return nil, io.EOF
	}
	img := f.clip.Frame(f.pos)
	f.pos += f.skip
	return img, nil
}

func (f *clipFrames) Close() error { return nil }
