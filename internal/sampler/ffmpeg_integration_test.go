//go:build integration

package sampler

import (
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFFmpeg_Integration(t *testing.T) {
	f := NewFFmpeg(Config{}, nil)
	if err := f.Available(); err != nil {
		t.Skipf("ffmpeg not available: %v", err)
	}

	path := filepath.Join(t.TempDir(), "testsrc.mp4")
	gen := exec.Command("ffmpeg", "-v", "error", "-f", "lavfi", "-i", "testsrc=duration=3:size=320x240:rate=30", "-pix_fmt", "yuv420p", path)
	out, err := gen.CombinedOutput()
	require.NoError(t, err, string(out))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	info, err := f.Probe(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 320, info.Width)
	assert.Equal(t, int64(90), info.FrameCount)

	frames, err := f.Open(ctx, path, 30)
	require.NoError(t, err)
	defer frames.Close()

	n := 0
	for {
		img, err := frames.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, DefaultFrameSide, img.Bounds().Dx())
		n++
	}
	assert.Equal(t, 3, n, "frames 0, 30 and 60")
}
