package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/vidupe/internal/config"
	"github.com/vmunix/vidupe/internal/sampler"
	"github.com/vmunix/vidupe/internal/sampler/samplertest"
)

// fakeSampler decodes registered in-memory clips instead of running ffmpeg.
type fakeSampler struct {
	*samplertest.Source
	unavailable error
}

func (f *fakeSampler) Probe(context.Context, string) (sampler.Info, error) {
	return sampler.Info{Duration: 10 * time.Second, Width: samplertest.Width, Height: samplertest.Height}, nil
}

func (f *fakeSampler) Available() error { return f.unavailable }

func useFakeSampler(t *testing.T) *fakeSampler {
	t.Helper()
	fake := &fakeSampler{Source: samplertest.NewSource()}
	orig := newSampler
	newSampler = func(config.FFmpegConfig, *slog.Logger) videoSampler { return fake }
	t.Cleanup(func() { newSampler = orig })
	return fake
}

// resetFlags restores every flag to its default between runs of the shared
// command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// testEnv is a scan folder plus a config file pointing at a private cache.
type testEnv struct {
	folder string
	config string
	db     string
	fake   *fakeSampler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	env := &testEnv{
		folder: filepath.Join(root, "videos"),
		config: filepath.Join(root, "vidupe.toml"),
		db:     filepath.Join(root, "cache", "vidupe.db"),
		fake:   useFakeSampler(t),
	}
	require.NoError(t, os.MkdirAll(env.folder, 0755))
	content := `
[database]
path = "` + env.db + `"

[log]
level = "error"
`
	require.NoError(t, os.WriteFile(env.config, []byte(content), 0644))
	return env
}

func (e *testEnv) add(t *testing.T, name string, c samplertest.Clip) string {
	t.Helper()
	path := filepath.Join(e.folder, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(name), 0644))
	e.fake.Add(path, c)
	return path
}

// addDuplicates adds an original, a re-encoded copy and an unrelated clip.
func (e *testEnv) addDuplicates(t *testing.T) (a, b, c string) {
	t.Helper()
	orig := samplertest.Scenes(1, 6)
	a = e.add(t, "a.mp4", orig)
	b = e.add(t, "b.mp4", orig.Reencoded())
	c = e.add(t, "c.mp4", samplertest.Scenes(2, 6))
	return a, b, c
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	return runCLI(t, stdin, append(args, "--config", e.config)...)
}

func (e *testEnv) clip(seed uint64) samplertest.Clip {
	return samplertest.Scenes(seed, 6)
}

func writeTestFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}
