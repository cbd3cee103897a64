package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vmunix/vidupe/internal/fingerprint"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the fingerprint cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache totals",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune [folder]",
	Short: "Remove entries for files that no longer exist",
	Long:  "Removes cache entries whose file is gone. With a folder, only entries under it are checked.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCachePrune,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cache entry",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd, cachePruneCmd, cacheClearCmd)
}

func openStore(cmd *cobra.Command) (*fingerprint.Store, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	db, err := openCache(cfg)
	if err != nil {
		return nil, nil, err
	}
	return fingerprint.NewStore(db), func() { _ = db.Close() }, nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, closeDB, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	st, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"entries":    st.Entries,
			"frames":     st.Frames,
			"size_bytes": st.SizeBytes,
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Entries:  %d\n", st.Entries)
	fmt.Fprintf(out, "Frames:   %d\n", st.Frames)
	fmt.Fprintf(out, "Videos:   %s\n", humanize.Bytes(uint64(st.SizeBytes)))
	return nil
}

func runCachePrune(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) > 0 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		prefix = abs
	}

	store, closeDB, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	n, err := store.Prune(cmd.Context(), prefix, func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{"removed": n})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stale entries\n", n)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, closeDB, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	n, err := store.Clear(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{"removed": n})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", n)
	return nil
}
