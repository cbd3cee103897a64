package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	dbPath     string
	logLevel   string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "vidupe [folder]",
	Short: "Find visually duplicate videos",
	Long: `vidupe - find visually duplicate videos

Samples every Nth frame of each video in a folder, fingerprints the frames
with a perceptual hash and reports pairs whose mean Hamming distance is at
most the threshold. Fingerprints are cached in a local SQLite database so
unchanged files are not decoded again.

Duplicates are resolved interactively by default, deleted with --batch or
moved aside with --move.

Examples:
  vidupe ~/Videos                      # Review duplicates one by one
  vidupe ~/Videos --batch              # Keep the first of each pair, delete the other
  vidupe ~/Videos --move ~/dupes       # Keep the first, move the other to ~/dupes
  vidupe ~/Videos --threshold 8 --skip 15 --workers 4
  vidupe ~/Videos --batch --dry-run    # Show what would be deleted`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runScan,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Fingerprint cache database (default ./vidupe.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("vidupe {{.Version}}\n")
}
