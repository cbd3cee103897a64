package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vmunix/vidupe/internal/action"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show deleted and moved duplicates",
	Long: `Lists actions taken on duplicates, newest first.

Examples:
  vidupe history                    # Last 20 actions
  vidupe history --action moved     # Only moves
  vidupe history --run <run-id>     # Actions from one invocation`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("run", "", "Filter by run ID")
	historyCmd.Flags().StringP("action", "a", "", "Filter by action (deleted, moved, kept, failed)")
	historyCmd.Flags().IntP("limit", "l", 20, "Maximum entries (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetString("run")
	act, _ := cmd.Flags().GetString("action")
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	entries, err := action.NewHistoryStore(db).List(cmd.Context(), action.HistoryFilter{
		RunID:  runID,
		Action: strings.ToLower(act),
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		if entries == nil {
			entries = []*action.HistoryEntry{}
		}
		return printJSON(cmd.OutOrStdout(), entries)
	}
	printHistory(cmd.OutOrStdout(), entries)
	return nil
}

func printHistory(w io.Writer, entries []*action.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history")
		return
	}

	fmt.Fprintf(w, "  %-14s %-8s %-8s %s\n", "WHEN", "ACTION", "DIST", "FILE")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 70))
	for _, h := range entries {
		file := h.Path
		if h.DestPath != "" {
			file += " -> " + h.DestPath
		}
		fmt.Fprintf(w, "  %-14s %-8s %-8.2f %s\n", humanize.Time(h.CreatedAt), h.Action, h.Distance, file)
		if h.KeptPath != "" {
			fmt.Fprintf(w, "  %-14s %-8s %-8s kept %s\n", "", "", "", h.KeptPath)
		}
		if h.Error != "" {
			fmt.Fprintf(w, "  %-14s %-8s %-8s error: %s\n", "", "", "", h.Error)
		}
	}
}
