package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/msto63/udyr/internal/history"
	"github.com/spf13/cobra"
)

var (
	historyLimit   int
	historySession string
	historyOK      bool
	historyStats   bool
	historyPrune   time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List prompt submissions",
	Long: `Lists expressions entered at the prompt, newest first.

Examples:
  udyr history --limit 20
  udyr history --stats
  udyr history --prune 720h`,
	Args: usageArgs(0),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	addOutputFlag(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	historyCmd.Flags().StringVar(&historySession, "session", "", "only entries of this session")
	historyCmd.Flags().BoolVar(&historyOK, "ok", false, "only entries without diagnostics")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "print statistics instead of entries")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete entries older than this duration")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := checkOutputFormat(); err != nil {
		return err
	}
	if !appConfig.History.Enabled {
		return fmt.Errorf("history is disabled in the configuration")
	}

	store, err := history.NewSQLiteStore(history.Config{Path: appConfig.History.Path})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	out := cmd.OutOrStdout()

	if historyPrune > 0 {
		deleted, err := store.Prune(ctx, historyPrune)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "pruned %d entries\n", deleted)
		return nil
	}

	if historyStats {
		stats, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		switch outputFormat {
		case outputJSON:
			return writeJSON(out, stats)
		case outputYAML:
			return writeYAML(out, stats)
		}
		fmt.Fprintf(out, "entries:  %d\nfailed:   %d\nsessions: %d\n", stats.Total, stats.Failed, stats.Sessions)
		if !stats.LastEntry.IsZero() {
			fmt.Fprintf(out, "last:     %s\n", stats.LastEntry.Format(time.RFC3339))
		}
		return nil
	}

	entries, err := store.Query(ctx, history.Filter{
		Session: historySession,
		OnlyOK:  historyOK,
		Limit:   historyLimit,
	})
	if err != nil {
		return err
	}

	switch outputFormat {
	case outputJSON:
		return writeJSON(out, entries)
	case outputYAML:
		return writeYAML(out, entries)
	}

	fmt.Fprintf(out, "%-19s  %-8s  %-8s  %s\n", "TIME", "SESSION", "STATUS", "SOURCE")
	fmt.Fprintln(out, strings.Repeat("-", 60))
	for _, e := range entries {
		status := "ok"
		if !e.OK {
			status = fmt.Sprintf("%d diag", e.Diagnostics)
		}
		fmt.Fprintf(out, "%-19s  %-8s  %-8s  %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), shortSession(e.Session), status, e.Source)
	}
	return nil
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
