package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/claudekit-dev/claudekit/internal/session"
)

var (
	statsSessionID string
	statsJSON      bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregated run metrics for a session",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsSessionID, "session", "", "session ID to read stats for")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "emit machine-readable JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	store := session.Open(statsSessionID)
	st, err := store.ReadStats()
	if err != nil {
		return fmt.Errorf("read stats: %w", err)
	}

	out := cmd.OutOrStdout()
	if statsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	pairs := []kvPair{
		{"runs", fmt.Sprintf("%d", st.Runs)},
		{"blocks", fmt.Sprintf("%d", st.Blocks)},
		{"failures", fmt.Sprintf("%d", st.Failures)},
		{"avgMs", fmt.Sprintf("%.1f", st.AvgMS)},
		{"totalMs", fmt.Sprintf("%d", st.TotalMS)},
		{"lastUpdatedAt", st.LastUpdatedAt.Format("2006-01-02T15:04:05Z07:00")},
	}

	hookIDs := make([]string, 0, len(st.PerHookRuns))
	for id := range st.PerHookRuns {
		hookIDs = append(hookIDs, id)
	}
	sort.Strings(hookIDs)
	for _, id := range hookIDs {
		pairs = append(pairs, kvPair{"  " + id, fmt.Sprintf("%d runs", st.PerHookRuns[id])})
	}

	fmt.Fprintln(out, renderCard("Session stats", renderKeyValueLines(pairs)))
	return nil
}
