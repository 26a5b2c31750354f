package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kchang/trivia/internal/config"
	"github.com/kchang/trivia/internal/store"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the top scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.close()

		st, err := e.openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		entries, err := st.Leaderboard().TopN(cmd.Context(), e.cfg.Leaderboard.Limit)
		if err != nil {
			return fmt.Errorf("query leaderboard: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No scores yet! Be the first to play.")
			return nil
		}

		fmt.Fprintf(out, "%4s  %-20s  %5s  %s\n", "Rank", "Name", "Score", "Time")
		fmt.Fprintln(out, strings.Repeat("─", 54))
		for i, entry := range entries {
			name := entry.Username
			if len([]rune(name)) > 20 {
				name = string([]rune(name)[:17]) + "..."
			}
			fmt.Fprintf(out, "%4d  %-20s  %5d  %s\n", i+1, name, entry.Score, store.FormatTime(entry.Timestamp))
		}
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().Int("limit", store.DefaultTopN, "Number of entries to show")
	bindFlag(v, config.KeyLeaderboardLimit, leaderboardCmd, "limit")
}
