package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/kchang/trivia/internal/config"
	"github.com/kchang/trivia/internal/ingest"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download questions from the Open Trivia Database",
	Long: "Fetch replaces the local question file with a fresh download. " +
		"Calls are paced to respect the service's rate limit, so a full download takes several minutes. " +
		"If anything fails the existing question file is left untouched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		qs := e.questions()
		questions, err := e.ingester(qs).Run(ctx, e.cfg.Ingest.Total, func(p ingest.Progress) {
			fmt.Fprintln(out, progressLine(p))
		})
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}

		fmt.Fprintf(out, "\nSaved %d questions to %s\n", len(questions), qs.Path())
		return nil
	},
}

func progressLine(p ingest.Progress) string {
	target := "?"
	if p.Target > 0 {
		target = fmt.Sprintf("%d", p.Target)
	}
	return fmt.Sprintf("%-7s %5d / %-5s  (%d calls)", p.Stage, p.Retrieved, target, p.Calls)
}

func init() {
	fetchCmd.Flags().Int("total", 0, "Number of questions to fetch (0 asks the service)")
	bindFlag(v, config.KeyIngestTotal, fetchCmd, "total")
}
