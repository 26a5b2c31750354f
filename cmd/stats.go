package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kchang/trivia/internal/questionstore"
	"github.com/kchang/trivia/internal/selection"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what the question file holds",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.close()

		out := cmd.OutOrStdout()
		qs := e.questions()
		questions, err := qs.Load()
		if errors.Is(err, questionstore.ErrRepositoryEmpty) {
			fmt.Fprintln(out, "No questions have been downloaded yet. Run `trivia fetch` first.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}

		c := selection.NewCatalog(questions)
		fmt.Fprintf(out, "%s\n%d questions\n\n", qs.Path(), c.Total)

		fmt.Fprintln(out, "Difficulty")
		for _, d := range c.Difficulties {
			fmt.Fprintf(out, "  %-40s %5d\n", d, c.DifficultyCounts[d])
		}
		fmt.Fprintln(out, "\nType")
		for _, k := range c.Kinds {
			fmt.Fprintf(out, "  %-40s %5d\n", k.DisplayName(), c.KindCounts[k])
		}
		fmt.Fprintln(out, "\nCategory")
		for _, cat := range c.Categories {
			fmt.Fprintf(out, "  %-40s %5d\n", cat, c.CategoryCounts[cat])
		}
		return nil
	},
}
