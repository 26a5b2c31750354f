package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the downloaded questions",
	Long:  "Reset removes the local question file. The leaderboard is kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.close()

		out := cmd.OutOrStdout()
		qs := e.questions()
		if !qs.Exists() {
			fmt.Fprintln(out, "Nothing to reset.")
			return nil
		}
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Fprintf(out, "This deletes %s. Run again with --yes to confirm.\n", qs.Path())
			return nil
		}
		if err := qs.Remove(); err != nil {
			return err
		}
		e.logger.Info("question file removed")
		fmt.Fprintf(out, "Removed %s\n", qs.Path())
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
