package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kchang/trivia/internal/config"
)

// v is the configuration shared by every command. Flags are bound to it in
// init so they override the config file and environment.
var v = config.New()

var rootCmd = &cobra.Command{
	Use:   "trivia",
	Short: "Terminal trivia quiz",
	Long:  "Trivia fetches questions from the Open Trivia Database, quizzes you one question at a time and keeps a shared leaderboard.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if p, _ := cmd.Flags().GetString("config"); p != "" {
			v.SetConfigFile(p)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a config file (default ./config.yaml or $XDG_CONFIG_HOME/trivia/config.yaml)")
	flags.String("data-dir", "", "Directory for the question file, database and log (overrides TRIVIA_DATA_DIR)")
	flags.String("db", "", "Path to the SQLite leaderboard database (overrides TRIVIA_DB)")
	flags.String("questions", "", "Path to the question CSV file (overrides TRIVIA_QUESTIONS_FILE)")
	flags.String("log-level", "", "Log level: debug, info, warn or error")

	bindFlag(v, config.KeyDataDir, rootCmd, "data-dir")
	bindFlag(v, config.KeyDB, rootCmd, "db")
	bindFlag(v, config.KeyQuestionsFile, rootCmd, "questions")
	bindFlag(v, config.KeyLogLevel, rootCmd, "log-level")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

func bindFlag(v *viper.Viper, key string, cmd *cobra.Command, name string) {
	f := cmd.PersistentFlags().Lookup(name)
	if f == nil {
		f = cmd.Flags().Lookup(name)
	}
	if err := v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}
