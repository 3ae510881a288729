package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "logos",
	Short:         "Learner progression engine for Ancient Greek and Latin",
	Long:          "Logos schedules vocabulary reviews, tracks grammar mastery and plans study sessions for learners of Ancient Greek and Latin.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	ctx, stop := signalContext()
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to TOML config file (default logos.toml)")
	pf.String("db", "", "Database URL or SQLite path (overrides LOGOS_DATABASE_URL)")
	pf.String("curriculum", "", "Curriculum directory (overrides curriculum_path)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(curriculumCmd)
	rootCmd.AddCommand(placementCmd)
	rootCmd.AddCommand(learnerCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(explainCmd)
}
