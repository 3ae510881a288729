package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/logos/internal/sweep"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Refresh vocabulary strength and regress idle grammar for every learner",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		cats, err := a.catalogs()
		if err != nil {
			return err
		}
		sw := sweep.New(a.store.LearnerRepo(), cats, a.logger)

		daemon, _ := cmd.Flags().GetBool("daemon")
		if !daemon {
			rep, err := sw.RunOnce(cmd.Context(), now())
			fmt.Fprintf(cmd.OutOrStdout(), "Swept %d learner(s), %d skipped, %d grammar regression(s)\n",
				rep.Learners, rep.Skipped, rep.Transitions)
			return err
		}

		at, _ := cmd.Flags().GetString("at")
		if at == "" {
			at = a.cfg.Sweep.At
		}
		if err := sw.Start(at); err != nil {
			return err
		}
		defer sw.Stop()

		<-cmd.Context().Done()
		a.logger.Info("sweep daemon stopping")
		return nil
	},
}

func init() {
	sweepCmd.Flags().Bool("daemon", false, "Run daily until interrupted")
	sweepCmd.Flags().String("at", "", "Daily run time HH:MM UTC (default from [sweep] at)")
}
