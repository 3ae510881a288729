package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/logos/internal/placement"
)

var placementCmd = &cobra.Command{
	Use:   "placement",
	Short: "Score placement tests",
}

var placementScoreCmd = &cobra.Command{
	Use:   "score <responses.json>",
	Short: "Score a placement test and seed the learner",
	Long: `Reads a JSON array of probe responses ({"probe_type", "difficulty",
"correct", "item_id"}), prints the scores and starting unit, and when
--learner is given marks demonstrated grammar and vocabulary on that
learner's record.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read responses: %w", err)
		}
		var responses []placement.Response
		if err := json.Unmarshal(raw, &responses); err != nil {
			return fmt.Errorf("parse responses: %w", err)
		}

		res := placement.Score(responses)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Vocabulary:    %.2f\n", res.VocabularyScore)
		fmt.Fprintf(out, "Grammar:       %.2f\n", res.GrammarScore)
		fmt.Fprintf(out, "Reading:       %.2f\n", res.ReadingScore)
		fmt.Fprintf(out, "Total:         %.2f\n", res.TotalScore)
		fmt.Fprintf(out, "Starting unit: %d (%s)\n", int(res.StartingUnit), res.StartingUnit)
		if placement.ShouldStopEarly(responses) {
			fmt.Fprintln(out, "Note: no easy probe was answered correctly; the test could have stopped early.")
		}

		learnerID, _ := cmd.Flags().GetString("learner")
		if learnerID == "" {
			return nil
		}

		lang, err := languageFlag(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		cat, err := a.catalog(lang)
		if err != nil {
			return err
		}
		snap, err := a.snapshot(ctx, learnerID, cat)
		if err != nil {
			return err
		}
		trs, err := snap.ApplyPlacement(res, now())
		if err != nil {
			return fmt.Errorf("apply placement: %w", err)
		}
		if err := a.store.LearnerRepo().SaveSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("save learner: %w", err)
		}
		fmt.Fprintf(out, "Seeded %s: %d grammar concept(s) introduced, %d vocabulary item(s) tracked\n",
			learnerID, len(trs), len(snap.Vocabulary))
		return nil
	},
}

func init() {
	placementScoreCmd.Flags().String("learner", "", "Learner id to seed with the result")
	addLanguageFlag(placementScoreCmd)

	placementCmd.AddCommand(placementScoreCmd)
}
