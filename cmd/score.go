package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/logos/internal/exercise"
	"github.com/abhisek/logos/internal/llm"
)

var scoreCmd = &cobra.Command{
	Use:   "score <response>",
	Short: "Judge a free-form answer with the configured LLM",
	Long: `Builds a free-form exercise from the flags and asks the LLM judge to
score the response. --kind selects translation_to_english,
translation_to_target, comprehension or composition.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := languageFlag(cmd)
		if err != nil {
			return err
		}
		ks, _ := cmd.Flags().GetString("kind")
		kind, err := exercise.ParseKind(ks)
		if err != nil {
			return err
		}
		source, _ := cmd.Flags().GetString("source")
		question, _ := cmd.Flags().GetString("question")
		difficulty, _ := cmd.Flags().GetInt("difficulty")

		var ex exercise.Exercise
		switch kind {
		case exercise.TranslationToEnglish:
			ex = exercise.Translation(source, exercise.ToEnglish, lang, difficulty)
		case exercise.TranslationToTarget:
			ex = exercise.Translation(source, exercise.ToTarget, lang, difficulty)
		case exercise.Comprehension:
			ex = exercise.ComprehensionQuestion(source, question, lang, difficulty)
		case exercise.Composition:
			ex = exercise.CompositionPrompt(source, lang, difficulty)
		default:
			return fmt.Errorf("kind %s is not judged by the LLM", kind)
		}
		if ref, _ := cmd.Flags().GetString("reference"); ref != "" {
			if p, ok := ex.Payload.(exercise.FreeFormPayload); ok {
				p.Reference = ref
				ex.Payload = p
			}
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if id, _ := cmd.Flags().GetString("learner"); id != "" {
			ctx = llm.WithLearner(ctx, id)
		}
		scorer, err := a.scorer(ctx)
		if err != nil {
			return err
		}
		res, err := scorer.ScoreExercise(ctx, ex, args[0])
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Score:     %d/%d (correct: %v)\n", res.RawScore, res.MaxScore, res.Correct)
		if res.Feedback != "" {
			fmt.Fprintf(out, "Feedback:  %s\n", res.Feedback)
		}
		if res.CorrectedResponse != "" {
			fmt.Fprintf(out, "Corrected: %s\n", res.CorrectedResponse)
		}
		for _, e := range res.Errors {
			fmt.Fprintf(out, "  - [%s] %s", e.Type, e.Error)
			if e.Expected != "" {
				fmt.Fprintf(out, " (expected %s)", e.Expected)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	addLanguageFlag(scoreCmd)
	scoreCmd.Flags().String("kind", string(exercise.TranslationToEnglish), "Exercise kind")
	scoreCmd.Flags().String("source", "", "Source text, passage or composition topic")
	scoreCmd.Flags().String("question", "", "Comprehension question")
	scoreCmd.Flags().String("reference", "", "Reference translation")
	scoreCmd.Flags().Int("difficulty", 3, "Difficulty 1-10")
	scoreCmd.Flags().Bool("json", false, "Print the result as JSON")
	scoreCmd.Flags().String("learner", "", "Attribute the LLM call to this learner")
	_ = scoreCmd.MarkFlagRequired("source")
}
