package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/logos/internal/exercise"
	"github.com/abhisek/logos/internal/learner"
	"github.com/abhisek/logos/internal/lessons"
	"github.com/abhisek/logos/internal/llm"
	"github.com/abhisek/logos/internal/scoring"
	"github.com/abhisek/logos/internal/session"
	"github.com/abhisek/logos/internal/store"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Plan and run study sessions",
	Long: `Plan and run study sessions. Commands other than start address a
session with --session, or the learner's latest session with --learner.`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <learner-id>",
	Short: "Plan a new session for a learner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		snap, err := a.snapshot(ctx, args[0], cat)
		if err != nil {
			return err
		}

		seed, _ := cmd.Flags().GetUint64("seed")
		planner := a.planner(seed)
		t := now()

		var plan *session.Plan
		if ts, _ := cmd.Flags().GetString("type"); ts != "" {
			st, err := session.ParseType(ts)
			if err != nil {
				return err
			}
			plan = planner.BuildPlanOfType(snap, st, t)
		} else {
			plan = planner.BuildPlan(snap, t)
		}

		out := cmd.OutOrStdout()
		if plan.Type == session.TypePlacement {
			fmt.Fprintf(out, "%s has no completed sessions. Take the placement test and run:\n", snap.LearnerID)
			fmt.Fprintf(out, "  logos placement score <responses.json> --learner %s --language %s\n", snap.LearnerID, lang)
			return nil
		}
		if len(plan.Exercises) == 0 {
			fmt.Fprintln(out, "Nothing to study yet: the curriculum has no eligible material.")
			return nil
		}

		ss, err := a.store.SessionRepo().Create(ctx, lang, plan)
		if err != nil {
			return err
		}
		a.logger.Info("session planned",
			"session_id", plan.ID,
			"learner_id", plan.LearnerID,
			"type", string(plan.Type),
			"exercises", len(plan.Exercises))

		fmt.Fprintf(out, "Session %s (%s, %d exercises)\n", ss.Plan.ID, ss.Plan.Type, len(ss.Plan.Exercises))
		if ss.Plan.Topic != "" {
			fmt.Fprintf(out, "Topic: %s\n", ss.Plan.Topic)
		}
		fmt.Fprintln(out)
		if plan.Type == session.TypeLesson {
			if l, ok := lessonContent(ctx, a, snap); ok {
				printLesson(cmd, l)
				fmt.Fprintln(out)
			}
		}
		printExercise(cmd, ss.Plan, false)
		return nil
	},
}

var sessionNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the exercise awaiting an answer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ss, err := resolveSession(cmd, a)
		if err != nil {
			return err
		}
		if ss.Plan.Status() != session.StatusComplete {
			ss.Plan.MarkShown(now())
			if err := a.store.SessionRepo().Update(cmd.Context(), ss); err != nil {
				return err
			}
		}
		hint, _ := cmd.Flags().GetBool("hint")
		printExercise(cmd, ss.Plan, hint)
		return nil
	},
}

var sessionAnswerCmd = &cobra.Command{
	Use:   "answer <response>",
	Short: "Answer the current exercise",
	Long: `Grades the response and applies it to the learner. Closed-form
exercises are graded locally; free-form ones go to the configured LLM
judge unless --correct or --incorrect is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		ss, err := resolveSession(cmd, a)
		if err != nil {
			return err
		}
		cat, err := a.catalog(ss.Language)
		if err != nil {
			return err
		}
		snap, err := a.snapshot(ctx, ss.Plan.LearnerID, cat)
		if err != nil {
			return err
		}

		orch := session.NewOrchestrator(snap, ss.Plan, a.logger)
		ex, ok := orch.Current()
		if !ok {
			return session.ErrSessionComplete
		}

		response := strings.Join(args, " ")
		res, err := grade(llm.WithLearner(ctx, ss.Plan.LearnerID), cmd, a, ex, response)
		if err != nil {
			return err
		}

		hint, _ := cmd.Flags().GetBool("hint")
		t := now()
		ms := ss.Plan.ElapsedMs(t)
		if cmd.Flags().Changed("ms") {
			ms, _ = cmd.Flags().GetInt("ms")
		}
		eff, err := orch.Record(session.ActivityResult{
			Response:    response,
			Score:       res.Score,
			Correct:     res.Correct,
			Feedback:    res.Feedback,
			TimeTakenMs: ms,
			HintUsed:    hint,
		}, t)
		if err != nil {
			return err
		}

		var sum *session.Summary
		if ss.Plan.Status() == session.StatusComplete {
			s := orch.Finish(t)
			sum = &s
		} else {
			ss.Plan.MarkShown(t)
		}

		if err := a.store.RecordAnswer(ctx, ss, snap, sum); err != nil {
			if errors.Is(err, store.ErrConcurrentUpdate) {
				return fmt.Errorf("session %s was answered elsewhere; run `logos session next` and retry: %w", ss.Plan.ID, err)
			}
			return err
		}

		out := cmd.OutOrStdout()
		mark := "✗"
		if res.Correct {
			mark = "✓"
		}
		fmt.Fprintf(out, "%s %s\n", mark, res.Feedback)
		if !res.Correct && res.Expected != "" {
			fmt.Fprintf(out, "  expected: %s\n", res.Expected)
		}
		if !res.Correct {
			explainMistake(llm.WithLearner(ctx, ss.Plan.LearnerID), cmd, a, ex, response, res)
		}
		for _, tr := range eff.Transitions {
			fmt.Fprintf(out, "  grammar %s\n", tr)
		}
		if eff.Review != nil {
			fmt.Fprintf(out, "  next review in %.1f days\n", eff.Review.IntervalDays)
		}
		switch eff.Adjustment {
		case session.Easier:
			fmt.Fprintln(out, "  (struggling: the next session will ease off)")
		case session.Harder:
			fmt.Fprintln(out, "  (on a streak: the next session will push harder)")
		}

		fmt.Fprintln(out)
		if sum != nil {
			printSummary(cmd, *sum)
			return nil
		}
		printExercise(cmd, ss.Plan, false)
		return nil
	},
}

var sessionSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a session summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ss, err := resolveSession(cmd, a)
		if err != nil {
			return err
		}
		sum, err := a.store.SessionRepo().GetSummary(cmd.Context(), ss.Plan.ID)
		if errors.Is(err, store.ErrNotFound) {
			// In-progress sessions get a provisional summary.
			sum = session.ComputeSummary(ss.Plan, now())
		} else if err != nil {
			return err
		}
		printSummary(cmd, sum)
		return nil
	},
}

// gradeResult is the common shape of local and AI grades.
type gradeResult struct {
	Score    float64
	Correct  bool
	Feedback string
	Expected string
}

func grade(ctx context.Context, cmd *cobra.Command, a *app, ex exercise.Exercise, response string) (gradeResult, error) {
	correct, _ := cmd.Flags().GetBool("correct")
	incorrect, _ := cmd.Flags().GetBool("incorrect")
	switch {
	case correct:
		return gradeResult{Score: 1, Correct: true, Feedback: "Marked correct."}, nil
	case incorrect:
		return gradeResult{Score: 0, Feedback: "Marked incorrect.", Expected: ex.Expected}, nil
	}

	if r, ok := scoring.Check(ex, response); ok {
		return gradeResult{Score: r.Score, Correct: r.Correct, Feedback: r.Feedback, Expected: r.Expected}, nil
	}

	scorer, err := a.scorer(ctx)
	if err != nil {
		return gradeResult{}, fmt.Errorf("%s needs a judge (%w); pass --correct or --incorrect", ex.Kind, err)
	}
	r, err := scorer.ScoreExercise(ctx, ex, response)
	if err != nil {
		return gradeResult{}, err
	}
	return gradeResult{Score: r.Score, Correct: r.Correct, Feedback: r.Feedback, Expected: r.CorrectedResponse}, nil
}

// explainMistake prints why an answer was wrong when a provider is
// configured. Failures are logged and otherwise ignored.
func explainMistake(ctx context.Context, cmd *cobra.Command, a *app, ex exercise.Exercise, response string, res gradeResult) {
	svc, err := a.lessons(ctx)
	if err != nil {
		return
	}
	e, err := svc.ExplainError(ctx, ex, response, res.Expected, res.Score)
	if err != nil {
		a.logger.Warn("explain mistake", "kind", string(ex.Kind), "error", err)
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  why: %s\n", e.Explanation)
	if e.Tip != "" {
		fmt.Fprintf(out, "  tip: %s\n", e.Tip)
	}
}

// lessonContent returns the lesson for the learner's next topic. A
// generated lesson is preferred; the template lesson is the fallback.
func lessonContent(ctx context.Context, a *app, snap *learner.Snapshot) (lessons.Content, bool) {
	topic := session.NextTopic(snap)
	tmpl, ok := lessons.ForTopic(snap, topic)
	if !ok {
		return lessons.Content{}, false
	}
	svc, err := a.lessons(ctx)
	if err != nil {
		return tmpl, true
	}
	l, err := svc.GenerateForTopic(llm.WithLearner(ctx, snap.LearnerID), snap, topic)
	if err != nil {
		a.logger.Warn("lesson generation failed, using template", "topic", topic.String(), "error", err)
		return tmpl, true
	}
	return l, true
}

func printLesson(cmd *cobra.Command, l lessons.Content) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, l.Title)
	fmt.Fprintln(out, strings.Repeat("─", 48))
	fmt.Fprintln(out, l.Explanation)
	if len(l.Examples) > 0 {
		fmt.Fprintln(out)
		for _, e := range l.Examples {
			fmt.Fprintf(out, "  %s\n    %s\n", e.Text, e.Translation)
		}
	}
	if len(l.Paradigm) > 0 {
		fmt.Fprintln(out)
		for _, c := range l.Paradigm {
			fmt.Fprintf(out, "  %-24s %s\n", c.Label, c.Form)
		}
	}
	if l.Summary != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, l.Summary)
	}
	for _, p := range l.PracticePrompts {
		fmt.Fprintf(out, "  - %s\n", p)
	}
}

func resolveSession(cmd *cobra.Command, a *app) (*store.StoredSession, error) {
	ctx := cmd.Context()
	if id, _ := cmd.Flags().GetString("session"); id != "" {
		return a.store.SessionRepo().Get(ctx, id)
	}
	learnerID, _ := cmd.Flags().GetString("learner")
	if learnerID == "" {
		return nil, errors.New("--session or --learner is required")
	}
	lang, err := languageFlag(cmd)
	if err != nil {
		return nil, err
	}
	return a.store.SessionRepo().Latest(ctx, learnerID, lang)
}

func printExercise(cmd *cobra.Command, plan *session.Plan, showHint bool) {
	out := cmd.OutOrStdout()
	ex, ok := plan.NextExercise()
	if !ok {
		fmt.Fprintf(out, "Session %s is complete.\n", plan.ID)
		return
	}
	fmt.Fprintf(out, "[%d/%d] %s (%d left)\n", len(plan.Results)+1, len(plan.Exercises), ex.Kind, plan.Remaining())
	fmt.Fprintf(out, "%s\n", ex.Prompt)
	if p, ok := ex.Payload.(exercise.FillBlankPayload); ok && p.Sentence != "" && p.Sentence != ex.Prompt {
		fmt.Fprintf(out, "  %s\n", p.Sentence)
	}
	for i, opt := range ex.Options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
	}
	if showHint {
		if p, ok := ex.Payload.(exercise.FillBlankPayload); ok && p.Hint != "" {
			fmt.Fprintf(out, "Hint: %s\n", p.Hint)
		}
	}
}

func printSummary(cmd *cobra.Command, s session.Summary) {
	out := cmd.OutOrStdout()
	sep := strings.Repeat("─", 48)
	fmt.Fprintf(out, "Session %s (%s)\n", s.SessionID, s.Type)
	fmt.Fprintln(out, sep)
	fmt.Fprintf(out, "Answered:  %d (%d correct, %d incorrect)\n", s.Total, s.Correct, s.Incorrect)
	fmt.Fprintf(out, "Accuracy:  %.0f%%\n", s.Accuracy*100)
	fmt.Fprintf(out, "Avg time:  %.1fs\n", s.AverageTimeMs/1000)
	fmt.Fprintf(out, "Duration:  %s\n", s.Duration().Round(time.Second))
	if len(s.ByKind) > 0 {
		fmt.Fprintln(out, sep)
		for _, k := range exercise.AllKinds() {
			ks, ok := s.ByKind[k]
			if !ok {
				continue
			}
			fmt.Fprintf(out, "%-24s %3d/%-3d %5.0f%%\n", k, ks.Correct, ks.Total, ks.Accuracy*100)
		}
	}
}

func init() {
	addLanguageFlag(sessionStartCmd)
	sessionStartCmd.Flags().String("type", "", "Session type: lesson, practice or evaluation (default: recommended)")
	sessionStartCmd.Flags().Uint64("seed", 0, "Selector seed (0 = time-based)")

	for _, c := range []*cobra.Command{sessionNextCmd, sessionAnswerCmd, sessionSummaryCmd} {
		c.Flags().String("session", "", "Session id")
		c.Flags().String("learner", "", "Learner id (uses the latest session)")
		addLanguageFlag(c)
	}
	sessionNextCmd.Flags().Bool("hint", false, "Show the hint")
	sessionAnswerCmd.Flags().Bool("correct", false, "Mark the answer correct without grading")
	sessionAnswerCmd.Flags().Bool("incorrect", false, "Mark the answer incorrect without grading")
	sessionAnswerCmd.MarkFlagsMutuallyExclusive("correct", "incorrect")
	sessionAnswerCmd.Flags().Bool("hint", false, "The hint was used")
	sessionAnswerCmd.Flags().Int("ms", 0, "Response time in milliseconds (default: time since the exercise was shown)")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionNextCmd)
	sessionCmd.AddCommand(sessionAnswerCmd)
	sessionCmd.AddCommand(sessionSummaryCmd)
}
