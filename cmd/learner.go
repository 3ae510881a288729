package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/logos/internal/capacity"
	"github.com/abhisek/logos/internal/learner"
	"github.com/abhisek/logos/internal/mastery"
	"github.com/abhisek/logos/internal/session"
	"github.com/abhisek/logos/internal/spacedrep"
)

var learnerCmd = &cobra.Command{
	Use:   "learner",
	Short: "Inspect and update learner records",
}

var learnerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored learners",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		refs, err := a.store.LearnerRepo().ListLearners(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(refs) == 0 {
			fmt.Fprintln(out, "No learners found.")
			return nil
		}
		for _, r := range refs {
			fmt.Fprintf(out, "%-24s  %s\n", r.ID, r.Language)
		}
		return nil
	},
}

var learnerShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a learner's progress",
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

		cat, err := a.catalog(lang)
		if err != nil {
			return err
		}
		snap, err := a.store.LearnerRepo().LoadSnapshot(cmd.Context(), args[0], cat)
		if err != nil {
			return err
		}
		printSnapshot(cmd, snap)
		return nil
	},
}

func printSnapshot(cmd *cobra.Command, snap *learner.Snapshot) {
	out := cmd.OutOrStdout()
	t := now()
	sep := strings.Repeat("─", 48)

	fmt.Fprintf(out, "Learner:       %s (%s)\n", snap.LearnerID, snap.Language)
	fmt.Fprintf(out, "Study time:    %d min (%d sessions)\n", snap.Capacity.TotalStudyMinutes, snap.Capacity.Sessions())
	if snap.HasSessions() {
		fmt.Fprintf(out, "Last session:  %s\n", snap.LastSessionAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(out, "Next session:  %s\n", session.RecommendType(snap, t))
	if topic := session.NextTopic(snap); !topic.Empty() {
		fmt.Fprintf(out, "Next topic:    %s\n", topic)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Capacity")
	fmt.Fprintln(out, sep)
	for _, c := range capacity.All() {
		lvl, _ := snap.Capacity.Level(c)
		marker := ""
		if c == snap.WeakestCapacity() {
			marker = "  (weakest)"
		}
		fmt.Fprintf(out, "%-10s  %6.2f%s\n", c, lvl, marker)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Vocabulary")
	fmt.Fprintln(out, sep)
	fmt.Fprintf(out, "Tracked: %d  Due: %d  Weak: %d  Strong: %d\n",
		len(snap.Vocabulary), len(snap.DueForReview(t)),
		len(snap.WeakVocabulary(learner.WeakThreshold)), len(snap.StrongVocabulary(learner.StrongThreshold)))
	if len(snap.Vocabulary) > 0 {
		fc := spacedrep.Forecast(snap.Vocabulary, t, forecastDays)
		days := make([]string, len(fc))
		for i, n := range fc {
			days[i] = strconv.Itoa(n)
		}
		fmt.Fprintf(out, "Due by day:  %s (today first)\n", strings.Join(days, " "))
	}
	if p, ok := mostOverdue(snap.DueForReview(t), t); ok {
		name := p.ItemID
		if item, ok := snap.VocabularyFact(p); ok {
			name = item.Lemma
		}
		fmt.Fprintf(out, "Most overdue: %s (%.1f days)\n", name, p.OverdueDays(t))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Grammar")
	fmt.Fprintln(out, sep)
	for l := mastery.Introduced; l <= mastery.Mastered; l++ {
		recs := snap.GrammarAtLevel(l)
		if len(recs) == 0 {
			continue
		}
		names := make([]string, 0, len(recs))
		for _, r := range recs {
			if c, ok := snap.GrammarConcept(r); ok {
				names = append(names, c.Name)
			} else {
				names = append(names, r.ConceptID)
			}
		}
		fmt.Fprintf(out, "%-11s %s\n", l.String()+":", strings.Join(names, ", "))
	}
	if next := snap.NextGrammarConcepts(); len(next) > 0 {
		names := make([]string, 0, len(next))
		for _, c := range next {
			names = append(names, c.Name)
		}
		fmt.Fprintf(out, "%-11s %s\n", "ready:", strings.Join(names, ", "))
	}
}

// forecastDays is how far ahead learner show counts upcoming reviews.
const forecastDays = 7

func mostOverdue(due []spacedrep.Progress, now time.Time) (spacedrep.Progress, bool) {
	var best spacedrep.Progress
	found := false
	for _, p := range due {
		if !found || p.OverdueDays(now) > best.OverdueDays(now) {
			best, found = p, true
		}
	}
	return best, found && best.OverdueDays(now) > 0
}

var learnerReviewCmd = &cobra.Command{
	Use:   "review <id> <item-id>",
	Short: "Record a manual vocabulary review with an SM-2 quality (0-5)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := languageFlag(cmd)
		if err != nil {
			return err
		}
		qs, _ := cmd.Flags().GetString("quality")
		n, err := strconv.Atoi(qs)
		if err != nil {
			return fmt.Errorf("invalid quality %q: %w", qs, err)
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
		if _, ok := cat.Item(args[1]); !ok {
			return fmt.Errorf("unknown vocabulary item %q", args[1])
		}
		snap, err := a.snapshot(ctx, args[0], cat)
		if err != nil {
			return err
		}
		p, err := snap.ReviewVocabulary(args[1], spacedrep.Quality(n), now())
		if err != nil {
			return err
		}
		if err := a.store.LearnerRepo().SaveSnapshot(ctx, snap); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: interval %.1f days, ease %.2f, next review %s\n",
			p.ItemID, p.IntervalDays, p.EaseFactor, p.NextReview.Local().Format("2006-01-02"))
		return nil
	},
}

var learnerConfirmCmd = &cobra.Command{
	Use:   "confirm <id> <concept-id>",
	Short: "Confirm mastery of a proficient grammar concept",
	Args:  cobra.ExactArgs(2),
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
		snap, err := a.store.LearnerRepo().LoadSnapshot(ctx, args[0], cat)
		if err != nil {
			return err
		}
		_, tr, err := snap.ConfirmMastery(args[1])
		if err != nil {
			return err
		}
		if err := a.store.LearnerRepo().SaveSnapshot(ctx, snap); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if tr != nil {
			fmt.Fprintln(out, tr)
		}
		if names := unlocked(snap, args[1]); len(names) > 0 {
			fmt.Fprintf(out, "Unlocks: %s\n", strings.Join(names, ", "))
		}
		return nil
	},
}

// unlocked names the dependents of conceptID that are now ready for
// introduction.
func unlocked(snap *learner.Snapshot, conceptID string) []string {
	ready := make(map[string]bool)
	for _, c := range snap.NextGrammarConcepts() {
		ready[c.ID] = true
	}
	var names []string
	for _, c := range snap.Catalog.Graph().Dependents(conceptID) {
		if ready[c.ID] {
			names = append(names, c.Name)
		}
	}
	return names
}

func init() {
	for _, c := range []*cobra.Command{learnerShowCmd, learnerReviewCmd, learnerConfirmCmd} {
		addLanguageFlag(c)
	}
	learnerReviewCmd.Flags().StringP("quality", "q", "4", "Recall quality 0-5")

	learnerCmd.AddCommand(learnerListCmd)
	learnerCmd.AddCommand(learnerShowCmd)
	learnerCmd.AddCommand(learnerReviewCmd)
	learnerCmd.AddCommand(learnerConfirmCmd)
}
