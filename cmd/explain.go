package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <concept-id>",
	Short: "Explain a grammar concept with the configured LLM",
	Args:  cobra.MinimumNArgs(1),
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
		id := strings.Join(args, " ")
		c, ok := cat.Concept(id)
		if !ok {
			return fmt.Errorf("unknown %s concept %q", lang, id)
		}

		ctx := cmd.Context()
		svc, err := a.lessons(ctx)
		if err != nil {
			return err
		}
		level, _ := cmd.Flags().GetInt("level")
		focus, _ := cmd.Flags().GetString("focus")
		e, err := svc.ExplainConcept(ctx, c, level, focus)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, c.Name)
		fmt.Fprintln(out, strings.Repeat("─", 48))
		fmt.Fprintln(out, e.Explanation)
		if e.Example != "" {
			fmt.Fprintf(out, "\nExample: %s\n", e.Example)
		}
		return nil
	},
}

func init() {
	addLanguageFlag(explainCmd)
	explainCmd.Flags().Int("level", 0, "Learner level 1-10 (default 3)")
	explainCmd.Flags().String("focus", "", "Aspect to focus on (default: general overview)")
}
