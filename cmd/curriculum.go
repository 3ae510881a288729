package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/logos/internal/curriculum"
)

var curriculumCmd = &cobra.Command{
	Use:   "curriculum",
	Short: "Validate and import curriculum data",
}

var curriculumValidateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Load and validate the curriculum for every language",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dir := cfg.CurriculumPath
		if len(args) == 1 {
			dir = args[0]
		}

		out := cmd.OutOrStdout()
		var failed int
		for _, lang := range curriculum.Languages() {
			cat, err := curriculum.LoadDir(dir, lang)
			if err != nil {
				failed++
				fmt.Fprintf(out, "%-6s  ✗ %v\n", lang, err)
				continue
			}
			fmt.Fprintf(out, "%-6s  ✓ %d concepts, %d vocabulary items, %d roots\n",
				lang, len(cat.Concepts()), len(cat.Items()), len(cat.Graph().Roots()))
		}
		if failed > 0 {
			return fmt.Errorf("%d language(s) failed validation", failed)
		}
		return nil
	},
}

var curriculumImportCmd = &cobra.Command{
	Use:   "import-xlsx <file>",
	Short: "Import a vocabulary spreadsheet into a YAML vocabulary set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := languageFlag(cmd)
		if err != nil {
			return err
		}
		ic := curriculum.DefaultImportConfig()
		ic.FilePath = args[0]
		ic.Language = lang
		ic.SheetName, _ = cmd.Flags().GetString("sheet")
		ic.StartRow, _ = cmd.Flags().GetInt("start-row")
		ic.Set, _ = cmd.Flags().GetString("set")
		ic.Name, _ = cmd.Flags().GetString("name")
		if ic.Set == "" {
			ic.Set = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}
		if ic.Name == "" {
			ic.Name = ic.Set
		}

		res, err := curriculum.ImportXLSX(ic)
		if err != nil {
			return err
		}

		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			outPath = filepath.Join(cfg.CurriculumPath, string(lang), "vocabulary", ic.Set+".yaml")
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		if err := curriculum.WriteVocabularySet(outPath, res.Set); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d of %d rows into %s (%d skipped)\n",
			len(res.Set.Items), res.Processed, outPath, res.Skipped)
		for _, e := range res.Errors {
			fmt.Fprintf(out, "  %s\n", e)
		}
		return nil
	},
}

func init() {
	addLanguageFlag(curriculumImportCmd)
	curriculumImportCmd.Flags().String("sheet", "Sheet1", "Worksheet name")
	curriculumImportCmd.Flags().Int("start-row", 2, "First data row (1-based)")
	curriculumImportCmd.Flags().String("set", "", "Vocabulary set id (default: file name)")
	curriculumImportCmd.Flags().String("name", "", "Vocabulary set display name")
	curriculumImportCmd.Flags().StringP("out", "o", "", "Output YAML path (default: <curriculum>/<language>/vocabulary/<set>.yaml)")

	curriculumCmd.AddCommand(curriculumValidateCmd)
	curriculumCmd.AddCommand(curriculumImportCmd)
}
