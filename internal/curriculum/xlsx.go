package curriculum

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportConfig maps spreadsheet columns onto vocabulary fields.
type ImportConfig struct {
	FilePath         string
	SheetName        string
	Language         Language
	Set              string
	Name             string
	LemmaColumn      string
	POSColumn        string
	DefinitionColumn string
	DifficultyColumn string
	FrequencyColumn  string
	NotesColumn      string
	StartRow         int // 1-based
}

// DefaultImportConfig returns the column layout A..F with a header row.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SheetName:        "Sheet1",
		LemmaColumn:      "A",
		POSColumn:        "B",
		DefinitionColumn: "C",
		DifficultyColumn: "D",
		FrequencyColumn:  "E",
		NotesColumn:      "F",
		StartRow:         2,
	}
}

// ImportResult reports a spreadsheet import.
type ImportResult struct {
	Set       *VocabularySet
	Processed int
	Skipped   int
	Errors    []string
}

// ImportXLSX reads vocabulary rows from a spreadsheet. Rows with errors are
// reported and skipped; duplicate (lemma, pos) rows keep the first entry.
func ImportXLSX(cfg ImportConfig) (*ImportResult, error) {
	if _, err := ParseLanguage(string(cfg.Language)); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.FilePath, err)
	}
	defer f.Close()

	rows, err := f.GetRows(cfg.SheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", cfg.SheetName, err)
	}

	cols, err := resolveColumns(cfg)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{Set: &VocabularySet{Language: cfg.Language, Set: cfg.Set, Name: cfg.Name}}
	seen := make(map[string]bool)
	for i, row := range rows {
		if i < cfg.StartRow-1 {
			continue
		}
		cell := func(col int) string {
			if col < 0 || col >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[col])
		}
		if cell(cols.lemma) == "" {
			continue
		}
		res.Processed++

		item, err := rowToItem(cell, cols)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		key := ItemID(item.Lemma, item.POS)
		if seen[key] {
			res.Skipped++
			continue
		}
		seen[key] = true
		res.Set.Items = append(res.Set.Items, item)
	}
	return res, nil
}

type columns struct {
	lemma, pos, definition, difficulty, frequency, notes int
}

func resolveColumns(cfg ImportConfig) (columns, error) {
	idx := func(name string) (int, error) {
		if name == "" {
			return -1, nil
		}
		n, err := excelize.ColumnNameToNumber(name)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", name, err)
		}
		return n - 1, nil
	}
	var c columns
	var err error
	for _, p := range []struct {
		dst  *int
		name string
	}{
		{&c.lemma, cfg.LemmaColumn},
		{&c.pos, cfg.POSColumn},
		{&c.definition, cfg.DefinitionColumn},
		{&c.difficulty, cfg.DifficultyColumn},
		{&c.frequency, cfg.FrequencyColumn},
		{&c.notes, cfg.NotesColumn},
	} {
		if *p.dst, err = idx(p.name); err != nil {
			return columns{}, err
		}
	}
	return c, nil
}

func rowToItem(cell func(int) string, c columns) (VocabularyData, error) {
	item := VocabularyData{
		Lemma:      cell(c.lemma),
		POS:        strings.ToLower(cell(c.pos)),
		Definition: cell(c.definition),
		Notes:      cell(c.notes),
	}
	if !partsOfSpeech[item.POS] {
		return item, fmt.Errorf("invalid part of speech %q", item.POS)
	}
	if item.Definition == "" {
		return item, fmt.Errorf("missing definition for %q", item.Lemma)
	}
	d, err := strconv.Atoi(cell(c.difficulty))
	if err != nil || d < 1 || d > 10 {
		return item, fmt.Errorf("difficulty must be 1-10, got %q", cell(c.difficulty))
	}
	item.Difficulty = d
	if s := cell(c.frequency); s != "" {
		rank, err := strconv.Atoi(s)
		if err != nil {
			return item, fmt.Errorf("frequency rank %q: %w", s, err)
		}
		item.FrequencyRank = rank
	}
	return item, nil
}
