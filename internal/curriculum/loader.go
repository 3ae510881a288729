package curriculum

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// VocabularySet is the on-disk shape of a vocabulary file.
type VocabularySet struct {
	Language    Language         `yaml:"language"`
	Set         string           `yaml:"set"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Items       []VocabularyData `yaml:"items"`
}

// VocabularyData is one entry of a vocabulary file.
type VocabularyData struct {
	Lemma         string   `yaml:"lemma"`
	POS           string   `yaml:"pos"`
	Definition    string   `yaml:"definition"`
	FrequencyRank int      `yaml:"frequency_rank,omitempty"`
	Difficulty    int      `yaml:"difficulty"`
	Forms         Paradigm `yaml:"forms,omitempty"`
	Notes         string   `yaml:"notes,omitempty"`
}

type grammarFile struct {
	Language Language      `yaml:"language"`
	Category Category      `yaml:"category"`
	Concepts []conceptData `yaml:"concepts"`
}

type conceptData struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Subcategory   string   `yaml:"subcategory"`
	Difficulty    int      `yaml:"difficulty"`
	Prerequisites []string `yaml:"prerequisites"`
	Description   string   `yaml:"description"`
}

// LoadError ties a curriculum problem to the file it came from.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

// LoadDir loads the curriculum for lang from base/<lang>/grammar/**.yml and
// base/<lang>/vocabulary/*.yml. Missing directories yield an empty catalog.
func LoadDir(base string, lang Language) (*Catalog, error) {
	root := filepath.Join(base, string(lang))

	var concepts []GrammarConcept
	grammarFiles, err := yamlFiles(filepath.Join(root, "grammar"), true)
	if err != nil {
		return nil, err
	}
	for _, path := range grammarFiles {
		if strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) == "sequence" {
			continue
		}
		cs, err := loadGrammarFile(path, lang)
		if err != nil {
			return nil, err
		}
		concepts = append(concepts, cs...)
	}

	var items []VocabularyItem
	vocabFiles, err := yamlFiles(filepath.Join(root, "vocabulary"), false)
	if err != nil {
		return nil, err
	}
	for _, path := range vocabFiles {
		set, err := LoadVocabularySet(path)
		if err != nil {
			return nil, err
		}
		if set.Language != lang {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: file is under %q but declares language %q", ErrInvalidCurriculum, lang, set.Language)}
		}
		items = append(items, set.VocabularyItems()...)
	}

	cat, err := NewCatalog(lang, concepts, items)
	if err != nil {
		return nil, &LoadError{Path: root, Err: err}
	}
	return cat, nil
}

// LoadVocabularySet reads and validates one vocabulary file.
func LoadVocabularySet(path string) (*VocabularySet, error) {
	var set VocabularySet
	if err := decodeChecked(path, "vocabulary-set", vocabularySetSchema, &set); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(set.Items))
	for _, it := range set.Items {
		key := ItemID(it.Lemma, it.POS)
		if seen[key] {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: duplicate lemma+pos: %s (%s)", ErrInvalidCurriculum, it.Lemma, it.POS)}
		}
		seen[key] = true
	}
	return &set, nil
}

// VocabularyItems converts the file entries into catalog items.
func (s *VocabularySet) VocabularyItems() []VocabularyItem {
	out := make([]VocabularyItem, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, VocabularyItem{
			ID:            ItemID(it.Lemma, it.POS),
			Set:           s.Set,
			Lemma:         it.Lemma,
			POS:           it.POS,
			Definition:    it.Definition,
			Language:      s.Language,
			Difficulty:    it.Difficulty,
			FrequencyRank: it.FrequencyRank,
			Forms:         it.Forms,
			Notes:         it.Notes,
		})
	}
	return out
}

// WriteVocabularySet writes set as YAML to path.
func WriteVocabularySet(path string, set *VocabularySet) error {
	data, err := yaml.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal vocabulary set: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func loadGrammarFile(path string, lang Language) ([]GrammarConcept, error) {
	var f grammarFile
	if err := decodeChecked(path, "grammar-file", grammarFileSchema, &f); err != nil {
		return nil, err
	}
	if f.Language != lang {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: file is under %q but declares language %q", ErrInvalidCurriculum, lang, f.Language)}
	}
	out := make([]GrammarConcept, 0, len(f.Concepts))
	for _, c := range f.Concepts {
		id := c.ID
		if id == "" {
			id = c.Name
		}
		out = append(out, GrammarConcept{
			ID:            id,
			Name:          c.Name,
			Language:      f.Language,
			Category:      f.Category,
			Subcategory:   c.Subcategory,
			Difficulty:    c.Difficulty,
			Prerequisites: c.Prerequisites,
			Description:   c.Description,
		})
	}
	return out, nil
}

// decodeChecked parses a YAML file, validates its shape, then decodes it
// into out.
func decodeChecked(path, schemaName string, schema map[string]any, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &LoadError{Path: path, Err: fmt.Errorf("%w: invalid YAML: %v", ErrInvalidCurriculum, err)}
	}
	if _, ok := doc.(map[string]any); !ok {
		return &LoadError{Path: path, Err: fmt.Errorf("%w: expected a YAML mapping", ErrInvalidCurriculum)}
	}
	if err := checkShape(schemaName, schema, doc); err != nil {
		return &LoadError{Path: path, Err: err}
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return &LoadError{Path: path, Err: fmt.Errorf("%w: %v", ErrInvalidCurriculum, err)}
	}
	return nil
}

func yamlFiles(dir string, recursive bool) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".yml", ".yaml":
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
