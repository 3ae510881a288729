package curriculum

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/logos/internal/textnorm"
)

// Paradigm is an inflection table. Flat entries map a slot straight to a
// form ("nominative_singular": "rosa"); nested entries group slots under a
// category ("present_active_indicative": {"1s": "amō"}).
type Paradigm struct {
	Slots  map[string]string
	Tables map[string]map[string]string
}

// Features locates a form inside a paradigm. Category is empty for flat
// entries.
type Features struct {
	Category string `json:"category,omitempty"`
	Slot     string `json:"slot"`
}

func (f Features) String() string {
	if f.Category == "" {
		return f.Slot
	}
	return f.Category + " " + f.Slot
}

// Form is one inflected form with its position in the paradigm.
type Form struct {
	Text     string
	Features Features
}

// Analysis is a match of a surface form against a lemma's paradigm.
type Analysis struct {
	Lemma    string
	Form     string
	Features Features
}

// Empty reports whether the paradigm holds no forms.
func (p Paradigm) Empty() bool {
	if len(p.Slots) > 0 {
		return false
	}
	for _, t := range p.Tables {
		if len(t) > 0 {
			return false
		}
	}
	return true
}

// Flatten lists every form, flat slots first, then tables by category and
// slot name.
func (p Paradigm) Flatten() []Form {
	var out []Form
	for _, slot := range sortedKeys(p.Slots) {
		out = append(out, Form{Text: p.Slots[slot], Features: Features{Slot: slot}})
	}
	cats := make([]string, 0, len(p.Tables))
	for c := range p.Tables {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		for _, slot := range sortedKeys(p.Tables[c]) {
			out = append(out, Form{Text: p.Tables[c][slot], Features: Features{Category: c, Slot: slot}})
		}
	}
	return out
}

// AllForms returns the distinct surface forms in Flatten order.
func (p Paradigm) AllForms() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range p.Flatten() {
		if !seen[f.Text] {
			seen[f.Text] = true
			out = append(out, f.Text)
		}
	}
	return out
}

// Generate returns the form at the given features.
func (p Paradigm) Generate(f Features) (string, bool) {
	if f.Slot == "" {
		return "", false
	}
	if f.Category != "" {
		form, ok := p.Tables[f.Category][f.Slot]
		return form, ok
	}
	form, ok := p.Slots[f.Slot]
	return form, ok
}

// IsValidForm reports whether form is the lemma or any inflected form of v,
// ignoring case and diacritics.
func (v VocabularyItem) IsValidForm(form string) bool {
	key := textnorm.Fold(form)
	if key == "" {
		return false
	}
	if key == textnorm.Fold(v.Lemma) {
		return true
	}
	for _, f := range v.Forms.Flatten() {
		if textnorm.Fold(f.Text) == key {
			return true
		}
	}
	return false
}

// Analyze returns every paradigm position that form can occupy. The
// citation form matches with slot "lemma".
func (v VocabularyItem) Analyze(form string) []Analysis {
	key := textnorm.Fold(form)
	if key == "" {
		return nil
	}
	var out []Analysis
	if key == textnorm.Fold(v.Lemma) {
		out = append(out, Analysis{Lemma: v.Lemma, Form: form, Features: Features{Slot: "lemma"}})
	}
	for _, f := range v.Forms.Flatten() {
		if textnorm.Fold(f.Text) == key {
			out = append(out, Analysis{Lemma: v.Lemma, Form: f.Text, Features: f.Features})
		}
	}
	return out
}

// UnmarshalYAML accepts a mixed mapping of flat slots and nested tables.
// Values that are neither strings nor string mappings are ignored.
func (p *Paradigm) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]any
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("paradigm: %w", err)
	}
	*p = paradigmFromMap(raw)
	return nil
}

// MarshalYAML writes the paradigm back as a single mapping.
func (p Paradigm) MarshalYAML() (any, error) {
	if p.Empty() {
		return nil, nil
	}
	out := make(map[string]any, len(p.Slots)+len(p.Tables))
	for k, v := range p.Slots {
		out[k] = v
	}
	for k, v := range p.Tables {
		out[k] = v
	}
	return out, nil
}

func paradigmFromMap(raw map[string]any) Paradigm {
	var p Paradigm
	for key, val := range raw {
		switch v := val.(type) {
		case string:
			if p.Slots == nil {
				p.Slots = make(map[string]string)
			}
			p.Slots[key] = v
		case map[string]any:
			table := make(map[string]string, len(v))
			for slot, form := range v {
				if s, ok := form.(string); ok {
					table[slot] = s
				}
			}
			if len(table) == 0 {
				continue
			}
			if p.Tables == nil {
				p.Tables = make(map[string]map[string]string)
			}
			p.Tables[key] = table
		}
	}
	return p
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
