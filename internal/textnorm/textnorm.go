// Package textnorm folds learner input and curriculum text into a
// comparable form: lower case, trimmed, single-spaced, with combining
// marks (accents, breathings, macrons) removed.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the comparison key for s.
func Fold(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	return StripMarks(s)
}

// StripMarks decomposes s (NFD) and drops every nonspacing mark.
func StripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Equal reports whether a and b fold to the same non-empty key.
func Equal(a, b string) bool {
	fa := Fold(a)
	return fa != "" && fa == Fold(b)
}
