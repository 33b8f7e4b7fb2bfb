package navigator

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// matcher does case-insensitive substring matching on NFC-normalized text
type matcher struct {
	fold   cases.Caser
	needle string
}

func newMatcher(filter string) *matcher {
	m := &matcher{fold: cases.Fold()}
	m.needle = m.key(filter)
	return m
}

func (m *matcher) key(s string) string {
	return m.fold.String(norm.NFC.String(s))
}

func (m *matcher) match(name string) bool {
	return strings.Contains(m.key(name), m.needle)
}

// suggest returns the candidate closest to the filter, comparing against the
// whole name and against a prefix of the filter's length. Candidates further
// than half the filter length are not suggested, so one-letter filters never
// get a suggestion.
func suggest(filter string, candidates []string) string {
	m := newMatcher(filter)
	limit := utf8.RuneCountInString(m.needle) / 2
	if limit == 0 {
		return ""
	}
	n := utf8.RuneCountInString(m.needle)

	best, bestDist := "", limit+1
	for _, name := range candidates {
		key := m.key(name)
		d := levenshtein.ComputeDistance(m.needle, key)
		if p := prefix(key, n); p != key {
			d = min(d, levenshtein.ComputeDistance(m.needle, p))
		}
		if d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func prefix(s string, runes int) string {
	i := 0
	for pos := range s {
		if i == runes {
			return s[:pos]
		}
		i++
	}
	return s
}
