package navigator

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"earshot/internal/domain"
)

// SortKey selects the listing order after the directories-first grouping
type SortKey int

const (
	SortByName SortKey = iota
	SortBySize
	SortByModified
)

var sortKeyNames = []string{"name", "size", "modified"}

func (k SortKey) String() string {
	if int(k) >= 0 && int(k) < len(sortKeyNames) {
		return sortKeyNames[k]
	}
	return "name"
}

// Next cycles name → size → modified → name
func (k SortKey) Next() SortKey {
	return SortKey((int(k) + 1) % len(sortKeyNames))
}

// ParseSortKey parses a config value
func ParseSortKey(s string) (SortKey, error) {
	for i, name := range sortKeyNames {
		if strings.EqualFold(s, name) {
			return SortKey(i), nil
		}
	}
	return SortByName, fmt.Errorf("unknown sort key %q", s)
}

type sortItem struct {
	entry  domain.Entry
	folded string
}

// sortEntries returns a sorted copy. Ties on size or time fall back to the
// folded name so the order is total.
func sortEntries(entries []domain.Entry, key SortKey, dirsFirst bool) []domain.Entry {
	fold := cases.Fold()
	items := make([]sortItem, len(entries))
	for i, e := range entries {
		items[i] = sortItem{entry: e, folded: fold.String(e.Name)}
	}

	slices.SortStableFunc(items, func(a, b sortItem) int {
		if dirsFirst {
			ad, bd := a.entry.IsDir(), b.entry.IsDir()
			if ad != bd {
				if ad {
					return -1
				}
				return 1
			}
		}
		switch key {
		case SortBySize:
			// largest first
			if c := compareInt64(b.entry.Size, a.entry.Size); c != 0 {
				return c
			}
		case SortByModified:
			// newest first
			if c := b.entry.Modified.Compare(a.entry.Modified); c != 0 {
				return c
			}
		}
		if c := strings.Compare(a.folded, b.folded); c != 0 {
			return c
		}
		return strings.Compare(a.entry.Name, b.entry.Name)
	})

	out := make([]domain.Entry, len(items))
	for i, it := range items {
		out[i] = it.entry
	}
	return out
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
