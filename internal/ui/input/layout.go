package input

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"earshot/internal/ui/input/types"
)

// LayoutChangedMsg tells the coordinator that the active keyboard layout
// changed. It may be sent from outside the loop.
type LayoutChangedMsg struct {
	Layout string
}

// LayoutResolutionError means a key could not be mapped to a logical key.
// The key produces no command.
type LayoutResolutionError struct {
	Layout string
	Runes  []rune
}

func (e *LayoutResolutionError) Error() string {
	return fmt.Sprintf("layout %s: cannot resolve %q", e.Layout, string(e.Runes))
}

// LayoutResolver turns a terminal key message into a Key
type LayoutResolver interface {
	Name() string
	Resolve(msg tea.KeyMsg) (types.Key, error)
}

// terminalResolver trusts the characters the terminal delivered
type terminalResolver struct {
	name string
}

func (r terminalResolver) Name() string { return r.name }

func (r terminalResolver) Resolve(msg tea.KeyMsg) (types.Key, error) {
	if msg.Type != tea.KeyRunes {
		return special(msg), nil
	}
	if err := checkRunes(r.name, msg.Runes); err != nil {
		return types.Key{}, err
	}
	return types.Key{Name: msg.String(), Text: msg.Runes, Alt: msg.Alt}, nil
}

// tableResolver maps characters of a non-Latin layout back to the Latin key
// in the same physical position. Text keeps the typed characters.
type tableResolver struct {
	name  string
	table map[rune]rune
}

func (r tableResolver) Name() string { return r.name }

func (r tableResolver) Resolve(msg tea.KeyMsg) (types.Key, error) {
	if msg.Type != tea.KeyRunes {
		return special(msg), nil
	}
	if err := checkRunes(r.name, msg.Runes); err != nil {
		return types.Key{}, err
	}

	physical := make([]rune, len(msg.Runes))
	for i, ch := range msg.Runes {
		if p, ok := r.table[ch]; ok {
			physical[i] = p
		} else {
			physical[i] = ch
		}
	}
	name := string(physical)
	if msg.Alt {
		name = "alt+" + name
	}
	return types.Key{Name: name, Text: msg.Runes, Alt: msg.Alt}, nil
}

// special resolves keys that are not plain characters. Space still types.
func special(msg tea.KeyMsg) types.Key {
	k := types.Key{Name: msg.String(), Alt: msg.Alt}
	if msg.Type == tea.KeySpace && !msg.Alt {
		k.Text = []rune{' '}
	}
	return k
}

func checkRunes(layout string, runes []rune) error {
	if len(runes) == 0 {
		return &LayoutResolutionError{Layout: layout}
	}
	for _, ch := range runes {
		if ch == utf8.RuneError || !unicode.IsPrint(ch) {
			return &LayoutResolutionError{Layout: layout, Runes: runes}
		}
	}
	return nil
}

// ЙЦУКЕН keys and the Latin key in the same position. Upper case is derived.
var russianTable = map[rune]rune{
	'й': 'q', 'ц': 'w', 'у': 'e', 'к': 'r', 'е': 't', 'н': 'y', 'г': 'u',
	'ш': 'i', 'щ': 'o', 'з': 'p', 'х': '[', 'ъ': ']', 'ф': 'a', 'ы': 's',
	'в': 'd', 'а': 'f', 'п': 'g', 'р': 'h', 'о': 'j', 'л': 'k', 'д': 'l',
	'ж': ';', 'э': '\'', 'я': 'z', 'ч': 'x', 'с': 'c', 'м': 'v', 'и': 'b',
	'т': 'n', 'ь': 'm', 'б': ',', 'ю': '.', 'ё': '`',
	'.': '/', ',': '?',
}

// Layouts is the registry of known layouts in cycling order
type Layouts struct {
	order     []string
	resolvers map[string]LayoutResolver
}

// DefaultLayouts returns the built-in "us" and "ru" layouts
func DefaultLayouts() *Layouts {
	l := &Layouts{resolvers: make(map[string]LayoutResolver)}
	l.add(terminalResolver{name: "us"})
	l.add(tableResolver{name: "ru", table: withUpper(russianTable)})
	return l
}

func (l *Layouts) add(r LayoutResolver) {
	if _, exists := l.resolvers[r.Name()]; !exists {
		l.order = append(l.order, r.Name())
	}
	l.resolvers[r.Name()] = r
}

// AddTable registers a layout from config. Each key and value must be a
// single character; upper-case pairs are derived from lower-case ones.
func (l *Layouts) AddTable(name string, pairs map[string]string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("layout name is empty")
	}
	table := make(map[rune]rune, len(pairs))
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := pairs[k]
		if utf8.RuneCountInString(k) != 1 || utf8.RuneCountInString(v) != 1 {
			return fmt.Errorf("layout %s: mapping %q = %q must be single characters", name, k, v)
		}
		from, _ := utf8.DecodeRuneInString(k)
		to, _ := utf8.DecodeRuneInString(v)
		table[from] = to
	}
	l.add(tableResolver{name: name, table: withUpper(table)})
	return nil
}

// Get returns the resolver for name
func (l *Layouts) Get(name string) (LayoutResolver, bool) {
	r, ok := l.resolvers[strings.ToLower(name)]
	return r, ok
}

// Names returns the layout names in cycling order
func (l *Layouts) Names() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Next returns the layout after name, wrapping around
func (l *Layouts) Next(name string) string {
	for i, n := range l.order {
		if n == name {
			return l.order[(i+1)%len(l.order)]
		}
	}
	return l.order[0]
}

func withUpper(table map[rune]rune) map[rune]rune {
	out := make(map[rune]rune, len(table)*2)
	for from, to := range table {
		out[from] = to
	}
	for from, to := range table {
		upFrom, upTo := unicode.ToUpper(from), unicode.ToUpper(to)
		if upFrom == from {
			continue
		}
		if _, exists := out[upFrom]; !exists {
			out[upFrom] = upTo
		}
	}
	return out
}
