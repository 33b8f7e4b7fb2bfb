package input

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"earshot/internal/domain"
	"earshot/internal/ui/input/types"
)

// KeyMap holds the Navigate mode bindings
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Enter    key.Binding
	Parent   key.Binding
	Back     key.Binding
	Forward  key.Binding
	Filter   key.Binding
	Hidden   key.Binding
	Cancel   key.Binding
	Refresh  key.Binding
	Sort     key.Binding
	Describe key.Binding
	WhereAmI key.Binding
	CopyPath key.Binding
	GoToPath key.Binding
	Rename   key.Binding
	Delete   key.Binding
	Repeat   key.Binding
	Help     key.Binding
	Layout   key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first item"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last item"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", "right", "l"),
			key.WithHelp("enter/l", "open"),
		),
		Parent: key.NewBinding(
			key.WithKeys("backspace", "left", "h"),
			key.WithHelp("←/h", "parent folder"),
		),
		Back: key.NewBinding(
			key.WithKeys("alt+left", "b"),
			key.WithHelp("b", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("alt+right", "f"),
			key.WithHelp("f", "forward"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Hidden: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "hidden files"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stop speech"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Describe: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "details"),
		),
		WhereAmI: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "where am i"),
		),
		CopyPath: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy path"),
		),
		GoToPath: key.NewBinding(
			key.WithKeys("ctrl+g", ":"),
			key.WithHelp(":", "go to path"),
		),
		Rename: key.NewBinding(
			key.WithKeys("f2", "e"),
			key.WithHelp("e", "rename"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete", "d"),
			key.WithHelp("d", "delete"),
		),
		Repeat: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "repeat"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Layout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "next layout"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// boundKey pairs a binding with the command it produces
type boundKey struct {
	kind    domain.CommandKind
	binding *key.Binding
}

// commands lists bindings in lookup order
func (k *KeyMap) commands() []boundKey {
	return []boundKey{
		{domain.CmdMoveUp, &k.Up},
		{domain.CmdMoveDown, &k.Down},
		{domain.CmdMoveToFirst, &k.Home},
		{domain.CmdMoveToLast, &k.End},
		{domain.CmdMovePageUp, &k.PageUp},
		{domain.CmdMovePageDown, &k.PageDown},
		{domain.CmdEnter, &k.Enter},
		{domain.CmdGoUp, &k.Parent},
		{domain.CmdGoBack, &k.Back},
		{domain.CmdGoForward, &k.Forward},
		{domain.CmdEnterFilterMode, &k.Filter},
		{domain.CmdToggleHidden, &k.Hidden},
		{domain.CmdCancel, &k.Cancel},
		{domain.CmdRefresh, &k.Refresh},
		{domain.CmdCycleSort, &k.Sort},
		{domain.CmdDescribe, &k.Describe},
		{domain.CmdWhereAmI, &k.WhereAmI},
		{domain.CmdCopyPath, &k.CopyPath},
		{domain.CmdGoToPath, &k.GoToPath},
		{domain.CmdRename, &k.Rename},
		{domain.CmdDelete, &k.Delete},
		{domain.CmdRepeat, &k.Repeat},
		{domain.CmdHelp, &k.Help},
		{domain.CmdCycleLayout, &k.Layout},
		{domain.CmdQuit, &k.Quit},
	}
}

// Lookup returns the command bound to a resolved key
func (k KeyMap) Lookup(pressed types.Key) (domain.CommandKind, bool) {
	for _, b := range k.commands() {
		if key.Matches(pressed, *b.binding) {
			return b.kind, true
		}
	}
	return domain.CmdNone, false
}

// Bindings returns every binding in lookup order
func (k KeyMap) Bindings() []key.Binding {
	cmds := k.commands()
	out := make([]key.Binding, len(cmds))
	for i, b := range cmds {
		out[i] = *b.binding
	}
	return out
}

// Binding returns the binding for a command kind
func (k KeyMap) Binding(kind domain.CommandKind) (key.Binding, bool) {
	for _, b := range k.commands() {
		if b.kind == kind {
			return *b.binding, true
		}
	}
	return key.Binding{}, false
}

// ApplyOverrides rebinds commands by name, e.g. "move_down" = ["down", "n"].
// The first key becomes the help label.
func (k *KeyMap) ApplyOverrides(overrides map[string][]string) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	byKind := make(map[domain.CommandKind]*key.Binding)
	for _, b := range k.commands() {
		byKind[b.kind] = b.binding
	}

	for _, name := range names {
		keys := overrides[name]
		kind, ok := domain.CommandKindByName(strings.ToLower(name))
		if !ok {
			return fmt.Errorf("keymap: unknown command %q", name)
		}
		b, ok := byKind[kind]
		if !ok {
			return fmt.Errorf("keymap: command %q cannot be bound in navigate mode", name)
		}
		if len(keys) == 0 {
			return fmt.Errorf("keymap: command %q has no keys", name)
		}
		desc := b.Help().Desc
		b.SetKeys(keys...)
		b.SetHelp(keys[0], desc)
	}
	return nil
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Parent, k.Filter, k.Describe, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Home, k.End, k.PageUp, k.PageDown},
		{k.Enter, k.Parent, k.Back, k.Forward, k.GoToPath, k.Refresh},
		{k.Filter, k.Hidden, k.Sort, k.Describe, k.WhereAmI, k.CopyPath},
		{k.Rename, k.Delete},
		{k.Cancel, k.Repeat, k.Help, k.Layout, k.Quit},
	}
}
