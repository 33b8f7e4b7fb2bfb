package modes

import (
	"github.com/charmbracelet/bubbles/key"

	"earshot/internal/domain"
	"earshot/internal/ui/input/types"
)

var filterBindings = []struct {
	kind    domain.CommandKind
	binding key.Binding
}{
	{domain.CmdQuit, key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))},
	{domain.CmdExitFilterMode, key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("esc/enter", "leave filter"))},
	{domain.CmdBackspaceFilter, key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "delete character"))},
	{domain.CmdMoveUp, key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "move up"))},
	{domain.CmdMoveDown, key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "move down"))},
	{domain.CmdMoveToFirst, key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first match"))},
	{domain.CmdMoveToLast, key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last match"))},
	{domain.CmdMovePageUp, key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up"))},
	{domain.CmdMovePageDown, key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down"))},
}

// FilterMode appends typed characters to the filter. Its bindings are fixed.
type FilterMode struct{}

func NewFilterMode() *FilterMode {
	return &FilterMode{}
}

func (m *FilterMode) Name() string {
	return types.ModeFilter.String()
}

func (m *FilterMode) HandleKey(k types.Key) []types.Command {
	for _, b := range filterBindings {
		if key.Matches(k, b.binding) {
			return []types.Command{domain.Cmd(b.kind)}
		}
	}
	if len(k.Text) == 0 || k.Alt {
		return nil
	}

	cmds := make([]types.Command, 0, len(k.Text))
	for _, r := range k.Text {
		cmds = append(cmds, domain.AppendChar(r))
	}
	return cmds
}

func (m *FilterMode) Bindings() []key.Binding {
	out := make([]key.Binding, len(filterBindings))
	for i, b := range filterBindings {
		out[i] = b.binding
	}
	return out
}
