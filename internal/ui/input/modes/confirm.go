package modes

import (
	"github.com/charmbracelet/bubbles/key"

	"earshot/internal/domain"
	"earshot/internal/ui/input/types"
)

var confirmBindings = []struct {
	kind    domain.CommandKind
	binding key.Binding
}{
	{domain.CmdQuit, key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))},
	{domain.CmdSubmitPrompt, key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm"))},
	{domain.CmdCancelPrompt, key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "cancel"))},
}

// ConfirmMode answers a yes or no question. Any other key is ignored so a
// stray keypress never confirms.
type ConfirmMode struct{}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return types.ModeConfirm.String()
}

func (m *ConfirmMode) HandleKey(k types.Key) []types.Command {
	for _, b := range confirmBindings {
		if key.Matches(k, b.binding) {
			return []types.Command{domain.Cmd(b.kind)}
		}
	}
	return nil
}

func (m *ConfirmMode) Bindings() []key.Binding {
	out := make([]key.Binding, len(confirmBindings))
	for i, b := range confirmBindings {
		out[i] = b.binding
	}
	return out
}
