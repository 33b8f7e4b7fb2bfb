package modes

import (
	"github.com/charmbracelet/bubbles/key"

	"earshot/internal/domain"
	"earshot/internal/ui/input/types"
)

var promptBindings = []struct {
	kind    domain.CommandKind
	binding key.Binding
}{
	{domain.CmdQuit, key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))},
	{domain.CmdSubmitPrompt, key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept"))},
	{domain.CmdCancelPrompt, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))},
	{domain.CmdBackspacePrompt, key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "delete character"))},
	{domain.CmdClearPrompt, key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "clear"))},
}

// PromptMode edits the text of the path and rename prompts
type PromptMode struct{}

func NewPromptMode() *PromptMode {
	return &PromptMode{}
}

func (m *PromptMode) Name() string {
	return types.ModePrompt.String()
}

func (m *PromptMode) HandleKey(k types.Key) []types.Command {
	for _, b := range promptBindings {
		if key.Matches(k, b.binding) {
			return []types.Command{domain.Cmd(b.kind)}
		}
	}
	if len(k.Text) == 0 || k.Alt {
		return nil
	}

	cmds := make([]types.Command, 0, len(k.Text))
	for _, r := range k.Text {
		cmds = append(cmds, domain.PromptChar(r))
	}
	return cmds
}

func (m *PromptMode) Bindings() []key.Binding {
	out := make([]key.Binding, len(promptBindings))
	for i, b := range promptBindings {
		out[i] = b.binding
	}
	return out
}
