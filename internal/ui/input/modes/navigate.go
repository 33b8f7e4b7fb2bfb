package modes

import (
	"github.com/charmbracelet/bubbles/key"

	"earshot/internal/domain"
	"earshot/internal/ui/input/types"
)

// KeyLookup resolves a key to the command bound to it
type KeyLookup interface {
	Lookup(k types.Key) (domain.CommandKind, bool)
	Bindings() []key.Binding
}

// NavigateMode turns bound keys into navigation commands
type NavigateMode struct {
	keys KeyLookup
}

func NewNavigateMode(keys KeyLookup) *NavigateMode {
	return &NavigateMode{keys: keys}
}

func (m *NavigateMode) Name() string {
	return types.ModeNavigate.String()
}

func (m *NavigateMode) HandleKey(k types.Key) []types.Command {
	kind, ok := m.keys.Lookup(k)
	if !ok {
		// unbound keys and modifier combinations are dropped
		return nil
	}
	return []types.Command{domain.Cmd(kind)}
}

func (m *NavigateMode) Bindings() []key.Binding {
	return m.keys.Bindings()
}
