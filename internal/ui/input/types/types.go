package types

import (
	"github.com/charmbracelet/bubbles/key"

	"earshot/internal/domain"
)

// Mode represents an input mode
type Mode int

const (
	ModeNavigate Mode = iota
	ModeFilter
	ModePrompt
	ModeConfirm
)

func (m Mode) String() string {
	switch m {
	case ModeNavigate:
		return "navigate"
	case ModeFilter:
		return "filter"
	case ModePrompt:
		return "text entry"
	case ModeConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// Command is what the state machine produces for each key
type Command = domain.Command

// Key is a keypress after layout resolution. Name is the layout-independent
// identity used for bindings ("down", "j", "alt+b"); Text holds the
// characters the user actually typed, used for filter input.
type Key struct {
	Name string
	Text []rune
	Alt  bool
}

// String lets a Key be matched with key.Matches
func (k Key) String() string {
	return k.Name
}

// ModeHandler handles input for a specific mode
type ModeHandler interface {
	// HandleKey maps one key to zero or more commands
	HandleKey(k Key) []Command

	// Name returns the mode name for display
	Name() string

	// Bindings lists the mode's bindings for help output
	Bindings() []key.Binding
}
