package input

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"earshot/internal/domain"
	"earshot/internal/logging"
	"earshot/internal/ui/input/modes"
	"earshot/internal/ui/input/types"
)

// Handler is the keyboard state machine. It resolves raw keys through the
// active layout and hands them to the current mode.
type Handler struct {
	mode    types.Mode
	modes   map[types.Mode]types.ModeHandler
	keys    KeyMap
	layouts *Layouts
	layout  LayoutResolver
	log     *zap.Logger
}

func New(keys KeyMap, layouts *Layouts, layout string) (*Handler, error) {
	if layouts == nil {
		layouts = DefaultLayouts()
	}
	resolver, ok := layouts.Get(layout)
	if !ok {
		return nil, fmt.Errorf("unknown keyboard layout %q (known: %s)", layout, strings.Join(layouts.Names(), ", "))
	}

	h := &Handler{
		mode:    types.ModeNavigate,
		modes:   make(map[types.Mode]types.ModeHandler),
		keys:    keys,
		layouts: layouts,
		layout:  resolver,
		log:     logging.Named("input"),
	}
	h.modes[types.ModeNavigate] = modes.NewNavigateMode(h.keys)
	h.modes[types.ModeFilter] = modes.NewFilterMode()
	h.modes[types.ModePrompt] = modes.NewPromptMode()
	h.modes[types.ModeConfirm] = modes.NewConfirmMode()
	return h, nil
}

// HandleKey maps one key message to the commands it produces
func (h *Handler) HandleKey(msg tea.KeyMsg) []domain.Command {
	k, err := h.layout.Resolve(msg)
	if err != nil {
		h.log.Debug("unresolved key", zap.String("layout", h.layout.Name()), zap.Error(err))
		return nil
	}

	handler := h.modes[h.mode]
	if handler == nil {
		return nil
	}
	cmds := handler.HandleKey(k)

	for _, c := range cmds {
		switch c.Kind {
		case domain.CmdEnterFilterMode:
			h.mode = types.ModeFilter
		case domain.CmdGoToPath, domain.CmdRename:
			h.mode = types.ModePrompt
		case domain.CmdDelete:
			h.mode = types.ModeConfirm
		case domain.CmdExitFilterMode, domain.CmdSubmitPrompt, domain.CmdCancelPrompt:
			h.mode = types.ModeNavigate
		}
	}
	return cmds
}

func (h *Handler) Mode() types.Mode {
	return h.mode
}

// SetMode forces a mode, used to resync with the navigator state
func (h *Handler) SetMode(mode types.Mode) {
	h.mode = mode
}

// Layout returns the active layout name
func (h *Handler) Layout() string {
	return h.layout.Name()
}

// SetLayout switches the active layout
func (h *Handler) SetLayout(name string) error {
	r, ok := h.layouts.Get(name)
	if !ok {
		return fmt.Errorf("unknown keyboard layout %q", name)
	}
	h.layout = r
	return nil
}

// NextLayout returns the layout after the active one without switching
func (h *Handler) NextLayout() string {
	return h.layouts.Next(h.layout.Name())
}

// Layouts lists the registered layout names in cycling order
func (h *Handler) Layouts() []string {
	return h.layouts.Names()
}

func (h *Handler) KeyMap() KeyMap {
	return h.keys
}

// SpokenHelp lists the current mode's bindings in a form suited to speech
func (h *Handler) SpokenHelp() string {
	handler := h.modes[h.mode]
	parts := []string{handler.Name() + " mode keys"}
	for _, b := range handler.Bindings() {
		if !b.Enabled() {
			continue
		}
		parts = append(parts, b.Help().Desc+", "+strings.Join(b.Keys(), " or "))
	}
	switch h.mode {
	case types.ModeFilter:
		parts = append(parts, "other characters type into the filter")
	case types.ModePrompt:
		parts = append(parts, "other characters are typed")
	}
	return strings.Join(parts, ". ")
}
