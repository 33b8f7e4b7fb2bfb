package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"earshot/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	Dir            string
	Entries        []domain.Entry // visible entries in display order
	Selected       int
	ViewportOffset int
	Total          int // entries in the listing before filtering
	Partial        bool
	Filter         string
	FilterActive   bool
	Prompt         string // label of the open prompt, empty when none
	PromptText     string
	ShowHidden     bool
	Sort           string
	Layout         string
	Status         string // last thing spoken
	StatusIsError  bool
	ShowHelp       bool
	Help           help.Model
	Keys           help.KeyMap
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	entryRender *EntryRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		entryRender: NewEntryRenderer(styles),
	}
}

// chrome is the number of lines around the list: padding, title, path,
// filter, status and help
const chrome = 9

// ListHeight returns how many entries fit on screen
func ListHeight(height int) int {
	if height <= 0 {
		height = 24
	}
	if h := height - chrome; h > 3 {
		return h
	}
	return 3
}

// ScrollOffset moves the viewport just enough to keep selected visible
func ScrollOffset(selected, offset, visible, count int) int {
	if visible <= 0 || count <= visible {
		return 0
	}
	if selected < 0 {
		return 0
	}
	if selected < offset {
		offset = selected
	}
	if selected >= offset+visible {
		offset = selected - visible + 1
	}
	if last := count - visible; offset > last {
		offset = last
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	width := state.Width
	if width <= 0 {
		width = 80
	}
	inner := width - 4

	content := &strings.Builder{}
	content.WriteString(r.titleLine(state, inner))
	content.WriteString("\n")
	content.WriteString(r.styles.Path.Render(state.Dir))
	content.WriteString("\n")

	if state.FilterActive {
		content.WriteString(r.styles.Filter.Render(fmt.Sprintf("Filter: %s", state.Filter)))
		content.WriteString("\n")
	}
	if state.Prompt != "" {
		line := state.Prompt
		if state.PromptText != "" {
			line += ": " + state.PromptText
		}
		content.WriteString(r.styles.Filter.Render(line))
		content.WriteString("\n")
	}

	switch {
	case len(state.Entries) == 0 && state.FilterActive && state.Filter != "":
		content.WriteString(r.styles.Dim.Render("No matches"))
	case len(state.Entries) == 0:
		content.WriteString(r.styles.Dim.Render("Empty folder"))
	default:
		content.WriteString(r.renderList(state, inner))
	}
	content.WriteString("\n\n")

	if state.Status != "" {
		style := r.styles.Status
		if state.StatusIsError {
			style = r.styles.StatusError
		}
		content.WriteString(style.Width(inner).Render(state.Status))
		content.WriteString("\n")
	}

	if state.Keys != nil {
		h := state.Help
		h.Width = inner
		if state.ShowHelp {
			content.WriteString(h.FullHelpView(state.Keys.FullHelp()))
		} else {
			content.WriteString(h.ShortHelpView(state.Keys.ShortHelp()))
		}
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

func (r *Renderer) titleLine(state ViewState, width int) string {
	logo := r.styles.Title.Render("earshot")

	var indicators []string
	if state.Sort != "" {
		indicators = append(indicators, "sort: "+state.Sort)
	}
	if state.ShowHidden {
		indicators = append(indicators, "hidden shown")
	}
	if state.Layout != "" {
		indicators = append(indicators, "layout: "+state.Layout)
	}
	if state.Partial {
		indicators = append(indicators, "partial listing")
	}
	if len(indicators) == 0 {
		return logo
	}

	right := r.styles.Indicator.Render(strings.Join(indicators, " | "))
	padding := width - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderList(state ViewState, width int) string {
	visible := ListHeight(state.Height)
	offset := ScrollOffset(state.Selected, state.ViewportOffset, visible, len(state.Entries))

	var lines []string
	if offset > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", offset)))
	}
	end := offset + visible
	if end > len(state.Entries) {
		end = len(state.Entries)
	}
	for i := offset; i < end; i++ {
		lines = append(lines, r.entryRender.RenderEntry(state.Entries[i], i == state.Selected, width))
	}
	if below := len(state.Entries) - end; below > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", below)))
	}

	if state.FilterActive && state.Total > 0 {
		lines = append(lines, r.styles.Dim.Render(fmt.Sprintf("%d of %d", len(state.Entries), state.Total)))
	}
	return strings.Join(lines, "\n")
}
