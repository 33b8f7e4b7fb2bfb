package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"earshot/internal/domain"
	"earshot/internal/speech"
)

// EntryRenderer renders one listing line
type EntryRenderer struct {
	styles *Styles
}

func NewEntryRenderer(styles *Styles) *EntryRenderer {
	return &EntryRenderer{styles: styles}
}

// RenderEntry renders name, kind marker and size, padded to width
func (r *EntryRenderer) RenderEntry(e domain.Entry, selected bool, width int) string {
	name, style := r.decorate(e)

	size := ""
	if e.IsFile() && e.HasSize {
		size = speech.FormatSize(e.Size)
	}

	cursor := "  "
	if selected {
		cursor = "> "
	}
	left := cursor + name
	pad := width - lipgloss.Width(left) - lipgloss.Width(size)
	if pad < 1 {
		pad = 1
	}

	if selected {
		return r.styles.Selected.Render(left + strings.Repeat(" ", pad) + size)
	}
	line := style.Render(left)
	if size != "" {
		line += strings.Repeat(" ", pad) + r.styles.Size.Render(size)
	}
	return line
}

func (r *EntryRenderer) decorate(e domain.Entry) (string, lipgloss.Style) {
	var name string
	var style lipgloss.Style
	switch e.Kind {
	case domain.KindDirectory:
		name, style = e.Name+"/", r.styles.Directory
	case domain.KindSymlink:
		switch {
		case e.Broken:
			name, style = e.Name+" -> ?", r.styles.Broken
		case e.Target == domain.KindDirectory:
			name, style = e.Name+"@/", r.styles.Symlink
		default:
			name, style = e.Name+"@", r.styles.Symlink
		}
	case domain.KindSpecial:
		name, style = e.Name+"|", r.styles.Special
	case domain.KindInaccessible:
		name, style = e.Name+" (inaccessible)", r.styles.Broken
	default:
		name, style = e.Name, r.styles.File
	}
	if e.Hidden {
		style = style.Inherit(r.styles.Hidden).Faint(true)
	}
	return name, style
}
