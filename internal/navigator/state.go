package navigator

import (
	"path/filepath"

	"earshot/internal/domain"
)

// Visit is one history stack frame
type Visit struct {
	Path     string
	Selected int
	Name     string // name of the entry selected when we left
}

// State is the navigator's value. It is owned by the coordinator and only
// replaced through Navigator methods.
type State struct {
	Dir              string
	Listing          domain.Listing
	Selected         int // index into the visible view, -1 iff the view is empty
	History          []Visit
	Forward          []Visit
	Filter           string
	FilterActive     bool
	ShowHidden       bool
	Sort             SortKey
	DirectoriesFirst bool

	// Prompt is the open text prompt or confirmation, PromptNone otherwise
	Prompt       PromptKind
	PromptText   string
	PromptTarget string // entry a rename or delete acts on

	view []int
}

// Len returns the number of visible entries
func (s State) Len() int {
	return len(s.view)
}

// At returns the i-th visible entry
func (s State) At(i int) domain.Entry {
	return s.Listing.Entries[s.view[i]]
}

// Current returns the selected entry
func (s State) Current() (domain.Entry, bool) {
	if s.Selected < 0 || s.Selected >= len(s.view) {
		return domain.Entry{}, false
	}
	return s.At(s.Selected), true
}

// Visible returns the entries of the view in display order
func (s State) Visible() []domain.Entry {
	out := make([]domain.Entry, len(s.view))
	for i, idx := range s.view {
		out[i] = s.Listing.Entries[idx]
	}
	return out
}

// DirName is the spoken name of the open directory
func (s State) DirName() string {
	return baseName(s.Dir)
}

func (s State) currentName() string {
	if e, ok := s.Current(); ok {
		return e.Name
	}
	return ""
}

func (s State) visit() Visit {
	return Visit{Path: s.Dir, Selected: s.Selected, Name: s.currentName()}
}

// rebuild recomputes the view from the hidden and filter predicates. It
// always allocates so values handed out earlier stay valid.
func (s *State) rebuild() {
	var m *matcher
	if s.Filter != "" {
		m = newMatcher(s.Filter)
	}
	view := make([]int, 0, len(s.Listing.Entries))
	for i, e := range s.Listing.Entries {
		if !s.ShowHidden && e.Hidden {
			continue
		}
		if m != nil && !m.match(e.Name) {
			continue
		}
		view = append(view, i)
	}
	s.view = view
}

func (s State) indexOf(name string) int {
	if name == "" {
		return -1
	}
	for i, idx := range s.view {
		if s.Listing.Entries[idx].Name == name {
			return i
		}
	}
	return -1
}

// selectName selects name if visible, otherwise the clamped fallback index
func (s *State) selectName(name string, fallback int) {
	if i := s.indexOf(name); i >= 0 {
		s.Selected = i
		return
	}
	s.Selected = s.clamp(fallback)
}

func (s State) clamp(i int) int {
	switch {
	case len(s.view) == 0:
		return -1
	case i < 0:
		return 0
	case i >= len(s.view):
		return len(s.view) - 1
	default:
		return i
	}
}

// push appends v to a copy of stack, dropping the oldest frames over limit
func push(stack []Visit, v Visit, limit int) []Visit {
	out := make([]Visit, 0, len(stack)+1)
	out = append(out, stack...)
	out = append(out, v)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// pop returns the top frame and a copy of the rest of the stack
func pop(stack []Visit) (Visit, []Visit) {
	top := stack[len(stack)-1]
	rest := make([]Visit, len(stack)-1)
	copy(rest, stack)
	return top, rest
}

func baseName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return path
	}
	return name
}
