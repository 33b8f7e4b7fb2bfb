package navigator

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"earshot/internal/domain"
)

// PromptKind is the text prompt or confirmation open over the listing
type PromptKind int

const (
	PromptNone PromptKind = iota
	PromptPath
	PromptRename
	PromptConfirmDelete
)

func (k PromptKind) String() string {
	switch k {
	case PromptPath:
		return "go to path"
	case PromptRename:
		return "rename"
	case PromptConfirmDelete:
		return "delete"
	default:
		return "none"
	}
}

// IsText reports whether the prompt takes typed text
func (k PromptKind) IsText() bool {
	return k == PromptPath || k == PromptRename
}

// startPathPrompt opens the path prompt prefilled with the open directory
func (n *Navigator) startPathPrompt(s State, cmd domain.Command) (State, Result) {
	if s.Prompt != PromptNone {
		return s, n.result(ResultUnchanged, cmd, s)
	}
	s.Prompt = PromptPath
	s.PromptText = s.Dir
	if !strings.HasSuffix(s.PromptText, string(filepath.Separator)) {
		s.PromptText += string(filepath.Separator)
	}
	r := n.result(ResultPromptStarted, cmd, s)
	r.Target = s.DirName()
	return s, r
}

func (n *Navigator) startRename(s State, cmd domain.Command) (State, Result) {
	if s.Prompt != PromptNone {
		return s, n.result(ResultUnchanged, cmd, s)
	}
	e, ok := s.Current()
	if !ok {
		return s, n.result(ResultEmpty, cmd, s)
	}
	s.Prompt = PromptRename
	s.PromptText = e.Name
	s.PromptTarget = e.Name
	r := n.result(ResultPromptStarted, cmd, s)
	r.Target = e.Name
	return s, r
}

func (n *Navigator) startDelete(s State, cmd domain.Command) (State, Result) {
	if s.Prompt != PromptNone {
		return s, n.result(ResultUnchanged, cmd, s)
	}
	e, ok := s.Current()
	if !ok {
		return s, n.result(ResultEmpty, cmd, s)
	}
	s.Prompt = PromptConfirmDelete
	s.PromptTarget = e.Name
	r := n.result(ResultPromptStarted, cmd, s)
	r.Target = e.Name
	return s, r
}

func (n *Navigator) appendPrompt(s State, cmd domain.Command) (State, Result) {
	if cmd.Char == 0 {
		return s, n.result(ResultUnchanged, cmd, s)
	}
	return n.editPrompt(s, cmd, s.PromptText+string(cmd.Char))
}

func (n *Navigator) backspacePrompt(s State, cmd domain.Command) (State, Result) {
	if s.PromptText == "" {
		return s, n.result(ResultUnchanged, cmd, s)
	}
	_, size := utf8.DecodeLastRuneInString(s.PromptText)
	return n.editPrompt(s, cmd, s.PromptText[:len(s.PromptText)-size])
}

func (n *Navigator) editPrompt(s State, cmd domain.Command, text string) (State, Result) {
	if !s.Prompt.IsText() {
		return s, n.result(ResultUnchanged, cmd, s)
	}
	s.PromptText = text
	return s, n.result(ResultPromptChanged, cmd, s)
}

func (n *Navigator) cancelPrompt(s State, cmd domain.Command) (State, Result) {
	if s.Prompt == PromptNone {
		return s, n.result(ResultUnchanged, cmd, s)
	}
	kind, target := s.Prompt, s.PromptTarget
	s = clearPrompt(s)
	r := n.result(ResultPromptCancelled, cmd, s)
	r.Prompt = kind
	r.Target = target
	return s, r
}

// submitPrompt closes the prompt and carries it out. The prompt is closed
// whatever the outcome.
func (n *Navigator) submitPrompt(ctx context.Context, s State, cmd domain.Command) (State, Result) {
	switch s.Prompt {
	case PromptPath:
		return n.jump(ctx, s, cmd)
	case PromptRename:
		return n.rename(ctx, s, cmd)
	case PromptConfirmDelete:
		return n.remove(ctx, s, cmd)
	}
	return s, n.result(ResultUnchanged, cmd, s)
}

// jump opens a typed path. A relative path is taken from the open
// directory; a file opens its folder with the file selected.
func (n *Navigator) jump(ctx context.Context, s State, cmd domain.Command) (State, Result) {
	text := strings.TrimSpace(s.PromptText)
	s = clearPrompt(s)
	if text == "" {
		return s, n.rejected(cmd, s, PromptPath, "no path entered")
	}

	path := text
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, path)
	}
	path = filepath.Clean(path)

	e, err := n.probe.Stat(ctx, path)
	if err != nil {
		return s, n.promptFailed(cmd, s, PromptPath, toProbeError(path, err), baseName(path))
	}
	dir, selected := path, ""
	switch {
	case e.IsDir():
	case e.IsFile():
		dir, selected = filepath.Dir(path), e.Name
	default:
		return s, n.promptFailed(cmd, s, PromptPath, domain.NewProbeError(domain.ProbeNotADirectory, path, nil), baseName(path))
	}

	listing, perr := n.list(ctx, dir)
	if perr != nil {
		return s, n.promptFailed(cmd, s, PromptPath, perr, baseName(dir))
	}

	next := n.load(s, listing)
	next.Dir = dir
	next.History = push(s.History, s.visit(), n.opts.HistoryLimit)
	next.Forward = nil
	next.selectName(selected, 0)

	r := n.result(ResultJumped, cmd, next)
	r.Target = next.DirName()
	r.Path = dir
	return next, r
}

// rename renames the prompt's entry in place and selects it under its new
// name. An existing entry with the new name is never replaced.
func (n *Navigator) rename(ctx context.Context, s State, cmd domain.Command) (State, Result) {
	oldName, newName := s.PromptTarget, s.PromptText
	s = clearPrompt(s)

	switch {
	case n.mut == nil:
		return s, n.rejected(cmd, s, PromptRename, "renaming is not available")
	case strings.TrimSpace(newName) == "":
		return s, n.rejected(cmd, s, PromptRename, "name is empty")
	case newName == "." || newName == "..":
		return s, n.rejected(cmd, s, PromptRename, newName+" is not a valid name")
	case strings.ContainsRune(newName, '/') || strings.ContainsRune(newName, filepath.Separator):
		return s, n.rejected(cmd, s, PromptRename, "name cannot contain a slash")
	case newName == oldName:
		return s, n.rejected(cmd, s, PromptRename, "name unchanged")
	}

	idx := s.Listing.Index(oldName)
	if idx < 0 {
		return s, n.promptFailed(cmd, s, PromptRename, domain.NewProbeError(domain.ProbeNotFound, filepath.Join(s.Dir, oldName), nil), oldName)
	}
	from := s.Listing.Entries[idx].Path
	to := filepath.Join(s.Dir, newName)

	if _, err := n.probe.Stat(ctx, to); err == nil {
		return s, n.rejected(cmd, s, PromptRename, newName+" already exists")
	}
	if err := n.mut.Rename(ctx, from, to); err != nil {
		return s, n.promptFailed(cmd, s, PromptRename, toProbeError(from, err), oldName)
	}

	next := s
	if listing, perr := n.list(ctx, s.Dir); perr == nil {
		next.Listing = sortEntriesListing(listing, s.Sort, s.DirectoriesFirst)
		next.rebuild()
		next.selectName(newName, s.Selected)
	}

	r := n.result(ResultRenamed, cmd, next)
	r.Target = oldName
	r.NewName = newName
	return next, r
}

// remove deletes the prompt's entry. The selection stays at the same
// position, clamped.
func (n *Navigator) remove(ctx context.Context, s State, cmd domain.Command) (State, Result) {
	name := s.PromptTarget
	s = clearPrompt(s)

	if n.mut == nil {
		return s, n.rejected(cmd, s, PromptConfirmDelete, "deleting is not available")
	}
	idx := s.Listing.Index(name)
	if idx < 0 {
		return s, n.promptFailed(cmd, s, PromptConfirmDelete, domain.NewProbeError(domain.ProbeNotFound, filepath.Join(s.Dir, name), nil), name)
	}
	path := s.Listing.Entries[idx].Path
	if err := n.mut.Remove(ctx, path); err != nil {
		return s, n.promptFailed(cmd, s, PromptConfirmDelete, toProbeError(path, err), name)
	}

	next := s
	if listing, perr := n.list(ctx, s.Dir); perr == nil {
		next.Listing = sortEntriesListing(listing, s.Sort, s.DirectoriesFirst)
	} else {
		next.Listing = without(s.Listing, idx)
	}
	next.rebuild()
	next.selectName("", s.Selected)

	r := n.result(ResultDeleted, cmd, next)
	r.Target = name
	return next, r
}

func (n *Navigator) rejected(cmd domain.Command, s State, kind PromptKind, reason string) Result {
	r := n.result(ResultPromptRejected, cmd, s)
	r.Prompt = kind
	r.Reason = reason
	return r
}

func (n *Navigator) promptFailed(cmd domain.Command, s State, kind PromptKind, perr *domain.ProbeError, target string) Result {
	r := n.failed(cmd, s, perr, target)
	r.Prompt = kind
	return r
}

func clearPrompt(s State) State {
	s.Prompt = PromptNone
	s.PromptText = ""
	s.PromptTarget = ""
	return s
}

// without returns a copy of l minus the entry at idx
func without(l domain.Listing, idx int) domain.Listing {
	entries := make([]domain.Entry, 0, len(l.Entries)-1)
	entries = append(entries, l.Entries[:idx]...)
	l.Entries = append(entries, l.Entries[idx+1:]...)
	return l
}
