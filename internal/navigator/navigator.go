// Package navigator keeps the view of the open directory: selection, history,
// filtering and ordering. Every operation takes a State and returns a new one;
// probe failures are reported in the Result and leave the state untouched.
package navigator

import (
	"context"
	"path/filepath"
	"unicode/utf8"

	"earshot/internal/domain"
	"earshot/internal/probe"
)

// Options configures a Navigator
type Options struct {
	HistoryLimit     int
	PageSize         int
	DirectoriesFirst bool
	SortBy           SortKey
	ShowHidden       bool
}

// DefaultOptions returns the built-in navigation settings
func DefaultOptions() Options {
	return Options{
		HistoryLimit:     100,
		PageSize:         10,
		DirectoriesFirst: true,
		SortBy:           SortByName,
	}
}

// Navigator applies commands to a State
type Navigator struct {
	probe probe.Prober
	mut   probe.Mutator
	opts  Options
}

// New creates a navigator over the given probe. Rename and delete are only
// available when p also implements probe.Mutator.
func New(p probe.Prober, opts Options) *Navigator {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultOptions().PageSize
	}
	n := &Navigator{probe: p, opts: opts}
	if m, ok := p.(probe.Mutator); ok {
		n.mut = m
	}
	return n
}

// Open loads dir as the first directory of a session. On failure the state
// points at dir with an empty view so GoUp and Refresh still work.
func (n *Navigator) Open(ctx context.Context, dir string) (State, Result) {
	s := State{
		Dir:              dir,
		Selected:         -1,
		ShowHidden:       n.opts.ShowHidden,
		Sort:             n.opts.SortBy,
		DirectoriesFirst: n.opts.DirectoriesFirst,
	}
	cmd := domain.Cmd(domain.CmdEnter)

	listing, perr := n.list(ctx, dir)
	if perr != nil {
		s.Listing = domain.Listing{Path: dir}
		s.rebuild()
		return s, n.failed(cmd, s, perr, baseName(dir))
	}
	s = n.load(s, listing)
	s.Selected = s.clamp(0)
	r := n.result(ResultEntered, cmd, s)
	r.Target = s.DirName()
	return s, r
}

// Apply runs one command against s
func (n *Navigator) Apply(ctx context.Context, s State, cmd domain.Command) (State, Result) {
	switch cmd.Kind {
	case domain.CmdMoveUp:
		return n.moveBy(s, cmd, -1)
	case domain.CmdMoveDown:
		return n.moveBy(s, cmd, 1)
	case domain.CmdMovePageUp:
		return n.moveBy(s, cmd, -n.opts.PageSize)
	case domain.CmdMovePageDown:
		return n.moveBy(s, cmd, n.opts.PageSize)
	case domain.CmdMoveToFirst:
		return n.moveTo(s, cmd, 0, BoundaryTop)
	case domain.CmdMoveToLast:
		return n.moveTo(s, cmd, s.Len()-1, BoundaryBottom)
	case domain.CmdEnter:
		return n.enter(ctx, s, cmd)
	case domain.CmdGoUp:
		return n.goUp(ctx, s, cmd)
	case domain.CmdGoBack:
		return n.goBack(ctx, s, cmd)
	case domain.CmdGoForward:
		return n.goForward(ctx, s, cmd)
	case domain.CmdRefresh:
		return n.refresh(ctx, s, cmd)
	case domain.CmdToggleHidden:
		return n.toggleHidden(s, cmd)
	case domain.CmdCycleSort:
		return n.cycleSort(s, cmd)
	case domain.CmdEnterFilterMode:
		return n.startFilter(s, cmd)
	case domain.CmdAppendFilterChar:
		return n.appendFilter(s, cmd)
	case domain.CmdBackspaceFilter:
		return n.backspaceFilter(s, cmd)
	case domain.CmdExitFilterMode:
		return n.endFilter(s, cmd)
	case domain.CmdDescribe:
		return n.describe(ctx, s, cmd)
	case domain.CmdWhereAmI:
		return n.locate(s, cmd)
	case domain.CmdCopyPath:
		return n.copyPath(s, cmd)
	case domain.CmdGoToPath:
		return n.startPathPrompt(s, cmd)
	case domain.CmdRename:
		return n.startRename(s, cmd)
	case domain.CmdDelete:
		return n.startDelete(s, cmd)
	case domain.CmdAppendPromptChar:
		return n.appendPrompt(s, cmd)
	case domain.CmdBackspacePrompt:
		return n.backspacePrompt(s, cmd)
	case domain.CmdClearPrompt:
		return n.editPrompt(s, cmd, "")
	case domain.CmdSubmitPrompt:
		return n.submitPrompt(ctx, s, cmd)
	case domain.CmdCancelPrompt:
		return n.cancelPrompt(s, cmd)
	default:
		return s, n.result(ResultUnchanged, cmd, s)
	}
}

func (n *Navigator) moveBy(s State, cmd domain.Command, delta int) (State, Result) {
	if s.Len() == 0 {
		return s, n.result(ResultEmpty, cmd, s)
	}
	if delta < 0 && s.Selected == 0 {
		r := n.result(ResultAtBoundary, cmd, s)
		r.Boundary = BoundaryTop
		return s, r
	}
	if delta > 0 && s.Selected == s.Len()-1 {
		r := n.result(ResultAtBoundary, cmd, s)
		r.Boundary = BoundaryBottom
		return s, r
	}
	s.Selected = s.clamp(s.Selected + delta)
	r := n.result(ResultMoved, cmd, s)
	r.SelectionChanged = true
	return s, r
}

func (n *Navigator) moveTo(s State, cmd domain.Command, target int, edge Boundary) (State, Result) {
	if s.Len() == 0 {
		return s, n.result(ResultEmpty, cmd, s)
	}
	if s.Selected == target {
		r := n.result(ResultAtBoundary, cmd, s)
		r.Boundary = edge
		return s, r
	}
	s.Selected = target
	r := n.result(ResultMoved, cmd, s)
	r.SelectionChanged = true
	return s, r
}

func (n *Navigator) enter(ctx context.Context, s State, cmd domain.Command) (State, Result) {
	e, ok := s.Current()
	if !ok {
		return s, n.result(ResultEmpty, cmd, s)
	}

	switch {
	case e.Kind == domain.KindInaccessible:
		kind := e.Failure
		if kind == domain.ProbeNone {
			kind = domain.ProbePermissionDenied
		}
		return s, n.failed(cmd, s, domain.NewProbeError(kind, e.Path, nil), e.Name)
	case e.Kind == domain.KindSymlink && e.Broken:
		return s, n.failed(cmd, s, domain.NewProbeError(domain.ProbeNotFound, e.Path, nil), e.Name)
	case e.IsFile():
		r := n.result(ResultOpenRequested, cmd, s)
		r.Target = e.Name
		r.Path = e.Path
		return s, r
	case !e.IsDir():
		return s, n.failed(cmd, s, domain.NewProbeError(domain.ProbeNotADirectory, e.Path, nil), e.Name)
	}

	listing, perr := n.list(ctx, e.Path)
	if perr != nil {
		return s, n.failed(cmd, s, perr, e.Name)
	}

	next := n.load(s, listing)
	next.Dir = e.Path
	next.History = push(s.History, s.visit(), n.opts.HistoryLimit)
	next.Forward = nil
	next.Selected = next.clamp(0)

	r := n.result(ResultEntered, cmd, next)
	r.Target = e.Name
	return next, r
}

func (n *Navigator) goUp(ctx context.Context, s State, cmd domain.Command) (State, Result) {
	parent := filepath.Dir(s.Dir)
	if parent == s.Dir {
		r := n.result(ResultAtRoot, cmd, s)
		r.Target = s.DirName()
		return s, r
	}

	listing, perr := n.list(ctx, parent)
	if perr != nil {
		return s, n.failed(cmd, s, perr, baseName(parent))
	}

	next := n.load(s, listing)
	next.Dir = parent
	next.History = push(s.History, s.visit(), n.opts.HistoryLimit)
	next.Forward = nil
	next.selectName(filepath.Base(s.Dir), 0)

	r := n.result(ResultWentUp, cmd, next)
	r.Target = next.DirName()
	return next, r
}

func (n *Navigator) goBack(ctx context.Context, s State, cmd domain.Command) (State, Result) {
	if len(s.History) == 0 {
		return s, n.result(ResultNoHistory, cmd, s)
	}
	v, rest := pop(s.History)

	listing, perr := n.list(ctx, v.Path)
	if perr != nil {
		return s, n.failed(cmd, s, perr, baseName(v.Path))
	}

	next := n.load(s, listing)
	next.Dir = v.Path
	next.History = rest
	next.Forward = push(s.Forward, s.visit(), n.opts.HistoryLimit)
	next.selectName(v.Name, v.Selected)

	r := n.result(ResultWentBack, cmd, next)
	r.Target = next.DirName()
	return next, r
}

func (n *Navigator) goForward(ctx context.Context, s State, cmd domain.Command) (State, Result) {
	if len(s.Forward) == 0 {
		return s, n.result(ResultNoHistory, cmd, s)
	}
	v, rest := pop(s.Forward)

	listing, perr := n.list(ctx, v.Path)
	if perr != nil {
		return s, n.failed(cmd, s, perr, baseName(v.Path))
	}

	next := n.load(s, listing)
	next.Dir = v.Path
	next.Forward = rest
	next.History = push(s.History, s.visit(), n.opts.HistoryLimit)
	next.selectName(v.Name, v.Selected)

	r := n.result(ResultWentForward, cmd, next)
	r.Target = next.DirName()
	return next, r
}

// refresh re-probes the open directory, keeping filter and selection
func (n *Navigator) refresh(ctx context.Context, s State, cmd domain.Command) (State, Result) {
	listing, perr := n.list(ctx, s.Dir)
	if perr != nil {
		return s, n.failed(cmd, s, perr, s.DirName())
	}

	prev := s.currentName()
	next := s
	next.Listing = sortEntriesListing(listing, s.Sort, s.DirectoriesFirst)
	next.rebuild()
	next.selectName(prev, s.Selected)

	r := n.result(ResultRefreshed, cmd, next)
	r.Target = next.DirName()
	r.SelectionChanged = next.currentName() != prev
	return next, r
}

func (n *Navigator) toggleHidden(s State, cmd domain.Command) (State, Result) {
	prev := s.currentName()
	s.ShowHidden = !s.ShowHidden
	s.rebuild()
	s.selectName(prev, s.Selected)

	r := n.result(ResultHiddenToggled, cmd, s)
	r.On = s.ShowHidden
	r.SelectionChanged = s.currentName() != prev
	return s, r
}

func (n *Navigator) cycleSort(s State, cmd domain.Command) (State, Result) {
	prev := s.currentName()
	s.Sort = s.Sort.Next()
	s.Listing = sortEntriesListing(s.Listing, s.Sort, s.DirectoriesFirst)
	s.rebuild()
	s.selectName(prev, s.Selected)

	r := n.result(ResultSortChanged, cmd, s)
	r.Sort = s.Sort
	return s, r
}

func (n *Navigator) startFilter(s State, cmd domain.Command) (State, Result) {
	if s.FilterActive {
		return s, n.result(ResultUnchanged, cmd, s)
	}
	s.FilterActive = true
	s.Filter = ""
	return s, n.result(ResultFilterStarted, cmd, s)
}

func (n *Navigator) appendFilter(s State, cmd domain.Command) (State, Result) {
	if cmd.Char == 0 {
		return s, n.result(ResultUnchanged, cmd, s)
	}
	s.FilterActive = true
	return n.setFilter(s, cmd, s.Filter+string(cmd.Char))
}

func (n *Navigator) backspaceFilter(s State, cmd domain.Command) (State, Result) {
	if !s.FilterActive || s.Filter == "" {
		return s, n.result(ResultUnchanged, cmd, s)
	}
	_, size := utf8.DecodeLastRuneInString(s.Filter)
	return n.setFilter(s, cmd, s.Filter[:len(s.Filter)-size])
}

// setFilter narrows the view. The selection stays on the same entry while it
// matches, else moves to the first match.
func (n *Navigator) setFilter(s State, cmd domain.Command, filter string) (State, Result) {
	prev := s.currentName()
	s.Filter = filter
	s.rebuild()
	s.selectName(prev, 0)

	r := n.result(ResultFilterChanged, cmd, s)
	r.SelectionChanged = s.currentName() != prev
	if s.Len() == 0 {
		r.Suggestion = suggest(filter, n.candidates(s))
	}
	return s, r
}

func (n *Navigator) endFilter(s State, cmd domain.Command) (State, Result) {
	if !s.FilterActive {
		return s, n.result(ResultUnchanged, cmd, s)
	}
	prev := s.currentName()
	s.FilterActive = false
	s.Filter = ""
	s.rebuild()
	s.selectName(prev, s.Selected)

	r := n.result(ResultFilterEnded, cmd, s)
	r.SelectionChanged = s.currentName() != prev
	return s, r
}

// describe re-stats the selected entry so the details are current
func (n *Navigator) describe(ctx context.Context, s State, cmd domain.Command) (State, Result) {
	e, ok := s.Current()
	if !ok {
		return s, n.result(ResultEmpty, cmd, s)
	}
	if e.Kind != domain.KindInaccessible {
		fresh, err := n.probe.Stat(ctx, e.Path)
		if err != nil {
			return s, n.failed(cmd, s, toProbeError(e.Path, err), e.Name)
		}
		e = fresh
	}
	r := n.result(ResultDescribed, cmd, s)
	r.Entry = e
	r.Target = e.Name
	if e.IsFile() {
		// the details are still worth speaking without a type
		if ct, err := n.probe.ContentType(ctx, e.Path); err == nil {
			r.ContentType = ct
		}
	}
	return s, r
}

func (n *Navigator) locate(s State, cmd domain.Command) (State, Result) {
	r := n.result(ResultLocated, cmd, s)
	r.Target = s.DirName()
	r.Path = s.Dir
	return s, r
}

func (n *Navigator) copyPath(s State, cmd domain.Command) (State, Result) {
	e, ok := s.Current()
	if !ok {
		return s, n.result(ResultEmpty, cmd, s)
	}
	r := n.result(ResultCopyRequested, cmd, s)
	r.Target = e.Name
	r.Path = e.Path
	return s, r
}

// load installs a listing into a copy of s, applying sort and predicates and
// clearing any filter.
func (n *Navigator) load(s State, listing domain.Listing) State {
	s.Listing = sortEntriesListing(listing, s.Sort, s.DirectoriesFirst)
	s.Filter = ""
	s.FilterActive = false
	s = clearPrompt(s)
	s.rebuild()
	s.Selected = s.clamp(0)
	return s
}

func (n *Navigator) list(ctx context.Context, path string) (domain.Listing, *domain.ProbeError) {
	listing, err := n.probe.List(ctx, path)
	if err != nil {
		return domain.Listing{}, toProbeError(path, err)
	}
	return listing, nil
}

// candidates lists the names the filter could have been aiming at
func (n *Navigator) candidates(s State) []string {
	var names []string
	for _, e := range s.Listing.Entries {
		if !s.ShowHidden && e.Hidden {
			continue
		}
		names = append(names, e.Name)
	}
	return names
}

func (n *Navigator) result(kind ResultKind, cmd domain.Command, s State) Result {
	r := Result{
		Kind:    kind,
		Command: cmd,
		Count:   s.Len(),
		Filter:  s.Filter,
		Sort:    s.Sort,
		On:      s.ShowHidden,
		Partial: s.Listing.Partial(),

		Prompt:     s.Prompt,
		PromptText: s.PromptText,
	}
	if e, ok := s.Current(); ok {
		r.Entry = e
		r.HasEntry = true
		r.Position = s.Selected + 1
	}
	return r
}

func (n *Navigator) failed(cmd domain.Command, s State, perr *domain.ProbeError, target string) Result {
	r := n.result(ResultFailed, cmd, s)
	r.Err = perr
	r.Target = target
	r.Partial = false
	return r
}

func sortEntriesListing(l domain.Listing, key SortKey, dirsFirst bool) domain.Listing {
	l.Entries = sortEntries(l.Entries, key, dirsFirst)
	return l
}

func toProbeError(path string, err error) *domain.ProbeError {
	if perr, ok := domain.AsProbeError(err); ok {
		return perr
	}
	return domain.NewProbeError(domain.ProbeIO, path, err)
}
