package speech

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"earshot/internal/domain"
	"earshot/internal/navigator"
)

// Describer turns navigator results into spoken text
type Describer struct {
	Now            func() time.Time
	AnnounceHidden bool
}

// NewDescriber creates a describer using the wall clock
func NewDescriber(announceHidden bool) *Describer {
	return &Describer{Now: time.Now, AnnounceHidden: announceHidden}
}

// Describe returns the single utterance for r. Unchanged results are silent.
func (d *Describer) Describe(r navigator.Result) (Category, string, bool) {
	switch r.Kind {
	case navigator.ResultMoved:
		return CategoryNavigation, d.EntryPhrase(r.Entry), true

	case navigator.ResultAtBoundary:
		if r.Boundary == navigator.BoundaryTop {
			return CategoryNavigation, "top of list", true
		}
		return CategoryNavigation, "bottom of list", true

	case navigator.ResultEmpty:
		return CategoryNavigation, d.emptyPhrase(r), true

	case navigator.ResultEntered:
		return CategoryNavigation, d.arrival("entering", r), true
	case navigator.ResultWentUp:
		return CategoryNavigation, d.arrival("up to", r), true
	case navigator.ResultWentBack:
		return CategoryNavigation, d.arrival("back to", r), true
	case navigator.ResultWentForward:
		return CategoryNavigation, d.arrival("forward to", r), true

	case navigator.ResultAtRoot:
		return CategoryNavigation, "already at root", true

	case navigator.ResultNoHistory:
		if r.Command.Kind == domain.CmdGoForward {
			return CategoryNavigation, "no next folder", true
		}
		return CategoryNavigation, "no previous folder", true

	case navigator.ResultOpenRequested:
		return CategoryModeChange, "opening " + r.Target, true

	case navigator.ResultCopyRequested:
		return CategoryModeChange, "copied path of " + r.Target, true

	case navigator.ResultRefreshed:
		return CategoryNavigation, d.withSelection("refreshed, "+FormatCount(r.Count, "item", "items"), r), true

	case navigator.ResultHiddenToggled:
		if r.On {
			return CategoryModeChange, "showing hidden files", true
		}
		return CategoryModeChange, "hiding hidden files", true

	case navigator.ResultSortChanged:
		return CategoryModeChange, "sorted by " + r.Sort.String(), true

	case navigator.ResultFilterStarted:
		return CategoryModeChange, "filter mode", true

	case navigator.ResultFilterChanged:
		return CategoryFilterEcho, d.filterEcho(r), true

	case navigator.ResultFilterEnded:
		if !r.HasEntry {
			return CategoryModeChange, "filter off, empty folder", true
		}
		return CategoryModeChange, "filter off. " + d.EntryPhrase(r.Entry), true

	case navigator.ResultDescribed:
		text := d.Details(r.Entry)
		if r.ContentType != "" {
			text += ", type " + r.ContentType
		}
		return CategoryNavigation, text, true

	case navigator.ResultLocated:
		return CategoryNavigation, d.location(r), true

	case navigator.ResultFailed:
		return CategoryError, d.Failure(r), true

	case navigator.ResultPromptStarted:
		return CategoryModeChange, d.promptStart(r), true
	case navigator.ResultPromptChanged:
		if r.PromptText == "" {
			return CategoryFilterEcho, "empty", true
		}
		return CategoryFilterEcho, r.PromptText, true
	case navigator.ResultPromptCancelled:
		return CategoryModeChange, r.Prompt.String() + " cancelled", true
	case navigator.ResultPromptRejected:
		return CategoryError, fmt.Sprintf("cannot %s: %s", r.Prompt, r.Reason), true

	case navigator.ResultJumped:
		return CategoryNavigation, d.arrival("going to", r), true
	case navigator.ResultRenamed:
		return CategoryNavigation, fmt.Sprintf("renamed %s to %s", r.Target, r.NewName), true
	case navigator.ResultDeleted:
		if !r.HasEntry {
			return CategoryNavigation, fmt.Sprintf("deleted %s, folder is empty", r.Target), true
		}
		return CategoryNavigation, d.withSelection("deleted "+r.Target, r), true
	}
	return 0, "", false
}

// EntryPhrase is the short form spoken when the selection lands on e
func (d *Describer) EntryPhrase(e domain.Entry) string {
	parts := []string{e.Name}
	switch e.Kind {
	case domain.KindDirectory:
		parts = append(parts, "folder")
	case domain.KindFile:
		parts = append(parts, "file")
		if e.HasSize {
			parts = append(parts, FormatSize(e.Size))
		}
	case domain.KindSymlink:
		switch {
		case e.Broken:
			parts = append(parts, "broken link")
		case e.Target == domain.KindDirectory:
			parts = append(parts, "link to folder")
		case e.Target == domain.KindFile:
			parts = append(parts, "link to file")
		default:
			parts = append(parts, "link")
		}
	case domain.KindSpecial:
		parts = append(parts, "special file")
	case domain.KindInaccessible:
		parts = append(parts, "inaccessible")
	}
	if d.AnnounceHidden && e.Hidden {
		parts = append(parts, "hidden")
	}
	return strings.Join(parts, ", ")
}

// Details is the long form spoken on request
func (d *Describer) Details(e domain.Entry) string {
	var b strings.Builder
	b.WriteString(d.EntryPhrase(e))
	if e.Kind == domain.KindInaccessible {
		if e.Failure != domain.ProbeNone {
			fmt.Fprintf(&b, ", %s", e.Failure)
		}
		return b.String()
	}
	if e.Kind == domain.KindSymlink && e.HasSize && !e.Broken {
		fmt.Fprintf(&b, ", %s", FormatSize(e.Size))
	}
	if !e.Modified.IsZero() {
		fmt.Fprintf(&b, ", modified %s", humanize.RelTime(e.Modified, d.now(), "ago", "from now"))
	}
	if e.Mode != 0 {
		if e.Mode.Perm()&0o222 != 0 {
			b.WriteString(", read write")
		} else {
			b.WriteString(", read only")
		}
	}
	return b.String()
}

// Failure is the error sentence for a failed command
func (d *Describer) Failure(r navigator.Result) string {
	reason := "unknown error"
	if r.Err != nil {
		reason = r.Err.Kind.String()
	}
	verb := "cannot open"
	switch r.Command.Kind {
	case domain.CmdRefresh:
		verb = "cannot refresh"
	case domain.CmdDescribe:
		verb = "cannot read"
	case domain.CmdSubmitPrompt:
		switch r.Prompt {
		case navigator.PromptRename:
			verb = "cannot rename"
		case navigator.PromptConfirmDelete:
			verb = "cannot delete"
		}
	}
	return fmt.Sprintf("%s %s: %s", verb, r.Target, reason)
}

func (d *Describer) promptStart(r navigator.Result) string {
	switch r.Prompt {
	case navigator.PromptPath:
		return "go to path, " + r.PromptText
	case navigator.PromptRename:
		return "rename " + r.Target + ", type the new name"
	case navigator.PromptConfirmDelete:
		if r.HasEntry && r.Entry.IsDir() {
			return "delete folder " + r.Target + " and everything in it? y to confirm, n to cancel"
		}
		return "delete " + r.Target + "? y to confirm, n to cancel"
	}
	return r.Prompt.String()
}

func (d *Describer) arrival(verb string, r navigator.Result) string {
	head := fmt.Sprintf("%s %s, %s", verb, r.Target, FormatCount(r.Count, "item", "items"))
	if r.Count == 0 {
		head = fmt.Sprintf("%s %s, empty folder", verb, r.Target)
	}
	return d.withSelection(head, r)
}

func (d *Describer) withSelection(head string, r navigator.Result) string {
	if r.Partial {
		head += ", some items unreadable"
	}
	if r.HasEntry {
		return head + ". " + d.EntryPhrase(r.Entry)
	}
	return head
}

func (d *Describer) emptyPhrase(r navigator.Result) string {
	if r.Filter != "" {
		return "no matches"
	}
	return "empty folder"
}

func (d *Describer) filterEcho(r navigator.Result) string {
	if r.Filter == "" {
		return "filter empty, " + FormatCount(r.Count, "item", "items")
	}
	if r.Count == 0 {
		if r.Suggestion != "" {
			return fmt.Sprintf("%s, no matches, closest %s", r.Filter, r.Suggestion)
		}
		return r.Filter + ", no matches"
	}
	return fmt.Sprintf("%s, %s", r.Filter, FormatCount(r.Count, "match", "matches"))
}

func (d *Describer) location(r navigator.Result) string {
	if r.Count == 0 {
		return fmt.Sprintf("in %s, %s, empty folder", r.Target, r.Path)
	}
	return fmt.Sprintf("in %s, %s, item %d of %d", r.Target, r.Path, r.Position, r.Count)
}

func (d *Describer) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
