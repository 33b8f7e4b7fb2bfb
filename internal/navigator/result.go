package navigator

import "earshot/internal/domain"

// ResultKind says what a command did to the state
type ResultKind int

const (
	ResultUnchanged ResultKind = iota
	ResultMoved
	ResultAtBoundary
	ResultEmpty
	ResultEntered
	ResultWentUp
	ResultWentBack
	ResultWentForward
	ResultAtRoot
	ResultNoHistory
	ResultOpenRequested
	ResultCopyRequested
	ResultRefreshed
	ResultHiddenToggled
	ResultSortChanged
	ResultFilterStarted
	ResultFilterChanged
	ResultFilterEnded
	ResultDescribed
	ResultLocated
	ResultFailed
	ResultPromptStarted
	ResultPromptChanged
	ResultPromptCancelled
	ResultPromptRejected
	ResultJumped
	ResultRenamed
	ResultDeleted
)

var resultNames = map[ResultKind]string{
	ResultUnchanged:     "unchanged",
	ResultMoved:         "moved",
	ResultAtBoundary:    "at_boundary",
	ResultEmpty:         "empty",
	ResultEntered:       "entered",
	ResultWentUp:        "went_up",
	ResultWentBack:      "went_back",
	ResultWentForward:   "went_forward",
	ResultAtRoot:        "at_root",
	ResultNoHistory:     "no_history",
	ResultOpenRequested: "open_requested",
	ResultCopyRequested: "copy_requested",
	ResultRefreshed:     "refreshed",
	ResultHiddenToggled: "hidden_toggled",
	ResultSortChanged:   "sort_changed",
	ResultFilterStarted: "filter_started",
	ResultFilterChanged: "filter_changed",
	ResultFilterEnded:   "filter_ended",
	ResultDescribed:     "described",
	ResultLocated:       "located",
	ResultFailed:        "failed",

	ResultPromptStarted:   "prompt_started",
	ResultPromptChanged:   "prompt_changed",
	ResultPromptCancelled: "prompt_cancelled",
	ResultPromptRejected:  "prompt_rejected",
	ResultJumped:          "jumped",
	ResultRenamed:         "renamed",
	ResultDeleted:         "deleted",
}

func (k ResultKind) String() string {
	if s, ok := resultNames[k]; ok {
		return s
	}
	return "unknown"
}

// Boundary is the edge a move ran into
type Boundary int

const (
	BoundaryNone Boundary = iota
	BoundaryTop
	BoundaryBottom
)

// Result describes the outcome of one command
type Result struct {
	Kind     ResultKind
	Command  domain.Command
	Boundary Boundary

	// Entry is the selected entry after the command, when HasEntry is set
	Entry    domain.Entry
	HasEntry bool
	Position int // 1-based position of Entry in the view
	Count    int // visible entries

	Target     string // name of the directory or entry the command acted on
	Path       string // path for open, copy and locate requests
	Err        *domain.ProbeError
	Partial    bool // the new listing could not be read completely
	Suggestion string
	Filter     string

	Prompt      PromptKind
	PromptText  string
	Reason      string // why a prompt was rejected
	ContentType string // media type of a described file
	NewName     string // name after a rename

	SelectionChanged bool
	On               bool // new hidden-files setting
	Sort             SortKey
}

// DirectoryChanged reports whether the result moved to another directory
func (r Result) DirectoryChanged() bool {
	switch r.Kind {
	case ResultEntered, ResultWentUp, ResultWentBack, ResultWentForward, ResultJumped:
		return true
	}
	return false
}
