// Package speech turns navigation results into utterances and schedules them
// on a speech backend.
package speech

// Priority decides how an utterance interacts with the one being spoken
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityInterrupt
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityInterrupt:
		return "interrupt"
	default:
		return "unknown"
	}
}

// Category is what an utterance is about. It fixes the priority.
type Category int

const (
	CategoryNavigation Category = iota
	CategoryError
	CategoryModeChange
	CategoryFilterEcho
)

func (c Category) String() string {
	switch c {
	case CategoryNavigation:
		return "navigation"
	case CategoryError:
		return "error"
	case CategoryModeChange:
		return "mode_change"
	case CategoryFilterEcho:
		return "filter_echo"
	default:
		return "unknown"
	}
}

// Priority returns the scheduling priority of the category
func (c Category) Priority() Priority {
	switch c {
	case CategoryNavigation:
		return PriorityInterrupt
	case CategoryFilterEcho:
		return PriorityLow
	default:
		return PriorityNormal
	}
}

// Utterance is one unit of speech
type Utterance struct {
	ID       uint64
	Text     string
	Priority Priority
	Category Category
}
