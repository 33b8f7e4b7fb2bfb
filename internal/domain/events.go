package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventDirectoryOpened      EventType = "DirectoryOpened"
	EventProbeFailed          EventType = "ProbeFailed"
	EventProbeCompleted       EventType = "ProbeCompleted"
	EventCommandApplied       EventType = "CommandApplied"
	EventUtteranceStarted     EventType = "UtteranceStarted"
	EventUtteranceCompleted   EventType = "UtteranceCompleted"
	EventUtteranceInterrupted EventType = "UtteranceInterrupted"
	EventUtteranceDropped     EventType = "UtteranceDropped"
	EventSpeechFailed         EventType = "SpeechFailed"
	EventLayoutChanged        EventType = "LayoutChanged"
	EventDirectoryChanged     EventType = "DirectoryChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// DirectoryOpenedEvent is emitted when the navigator lands in a new directory
type DirectoryOpenedEvent struct {
	Path    string
	Entries int
	Partial bool
}

func (e DirectoryOpenedEvent) Type() EventType { return EventDirectoryOpened }

// ProbeFailedEvent is emitted when a listing or stat fails
type ProbeFailedEvent struct {
	Err *ProbeError
}

func (e ProbeFailedEvent) Type() EventType { return EventProbeFailed }

// ProbeCompletedEvent carries probe timing
type ProbeCompletedEvent struct {
	Path     string
	Duration time.Duration
	Entries  int
	Failed   bool
}

func (e ProbeCompletedEvent) Type() EventType { return EventProbeCompleted }

// CommandAppliedEvent is emitted after the navigator handled a command
type CommandAppliedEvent struct {
	Command Command
	Result  string
}

func (e CommandAppliedEvent) Type() EventType { return EventCommandApplied }

// UtteranceEvent describes queue activity for one utterance
type UtteranceEvent struct {
	Kind     EventType
	ID       uint64
	Category string
	Text     string
}

func (e UtteranceEvent) Type() EventType { return e.Kind }

// SpeechFailedEvent is emitted when the backend could not speak an utterance
type SpeechFailedEvent struct {
	ID  uint64
	Err error
}

func (e SpeechFailedEvent) Type() EventType { return EventSpeechFailed }

// LayoutChangedEvent is emitted when the keyboard layout changes
type LayoutChangedEvent struct {
	Layout string
}

func (e LayoutChangedEvent) Type() EventType { return EventLayoutChanged }

// DirectoryChangedEvent is emitted by the watcher when the open directory changed on disk
type DirectoryChangedEvent struct {
	Path string
}

func (e DirectoryChangedEvent) Type() EventType { return EventDirectoryChanged }
