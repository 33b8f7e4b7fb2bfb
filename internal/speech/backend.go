package speech

import "fmt"

// Completion reports that the backend finished or abandoned an utterance
type Completion struct {
	ID  uint64
	Err error
}

// Backend speaks utterances out of line and reports back on Completions
type Backend interface {
	Speak(u Utterance) error
	Cancel(id uint64) error
	Completions() <-chan Completion
	Close() error
}

// BackendError wraps a failure to deliver an utterance. It is never fatal.
type BackendError struct {
	Backend string
	ID      uint64
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("speech backend %s: utterance %d: %v", e.Backend, e.ID, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
