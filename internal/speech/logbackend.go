package speech

import (
	"sync"

	"go.uber.org/zap"
)

// LogBackend writes utterances to the log and completes them at once. It
// stands in for a TTS engine when none is configured.
type LogBackend struct {
	log  *zap.Logger
	done chan Completion

	mu     sync.Mutex
	closed bool
}

// NewLogBackend creates a log backend
func NewLogBackend(log *zap.Logger) *LogBackend {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogBackend{
		log:  log.Named("say"),
		done: make(chan Completion, 256),
	}
}

func (b *LogBackend) Speak(u Utterance) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &BackendError{Backend: "log", ID: u.ID, Err: ErrClosed}
	}
	b.log.Info("utterance",
		zap.Uint64("id", u.ID),
		zap.Stringer("category", u.Category),
		zap.String("text", u.Text))

	c := Completion{ID: u.ID}
	select {
	case b.done <- c:
	default:
		go func() { b.done <- c }()
	}
	return nil
}

func (b *LogBackend) Cancel(id uint64) error {
	b.log.Debug("cancel", zap.Uint64("id", id))
	return nil
}

func (b *LogBackend) Completions() <-chan Completion {
	return b.done
}

func (b *LogBackend) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}
