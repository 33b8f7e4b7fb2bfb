package speech

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"earshot/internal/domain"
	"earshot/internal/eventbus"
)

// DefaultEchoWindow is how long filter typing must pause before it is spoken
const DefaultEchoWindow = 300 * time.Millisecond

// State of the queue
type State int

const (
	Idle State = iota
	Speaking
)

func (s State) String() string {
	if s == Speaking {
		return "speaking"
	}
	return "idle"
}

// QueueOptions configures a Queue
type QueueOptions struct {
	EchoWindow time.Duration
	Now        func() time.Time
	Bus        eventbus.EventBus
	Log        *zap.Logger
}

// Queue applies the interruption policy on top of a Backend. It is not safe
// for concurrent use; the coordinator loop is its only caller.
//
// Navigation utterances interrupt other navigation and filter echo, but wait
// behind errors and mode changes. Errors and mode changes are spoken in
// order and never dropped. Filter echo is held until typing settles.
type Queue struct {
	backend Backend
	window  time.Duration
	now     func() time.Time
	bus     eventbus.EventBus
	log     *zap.Logger

	seq     uint64
	current *Utterance
	latest  *Utterance  // newest interruptible utterance waiting behind a Normal one
	pending []Utterance // Normal utterances in arrival order
	echo    *Utterance
	echoDue time.Time
	last    string
}

// NewQueue creates a queue over backend
func NewQueue(backend Backend, opts QueueOptions) *Queue {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Queue{
		backend: backend,
		window:  opts.EchoWindow,
		now:     opts.Now,
		bus:     opts.Bus,
		log:     opts.Log.Named("speech"),
	}
}

// Submit schedules text and returns the utterance built for it
func (q *Queue) Submit(cat Category, text string) Utterance {
	q.seq++
	u := Utterance{ID: q.seq, Text: text, Priority: cat.Priority(), Category: cat}

	switch u.Priority {
	case PriorityInterrupt:
		q.dropEcho()
		q.dropLatest()
		switch {
		case q.current == nil:
			q.startOrAdvance(u)
		case q.current.Priority == PriorityNormal:
			q.latest = &u
		default:
			q.interrupt()
			q.startOrAdvance(u)
		}

	case PriorityNormal:
		if q.current == nil {
			q.startOrAdvance(u)
		} else {
			q.pending = append(q.pending, u)
		}

	case PriorityLow:
		if q.window <= 0 {
			q.deliverEcho(u)
			break
		}
		q.dropEcho()
		q.echo = &u
		q.echoDue = q.now().Add(q.window)
	}
	return u
}

// Tick delivers the held filter echo once its window has elapsed
func (q *Queue) Tick(now time.Time) bool {
	if q.echo == nil || now.Before(q.echoDue) {
		return false
	}
	q.FlushEcho()
	return true
}

// EchoDeadline reports when the held filter echo becomes due
func (q *Queue) EchoDeadline() (time.Time, bool) {
	if q.echo == nil {
		return time.Time{}, false
	}
	return q.echoDue, true
}

// FlushEcho delivers the held filter echo immediately
func (q *Queue) FlushEcho() {
	if q.echo == nil {
		return
	}
	u := *q.echo
	q.echo = nil
	q.deliverEcho(u)
}

// DiscardEcho drops the held filter echo without speaking it
func (q *Queue) DiscardEcho() {
	q.dropEcho()
}

// Complete handles a backend completion. Reports for anything but the
// utterance being spoken are stale and ignored.
func (q *Queue) Complete(c Completion) bool {
	if q.current == nil || q.current.ID != c.ID {
		q.log.Debug("ignoring stale completion", zap.Uint64("id", c.ID))
		return false
	}
	u := *q.current
	q.current = nil

	if c.Err != nil && !errors.Is(c.Err, context.Canceled) {
		q.failed(u, c.Err)
	} else {
		q.publish(domain.EventUtteranceCompleted, u)
	}
	q.advance()
	return true
}

// CancelAll silences the current utterance and discards everything waiting
func (q *Queue) CancelAll() {
	q.dropEcho()
	q.dropLatest()
	for _, u := range q.pending {
		q.publish(domain.EventUtteranceDropped, u)
	}
	q.pending = nil
	if q.current != nil {
		q.interrupt()
	}
}

// Repeat speaks the last started text again as navigation
func (q *Queue) Repeat() (Utterance, bool) {
	if q.last == "" {
		return Utterance{}, false
	}
	return q.Submit(CategoryNavigation, q.last), true
}

// Last returns the text of the most recently started utterance
func (q *Queue) Last() string {
	return q.last
}

// Current returns the utterance being spoken
func (q *Queue) Current() (Utterance, bool) {
	if q.current == nil {
		return Utterance{}, false
	}
	return *q.current, true
}

// State reports whether something is being spoken
func (q *Queue) State() State {
	if q.current != nil {
		return Speaking
	}
	return Idle
}

// Waiting returns the number of utterances queued behind the current one
func (q *Queue) Waiting() int {
	n := len(q.pending)
	if q.latest != nil {
		n++
	}
	if q.echo != nil {
		n++
	}
	return n
}

// deliverEcho speaks a settled filter echo. It replaces echo or navigation
// being spoken but never cuts into an error or mode change, and never
// displaces navigation waiting behind one.
func (q *Queue) deliverEcho(u Utterance) {
	switch {
	case q.current == nil:
		q.startOrAdvance(u)
	case q.current.Priority == PriorityNormal:
		if q.latest != nil && q.latest.Priority > u.Priority {
			q.publish(domain.EventUtteranceDropped, u)
			return
		}
		q.dropLatest()
		q.latest = &u
	default:
		q.interrupt()
		q.startOrAdvance(u)
	}
}

// advance starts the oldest waiting utterance. Sequence ids order the
// Normal queue against the interruptible slot.
func (q *Queue) advance() {
	for q.current == nil {
		var next Utterance
		switch {
		case len(q.pending) > 0 && (q.latest == nil || q.pending[0].ID < q.latest.ID):
			next = q.pending[0]
			q.pending = q.pending[1:]
		case q.latest != nil:
			next = *q.latest
			q.latest = nil
		default:
			return
		}
		q.start(next)
	}
}

func (q *Queue) startOrAdvance(u Utterance) {
	if !q.start(u) {
		q.advance()
	}
}

func (q *Queue) start(u Utterance) bool {
	if err := q.backend.Speak(u); err != nil {
		q.failed(u, err)
		return false
	}
	q.current = &u
	q.last = u.Text
	q.log.Debug("speaking",
		zap.Uint64("id", u.ID),
		zap.Stringer("category", u.Category),
		zap.String("text", u.Text))
	q.publish(domain.EventUtteranceStarted, u)
	return true
}

func (q *Queue) interrupt() {
	u := *q.current
	q.current = nil
	if err := q.backend.Cancel(u.ID); err != nil {
		q.log.Warn("cancel failed", zap.Uint64("id", u.ID), zap.Error(err))
	}
	q.publish(domain.EventUtteranceInterrupted, u)
}

func (q *Queue) dropEcho() {
	if q.echo != nil {
		q.publish(domain.EventUtteranceDropped, *q.echo)
		q.echo = nil
	}
}

func (q *Queue) dropLatest() {
	if q.latest != nil {
		q.publish(domain.EventUtteranceDropped, *q.latest)
		q.latest = nil
	}
}

func (q *Queue) failed(u Utterance, err error) {
	var be *BackendError
	if !errors.As(err, &be) {
		err = &BackendError{Backend: "speech", ID: u.ID, Err: err}
	}
	q.log.Warn("utterance not delivered", zap.Uint64("id", u.ID), zap.Error(err))
	if q.bus != nil {
		q.bus.Publish(domain.SpeechFailedEvent{ID: u.ID, Err: err})
	}
}

func (q *Queue) publish(kind domain.EventType, u Utterance) {
	if q.bus == nil {
		return
	}
	q.bus.Publish(domain.UtteranceEvent{
		Kind:     kind,
		ID:       u.ID,
		Category: u.Category.String(),
		Text:     u.Text,
	})
}
