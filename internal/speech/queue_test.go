package speech

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records calls; completions are driven by the test
type fakeBackend struct {
	spoken    []Utterance
	cancelled []uint64
	fail      map[string]error
	done      chan Completion
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{done: make(chan Completion, 16)}
}

func (b *fakeBackend) Speak(u Utterance) error {
	if err := b.fail[u.Text]; err != nil {
		return err
	}
	b.spoken = append(b.spoken, u)
	return nil
}

func (b *fakeBackend) Cancel(id uint64) error {
	b.cancelled = append(b.cancelled, id)
	return nil
}

func (b *fakeBackend) Completions() <-chan Completion { return b.done }
func (b *fakeBackend) Close() error                   { return nil }

func (b *fakeBackend) texts() []string {
	out := make([]string, len(b.spoken))
	for i, u := range b.spoken {
		out[i] = u.Text
	}
	return out
}

// clock is a manually advanced time source
type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newQueue(b Backend, window time.Duration) (*Queue, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewQueue(b, QueueOptions{EchoWindow: window, Now: c.now}), c
}

func TestNavigationInterruptsNavigation(t *testing.T) {
	b := newFakeBackend()
	q, _ := newQueue(b, DefaultEchoWindow)

	u1 := q.Submit(CategoryNavigation, "one")
	u2 := q.Submit(CategoryNavigation, "two")
	u3 := q.Submit(CategoryNavigation, "three")

	assert.Equal(t, []uint64{u1.ID, u2.ID}, b.cancelled)
	cur, ok := q.Current()
	require.True(t, ok)
	assert.Equal(t, u3.ID, cur.ID)
	assert.Equal(t, Speaking, q.State())

	// late completions of interrupted utterances are stale
	assert.False(t, q.Complete(Completion{ID: u1.ID, Err: context.Canceled}))
	assert.False(t, q.Complete(Completion{ID: u2.ID, Err: context.Canceled}))
	assert.Equal(t, Speaking, q.State())

	assert.True(t, q.Complete(Completion{ID: u3.ID}))
	assert.Equal(t, Idle, q.State())
	assert.Equal(t, "three", q.Last())
}

func TestIdsAreMonotonic(t *testing.T) {
	q, _ := newQueue(newFakeBackend(), 0)
	var last uint64
	for _, cat := range []Category{CategoryNavigation, CategoryError, CategoryFilterEcho, CategoryModeChange} {
		u := q.Submit(cat, "x")
		assert.Greater(t, u.ID, last)
		last = u.ID
	}
}

func TestErrorsQueueInOrderAndAreNeverDropped(t *testing.T) {
	b := newFakeBackend()
	q, _ := newQueue(b, DefaultEchoWindow)

	nav := q.Submit(CategoryNavigation, "report.pdf")
	e1 := q.Submit(CategoryError, "cannot open a: not found")
	e2 := q.Submit(CategoryModeChange, "filter mode")

	assert.Equal(t, []string{"report.pdf"}, b.texts())
	assert.Equal(t, 2, q.Waiting())

	q.Complete(Completion{ID: nav.ID})
	assert.Equal(t, []string{"report.pdf", e1.Text}, b.texts())

	// navigation does not cut into an error; it waits for it
	later := q.Submit(CategoryNavigation, "Documents, folder")
	assert.Empty(t, b.cancelled)

	q.Complete(Completion{ID: e1.ID})
	assert.Equal(t, e2.Text, b.spoken[len(b.spoken)-1].Text)

	q.Complete(Completion{ID: e2.ID})
	assert.Equal(t, later.Text, b.spoken[len(b.spoken)-1].Text)
}

func TestWaitingNavigationKeepsOnlyNewest(t *testing.T) {
	b := newFakeBackend()
	q, _ := newQueue(b, DefaultEchoWindow)

	e := q.Submit(CategoryError, "cannot open x: permission denied")
	q.Submit(CategoryNavigation, "a")
	q.Submit(CategoryNavigation, "b")
	last := q.Submit(CategoryNavigation, "c")

	q.Complete(Completion{ID: e.ID})
	assert.Equal(t, []string{e.Text, "c"}, b.texts())
	cur, _ := q.Current()
	assert.Equal(t, last.ID, cur.ID)
}

func TestWaitingUtterancesSpeakInSubmissionOrder(t *testing.T) {
	b := newFakeBackend()
	q, _ := newQueue(b, DefaultEchoWindow)

	// error arrives, then navigation, then another error: the navigation
	// is older than the second error so it is spoken first
	e1 := q.Submit(CategoryError, "e1")
	n := q.Submit(CategoryNavigation, "n")
	e2 := q.Submit(CategoryError, "e2")

	q.Complete(Completion{ID: e1.ID})
	q.Complete(Completion{ID: n.ID})
	q.Complete(Completion{ID: e2.ID})
	assert.Equal(t, []string{"e1", "n", "e2"}, b.texts())
}

func TestFilterEchoCoalesces(t *testing.T) {
	b := newFakeBackend()
	q, c := newQueue(b, 300*time.Millisecond)

	for _, text := range []string{"a", "ab", "abc"} {
		q.Submit(CategoryFilterEcho, text)
		c.advance(100 * time.Millisecond)
		assert.False(t, q.Tick(c.now()))
	}
	assert.Empty(t, b.spoken)

	due, ok := q.EchoDeadline()
	require.True(t, ok)
	assert.True(t, due.After(c.now()))

	c.advance(200 * time.Millisecond)
	assert.True(t, q.Tick(c.now()))
	assert.Equal(t, []string{"abc"}, b.texts())

	_, ok = q.EchoDeadline()
	assert.False(t, ok)
}

func TestFlushEchoOnFilterExit(t *testing.T) {
	b := newFakeBackend()
	q, _ := newQueue(b, time.Second)

	q.Submit(CategoryFilterEcho, "re")
	q.Submit(CategoryFilterEcho, "rep")
	q.FlushEcho()
	assert.Equal(t, []string{"rep"}, b.texts())
}

func TestNavigationDropsPendingEcho(t *testing.T) {
	b := newFakeBackend()
	q, c := newQueue(b, time.Second)

	q.Submit(CategoryFilterEcho, "re")
	q.Submit(CategoryNavigation, "report.pdf, file, 1 KB")
	c.advance(2 * time.Second)
	assert.False(t, q.Tick(c.now()))
	assert.Equal(t, []string{"report.pdf, file, 1 KB"}, b.texts())
}

func TestEchoReplacesEchoButWaitsForModeChange(t *testing.T) {
	b := newFakeBackend()
	q, _ := newQueue(b, 0)

	mode := q.Submit(CategoryModeChange, "filter mode")
	q.Submit(CategoryFilterEcho, "a")
	q.Submit(CategoryFilterEcho, "ab")
	assert.Equal(t, []string{"filter mode"}, b.texts())

	q.Complete(Completion{ID: mode.ID})
	assert.Equal(t, []string{"filter mode", "ab"}, b.texts())

	echo, _ := q.Current()
	q.Submit(CategoryFilterEcho, "abc")
	assert.Contains(t, b.cancelled, echo.ID)
	assert.Equal(t, "abc", b.spoken[len(b.spoken)-1].Text)
}

func TestSettledEchoKeepsWaitingNavigation(t *testing.T) {
	b := newFakeBackend()
	q, c := newQueue(b, 100*time.Millisecond)

	mode := q.Submit(CategoryModeChange, "filter mode")
	q.Submit(CategoryNavigation, "report.pdf, file, 1 KB")
	q.Submit(CategoryFilterEcho, "re")
	c.advance(200 * time.Millisecond)
	assert.True(t, q.Tick(c.now()))

	q.Complete(Completion{ID: mode.ID})
	assert.Equal(t, []string{"filter mode", "report.pdf, file, 1 KB"}, b.texts())
	assert.Equal(t, 0, q.Waiting())
}

func TestBackendFailureIsDroppedAndQueueMovesOn(t *testing.T) {
	b := newFakeBackend()
	b.fail = map[string]error{"broken": errors.New("no audio device")}
	q, _ := newQueue(b, 0)

	first := q.Submit(CategoryError, "first")
	q.Submit(CategoryError, "broken")
	q.Submit(CategoryError, "third")

	q.Complete(Completion{ID: first.ID})
	assert.Equal(t, []string{"first", "third"}, b.texts())

	// failed start while idle
	q2, _ := newQueue(b, 0)
	q2.Submit(CategoryNavigation, "broken")
	assert.Equal(t, Idle, q2.State())
}

func TestCompletionErrorAdvances(t *testing.T) {
	b := newFakeBackend()
	q, _ := newQueue(b, 0)

	u := q.Submit(CategoryError, "one")
	q.Submit(CategoryError, "two")
	assert.True(t, q.Complete(Completion{ID: u.ID, Err: &BackendError{Backend: "exec", ID: u.ID, Err: errors.New("exit 1")}}))
	assert.Equal(t, []string{"one", "two"}, b.texts())
}

func TestCancelAll(t *testing.T) {
	b := newFakeBackend()
	q, _ := newQueue(b, time.Second)

	u := q.Submit(CategoryError, "one")
	q.Submit(CategoryError, "two")
	q.Submit(CategoryNavigation, "nav")
	q.Submit(CategoryFilterEcho, "echo")

	q.CancelAll()
	assert.Equal(t, Idle, q.State())
	assert.Zero(t, q.Waiting())
	assert.Equal(t, []uint64{u.ID}, b.cancelled)

	assert.False(t, q.Complete(Completion{ID: u.ID, Err: context.Canceled}))
	assert.Equal(t, []string{"one"}, b.texts())
}

func TestRepeat(t *testing.T) {
	b := newFakeBackend()
	q, _ := newQueue(b, 0)

	_, ok := q.Repeat()
	assert.False(t, ok)

	u := q.Submit(CategoryNavigation, "report.pdf, file, 1 KB")
	q.Complete(Completion{ID: u.ID})

	again, ok := q.Repeat()
	require.True(t, ok)
	assert.Equal(t, CategoryNavigation, again.Category)
	assert.Equal(t, []string{"report.pdf, file, 1 KB", "report.pdf, file, 1 KB"}, b.texts())
}
