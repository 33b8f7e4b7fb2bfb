package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// TextPlaceholder in a command argument is replaced by the utterance text
const TextPlaceholder = "{text}"

// ErrClosed is returned by a backend after Close
var ErrClosed = errors.New("speech backend closed")

// Runner speaks text and returns when speech has finished or ctx is cancelled
type Runner func(ctx context.Context, text string) error

// CommandRunner runs an external TTS program such as espeak-ng, say or
// spd-say -w. The text replaces every {text} argument, or is appended after
// "--" when no argument contains the placeholder, so names starting with a
// dash are not parsed as options.
func CommandRunner(name string, args []string) Runner {
	return func(ctx context.Context, text string) error {
		cmd := exec.CommandContext(ctx, name, commandArgs(args, text)...)
		// wrappers like spd-say leave children holding stderr after a kill
		cmd.WaitDelay = 500 * time.Millisecond
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return fmt.Errorf("%s: %w: %s", name, err, msg)
			}
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

func commandArgs(args []string, text string) []string {
	argv := make([]string, 0, len(args)+2)
	substituted := false
	for _, a := range args {
		if strings.Contains(a, TextPlaceholder) {
			a = strings.ReplaceAll(a, TextPlaceholder, text)
			substituted = true
		}
		argv = append(argv, a)
	}
	if !substituted {
		argv = append(argv, "--", text)
	}
	return argv
}

type job struct {
	u      Utterance
	ctx    context.Context
	cancel context.CancelFunc
}

// ExecBackend speaks one utterance at a time through a Runner. A request that
// is replaced or cancelled before the worker picks it up is never run.
type ExecBackend struct {
	name string
	run  Runner

	mu      sync.Mutex
	next    *job
	running *job
	closed  bool

	wake chan struct{}
	done chan Completion
	quit chan struct{}
	wg   sync.WaitGroup
}

// NewExecBackend starts the worker goroutine
func NewExecBackend(name string, run Runner) *ExecBackend {
	b := &ExecBackend{
		name: name,
		run:  run,
		wake: make(chan struct{}, 1),
		done: make(chan Completion, 64),
		quit: make(chan struct{}),
	}
	b.wg.Add(1)
	go b.worker()
	return b
}

// NewCommandBackend is an ExecBackend over an external program
func NewCommandBackend(name string, args []string) *ExecBackend {
	return NewExecBackend(name, CommandRunner(name, args))
}

func (b *ExecBackend) Speak(u Utterance) error {
	ctx, cancel := context.WithCancel(context.Background())
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		cancel()
		return &BackendError{Backend: b.name, ID: u.ID, Err: ErrClosed}
	}
	replaced := b.next
	b.next = &job{u: u, ctx: ctx, cancel: cancel}
	b.mu.Unlock()

	if replaced != nil {
		replaced.cancel()
		b.report(Completion{ID: replaced.u.ID, Err: context.Canceled})
	}
	select {
	case b.wake <- struct{}{}:
	default:
	}
	return nil
}

func (b *ExecBackend) Cancel(id uint64) error {
	b.mu.Lock()
	var dropped *job
	if b.next != nil && b.next.u.ID == id {
		dropped = b.next
		b.next = nil
	}
	if b.running != nil && b.running.u.ID == id {
		b.running.cancel()
	}
	b.mu.Unlock()

	if dropped != nil {
		dropped.cancel()
		b.report(Completion{ID: id, Err: context.Canceled})
	}
	return nil
}

func (b *ExecBackend) Completions() <-chan Completion {
	return b.done
}

// Close stops the worker, killing any utterance in progress
func (b *ExecBackend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	if b.next != nil {
		b.next.cancel()
		b.next = nil
	}
	if b.running != nil {
		b.running.cancel()
	}
	b.mu.Unlock()

	close(b.quit)
	b.wg.Wait()
	return nil
}

func (b *ExecBackend) worker() {
	defer b.wg.Done()
	for {
		select {
		case <-b.quit:
			return
		case <-b.wake:
		}

		for {
			b.mu.Lock()
			j := b.next
			b.next = nil
			b.running = j
			b.mu.Unlock()
			if j == nil {
				break
			}

			err := b.run(j.ctx, j.u.Text)
			if j.ctx.Err() != nil {
				err = context.Canceled
			} else if err != nil {
				err = &BackendError{Backend: b.name, ID: j.u.ID, Err: err}
			}
			j.cancel()

			b.mu.Lock()
			b.running = nil
			b.mu.Unlock()
			b.report(Completion{ID: j.u.ID, Err: err})
		}
	}
}

func (b *ExecBackend) report(c Completion) {
	select {
	case b.done <- c:
	case <-b.quit:
	}
}
