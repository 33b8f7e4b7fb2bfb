// Package coordinator runs the bubbletea loop: keys become commands, the
// navigator applies them, and every result is handed to the speech queue.
package coordinator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"earshot/internal/domain"
	"earshot/internal/eventbus"
	"earshot/internal/navigator"
	"earshot/internal/opener"
	"earshot/internal/speech"
	"earshot/internal/ui/input"
	"earshot/internal/ui/input/types"
	"earshot/internal/ui/views"
)

// Opener turns an open request into a command reporting opener.OpenedMsg
type Opener interface {
	Open(path string) tea.Cmd
}

// Watcher follows the open directory
type Watcher interface {
	Watch(dir string) error
	Changes() <-chan string
}

// Options holds the collaborators of a Model. Navigator, Input, Queue and
// Describer are required.
type Options struct {
	StartDir  string
	Navigator *navigator.Navigator
	Input     *input.Handler
	Queue     *speech.Queue
	Describer *speech.Describer

	// Completions is the speech backend's completion channel
	Completions <-chan speech.Completion

	Opener    Opener
	Clipboard Clipboard
	Watcher   Watcher
	Bus       eventbus.EventBus
	Headless  bool
	Log       *zap.Logger
	Now       func() time.Time
}

// Model is the tea.Model. It owns the only navigator.State.
type Model struct {
	opts     Options
	ctx      context.Context
	log      *zap.Logger
	renderer *views.Renderer
	help     help.Model

	state    navigator.State
	started  bool
	width    int
	height   int
	offset   int
	status   string
	errored  bool
	showHelp bool
	quitting bool
}

// New creates the model. Nothing is probed until the program starts.
func New(opts Options) *Model {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Clipboard == nil {
		opts.Clipboard = SystemClipboard{}
	}
	return &Model{
		opts:     opts,
		ctx:      context.Background(),
		log:      opts.Log.Named("coordinator"),
		renderer: views.NewRenderer(),
		help:     help.New(),
		state:    navigator.State{Dir: opts.StartDir, Selected: -1},
	}
}

// State returns the current navigator state
func (m *Model) State() navigator.State {
	return m.state
}

// Status returns the last text handed to the speech queue
func (m *Model) Status() string {
	return m.status
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	var changes <-chan string
	if m.opts.Watcher != nil {
		changes = m.opts.Watcher.Changes()
	}
	return tea.Batch(
		start,
		waitForCompletion(m.opts.Completions),
		waitForChange(changes),
	)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg:
		return m, m.open()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case completionMsg:
		m.opts.Queue.Complete(msg.completion)
		return m, waitForCompletion(m.opts.Completions)

	case echoTickMsg:
		if m.opts.Queue.Tick(m.opts.Now()) {
			return m, nil
		}
		return m, m.scheduleEcho()

	case input.LayoutChangedMsg:
		return m, m.changeLayout(msg.Layout)

	case dirChangedMsg:
		cmd := m.directoryChanged(msg.path)
		if m.opts.Watcher == nil {
			return m, cmd
		}
		return m, tea.Batch(cmd, waitForChange(m.opts.Watcher.Changes()))

	case clipboardMsg:
		if msg.err != nil {
			m.log.Warn("copy failed", zap.String("path", msg.result.Path), zap.Error(msg.err))
			return m, m.say(speech.CategoryError, fmt.Sprintf("cannot copy path of %s: %v", msg.result.Target, msg.err))
		}
		return m, m.speak(msg.result)

	case opener.OpenedMsg:
		if msg.Err == nil {
			return m, nil
		}
		return m, m.say(speech.CategoryError, fmt.Sprintf("cannot open %s: %v", filepath.Base(msg.Path), msg.Err.Err))
	}
	return m, nil
}

// View renders the UI
func (m *Model) View() string {
	if m.opts.Headless || m.quitting {
		return ""
	}
	if !m.started {
		return "Loading..."
	}

	visible := views.ListHeight(m.height)
	m.offset = views.ScrollOffset(m.state.Selected, m.offset, visible, m.state.Len())

	keys := m.opts.Input.KeyMap()
	return m.renderer.Render(views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Dir:            m.state.Dir,
		Entries:        m.state.Visible(),
		Selected:       m.state.Selected,
		ViewportOffset: m.offset,
		Total:          len(m.state.Listing.Entries),
		Partial:        m.state.Listing.Partial(),
		Filter:         m.state.Filter,
		FilterActive:   m.state.FilterActive,
		Prompt:         m.promptLabel(),
		PromptText:     m.state.PromptText,
		ShowHidden:     m.state.ShowHidden,
		Sort:           m.state.Sort.String(),
		Layout:         m.opts.Input.Layout(),
		Status:         m.status,
		StatusIsError:  m.errored,
		ShowHelp:       m.showHelp,
		Help:           m.help,
		Keys:           keys,
	})
}

// promptLabel is the display label of the open prompt, empty when none is open
func (m *Model) promptLabel() string {
	switch m.state.Prompt {
	case navigator.PromptPath:
		return "Go to"
	case navigator.PromptRename:
		return "Rename " + m.state.PromptTarget
	case navigator.PromptConfirmDelete:
		return "Delete " + m.state.PromptTarget + "? (y/n)"
	}
	return ""
}

func (m *Model) open() tea.Cmd {
	m.started = true
	s, r := m.opts.Navigator.Open(m.ctx, m.opts.StartDir)
	m.state = s
	if r.Kind == navigator.ResultFailed {
		m.publish(domain.ProbeFailedEvent{Err: r.Err})
	} else {
		m.arrived(r)
	}
	return m.speak(r)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	var cmds []tea.Cmd
	for _, c := range m.opts.Input.HandleKey(msg) {
		if cmd := m.execute(c); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.quitting {
			break
		}
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return tea.Sequence(cmds...)
}

// execute runs one command. Commands that only touch speech, help or the
// layout are handled here; the rest go to the navigator.
func (m *Model) execute(c domain.Command) tea.Cmd {
	switch c.Kind {
	case domain.CmdQuit:
		m.quitting = true
		m.opts.Queue.CancelAll()
		m.published(c, "quit")
		return tea.Quit

	case domain.CmdCancel:
		m.opts.Queue.CancelAll()
		m.published(c, "cancelled")
		return nil

	case domain.CmdRepeat:
		if _, ok := m.opts.Queue.Repeat(); !ok {
			return m.say(speech.CategoryNavigation, "nothing to repeat")
		}
		m.published(c, "repeated")
		return nil

	case domain.CmdHelp:
		m.showHelp = !m.showHelp
		m.published(c, "help")
		return m.say(speech.CategoryModeChange, m.opts.Input.SpokenHelp())

	case domain.CmdCycleLayout:
		next := m.opts.Input.NextLayout()
		return func() tea.Msg {
			return input.LayoutChangedMsg{Layout: next}
		}

	case domain.CmdExitFilterMode:
		// typed text is spoken before the filter closes
		m.opts.Queue.FlushEcho()

	case domain.CmdSubmitPrompt, domain.CmdCancelPrompt:
		m.opts.Queue.DiscardEcho()
	}

	return m.apply(c)
}

func (m *Model) apply(c domain.Command) tea.Cmd {
	s, r := m.opts.Navigator.Apply(m.ctx, m.state, c)
	m.state = s
	m.syncMode()
	m.published(c, r.Kind.String())

	switch {
	case r.Kind == navigator.ResultFailed:
		m.publish(domain.ProbeFailedEvent{Err: r.Err})
	case r.DirectoryChanged():
		m.offset = 0
		m.arrived(r)
	}

	switch r.Kind {
	case navigator.ResultOpenRequested:
		cmd := m.speak(r)
		if m.opts.Opener == nil {
			return cmd
		}
		return tea.Batch(cmd, m.opts.Opener.Open(r.Path))

	case navigator.ResultCopyRequested:
		clip := m.opts.Clipboard
		return func() tea.Msg {
			return clipboardMsg{result: r, err: clip.WriteAll(r.Path)}
		}
	}
	return m.speak(r)
}

// syncMode keeps the input mode in step with the navigator's filter and
// prompt state
func (m *Model) syncMode() {
	want := types.ModeNavigate
	switch {
	case m.state.Prompt == navigator.PromptConfirmDelete:
		want = types.ModeConfirm
	case m.state.Prompt.IsText():
		want = types.ModePrompt
	case m.state.FilterActive:
		want = types.ModeFilter
	}
	if m.opts.Input.Mode() != want {
		m.opts.Input.SetMode(want)
	}
}

// arrived follows a new directory with the watcher
func (m *Model) arrived(r navigator.Result) {
	m.publish(domain.DirectoryOpenedEvent{
		Path:    m.state.Dir,
		Entries: len(m.state.Listing.Entries),
		Partial: r.Partial,
	})
	if m.opts.Watcher == nil {
		return
	}
	if err := m.opts.Watcher.Watch(m.state.Dir); err != nil {
		m.log.Warn("cannot watch directory", zap.String("dir", m.state.Dir), zap.Error(err))
	}
}

// directoryChanged refreshes after an on-disk change. The refresh is only
// announced when it moved the selection or failed.
func (m *Model) directoryChanged(path string) tea.Cmd {
	if filepath.Clean(path) != filepath.Clean(m.state.Dir) {
		return nil
	}
	m.publish(domain.DirectoryChangedEvent{Path: path})

	s, r := m.opts.Navigator.Apply(m.ctx, m.state, domain.Cmd(domain.CmdRefresh))
	m.state = s
	m.syncMode()

	switch {
	case r.Kind == navigator.ResultFailed:
		m.publish(domain.ProbeFailedEvent{Err: r.Err})
		return m.speak(r)
	case r.SelectionChanged:
		return m.speak(r)
	}
	m.log.Debug("silent refresh", zap.String("dir", path), zap.Int("count", r.Count))
	return nil
}

func (m *Model) changeLayout(name string) tea.Cmd {
	if err := m.opts.Input.SetLayout(name); err != nil {
		m.log.Warn("layout change rejected", zap.String("layout", name), zap.Error(err))
		return m.say(speech.CategoryError, fmt.Sprintf("unknown layout %s", name))
	}
	m.publish(domain.LayoutChangedEvent{Layout: name})
	return m.say(speech.CategoryModeChange, "layout "+name)
}

// speak hands the description of r to the queue
func (m *Model) speak(r navigator.Result) tea.Cmd {
	cat, text, ok := m.opts.Describer.Describe(r)
	if !ok {
		return nil
	}
	return m.say(cat, text)
}

func (m *Model) say(cat speech.Category, text string) tea.Cmd {
	m.opts.Queue.Submit(cat, text)
	m.status = text
	m.errored = cat == speech.CategoryError
	return m.scheduleEcho()
}

// scheduleEcho arms a tick for the held filter echo, if any
func (m *Model) scheduleEcho() tea.Cmd {
	due, ok := m.opts.Queue.EchoDeadline()
	if !ok {
		return nil
	}
	wait := due.Sub(m.opts.Now())
	if wait < 0 {
		wait = 0
	}
	return tea.Tick(wait, func(t time.Time) tea.Msg {
		return echoTickMsg(t)
	})
}

func (m *Model) publish(event domain.DomainEvent) {
	if m.opts.Bus != nil {
		m.opts.Bus.Publish(event)
	}
}

func (m *Model) published(c domain.Command, result string) {
	m.publish(domain.CommandAppliedEvent{Command: c, Result: result})
}
