package coordinator

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"earshot/internal/navigator"
	"earshot/internal/speech"
)

// startMsg opens the start directory once the program is running
type startMsg struct{}

// completionMsg carries a speech backend completion into the loop
type completionMsg struct {
	completion speech.Completion
}

// echoTickMsg fires when the held filter echo may be due
type echoTickMsg time.Time

// dirChangedMsg is sent by the watcher when the open directory changed on disk
type dirChangedMsg struct {
	path string
}

// clipboardMsg reports the outcome of a copy request
type clipboardMsg struct {
	result navigator.Result
	err    error
}

func start() tea.Msg {
	return startMsg{}
}

func waitForCompletion(ch <-chan speech.Completion) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return completionMsg{completion: c}
	}
}

func waitForChange(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return nil
		}
		return dirChangedMsg{path: path}
	}
}
