// Package opener hands files selected in the navigator to something that
// can show them: the desktop's default application or the built-in pager.
package opener

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"earshot/internal/domain"
	"earshot/internal/probe"
)

// Mode selects how files are opened
type Mode string

const (
	ModeSystem Mode = "system"
	ModePager  Mode = "pager"
	ModeAuto   Mode = "auto"
)

// OpenedMsg reports the outcome of an open request
type OpenedMsg struct {
	Path string
	Err  *domain.OpenError
}

// Opener builds tea commands that open files
type Opener struct {
	mode    Mode
	command []string
	fs      afero.Fs
	log     *zap.Logger

	// system starts the platform handler; replaced in tests
	system func(path string) error
}

// New creates an Opener. command, when set, replaces the platform default
// handler and is run in the foreground with the terminal handed over,
// e.g. "vim" or "less -R".
func New(mode Mode, command string, fsys afero.Fs, log *zap.Logger) *Opener {
	if log == nil {
		log = zap.NewNop()
	}
	o := &Opener{
		mode:    mode,
		command: strings.Fields(command),
		fs:      fsys,
		log:     log.Named("opener"),
	}
	o.system = o.runSystem
	return o
}

// Open returns a command that opens path and reports an OpenedMsg
func (o *Opener) Open(path string) tea.Cmd {
	done := func(err error) tea.Msg {
		if err != nil {
			o.log.Warn("open failed", zap.String("path", path), zap.Error(err))
			return OpenedMsg{Path: path, Err: &domain.OpenError{Path: path, Err: err}}
		}
		o.log.Debug("opened", zap.String("path", path))
		return OpenedMsg{Path: path}
	}

	if len(o.command) > 0 {
		argv := append(append([]string{}, o.command[1:]...), path)
		return tea.ExecProcess(exec.Command(o.command[0], argv...), done)
	}

	switch o.resolve(path) {
	case ModePager:
		return tea.Exec(&pagerCommand{fs: o.fs, path: path}, done)
	default:
		return func() tea.Msg {
			return done(o.system(path))
		}
	}
}

// resolve picks pager or system for a path
func (o *Opener) resolve(path string) Mode {
	if o.mode != ModeAuto {
		return o.mode
	}
	if o.isText(path) {
		return ModePager
	}
	return ModeSystem
}

func (o *Opener) isText(path string) bool {
	fi, err := o.fs.Stat(path)
	if err != nil {
		return false
	}
	if fi.Size() == 0 {
		return true
	}
	m, err := probe.Sniff(o.fs, path)
	if err != nil {
		return false
	}
	return probe.IsText(m)
}

// systemCommand returns the platform default opener
func systemCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}

func (o *Opener) runSystem(path string) error {
	name, args := systemCommand(runtime.GOOS, path)
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// pagerCommand shows a file in ov. ov drives the tty itself, so the
// standard streams handed over by bubbletea are not used.
type pagerCommand struct {
	fs   afero.Fs
	path string
}

func (c *pagerCommand) Run() error {
	f, err := c.fs.Open(c.path)
	if err != nil {
		return err
	}
	defer f.Close()

	root, err := oviewer.NewRoot(f)
	if err != nil {
		return err
	}
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)
	return root.Run()
}

func (c *pagerCommand) SetStdin(io.Reader)  {}
func (c *pagerCommand) SetStdout(io.Writer) {}
func (c *pagerCommand) SetStderr(io.Writer) {}
