package speech

import (
	"os/exec"

	"go.uber.org/zap"
)

// Program is an external TTS command line
type Program struct {
	Name string
	Args []string
}

// KnownPrograms are tried in order when the backend is "auto"
var KnownPrograms = []Program{
	{Name: "espeak-ng"},
	{Name: "spd-say", Args: []string{"-w"}},
	{Name: "say"},
}

// Detect returns the first known program that lookPath can find
func Detect(lookPath func(string) (string, error)) (Program, bool) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, p := range KnownPrograms {
		if _, err := lookPath(p.Name); err == nil {
			return p, true
		}
	}
	return Program{}, false
}

// BackendOptions selects a backend. Kind is "auto", "command" or "log".
type BackendOptions struct {
	Kind     string
	Command  string
	Args     []string
	LookPath func(string) (string, error)
	Log      *zap.Logger
}

// NewBackend builds the backend described by opts. Auto falls back to the
// log backend when no speech program is installed.
func NewBackend(opts BackendOptions) Backend {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	switch opts.Kind {
	case "log":
		return NewLogBackend(opts.Log)
	case "command":
		return NewCommandBackend(opts.Command, opts.Args)
	}

	if opts.Command != "" {
		return NewCommandBackend(opts.Command, opts.Args)
	}
	p, ok := Detect(opts.LookPath)
	if !ok {
		opts.Log.Warn("no speech program found, speaking to the log", zap.Int("tried", len(KnownPrograms)))
		return NewLogBackend(opts.Log)
	}
	opts.Log.Info("speech program detected", zap.String("program", p.Name))
	return NewCommandBackend(p.Name, p.Args)
}
