package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"earshot/internal/config"
	"earshot/internal/domain"
	"earshot/internal/eventbus"
	"earshot/internal/logging"
	"earshot/internal/metrics"
	"earshot/internal/navigator"
	"earshot/internal/opener"
	"earshot/internal/probe"
	"earshot/internal/speech"
	"earshot/internal/ui/coordinator"
	"earshot/internal/ui/input"
	"earshot/internal/watcher"
)

var version = "dev"

var (
	// Global flags
	configPath string
	noSpeech   bool
	headless   bool
)

var rootCmd = &cobra.Command{
	Use:   "earshot [dir]",
	Short: "Browse the file system by ear",
	Long: `earshot is a keyboard-driven file explorer that announces every move
through a speech synthesizer. The terminal display is optional.`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.String("log-file", "", "log file (default "+logging.DefaultPath()+")")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("speech-command", "", "speech program, e.g. espeak-ng")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address")
	flags.String("layout", "", "keyboard layout at startup")
	flags.Bool("show-hidden", false, "show hidden entries")
	flags.BoolVar(&noSpeech, "no-speech", false, "write utterances to the log instead of speaking")
	flags.BoolVar(&headless, "headless", false, "do not draw anything on the terminal")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logging.Init(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logging.Sync() }()

	dir, err := startDir(args)
	if err != nil {
		return err
	}
	log.Info("starting", zap.String("version", version), zap.String("dir", dir), zap.String("config", cfg.File))

	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bus := eventbus.New(log)
	defer bus.Close()

	if cfg.Metrics.Addr != "" {
		unsubscribe := metrics.Subscribe(bus)
		defer unsubscribe()
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, log); err != nil {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	backendKind := cfg.Speech.Backend
	if noSpeech {
		backendKind = "log"
	}
	backend := speech.NewBackend(speech.BackendOptions{
		Kind:    backendKind,
		Command: cfg.Speech.Command,
		Args:    cfg.Speech.Args,
		Log:     log,
	})
	defer backend.Close()

	handler, err := newInputHandler(cfg)
	if err != nil {
		return err
	}

	prober := probe.NewOS(
		probe.WithTimeout(cfg.Navigation.ProbeTimeout),
		probe.WithObserver(func(e domain.ProbeCompletedEvent) { bus.Publish(e) }),
	)

	opts := coordinator.Options{
		StartDir:    dir,
		Navigator:   navigator.New(prober, cfg.NavigatorOptions()),
		Input:       handler,
		Queue:       speech.NewQueue(backend, speech.QueueOptions{EchoWindow: cfg.Speech.EchoWindow, Bus: bus, Log: log}),
		Describer:   speech.NewDescriber(cfg.Speech.AnnounceHidden),
		Completions: backend.Completions(),
		Opener:      opener.New(opener.Mode(cfg.Open.Mode), cfg.Open.Command, afero.NewOsFs(), log),
		Clipboard:   coordinator.SystemClipboard{},
		Bus:         bus,
		Headless:    headless,
		Log:         log,
	}

	if cfg.Watch.Enabled {
		w, err := watcher.New(watcher.WithDebounce(cfg.Watch.Debounce), watcher.WithLogger(log))
		if err != nil {
			log.Warn("directory watching disabled", zap.Error(err))
		} else {
			defer w.Close()
			go w.Run(ctx)
			opts.Watcher = w
		}
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if headless {
		programOpts = append(programOpts, tea.WithoutRenderer())
	} else {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(coordinator.New(opts), programOpts...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			log.Info("interrupted")
			return nil
		}
		log.Error("program failed", zap.Error(err))
		return err
	}
	log.Info("exiting")
	return nil
}

// newInputHandler builds the keyboard handler from the keyboard section.
// Overrides go in before the handler copies the keymap.
func newInputHandler(cfg *config.Config) (*input.Handler, error) {
	layouts := input.DefaultLayouts()
	for _, name := range cfg.LayoutNames() {
		if err := layouts.AddTable(name, cfg.Keyboard.Layouts[name]); err != nil {
			return nil, fmt.Errorf("keyboard.layouts.%s: %w", name, err)
		}
	}

	keys := input.DefaultKeyMap()
	if err := keys.ApplyOverrides(cfg.Keyboard.Bindings); err != nil {
		return nil, fmt.Errorf("keyboard.bindings: %w", err)
	}
	return input.New(keys, layouts, cfg.Keyboard.Layout)
}

func startDir(args []string) (string, error) {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("error resolving path: %w", err)
	}
	return abs, nil
}
