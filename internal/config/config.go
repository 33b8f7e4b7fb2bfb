package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"earshot/internal/navigator"
)

// EnvPrefix prefixes environment overrides, e.g. EARSHOT_SPEECH_ECHO_WINDOW
const EnvPrefix = "EARSHOT"

// Config represents the application configuration
type Config struct {
	Navigation NavigationConfig `mapstructure:"navigation"`
	Speech     SpeechConfig     `mapstructure:"speech"`
	Keyboard   KeyboardConfig   `mapstructure:"keyboard"`
	Open       OpenConfig       `mapstructure:"open"`
	Watch      WatchConfig      `mapstructure:"watch"`
	Log        LogConfig        `mapstructure:"log"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`

	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-"`

	settings map[string]any
}

type NavigationConfig struct {
	ShowHidden       bool          `mapstructure:"show_hidden"`
	DirectoriesFirst bool          `mapstructure:"directories_first"`
	SortBy           string        `mapstructure:"sort_by"`
	HistoryLimit     int           `mapstructure:"history_limit"`
	PageSize         int           `mapstructure:"page_size"`
	ProbeTimeout     time.Duration `mapstructure:"probe_timeout"`
}

// SpeechConfig selects the TTS backend. Backend is "auto", "command" or
// "log"; auto picks the first known speech program on PATH.
type SpeechConfig struct {
	Backend        string        `mapstructure:"backend"`
	Command        string        `mapstructure:"command"`
	Args           []string      `mapstructure:"args"`
	EchoWindow     time.Duration `mapstructure:"echo_window"`
	AnnounceHidden bool          `mapstructure:"announce_hidden"`
}

// KeyboardConfig holds the startup layout, extra layout tables (typed
// character to physical Latin key) and binding overrides by command name.
type KeyboardConfig struct {
	Layout   string                       `mapstructure:"layout"`
	Layouts  map[string]map[string]string `mapstructure:"layouts"`
	Bindings map[string][]string          `mapstructure:"bindings"`
}

// OpenConfig controls what Enter does on a file: "system" hands it to the
// desktop opener, "pager" shows it in the built-in pager, "auto" pages
// text and hands everything else to the system.
type OpenConfig struct {
	Mode    string `mapstructure:"mode"`
	Command string `mapstructure:"command"`
}

type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

var (
	speechBackends = []string{"auto", "command", "log"}
	openModes      = []string{"system", "pager", "auto"}
	logFormats     = []string{"json", "console"}
)

// flagKeys maps command line flags to config keys
var flagKeys = map[string]string{
	"log-file":       "log.file",
	"log-level":      "log.level",
	"speech-command": "speech.command",
	"metrics-addr":   "metrics.addr",
	"layout":         "keyboard.layout",
	"show-hidden":    "navigation.show_hidden",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("navigation.show_hidden", false)
	v.SetDefault("navigation.directories_first", true)
	v.SetDefault("navigation.sort_by", "name")
	v.SetDefault("navigation.history_limit", 100)
	v.SetDefault("navigation.page_size", 10)
	v.SetDefault("navigation.probe_timeout", "5s")

	v.SetDefault("speech.backend", "auto")
	v.SetDefault("speech.command", "")
	v.SetDefault("speech.args", []string{})
	v.SetDefault("speech.echo_window", "300ms")
	v.SetDefault("speech.announce_hidden", true)

	v.SetDefault("keyboard.layout", "us")
	v.SetDefault("keyboard.layouts", map[string]any{})
	v.SetDefault("keyboard.bindings", map[string]any{})

	v.SetDefault("open.mode", "auto")
	v.SetDefault("open.command", "")

	v.SetDefault("watch.enabled", true)
	v.SetDefault("watch.debounce", "150ms")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")

	v.SetDefault("metrics.addr", "")
}

// DefaultPath returns the config file location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "earshot", "config.toml")
}

// Default returns the built-in configuration
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		// defaults are static
		panic(err)
	}
	return cfg
}

// Load reads the config file, then EARSHOT_* environment variables, then
// any flags that were set. path overrides EARSHOT_CONFIG and the default
// location. A missing file is not an error unless path was given.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvPrefix + "_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	file := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			if explicit {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		file = v.ConfigFileUsed()
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.File = file
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.settings = v.AllSettings()
	return &cfg, nil
}

// Validate rejects negative durations and unknown enum values
func (c *Config) Validate() error {
	var errs []error

	if _, err := navigator.ParseSortKey(c.Navigation.SortBy); err != nil {
		errs = append(errs, fmt.Errorf("navigation.sort_by: %w", err))
	}
	if c.Navigation.HistoryLimit < 1 {
		errs = append(errs, fmt.Errorf("navigation.history_limit must be at least 1, got %d", c.Navigation.HistoryLimit))
	}
	if c.Navigation.PageSize < 1 {
		errs = append(errs, fmt.Errorf("navigation.page_size must be at least 1, got %d", c.Navigation.PageSize))
	}
	if c.Navigation.ProbeTimeout <= 0 {
		errs = append(errs, fmt.Errorf("navigation.probe_timeout must be positive, got %s", c.Navigation.ProbeTimeout))
	}

	if err := oneOf("speech.backend", c.Speech.Backend, speechBackends); err != nil {
		errs = append(errs, err)
	}
	if c.Speech.Backend == "command" && c.Speech.Command == "" {
		errs = append(errs, errors.New("speech.command is required when speech.backend is \"command\""))
	}
	if c.Speech.EchoWindow < 0 {
		errs = append(errs, fmt.Errorf("speech.echo_window must not be negative, got %s", c.Speech.EchoWindow))
	}

	if c.Keyboard.Layout == "" {
		errs = append(errs, errors.New("keyboard.layout must not be empty"))
	}
	if err := oneOf("open.mode", c.Open.Mode, openModes); err != nil {
		errs = append(errs, err)
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if err := oneOf("log.format", c.Log.Format, logFormats); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func oneOf(key, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s: unknown value %q (want one of %s)", key, value, strings.Join(allowed, ", "))
}

// SortKey returns the parsed navigation.sort_by
func (c *Config) SortKey() navigator.SortKey {
	key, _ := navigator.ParseSortKey(c.Navigation.SortBy)
	return key
}

// NavigatorOptions maps the navigation section onto navigator options
func (c *Config) NavigatorOptions() navigator.Options {
	return navigator.Options{
		HistoryLimit:     c.Navigation.HistoryLimit,
		PageSize:         c.Navigation.PageSize,
		DirectoriesFirst: c.Navigation.DirectoriesFirst,
		SortBy:           c.SortKey(),
		ShowHidden:       c.Navigation.ShowHidden,
	}
}

// LayoutNames returns the configured extra layouts in a stable order
func (c *Config) LayoutNames() []string {
	names := make([]string, 0, len(c.Keyboard.Layouts))
	for name := range c.Keyboard.Layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TOML renders the effective settings
func (c *Config) TOML() ([]byte, error) {
	settings := c.settings
	if settings == nil {
		settings = Default().settings
	}
	data, err := toml.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

const fileHeader = `# earshot configuration
# Durations use Go syntax: "300ms", "5s".
# Extra keyboard layouts map a typed character to the Latin key in the same
# position, for example:
#   [keyboard.layouts.gr]
#   "ξ" = "j"
# Binding overrides use command names:
#   [keyboard.bindings]
#   move_down = ["down", "n"]

`

// WriteDefault writes the default configuration to path. An existing file
// is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Default().TOML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append([]byte(fileHeader), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
