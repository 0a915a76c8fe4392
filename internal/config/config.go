package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Pomodoro holds the session storage locations
type Pomodoro struct {
	SessionDir      string `mapstructure:"pomodoro_session_dir"`
	StatusPath      string `mapstructure:"pomodoro_status_path"`
	DefaultDuration int    `mapstructure:"default_duration"` // minutes
}

// Watch configures the live view
type Watch struct {
	Interval time.Duration `mapstructure:"interval"`
}

// Tmux contains tmux-related configuration
type Tmux struct {
	RefreshStatus bool `mapstructure:"refresh_status"`
}

// Logging configures the zerolog output
type Logging struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Config holds all configuration options
type Config struct {
	Pomodoro Pomodoro `mapstructure:"pomodoro_config"`
	Watch    Watch    `mapstructure:"watch"`
	Tmux     Tmux     `mapstructure:"tmux"`
	Logging  Logging  `mapstructure:"logging"`
	CacheDir string   `mapstructure:"cache_dir"`
}

const defaultConfigTOML = `[pomodoro_config]
pomodoro_session_dir = "/tmp/sessions"
pomodoro_status_path = "/tmp/status"
default_duration = 25

[watch]
interval = "1s"

[tmux]
refresh_status = true

[logging]
level = "info"
`

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Pomodoro: Pomodoro{
			SessionDir:      "/tmp/sessions",
			StatusPath:      "/tmp/status",
			DefaultDuration: 25,
		},
		Watch: Watch{Interval: time.Second},
		Tmux:  Tmux{RefreshStatus: true},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Path returns the default config file path
func Path() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pomo", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pomo", "config.toml")
}

// Load reads the TOML config at path, or at Path() when path is empty.
// A missing file is created with defaults first. Values can be overridden
// with POMO_ environment variables, e.g. POMO_POMODORO_CONFIG_POMODORO_SESSION_DIR.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := writeDefault(path); err != nil {
			return nil, err
		}
		log.Info().Str("path", path).Msg("Created default config file")
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix("POMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Pomodoro.SessionDir = expandHome(cfg.Pomodoro.SessionDir)
	cfg.Pomodoro.StatusPath = expandHome(cfg.Pomodoro.StatusPath)
	cfg.Logging.File = expandHome(cfg.Logging.File)
	cfg.CacheDir = expandHome(cfg.CacheDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that required values are present
func (c *Config) Validate() error {
	var errs []error
	if c.Pomodoro.SessionDir == "" {
		errs = append(errs, errors.New("pomodoro_config.pomodoro_session_dir is required"))
	}
	if c.Pomodoro.StatusPath == "" {
		errs = append(errs, errors.New("pomodoro_config.pomodoro_status_path is required"))
	}
	if c.Pomodoro.DefaultDuration <= 0 {
		errs = append(errs, errors.New("pomodoro_config.default_duration must be positive"))
	}
	if c.Watch.Interval <= 0 {
		errs = append(errs, errors.New("watch.interval must be positive"))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("pomodoro_config.pomodoro_session_dir", d.Pomodoro.SessionDir)
	v.SetDefault("pomodoro_config.pomodoro_status_path", d.Pomodoro.StatusPath)
	v.SetDefault("pomodoro_config.default_duration", d.Pomodoro.DefaultDuration)
	v.SetDefault("watch.interval", d.Watch.Interval)
	v.SetDefault("tmux.refresh_status", d.Tmux.RefreshStatus)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("cache_dir", d.CacheDir)
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTOML), 0644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
