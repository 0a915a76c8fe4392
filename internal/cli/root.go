package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jh3/pomo/internal/cache"
	"github.com/jh3/pomo/internal/config"
	"github.com/jh3/pomo/internal/logger"
	"github.com/jh3/pomo/internal/query"
	"github.com/jh3/pomo/internal/session"
	"github.com/jh3/pomo/internal/status"
)

const version = "0.3.0"

// app carries the state shared by all subcommands of one invocation
type app struct {
	cfgFile  string
	logLevel string
	noCache  bool

	cfg *config.Config
	log *logger.Logger
	now func() time.Time
}

// NewRootCmd builds the full command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "pomo",
		Short: "Pomodoro timer that records work sessions as files",
		Long: `pomo records work sessions (description, start, planned duration) as one
YAML file per session and answers questions about them: what is running,
what happened today, what matches a search term.

A one-line status of the running session is written to a status file that
status bars such as tmux can display.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.log != nil {
				return a.log.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", fmt.Sprintf("config file (default is %s)", config.Path()))
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides config")
	root.PersistentFlags().BoolVar(&a.noCache, "no-cache", false, "decode every session file instead of using the session cache")

	root.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)

	root.AddCommand(
		newStartCmd(a),
		newShowCmd(a),
		newActiveCmd(a),
		newTodayCmd(a),
		newYesterdayCmd(a),
		newRangeCmd(a),
		newWatchCmd(a),
		newStatusCmd(a),
		newPickCmd(a),
		newClearCacheCmd(a),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	a.cfg = cfg

	level := cfg.Logging.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	l, err := logger.New(logger.Config{
		Level:   level,
		File:    cfg.Logging.File,
		Console: cmd.ErrOrStderr(),
		Pretty:  true,
	})
	if err != nil {
		return fmt.Errorf("error setting up logging: %w", err)
	}
	a.log = l

	log.Debug().
		Str("session_dir", cfg.Pomodoro.SessionDir).
		Str("status_path", cfg.Pomodoro.StatusPath).
		Msg("Configuration loaded")
	return nil
}

func (a *app) store() *session.Store {
	return session.NewStore(a.cfg.Pomodoro.SessionDir, session.WithClock(a.now))
}

func (a *app) projector() *status.Projector {
	return status.NewProjector(a.store(), a.cfg.Pomodoro.StatusPath)
}

func (a *app) cache() *cache.Cache {
	dir := a.cfg.CacheDir
	if dir == "" {
		dir = cache.DefaultDir()
	}
	return cache.New(dir)
}

// engine returns a query engine over the session directory, backed by the
// session cache unless --no-cache is set
func (a *app) engine() *query.Engine {
	store := a.store()
	if a.noCache {
		return query.New(store)
	}

	return query.New(query.SourceFunc(func() ([]session.Session, error) {
		c := a.cache()
		sessions, err := store.ListAllCached(c)
		if err != nil {
			return nil, err
		}
		if err := c.Save(); err != nil {
			log.Warn().Err(err).Str("path", c.Path()).Msg("Failed to save session cache")
		}
		return sessions, nil
	}))
}
