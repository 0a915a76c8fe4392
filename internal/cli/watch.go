package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jh3/pomo/internal/session"
	"github.com/jh3/pomo/internal/tmux"
	"github.com/jh3/pomo/internal/ui"
	"github.com/jh3/pomo/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		headless bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show running sessions live and keep the status file current",
		Long: `Refresh the status file on a fixed interval and whenever a new session
is started. Without --headless the running sessions are shown in a live
terminal view; with --headless only the status file is maintained, which
suits a background job feeding a status bar.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				interval = a.cfg.Watch.Interval
			}

			var notify <-chan struct{}
			n, err := watch.NewNotifier(a.cfg.Pomodoro.SessionDir)
			if err != nil {
				log.Warn().Err(err).Msg("Live directory updates disabled")
			} else {
				defer n.Close()
				notify = n.C()
			}

			refresh := a.refresher()

			if headless {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				loop := &watch.Loop{
					Interval: interval,
					Notify:   notify,
					Now:      a.now,
					Tick: func(now time.Time) error {
						_, err := refresh(now)
						return err
					},
				}
				if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			}

			return ui.RunWatch(ui.WatchOptions{
				Interval: interval,
				Refresh:  refresh,
				Notify:   notify,
				Now:      a.now,
			})
		},
	}

	cmd.Flags().BoolVar(&headless, "headless", false, "only maintain the status file, no terminal view")
	cmd.Flags().DurationVar(&interval, "interval", 0, "refresh interval (default from config)")
	return cmd
}

// refresher returns a function that rewrites the status file, pokes tmux
// when configured, and returns the active sessions
func (a *app) refresher() ui.RefreshFunc {
	store := a.store()
	projector := a.projector()

	var mgr *tmux.Manager
	if a.cfg.Tmux.RefreshStatus && tmux.IsInsideTmux() {
		m, err := tmux.New()
		if err != nil {
			log.Warn().Err(err).Msg("tmux status refresh disabled")
		} else {
			mgr = m
		}
	}

	// the terminal view may run two refreshes at once
	var mu sync.Mutex
	last := ""
	return func(now time.Time) ([]session.Session, error) {
		mu.Lock()
		defer mu.Unlock()

		line, err := projector.Update(now)
		if err != nil {
			return nil, err
		}

		if mgr != nil && line != last {
			if err := mgr.RefreshStatus(); err != nil {
				log.Debug().Err(err).Msg("tmux refresh-client failed")
			}
		}
		last = line

		return store.ListActive(now)
	}
}
