package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// TickFunc runs one refresh at now
type TickFunc func(now time.Time) error

// Loop calls Tick on a fixed interval and whenever Notify fires
type Loop struct {
	Interval time.Duration
	Tick     TickFunc
	Notify   <-chan struct{}  // optional
	Now      func() time.Time // defaults to time.Now
	OnError  func(err error)  // optional, called after logging
}

// Run ticks once immediately and then until ctx is done. Tick errors are
// logged and the loop carries on with the next tick. A non-positive
// Interval is an error.
func (l *Loop) Run(ctx context.Context) error {
	if l.Interval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", l.Interval)
	}

	now := l.Now
	if now == nil {
		now = time.Now
	}

	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	l.tick(now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.tick(now())
		case _, ok := <-l.Notify:
			if !ok {
				l.Notify = nil
				continue
			}
			l.tick(now())
		}
	}
}

func (l *Loop) tick(now time.Time) {
	if err := l.Tick(now); err != nil {
		log.Error().Err(err).Msg("Watch tick failed")
		if l.OnError != nil {
			l.OnError(err)
		}
	}
}
