package watch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/jh3/pomo/internal/session"
)

// Notifier signals when session records appear in a directory
type Notifier struct {
	watcher  *fsnotify.Watcher
	dir      string
	events   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewNotifier starts watching dir (non-recursively)
func NewNotifier(dir string) (*Notifier, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch session directory: %w", err)
	}

	n := &Notifier{
		watcher: watcher,
		dir:     dir,
		events:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	n.wg.Add(1)
	go n.eventLoop()

	log.Debug().Str("path", dir).Msg("Session directory watcher started")
	return n, nil
}

// C returns the notification channel. Bursts of file events collapse into
// a single pending notification.
func (n *Notifier) C() <-chan struct{} {
	return n.events
}

// Close stops watching
func (n *Notifier) Close() error {
	var err error
	n.stopOnce.Do(func() {
		close(n.done)
		err = n.watcher.Close()
		n.wg.Wait()
	})
	if err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func (n *Notifier) eventLoop() {
	defer n.wg.Done()
	for {
		select {
		case event, ok := <-n.watcher.Events:
			if !ok {
				return
			}
			n.handleEvent(event)

		case err, ok := <-n.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Watcher error")

		case <-n.done:
			return
		}
	}
}

func (n *Notifier) handleEvent(event fsnotify.Event) {
	if !session.IsSessionFile(filepath.Base(event.Name)) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	select {
	case n.events <- struct{}{}:
	default:
	}
}
