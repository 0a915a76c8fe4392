package status

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jh3/pomo/internal/session"
)

// ActiveLister lists the sessions running at a given instant
type ActiveLister interface {
	ListActive(now time.Time) ([]session.Session, error)
}

// Projector writes a one-line summary of the current session to a file
// that status bars can read
type Projector struct {
	src  ActiveLister
	path string
}

// NewProjector creates a projector writing to path
func NewProjector(src ActiveLister, path string) *Projector {
	return &Projector{src: src, path: path}
}

// Path returns the status file location
func (p *Projector) Path() string {
	return p.path
}

// Update rewrites the status file for now and returns the line written.
// With no active session the file is truncated to empty.
func (p *Projector) Update(now time.Time) (string, error) {
	active, err := p.src.ListActive(now)
	if err != nil {
		return "", err
	}

	line := ""
	if current, ok := Current(active); ok {
		line = Line(current, now)
	}

	if err := os.WriteFile(p.path, []byte(line), 0644); err != nil {
		return "", fmt.Errorf("failed to write status file: %w", err)
	}

	log.Debug().
		Str("path", p.path).
		Str("status", line).
		Int("active", len(active)).
		Msg("Status updated")

	return line, nil
}

// Current picks the session to report: the earliest start wins, ties are
// broken by description so repeated calls agree.
func Current(active []session.Session) (session.Session, bool) {
	if len(active) == 0 {
		return session.Session{}, false
	}

	sorted := make([]session.Session, len(active))
	copy(sorted, active)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].Description < sorted[j].Description
	})
	return sorted[0], true
}

// Line formats "<description> - <duration minutes>/<elapsed minutes>".
// Minutes are truncated. Negative elapsed time from clock skew shows as 0.
func Line(s session.Session, now time.Time) string {
	elapsed := s.Elapsed(now)
	if elapsed < 0 {
		elapsed = 0
	}
	desc := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s.Description)
	return fmt.Sprintf("%s - %d/%d", desc, minutes(s.Duration), minutes(elapsed))
}

func minutes(d time.Duration) int64 {
	return int64(d / time.Minute)
}
