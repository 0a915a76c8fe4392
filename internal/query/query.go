// Package query answers read questions about recorded sessions: which ones
// are running, which ones overlap a time range, and which ones mention a
// search term. It works on whatever listing a Source provides and never
// parses user input itself.
package query

import (
	"sort"
	"time"

	"github.com/jh3/pomo/internal/session"
)

// Source provides a full listing of sessions
type Source interface {
	ListAll() ([]session.Session, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func() ([]session.Session, error)

// ListAll calls f
func (f SourceFunc) ListAll() ([]session.Session, error) {
	return f()
}

// Engine filters the listing of a Source
type Engine struct {
	src Source
}

// New creates an engine over src
func New(src Source) *Engine {
	return &Engine{src: src}
}

// FindInRange returns sessions overlapping [start, end) whose description
// contains query, ignoring case. An empty query disables text filtering.
// Order follows the source listing.
func (e *Engine) FindInRange(start, end time.Time, query string) ([]session.Session, error) {
	sessions, err := e.src.ListAll()
	if err != nil {
		return nil, err
	}
	return Filter(sessions, InRange(start, end), Contains(query)), nil
}

// Find returns every session whose description contains query
func (e *Engine) Find(query string) ([]session.Session, error) {
	sessions, err := e.src.ListAll()
	if err != nil {
		return nil, err
	}
	return Filter(sessions, Contains(query)), nil
}

// Active returns the sessions running at now
func (e *Engine) Active(now time.Time) ([]session.Session, error) {
	sessions, err := e.src.ListAll()
	if err != nil {
		return nil, err
	}
	return Filter(sessions, ActiveAt(now)), nil
}

// Predicate selects sessions
type Predicate func(session.Session) bool

// InRange matches sessions overlapping the half-open range [start, end)
func InRange(start, end time.Time) Predicate {
	return func(s session.Session) bool {
		return s.Overlaps(start, end)
	}
}

// Contains matches descriptions containing query, ignoring case
func Contains(query string) Predicate {
	return func(s session.Session) bool {
		return s.Matches(query)
	}
}

// ActiveAt matches sessions still running at now
func ActiveAt(now time.Time) Predicate {
	return func(s session.Session) bool {
		return s.ActiveAt(now)
	}
}

// Filter keeps the sessions satisfying every predicate
func Filter(sessions []session.Session, preds ...Predicate) []session.Session {
	var out []session.Session
next:
	for _, s := range sessions {
		for _, p := range preds {
			if !p(s) {
				continue next
			}
		}
		out = append(out, s)
	}
	return out
}

// SortByStart orders sessions by start ascending, in place
func SortByStart(sessions []session.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Start.Before(sessions[j].Start)
	})
}

// TotalDuration sums the planned durations
func TotalDuration(sessions []session.Session) time.Duration {
	var total time.Duration
	for _, s := range sessions {
		total += s.Duration
	}
	return total
}
