package session

import (
	"strings"
	"time"
)

// Session represents a single recorded work session
type Session struct {
	Description string
	Duration    time.Duration
	Start       time.Time
}

// End returns the planned end of the session
func (s Session) End() time.Time {
	return s.Start.Add(s.Duration)
}

// Elapsed returns now - Start. The value is not clamped and goes negative
// if the clock moved backwards since the session was written.
func (s Session) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.Start)
}

// ActiveAt reports whether the session is still running at now.
// A session ending exactly at now is no longer active.
func (s Session) ActiveAt(now time.Time) bool {
	return s.End().After(now)
}

// Overlaps reports whether [Start, End) intersects [from, to)
func (s Session) Overlaps(from, to time.Time) bool {
	return s.Start.Before(to) && s.End().After(from)
}

// Matches reports whether the description contains query, ignoring case.
// An empty query matches everything.
func (s Session) Matches(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Description), strings.ToLower(query))
}
