package session

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

// TimestampLayout is the human-readable start time format used in records
const TimestampLayout = "2006-01-02 15:04:05"

var (
	// ErrMalformedRecord is returned when a record is not a valid session document
	ErrMalformedRecord = errors.New("malformed session record")
	// ErrMalformedTimestamp is returned when a start time does not match TimestampLayout
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// record is the on-disk YAML layout of a session
type record struct {
	Description *string         `yaml:"description"`
	Duration    *recordDuration `yaml:"duration"`
	Start       *string         `yaml:"start"`
}

type recordDuration struct {
	Secs  uint64 `yaml:"secs"`
	Nanos uint32 `yaml:"nanos,omitempty"`
}

// FormatTimestamp renders t in UTC using TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a UTC timestamp in TimestampLayout
func ParseTimestamp(s string) (time.Time, error) {
	// time.Parse silently accepts fractional seconds
	if len(s) != len(TimestampLayout) {
		return time.Time{}, fmt.Errorf("%w: %q does not match %s", ErrMalformedTimestamp, s, TimestampLayout)
	}
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrMalformedTimestamp, s, err)
	}
	return t, nil
}

// Encode serializes a session. Sub-second precision of Start is dropped.
func Encode(s Session) ([]byte, error) {
	if s.Duration < 0 {
		return nil, fmt.Errorf("negative duration %s", s.Duration)
	}

	desc := s.Description
	start := FormatTimestamp(s.Start)
	rec := record{
		Description: &desc,
		Duration: &recordDuration{
			Secs:  uint64(s.Duration / time.Second),
			Nanos: uint32(s.Duration % time.Second),
		},
		Start: &start,
	}

	data, err := yaml.Marshal(&rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	return data, nil
}

// Decode parses a session record
func Decode(data []byte) (Session, error) {
	var rec record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	switch {
	case rec.Description == nil:
		return Session{}, fmt.Errorf("%w: missing description", ErrMalformedRecord)
	case rec.Duration == nil:
		return Session{}, fmt.Errorf("%w: missing duration", ErrMalformedRecord)
	case rec.Start == nil:
		return Session{}, fmt.Errorf("%w: missing start", ErrMalformedRecord)
	}

	if rec.Duration.Nanos >= uint32(time.Second) {
		return Session{}, fmt.Errorf("%w: nanos %d not below one second", ErrMalformedRecord, rec.Duration.Nanos)
	}
	const maxSecs = math.MaxInt64 / uint64(time.Second)
	const maxNanos = math.MaxInt64 % uint64(time.Second)
	if secs := rec.Duration.Secs; secs > maxSecs || (secs == maxSecs && uint64(rec.Duration.Nanos) > maxNanos) {
		return Session{}, fmt.Errorf("%w: duration of %d seconds out of range", ErrMalformedRecord, secs)
	}

	start, err := ParseTimestamp(*rec.Start)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Description: *rec.Description,
		Duration:    time.Duration(rec.Duration.Secs)*time.Second + time.Duration(rec.Duration.Nanos),
		Start:       start,
	}, nil
}
