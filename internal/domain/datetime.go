package domain

import (
	"fmt"
	"time"
)

// DatetimeLayout is the wire format for trip timestamps. Timestamps are
// stored and compared at second granularity with no timezone normalization.
const DatetimeLayout = "2006-01-02 15:04:05"

// DateLayout is the wire format for calendar-day lookups.
const DateLayout = "2006-01-02"

// ParseDatetime parses a "YYYY-MM-DD HH:MM:SS" string.
// Returns ErrMalformedTimestamp (wrapped) on any mismatch.
func ParseDatetime(s string) (time.Time, error) {
	t, err := time.Parse(DatetimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return t, nil
}

// ParseDate parses a "YYYY-MM-DD" string.
// Returns ErrMalformedTimestamp (wrapped) on any mismatch.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return t, nil
}

// FormatDatetime renders a timestamp back to the wire format.
func FormatDatetime(t time.Time) string {
	return t.Format(DatetimeLayout)
}
