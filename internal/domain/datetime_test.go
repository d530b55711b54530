package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvaldez/trip-analytics/internal/domain"
)

func TestParseDatetime(t *testing.T) {
	got, err := domain.ParseDatetime("2023-01-01 12:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC), got)
}

func TestParseDatetime_Malformed(t *testing.T) {
	for _, s := range []string{
		"",
		"2023-01-01",            // date only
		"2023-01-01T12:00:00",   // RFC 3339 separator
		"2023-01-01 12:00",      // missing seconds
		"01/01/2023 12:00:00",   // wrong date order
		"2023-13-01 12:00:00",   // month out of range
		"not a timestamp at all",
	} {
		_, err := domain.ParseDatetime(s)
		assert.ErrorIs(t, err, domain.ErrMalformedTimestamp, "input %q", s)
	}
}

func TestParseDate(t *testing.T) {
	got, err := domain.ParseDate("2023-05-20")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 5, 20, 0, 0, 0, 0, time.UTC), got)

	_, err = domain.ParseDate("2023-05-20 10:00:00")
	assert.ErrorIs(t, err, domain.ErrMalformedTimestamp)
}

func TestFormatDatetime_RoundTrip(t *testing.T) {
	in := "2023-01-01 12:00:00"
	ts, err := domain.ParseDatetime(in)
	require.NoError(t, err)
	assert.Equal(t, in, domain.FormatDatetime(ts))
}
