package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvaldez/trip-analytics/internal/geo"
)

func TestParsePoint_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  geo.Point
	}{
		{"integers", "POINT(30 10)", geo.Point{Lon: 30, Lat: 10}},
		{"decimals", "POINT(-3.70379 40.41678)", geo.Point{Lon: -3.70379, Lat: 40.41678}},
		{"negative both", "POINT(-70.6483 -33.4569)", geo.Point{Lon: -70.6483, Lat: -33.4569}},
		{"lowercase keyword", "point(1 2)", geo.Point{Lon: 1, Lat: 2}},
		{"surrounding whitespace", "  POINT(5 6)  ", geo.Point{Lon: 5, Lat: 6}},
		{"space before parens", "POINT (7 8)", geo.Point{Lon: 7, Lat: 8}},
		{"extra inner whitespace", "POINT( 9   10 )", geo.Point{Lon: 9, Lat: 10}},
		{"scientific notation", "POINT(1e2 -1.5e-3)", geo.Point{Lon: 100, Lat: -0.0015}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := geo.ParsePoint(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePoint_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not a geometry", "hello"},
		{"wrong geometry type", "LINESTRING(0 0, 1 1)"},
		{"polygon", "POLYGON((0 0, 1 0, 1 1, 0 0))"},
		{"missing parens", "POINT 30 10"},
		{"unclosed paren", "POINT(30 10"},
		{"one coordinate", "POINT(30)"},
		{"three coordinates", "POINT(30 10 5)"},
		{"bad longitude", "POINT(abc 10)"},
		{"bad latitude", "POINT(30 xyz)"},
		{"comma separator", "POINT(30,10)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := geo.ParsePoint(tt.input)
			assert.ErrorIs(t, err, geo.ErrMalformedGeometry)
		})
	}
}

// TestRoundTrip_PointToText verifies parse(format(p)) == p exactly — WKT
// rendering uses shortest-round-trip float formatting, so no tolerance is
// needed.
func TestRoundTrip_PointToText(t *testing.T) {
	points := []geo.Point{
		{Lon: 0, Lat: 0},
		{Lon: 30, Lat: 10},
		{Lon: -3.7037902832031, Lat: 40.416782434749},
		{Lon: 179.99999999, Lat: -89.99999999},
		{Lon: 1.0 / 3.0, Lat: -2.0 / 3.0},
	}

	for _, p := range points {
		got, err := geo.ParsePoint(p.WKT())
		require.NoError(t, err, "round-tripping %v", p)
		assert.Equal(t, p, got)
	}
}

// TestRoundTrip_TextToPoint verifies format(parse(s)) denotes the same point
// as s — not necessarily byte-identical, but numerically equivalent.
func TestRoundTrip_TextToPoint(t *testing.T) {
	inputs := []string{
		"POINT(30 10)",
		"point( -5.25  2.75 )",
		"POINT(0.1 0.2)",
	}

	for _, s := range inputs {
		p1, err := geo.ParsePoint(s)
		require.NoError(t, err)
		p2, err := geo.ParsePoint(p1.WKT())
		require.NoError(t, err)
		assert.Equal(t, p1, p2, "input %q", s)
	}
}

func TestPoint_WKT(t *testing.T) {
	assert.Equal(t, "POINT(30 10)", geo.Point{Lon: 30, Lat: 10}.WKT())
	assert.Equal(t, "POINT(-3.5 0.25)", geo.Point{Lon: -3.5, Lat: 0.25}.WKT())
}
