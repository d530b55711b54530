// Package geo implements the coordinate codec: conversion between the
// well-known-text point form ("POINT(lon lat)") that crosses the HTTP
// boundary and the in-memory point type used everywhere else.
// The package is pure — no I/O, no store types.
package geo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedGeometry is returned by ParsePoint when the input does not
// parse as a single 2D WKT point. Handlers should map this to HTTP 400.
var ErrMalformedGeometry = errors.New("malformed geometry")

// Point is a 2D geographic coordinate in EPSG:4326, longitude first.
type Point struct {
	Lon float64
	Lat float64
}

// ParsePoint parses a WKT point string, e.g. "POINT(30 10)".
// The POINT keyword is matched case-insensitively and surrounding whitespace
// is tolerated, but the geometry must be exactly one 2D point — any other
// geometry type, extra dimensions, or malformed numbers fail with
// ErrMalformedGeometry. No lon/lat range validation is applied.
func ParsePoint(s string) (Point, error) {
	text := strings.TrimSpace(s)

	upper := strings.ToUpper(text)
	if !strings.HasPrefix(upper, "POINT") {
		return Point{}, fmt.Errorf("%w: %q is not a POINT", ErrMalformedGeometry, s)
	}
	rest := strings.TrimSpace(text[len("POINT"):])

	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return Point{}, fmt.Errorf("%w: %q is missing coordinate parentheses", ErrMalformedGeometry, s)
	}
	inner := rest[1 : len(rest)-1]

	fields := strings.Fields(inner)
	if len(fields) != 2 {
		return Point{}, fmt.Errorf("%w: %q must have exactly two coordinates", ErrMalformedGeometry, s)
	}

	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: bad longitude in %q", ErrMalformedGeometry, s)
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: bad latitude in %q", ErrMalformedGeometry, s)
	}

	return Point{Lon: lon, Lat: lat}, nil
}

// WKT renders the point back to well-known text, longitude first.
// strconv's shortest-round-trip float formatting guarantees
// ParsePoint(p.WKT()) == p for every point.
func (p Point) WKT() string {
	return "POINT(" + strconv.FormatFloat(p.Lon, 'g', -1, 64) +
		" " + strconv.FormatFloat(p.Lat, 'g', -1, 64) + ")"
}

// String implements fmt.Stringer using the WKT form.
func (p Point) String() string {
	return p.WKT()
}
