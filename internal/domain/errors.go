package domain

import "errors"

// ErrNotFound is returned by service functions when a lookup or filtered
// query produced an empty result set. The original API treats "nothing
// matched" as an error, so handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrMalformedTimestamp is returned when a datetime string does not match
// the fixed "2006-01-02 15:04:05" wire format.
// Handlers should map this to HTTP 400.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// ErrMalformedInput is returned by the bulk import path when a CSV row cannot
// be parsed. The whole import is aborted; the wrapped message names the row.
// Handlers should map this to HTTP 400.
var ErrMalformedInput = errors.New("malformed input")
