// Package extract locates a configured column/key's value inside a
// single CSV row or JSON line, honoring quoting and `\`-prefixed
// escapes.
package extract

import "errors"

// ErrColumnOutOfRange is returned when a CSV row has fewer columns than
// the configured search column index.
var ErrColumnOutOfRange = errors.New("extract: column index out of range")

// ErrMalformedJSON is returned when a line does not match the flat
// `{ "key": value, ... }` shape this extractor assumes.
var ErrMalformedJSON = errors.New("extract: malformed json line")
