package ingest

import "errors"

// ErrLineTooLong is returned when a record exceeds the 1 MiB line-length
// cap. It is always fatal: a corpus containing a line this long cannot
// be partitioned safely.
var ErrLineTooLong = errors.New("ingest: line exceeds 1 MiB cap")

// ErrMissingSearchColumn is returned when the configured search column or
// key is absent from a record.
var ErrMissingSearchColumn = errors.New("ingest: search column not found in record")

// ErrMalformedRecord wraps an extraction failure (malformed CSV quoting or
// JSON syntax) that makes a record impossible to index.
var ErrMalformedRecord = errors.New("ingest: malformed record")
