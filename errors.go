package bm25engine

import "errors"

// ErrIndexUnusable is returned when an operation is attempted against an
// Index that failed to build or load completely.
var ErrIndexUnusable = errors.New("bm25engine: index is not usable")
