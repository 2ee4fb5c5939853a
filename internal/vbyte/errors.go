package vbyte

import "errors"

// ErrTruncated is returned when a caller asks DecodeSlice to decode more
// integers than the buffer actually contains.
var ErrTruncated = errors.New("vbyte: truncated encoding")
