package config

import "errors"

// ErrInvalidConfig covers configuration shape errors validator struct tags
// cannot express (e.g. filename/documents mutual exclusion).
var ErrInvalidConfig = errors.New("config: invalid configuration")

// ErrUnsupportedFileType is returned when Filename's extension is neither
// .csv nor .json/.ndjson/.jsonl.
var ErrUnsupportedFileType = errors.New("config: unsupported file extension")
