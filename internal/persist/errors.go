package persist

import "errors"

// ErrCorruptFile is returned when a persisted partition or metadata file
// is truncated or internally inconsistent on load.
var ErrCorruptFile = errors.New("persist: corrupt file")
