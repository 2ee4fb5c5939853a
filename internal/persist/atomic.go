package persist

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// writeFileAtomic writes data to a unique temp file in the same directory
// as path and renames it into place, so a reader never observes a
// partially written file and a crash mid-write never corrupts the
// previous generation.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("persist: writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("persist: renaming %s to %s: %w", tmp, path, err)
	}
	return nil
}
