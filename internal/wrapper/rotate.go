package wrapper

import (
	"fmt"
	"os"
)

// Rotate applies the start-of-run rotation rule to an output log file.
// It never touches a file that a running child holds open: this is
// called only during the brief window before a new invocation spawns.
//
// - maxBytes == 0, or the file does not exceed maxBytes: no-op.
// - maxFiles <= 1: truncate the active file in place.
// - otherwise shift archives path.(A-1) -> path.A ... path.1 -> path.2,
//   dropping any pre-existing target, then rename path -> path.1.
func Rotate(path string, maxBytes int64, maxFiles int) error {
	if maxBytes <= 0 {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() <= maxBytes {
		return nil
	}

	if maxFiles <= 1 {
		if err := os.Truncate(path, 0); err != nil {
			return fmt.Errorf("truncate %s: %w", path, err)
		}
		return nil
	}

	archiveCount := maxFiles - 1
	for i := archiveCount - 1; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", path, i)
		dst := fmt.Sprintf("%s.%d", path, i+1)
		if _, err := os.Stat(src); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("stat %s: %w", src, err)
		}
		_ = os.Remove(dst)
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("rename %s -> %s: %w", src, dst, err)
		}
	}

	firstArchive := fmt.Sprintf("%s.1", path)
	_ = os.Remove(firstArchive)
	if err := os.Rename(path, firstArchive); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", path, firstArchive, err)
	}
	return nil
}
