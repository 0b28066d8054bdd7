//go:build !windows

package native

import (
	"errors"
	"log"

	"golang.org/x/sys/unix"
)

// logWatchError logs a failed watch-install attempt (spec §4.4/§7
// category 3), classifying the underlying errno via golang.org/x/sys/unix
// so the log line distinguishes a permission problem from an
// already-gone directory (the ENOENT race spec §4.4 calls out) without
// string-matching the error text.
func logWatchError(logger *log.Logger, dir string, err error) {
	switch {
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		logger.Printf("permission denied watching %s, skipping: %v", dir, err)
	case errors.Is(err, unix.ENOENT):
		logger.Printf("directory %s disappeared before it could be watched, skipping: %v", dir, err)
	default:
		logger.Printf("failed to watch %s, skipping: %v", dir, err)
	}
}
