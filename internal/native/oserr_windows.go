//go:build windows

package native

import "log"

// logWatchError logs a failed watch-install attempt. Windows has no
// EACCES/ENOENT errno classification via golang.org/x/sys/unix, so the
// raw error is logged as-is.
func logWatchError(logger *log.Logger, dir string, err error) {
	logger.Printf("failed to watch %s, skipping: %v", dir, err)
}
