// Package globwatch provides a glob-filtered file-watching engine.
//
// It exposes one abstraction on top of two backends: an external
// high-performance watcher daemon reached over a local request/subscription
// protocol, and a native backend built from OS directory-watch primitives
// plus in-process glob matching. A third "oneshot" mode is a degenerate
// case of the native backend's initial scan.
//
// # Architecture
//
// Watch dispatches to internal/backend, which resolves the requested mode
// into a concrete backend (internal/native or internal/external), falling
// back from external to native transparently on daemon failure. Both
// backends push (path, exists, info) observations through a single
// internal/diff.Engine, which is the sole mutator of the session's entry
// index and the sole source of the added/changed/deleted FileChanges
// batches delivered to the caller's callback.
//
//	stop, err := globwatch.Watch([]string{"**/*.go"}, func(c globwatch.FileChanges) {
//	    for path := range c.Added {
//	        log.Printf("added: %s", path)
//	    }
//	}, globwatch.WatchOptions{Mode: globwatch.ModeNative})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stop()
//
// # Backends
//
//   - ModeExternal dials a Watchman-style daemon over a local socket
//     (internal/external) and falls back to ModeNative if the daemon is
//     unreachable or missing a required capability.
//   - ModeNative attaches per-directory fsnotify watches, discovering new
//     subdirectories as they are created (internal/native).
//   - ModeOneshot performs a single scan and never subscribes to further
//     events; its returned stop function is a no-op.
//
// # Thread Safety
//
// A Watch session assumes a single-threaded event context: the diff engine
// serializes access to the entry index with a mutex held for the duration
// of one event batch, but the user callback for a given session is never
// invoked concurrently with itself.
package globwatch
