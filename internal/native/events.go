package native

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/snomiao/glob-watch/internal/diff"
	"github.com/snomiao/glob-watch/internal/glob"
)

// run is the event-processing loop (spec §4.4's runtime section). It
// mirrors FileWatcher.processEvents' select-on-two-channels shape, but
// instead of converting straight to a callback-ready value, it drains
// every event already queued in one scheduling tick into a single batch
// before invoking the Diff Engine. This folds bursts of OS notifications
// (e.g. an editor's save-via-rename sequence) into fewer callback
// invocations without delaying a lone event or performing content
// diffing - the observable added/changed/deleted contract is unchanged.
func (w *Watcher) run() {
	defer close(w.closed)

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			batch := []fsnotify.Event{event}
			draining := true
			for draining {
				select {
				case next, ok := <-w.fsw.Events:
					if !ok {
						draining = false
						break
					}
					batch = append(batch, next)
				default:
					draining = false
				}
			}
			w.processBatch(batch)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.config.Logger.Printf("watcher error: %v", err)
		}
	}
}

// processBatch converts one or more raw fsnotify events into Observations
// and applies them through the Diff Engine, invoking the callback once if
// the result is non-empty (spec §4.3: empty batches are suppressed for
// incremental deliveries).
func (w *Watcher) processBatch(events []fsnotify.Event) {
	var observations []diff.Observation

	for _, event := range events {
		if event.Name == "" {
			// Null filename on overflow; correctness here is an open
			// question per spec §9, dropped rather than guessed at.
			continue
		}

		rel, err := filepath.Rel(w.root, event.Name)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)

		if w.matcher.DotExcluded(rel) {
			continue
		}
		if w.matcher.Ignored(rel) {
			continue
		}

		info, lerr := os.Lstat(event.Name)
		exists := lerr == nil

		var isDir, isFile, isSymlink bool
		if exists {
			isSymlink = info.Mode()&os.ModeSymlink != 0
			isDir = info.IsDir() && !isSymlink
			isFile = !isDir && !isSymlink
		}

		if exists && isDir {
			w.mu.Lock()
			_, known := w.watches[event.Name]
			w.mu.Unlock()
			if !known {
				w.addWatch(event.Name)
				w.registerExistingSubdirs(event.Name)
			}
		}

		if exists && !w.matcher.PatternMatch(rel) {
			// A newly created entry that does not match any include
			// pattern is never observed as added; but if it previously
			// existed and matched, a later rename out of scope must
			// still surface as a deletion, so only skip entries that
			// were never going to be tracked.
			continue
		}

		if exists && w.matcher.TypeFilter(isDir, isFile, true) == glob.Reject {
			continue
		}

		var ei diff.EntryInfo
		if exists {
			ei = diff.EntryInfo{Name: filepath.Base(rel), Path: rel, Exists: true}
			switch {
			case isSymlink:
				ei.Type = "l"
			case isDir:
				ei.Type = "d"
			default:
				ei.Type = "f"
			}
			if w.stat.Stat {
				if st, err := os.Stat(event.Name); err == nil {
					ei.Size = st.Size()
					ei.MtimeMS = st.ModTime().UnixMilli()
				}
			}
		}

		observations = append(observations, diff.Observation{Path: rel, Exists: exists, Info: ei})
	}

	if len(observations) == 0 {
		return
	}

	changes := w.engine.Apply(observations)
	if changes.Empty() {
		return
	}
	w.callback(changes)
}
