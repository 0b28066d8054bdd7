// Package native implements the native watch backend (spec §4.4): an
// initial scan that seeds the Entry Index, followed by per-directory
// fsnotify watches that grow as subdirectories are created.
package native

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/snomiao/glob-watch/internal/diff"
	"github.com/snomiao/glob-watch/internal/glob"
	"github.com/snomiao/glob-watch/internal/scan"
)

// Config configures a Watcher, matching the shape of daemon.Config:
// a struct of tunables plus a *log.Logger, with DefaultConfig applying
// sensible defaults.
type Config struct {
	// Logger receives per-directory and per-entry error reports (spec §7
	// categories 2-3). Defaults to a stderr logger.
	Logger *log.Logger
}

// DefaultConfig returns the native backend's defaults.
func DefaultConfig() *Config {
	return &Config{
		Logger: log.New(os.Stderr, "[native] ", log.LstdFlags),
	}
}

// Watcher is the native backend (spec §4.4). One Watcher is scoped to one
// watch session.
type Watcher struct {
	root    string
	matcher *glob.Matcher
	engine  *diff.Engine
	stat    scan.Options
	config  *Config

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	watches map[string]struct{} // absolute dirs currently watched

	callback func(diff.FileChanges)

	done   chan struct{}
	closed chan struct{}
	once   sync.Once
}

// New constructs a Watcher. It does not start watching; call Start.
func New(root string, matcher *glob.Matcher, engine *diff.Engine, statFields scan.Options, config *Config, callback func(diff.FileChanges)) (*Watcher, error) {
	if config == nil {
		config = DefaultConfig()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("native: failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		root:     root,
		matcher:  matcher,
		engine:   engine,
		stat:     statFields,
		config:   config,
		fsw:      fsw,
		watches:  make(map[string]struct{}),
		callback: callback,
		done:     make(chan struct{}),
		closed:   make(chan struct{}),
	}, nil
}

// Start performs the bootstrap sequence from spec §4.4:
//  1. scan root to seed the Entry Index;
//  2. build the initial batch with all seeded entries in Added;
//  3. derive the directories to watch: root, every matched directory, and
//     the parent directory of every matched file (other existing
//     directories are not watched);
//  4. register a non-recursive watch on each such directory.
//
// Start returns the initial FileChanges batch so the caller (backend
// selector / root package) can deliver it via the same code path used for
// incremental batches, keeping "fire exactly once" a session-level
// property rather than something duplicated per backend.
func (w *Watcher) Start() (diff.FileChanges, error) {
	entries, err := scan.Walk(w.root, w.matcher, w.stat)
	if err != nil {
		return diff.FileChanges{}, err
	}

	seed := make(map[string]diff.EntryInfo, len(entries))
	dirClosure := map[string]struct{}{w.root: {}}
	for _, e := range entries {
		seed[e.Rel] = toEntryInfo(e)
		if e.IsDir {
			dirClosure[e.Abs] = struct{}{}
		} else {
			dirClosure[filepath.Dir(e.Abs)] = struct{}{}
		}
	}

	initial := w.engine.Seed(seed)

	for dir := range dirClosure {
		w.addWatch(dir)
	}

	go w.run()

	return initial, nil
}

// addWatch registers dir with fsnotify if not already watched. Failures
// are logged and the directory is simply not watched (spec §4.4's
// "EACCES, ENOENT race" edge case; spec §7 category 3).
func (w *Watcher) addWatch(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.watches[dir]; ok {
		return
	}
	if err := w.fsw.Add(dir); err != nil {
		logWatchError(w.config.Logger, dir, err)
		return
	}
	w.watches[dir] = struct{}{}
}

// registerExistingSubdirs discovers dir's existing subdirectories via a
// single non-recursive read and attaches watches to each, per spec §4.4
// step 4: "recursively register watches for its existing subdirectories
// (discovered via a single non-recursive read)".
func (w *Watcher) registerExistingSubdirs(dir string) {
	children, err := os.ReadDir(dir)
	if err != nil {
		w.config.Logger.Printf("failed to enumerate new directory %s: %v", dir, err)
		return
	}
	for _, c := range children {
		if !c.IsDir() {
			continue
		}
		child := filepath.Join(dir, c.Name())
		w.addWatch(child)
		w.registerExistingSubdirs(child)
	}
}

// Close tears down the watcher: closes every watch and clears the
// directory set. It does not clear the Entry Index, which stays as it was
// until the session is dropped. Idempotent per spec §3/§5.
func (w *Watcher) Close() error {
	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.fsw.Close()
		<-w.closed

		w.mu.Lock()
		w.watches = make(map[string]struct{})
		w.mu.Unlock()
	})
	return closeErr
}

func toEntryInfo(e scan.Entry) diff.EntryInfo {
	info := diff.EntryInfo{Name: filepath.Base(e.Rel), Path: e.Rel, Exists: true}
	switch {
	case e.IsSymlink:
		info.Type = "l"
	case e.IsDir:
		info.Type = "d"
	default:
		info.Type = "f"
	}
	info.Size = e.Size
	info.MtimeMS = e.ModMS
	return info
}
