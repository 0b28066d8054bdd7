package globwatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/snomiao/glob-watch/internal/backend"
	"github.com/snomiao/glob-watch/internal/diff"
	"github.com/snomiao/glob-watch/internal/scan"
)

// defaultLogger receives session activity when WatchOptions.Logger is nil.
// A caller overrides it per call by setting WatchOptions.Logger.
var defaultLogger = log.New(os.Stderr, "[globwatch] ", log.LstdFlags)

// Watch starts a watch session per spec §4: patterns is a single glob
// string or a []string of patterns. callback receives every batch,
// starting with the mandatory initial one, which is delivered synchronously
// before Watch returns; incremental batches are held back until it has
// been delivered. destroy tears the session down; calling it more than once is a
// no-op (spec P4).
func Watch(patterns interface{}, callback func(FileChanges), options WatchOptions) (destroy func(), err error) {
	pats, err := normalizePatterns(patterns)
	if err != nil {
		return nil, err
	}

	opts, err := options.normalized()
	if err != nil {
		return nil, err
	}

	onlyFiles, onlyDirectories := opts.effectiveTypeFilter()

	logger := opts.Logger
	if logger == nil {
		logger = defaultLogger
	}

	params := backend.Params{
		Cwd:             opts.Cwd,
		Patterns:        pats,
		Ignore:          opts.Ignore,
		Dot:             opts.Dot,
		OnlyFiles:       onlyFiles,
		OnlyDirectories: onlyDirectories,
		WantSize:        opts.hasField(FieldSize),
		WantMtime:       opts.hasField(FieldMtime),
		Logger:          logger,
	}

	// ready is closed when Watch returns, after the initial batch has been
	// delivered, so the callback never runs concurrently with itself.
	ready := make(chan struct{})
	defer close(ready)
	wrapped := func(c diff.FileChanges) {
		if callback == nil {
			return
		}
		<-ready
		callback(toPublicChanges(c, opts.Absolute, opts.Cwd))
	}

	sess, initial, err := backend.Select(context.Background(), string(opts.Mode), params, wrapped)
	if err != nil {
		var rootErr *scan.RootUnreadableError
		if errors.As(err, &rootErr) {
			return nil, &ScanError{Cwd: opts.Cwd, Err: rootErr.Err}
		}
		return nil, err
	}

	if callback != nil {
		callback(toPublicChanges(initial, opts.Absolute, opts.Cwd))
	}

	var once sync.Once
	destroy = func() {
		once.Do(func() {
			sess.Close()
		})
	}
	return destroy, nil
}

// FindFiles performs a one-shot scan per spec §6: defined in terms of
// Watch with mode forced to oneshot. Returns the path of every entry in
// the initial batch (all of which have Exists=true, since a oneshot's
// initial batch is the only batch it ever produces).
func FindFiles(patterns interface{}, options WatchOptions) ([]string, error) {
	options.Mode = ModeOneshot

	var paths []string
	destroy, err := Watch(patterns, func(c FileChanges) {
		for p := range c.Added {
			paths = append(paths, p)
		}
	}, options)
	if err != nil {
		return nil, err
	}
	destroy()
	return paths, nil
}

// normalizePatterns accepts a single glob string or a []string, per spec
// §6's "patterns is a single glob string or a list".
func normalizePatterns(patterns interface{}) ([]string, error) {
	switch p := patterns.(type) {
	case string:
		return []string{p}, nil
	case []string:
		return p, nil
	default:
		return nil, fmt.Errorf("globwatch: patterns must be a string or []string, got %T", patterns)
	}
}

// toPublicChanges converts the internal diff package's FileChanges/EntryInfo
// mirror types into the public API's types at the package boundary.
func toPublicChanges(c diff.FileChanges, absolute bool, cwd string) FileChanges {
	out := NewFileChanges()
	for _, v := range c.Added {
		e := toPublicEntry(v, absolute, cwd)
		out.Added[e.Path] = e
	}
	for _, v := range c.Changed {
		e := toPublicEntry(v, absolute, cwd)
		out.Changed[e.Path] = e
	}
	for _, v := range c.Deleted {
		e := toPublicEntry(v, absolute, cwd)
		out.Deleted[e.Path] = e
	}
	return out
}

func toPublicEntry(e diff.EntryInfo, absolute bool, cwd string) EntryInfo {
	path := e.Path
	if absolute {
		path = joinPath(cwd, e.Path)
	}
	return EntryInfo{
		Name:    e.Name,
		Path:    path,
		Exists:  e.Exists,
		Type:    EntryType(e.Type),
		Size:    e.Size,
		MtimeMS: e.MtimeMS,
	}
}

// joinPath resolves rel against cwd and returns a forward-slash path, for
// WatchOptions.Absolute (spec §3's "Path" field description).
func joinPath(cwd, rel string) string {
	return filepath.ToSlash(filepath.Join(cwd, filepath.FromSlash(rel)))
}
