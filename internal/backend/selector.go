// Package backend implements the Backend Selector / Fallback (spec §4.6):
// resolves a requested Mode into a concrete backend, falling back from
// external to native transparently on daemon failure.
package backend

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/snomiao/glob-watch/internal/diff"
	"github.com/snomiao/glob-watch/internal/external"
	"github.com/snomiao/glob-watch/internal/glob"
	"github.com/snomiao/glob-watch/internal/native"
	"github.com/snomiao/glob-watch/internal/scan"
)

// Kind identifies which concrete backend a Session is running.
type Kind string

const (
	KindExternal Kind = "external"
	KindNative   Kind = "native"
	KindOneshot  Kind = "oneshot"
)

// Params carries everything a backend needs to bootstrap, independent of
// the root package's public WatchOptions type (keeping this package free
// of an import cycle back to the root package).
type Params struct {
	Cwd             string
	Patterns        []string
	Ignore          []string
	Dot             bool
	OnlyFiles       bool
	OnlyDirectories bool
	WantSize        bool
	WantMtime       bool

	ExternalSocketPath string
	Logger             *log.Logger
}

// Session is the running backend for one Watch call: whichever concrete
// backend was selected, plus its Kind for observability.
type Session struct {
	Kind Kind

	native   *native.Watcher
	external *external.Adapter
}

// Close tears down whichever concrete backend is active. Idempotent
// because native.Watcher.Close and external.Adapter.Close both are.
func (s *Session) Close() error {
	switch s.Kind {
	case KindNative, KindOneshot:
		if s.native != nil {
			return s.native.Close()
		}
		return nil
	case KindExternal:
		return s.external.Close()
	}
	return nil
}

// Select resolves mode into a running Session and its initial FileChanges
// batch, per spec §4.6:
//   - external: attempt a daemon session; any connect/capability/timeout
//     failure falls back to native transparently, exactly once;
//   - native: use the native backend directly;
//   - oneshot: scan once and return a no-op Session.
func Select(ctx context.Context, mode string, p Params, callback func(diff.FileChanges)) (*Session, diff.FileChanges, error) {
	logger := p.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[backend] ", log.LstdFlags)
	}

	m, err := glob.New(p.Patterns, p.Ignore, glob.Option{
		Dot:             p.Dot,
		OnlyFiles:       p.OnlyFiles,
		OnlyDirectories: p.OnlyDirectories,
	})
	if err != nil {
		return nil, diff.FileChanges{}, err
	}

	switch mode {
	case string(KindOneshot):
		return selectOneshot(p, m)
	case string(KindNative):
		return selectNative(p, m, logger, callback)
	case string(KindExternal):
		sess, initial, err := selectExternal(ctx, p, m, logger, callback)
		if err == nil {
			return sess, initial, nil
		}
		logger.Printf("external backend unavailable (%v), falling back to native", err)
		return selectNative(p, m, logger, callback)
	default:
		return nil, diff.FileChanges{}, fmt.Errorf("backend: unknown mode %q", mode)
	}
}

func statOptions(p Params, logger *log.Logger) scan.Options {
	return scan.Options{Stat: p.WantSize || p.WantMtime, Logger: logger}
}

func selectOneshot(p Params, m *glob.Matcher) (*Session, diff.FileChanges, error) {
	idx := diff.NewIndex()
	engine := diff.NewEngine(idx)

	entries, err := scan.Walk(p.Cwd, m, scan.Options{Stat: p.WantSize || p.WantMtime})
	if err != nil {
		return nil, diff.FileChanges{}, err
	}

	seed := make(map[string]diff.EntryInfo, len(entries))
	for _, e := range entries {
		seed[e.Rel] = entryToDiffInfo(e)
	}
	initial := engine.Seed(seed)

	return &Session{Kind: KindOneshot}, initial, nil
}

func selectNative(p Params, m *glob.Matcher, logger *log.Logger, callback func(diff.FileChanges)) (*Session, diff.FileChanges, error) {
	idx := diff.NewIndex()
	engine := diff.NewEngine(idx)

	w, err := native.New(p.Cwd, m, engine, statOptions(p, logger), &native.Config{Logger: logger}, callback)
	if err != nil {
		return nil, diff.FileChanges{}, err
	}
	initial, err := w.Start()
	if err != nil {
		return nil, diff.FileChanges{}, err
	}
	return &Session{Kind: KindNative, native: w}, initial, nil
}

func selectExternal(ctx context.Context, p Params, m *glob.Matcher, logger *log.Logger, callback func(diff.FileChanges)) (*Session, diff.FileChanges, error) {
	socketPath := p.ExternalSocketPath
	if socketPath == "" {
		socketPath = external.DefaultSocketPath
	}

	client, err := external.Dial(ctx, &external.Config{SocketPath: socketPath, Logger: logger})
	if err != nil {
		return nil, diff.FileChanges{}, err
	}

	idx := diff.NewIndex()
	engine := diff.NewEngine(idx)
	adapter := external.New(client, p.Cwd, m, engine, &external.Config{SocketPath: socketPath, Logger: logger}, callback)

	if err := adapter.Start(ctx, p.Cwd, p.Patterns, p.Dot, p.OnlyFiles, p.OnlyDirectories, p.WantSize, p.WantMtime); err != nil {
		client.Close()
		return nil, diff.FileChanges{}, err
	}

	initial, err := adapter.FirstBatch(ctx)
	if err != nil {
		adapter.Close()
		return nil, diff.FileChanges{}, err
	}

	return &Session{Kind: KindExternal, external: adapter}, initial, nil
}

func entryToDiffInfo(e scan.Entry) diff.EntryInfo {
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
