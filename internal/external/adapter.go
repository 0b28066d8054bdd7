package external

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/snomiao/glob-watch/internal/diff"
	"github.com/snomiao/glob-watch/internal/glob"
)

// Config configures an Adapter.
type Config struct {
	// SocketPath is the daemon's Unix domain socket. Defaults to
	// DefaultSocketPath.
	SocketPath string
	// Logger receives adapter activity. Defaults to a stderr logger.
	Logger *log.Logger
}

// DefaultConfig returns the adapter's defaults.
func DefaultConfig() *Config {
	return &Config{
		SocketPath: DefaultSocketPath,
		Logger:     log.New(os.Stderr, "[external] ", log.LstdFlags),
	}
}

// Adapter is the External Watcher Adapter (spec §4.5): it owns one
// Client connection and translates its subscription pushes into the
// canonical FileChanges contract via a diff.Engine.
type Adapter struct {
	client       *Client
	subscription string
	relRoot      string // subscription's relative_root: cwd relative to the daemon's watch root
	engine       *diff.Engine
	matcher      *glob.Matcher
	config       *Config

	seenFirst bool
	callback  func(diff.FileChanges)

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// Dial connects to the daemon and verifies it advertises the capability
// this adapter requires (spec §4.5 step 1). The caller (backend.Select)
// treats any error here as grounds to fall back to the native backend.
func Dial(ctx context.Context, config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	client, err := dialSocket(ctx, config.SocketPath)
	if err != nil {
		return nil, err
	}
	if err := client.CheckCapability(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// New builds an Adapter around an already-dialed, capability-checked
// Client.
func New(client *Client, root string, matcher *glob.Matcher, engine *diff.Engine, config *Config, callback func(diff.FileChanges)) *Adapter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Adapter{
		client:   client,
		engine:   engine,
		matcher:  matcher,
		config:   config,
		callback: callback,
		done:     make(chan struct{}),
	}
}

// Start performs spec §4.5 steps 2-5: watch-project, compose the
// subscription expression, request fields, and subscribe with
// relative_root derived from the daemon's watch root vs. our cwd.
func (a *Adapter) Start(ctx context.Context, cwd string, patterns []string, dot, onlyFiles, onlyDirectories, wantSize, wantMtime bool) error {
	watchRoot, _, err := a.client.WatchProject(ctx, cwd)
	if err != nil {
		return fmt.Errorf("external: watch-project failed: %w", err)
	}

	relRoot, err := filepath.Rel(watchRoot, cwd)
	if err != nil {
		relRoot = ""
	}
	relRoot = filepath.ToSlash(relRoot)
	if relRoot == "." {
		relRoot = ""
	}
	a.relRoot = relRoot

	name := "watchkit:" + cwd
	a.subscription = name

	if err := a.client.Subscribe(ctx, watchRoot, name, patterns, dot, onlyFiles, onlyDirectories, wantSize, wantMtime, relRoot); err != nil {
		return fmt.Errorf("external: subscribe failed: %w", err)
	}

	return nil
}

// run consumes the incremental subscription pushes. FirstBatch consumes
// the first push itself and then starts run.
func (a *Adapter) run() {
	for push := range a.client.Pushes() {
		if push.Subscription != a.subscription {
			continue
		}
		a.handlePush(push)
	}
	close(a.done)
}

// FirstBatch blocks for the daemon's first subscription response (which
// may be empty) and seeds the Entry Index from it, per spec §4.5's "is
// this the first subscription response?" rule. It must be called once,
// before any concurrent consumption via run's internal loop; callers
// should call Start then FirstBatch synchronously before treating the
// session as live.
func (a *Adapter) FirstBatch(ctx context.Context) (diff.FileChanges, error) {
	for {
		select {
		case push, ok := <-a.client.Pushes():
			if !ok {
				return diff.FileChanges{}, fmt.Errorf("external: connection closed before initial response")
			}
			if push.Subscription != a.subscription {
				continue
			}
			seed := make(map[string]diff.EntryInfo, len(push.Files))
			for _, f := range push.Files {
				if !f.Exists {
					continue
				}
				rel := a.toRelative(f.Name)
				if a.matcher != nil && a.matcher.Ignored(rel) {
					continue
				}
				seed[rel] = fileToEntryInfo(rel, f)
			}
			a.mu.Lock()
			a.seenFirst = true
			a.mu.Unlock()
			go a.run()
			return a.engine.Seed(seed), nil
		case <-ctx.Done():
			return diff.FileChanges{}, ctx.Err()
		}
	}
}

// handlePush converts one incremental subscription push into Observations
// and applies them through the Diff Engine (spec §4.5: "subsequent
// responses flow through the Diff Engine identically to the native
// path").
func (a *Adapter) handlePush(push subscriptionPush) {
	observations := make([]diff.Observation, 0, len(push.Files))
	for _, f := range push.Files {
		rel := a.toRelative(f.Name)
		if a.matcher != nil && a.matcher.DotExcluded(rel) {
			continue
		}
		if a.matcher != nil && a.matcher.Ignored(rel) {
			continue
		}
		observations = append(observations, diff.Observation{
			Path:   rel,
			Exists: f.Exists,
			Info:   fileToEntryInfo(rel, f),
		})
	}
	if len(observations) == 0 {
		return
	}
	changes := a.engine.Apply(observations)
	if changes.Empty() {
		return
	}
	a.callback(changes)
}

// toRelative converts a daemon-reported name to the cwd-relative,
// forward-slash form. Start subscribes with relative_root set to cwd's
// offset from the daemon's watch root, so names already arrive relative to
// cwd rather than to the watch root (spec §4.5 step 5 / Glossary's "Watch
// root").
func (a *Adapter) toRelative(name string) string {
	return filepath.ToSlash(name)
}

func fileToEntryInfo(rel string, f daemonFile) diff.EntryInfo {
	info := diff.EntryInfo{
		Name:   filepath.Base(rel),
		Path:   rel,
		Exists: f.Exists,
		Type:   f.Type,
	}
	if f.Size != nil {
		info.Size = *f.Size
	}
	if f.MtimeMS != nil {
		info.MtimeMS = *f.MtimeMS
	}
	return info
}

// Close ends the session: closes the client connection, which causes
// run's Pushes loop (if FirstBatch started it) to drain and return (spec
// §4.5 teardown).
func (a *Adapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	started := a.seenFirst
	a.mu.Unlock()

	err := a.client.Close()
	if started {
		<-a.done
	}
	return err
}
