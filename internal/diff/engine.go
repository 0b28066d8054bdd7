package diff

// Observation is one candidate event fed into the Diff Engine: a path,
// whether it currently exists, and (if it exists) its known info.
type Observation struct {
	Path   string
	Exists bool
	Info   EntryInfo
}

// FileChanges mirrors globwatch.FileChanges, internal to this package to
// avoid an import cycle.
type FileChanges struct {
	Added   map[string]EntryInfo
	Changed map[string]EntryInfo
	Deleted map[string]EntryInfo
}

func newFileChanges() FileChanges {
	return FileChanges{
		Added:   make(map[string]EntryInfo),
		Changed: make(map[string]EntryInfo),
		Deleted: make(map[string]EntryInfo),
	}
}

// Empty reports whether all three sets are empty.
func (c FileChanges) Empty() bool {
	return len(c.Added) == 0 && len(c.Changed) == 0 && len(c.Deleted) == 0
}

// Engine is the single mutator of an Index (spec §4.3/§4.7). It applies
// a batch of Observations against the index's prior state and returns the
// canonical FileChanges for that batch, per the transition table:
//
//	previous | observed exists | classification | mutation
//	absent   | true             | added          | insert
//	absent   | false            | (ignored)      | none
//	present  | false            | deleted        | remove
//	present  | true             | changed        | replace
//
// Within one batch, duplicate observations for the same path collapse:
// net effect follows the last observation for that path in the batch.
type Engine struct {
	idx *Index
}

// NewEngine returns an Engine driving idx.
func NewEngine(idx *Index) *Engine {
	return &Engine{idx: idx}
}

// Apply classifies and applies observations atomically, mutating idx and
// returning the resulting FileChanges. Apply never returns an Empty batch
// unless observations itself produced no net change; callers decide
// whether to suppress empty batches (the mandatory initial batch is the
// one exception, per spec §4.3, and that decision belongs to the caller,
// not the Engine).
func (e *Engine) Apply(observations []Observation) FileChanges {
	e.idx.mu.Lock()
	defer e.idx.mu.Unlock()

	// Collapse duplicates within the batch: last observation per path
	// wins (spec §4.3's "exists=true then exists=false" example).
	latest := make(map[string]Observation, len(observations))
	order := make([]string, 0, len(observations))
	for _, obs := range observations {
		if _, seen := latest[obs.Path]; !seen {
			order = append(order, obs.Path)
		}
		latest[obs.Path] = obs
	}

	changes := newFileChanges()
	for _, path := range order {
		obs := latest[path]
		prev, existed := e.idx.entries[path]
		_ = prev

		switch {
		case !existed && obs.Exists:
			e.idx.entries[path] = obs.Info
			changes.Added[path] = obs.Info
		case !existed && !obs.Exists:
			// absent -> absent: no-op, not delivered.
		case existed && !obs.Exists:
			delete(e.idx.entries, path)
			changes.Deleted[path] = prev
		case existed && obs.Exists:
			e.idx.entries[path] = obs.Info
			changes.Changed[path] = obs.Info
		}
	}
	return changes
}

// Seed inserts entries directly as the mandatory initial "added" batch,
// without running them through the transition table (the index is known
// to start empty at session construction, so every seeded entry is
// unconditionally added). Used by every backend's bootstrap step.
func (e *Engine) Seed(entries map[string]EntryInfo) FileChanges {
	e.idx.mu.Lock()
	defer e.idx.mu.Unlock()

	changes := newFileChanges()
	for path, info := range entries {
		e.idx.entries[path] = info
		changes.Added[path] = info
	}
	return changes
}
