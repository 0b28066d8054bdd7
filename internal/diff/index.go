// Package diff implements the Entry Index and Change Diff Engine (spec
// §4.3): the sole mutator of a watch session's path -> EntryInfo mapping,
// and the sole source of added/changed/deleted FileChanges batches.
package diff

import "sync"

// EntryInfo mirrors the public globwatch.EntryInfo shape without
// importing the root package, keeping this package free of a dependency
// cycle. The root package converts to/from this type at its boundary.
type EntryInfo struct {
	Name    string
	Path    string
	Exists  bool
	Type    string
	Size    int64
	MtimeMS int64
}

// Index is the process-local mapping owned exclusively by one watch
// session (spec §3's Entry Index). It is guarded by a mutex so backends
// running on a threaded runtime can serialize access per spec §5.
type Index struct {
	mu      sync.Mutex
	entries map[string]EntryInfo
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{entries: make(map[string]EntryInfo)}
}

// Snapshot returns a copy of the current index contents.
func (idx *Index) Snapshot() map[string]EntryInfo {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	out := make(map[string]EntryInfo, len(idx.entries))
	for k, v := range idx.entries {
		out[k] = v
	}
	return out
}

// Clear empties the index. No backend's teardown calls it.
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = make(map[string]EntryInfo)
}

// Len reports the number of entries currently indexed.
func (idx *Index) Len() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.entries)
}
