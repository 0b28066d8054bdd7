package globwatch

import "log"

// EntryType identifies the kind of filesystem entry an EntryInfo describes.
type EntryType string

const (
	// TypeFile marks a regular file.
	TypeFile EntryType = "f"
	// TypeDir marks a directory.
	TypeDir EntryType = "d"
	// TypeSymlink marks a symbolic link.
	TypeSymlink EntryType = "l"
)

// Field names an optional EntryInfo attribute a caller can request via
// WatchOptions.Fields.
type Field string

const (
	FieldType  Field = "type"
	FieldSize  Field = "size"
	FieldMtime Field = "mtime"
)

// EntryInfo describes one filesystem entry as last observed by a watch
// session.
type EntryInfo struct {
	// Name is the entry's basename.
	Name string
	// Path is the root-relative path, or the absolute path when
	// WatchOptions.Absolute is set. Chosen once per session and stable
	// for its lifetime.
	Path string
	// Exists reports whether the entry was present at last observation.
	Exists bool
	// Type is one of TypeFile, TypeDir, TypeSymlink. Empty if the caller
	// did not request FieldType and the backend did not need it anyway.
	Type EntryType
	// Size is the entry's size in bytes from the most recent stat. Zero
	// if neither FieldSize nor FieldMtime was requested; the native and
	// oneshot backends collect size and mtime together, so requesting
	// either one populates both there.
	Size int64
	// MtimeMS is the modification time in milliseconds since epoch. Zero
	// if neither FieldSize nor FieldMtime was requested (see Size).
	MtimeMS int64
}

// FileChanges is one batch of added, changed, and deleted entries, keyed
// by each entry's Path. The three sets are always pairwise disjoint.
type FileChanges struct {
	Added   map[string]EntryInfo
	Changed map[string]EntryInfo
	Deleted map[string]EntryInfo
}

// NewFileChanges returns an empty, non-nil FileChanges.
func NewFileChanges() FileChanges {
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

// Mode selects the watch backend.
type Mode string

const (
	// ModeExternal dials the external watcher daemon, falling back to
	// ModeNative on connection or capability failure.
	ModeExternal Mode = "external"
	// ModeNative uses OS directory-watch primitives directly.
	ModeNative Mode = "native"
	// ModeOneshot performs a single scan and never subscribes.
	ModeOneshot Mode = "oneshot"
)

// WatchOptions configures a watch session. Zero value is not necessarily
// valid; use DefaultWatchOptions and override as needed.
type WatchOptions struct {
	// Mode selects the backend. Default ModeExternal.
	Mode Mode
	// Fields lists the optional EntryInfo attributes to populate.
	Fields []Field
	// Absolute selects absolute paths over root-relative paths.
	Absolute bool
	// Cwd anchors pattern matching and relative paths. Default is the
	// process's current working directory.
	Cwd string
	// OnlyDirectories restricts matches to directories.
	OnlyDirectories bool
	// OnlyFiles restricts matches to regular files. Default true.
	OnlyFiles bool
	// Dot includes dotfiles and dot-prefixed intermediate segments when
	// true. Default false.
	Dot bool
	// Ignore lists glob patterns; any match vetoes inclusion.
	Ignore []string
	// Logger receives session activity (per-entry/per-directory errors,
	// backend fallback notices). Defaults to a stderr logger.
	Logger *log.Logger
}

// DefaultWatchOptions returns the spec-mandated defaults: external mode,
// no extra fields, relative paths, cwd anchored at the process's working
// directory, onlyFiles true, dot false, no ignore patterns.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		Mode:      ModeExternal,
		OnlyFiles: true,
	}
}

// normalized returns a copy of o with defaults applied and the
// onlyFiles/onlyDirectories precedence rule from spec §3 resolved: a bare
// WatchOptions{} defaults to onlyFiles=true, the same as
// DefaultWatchOptions; a caller opts out of that default only by setting
// OnlyDirectories, in which case onlyFiles wins if both end up true.
func (o WatchOptions) normalized() (WatchOptions, error) {
	out := o
	if out.Mode == "" {
		out.Mode = ModeExternal
	}
	switch out.Mode {
	case ModeExternal, ModeNative, ModeOneshot:
	default:
		return WatchOptions{}, &InvalidModeError{Mode: out.Mode}
	}
	if out.Cwd == "" {
		wd, err := getwd()
		if err != nil {
			return WatchOptions{}, err
		}
		out.Cwd = wd
	}
	if !out.OnlyDirectories {
		out.OnlyFiles = true
	}
	return out, nil
}

// hasField reports whether f was requested in o.Fields.
func (o WatchOptions) hasField(f Field) bool {
	for _, v := range o.Fields {
		if v == f {
			return true
		}
	}
	return false
}

// effectiveTypeFilter resolves the onlyFiles/onlyDirectories precedence
// rule from spec §3: when both are true, onlyFiles wins.
func (o WatchOptions) effectiveTypeFilter() (onlyFiles, onlyDirectories bool) {
	onlyFiles = o.OnlyFiles
	onlyDirectories = o.OnlyDirectories
	if onlyDirectories && onlyFiles {
		onlyDirectories = false
	}
	return onlyFiles, onlyDirectories
}
