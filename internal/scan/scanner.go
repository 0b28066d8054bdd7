// Package scan implements the one-shot recursive directory walk that
// seeds every watch session's initial batch (spec §4.2).
package scan

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/snomiao/glob-watch/internal/glob"
)

// Entry is one matched filesystem entry discovered by Walk.
type Entry struct {
	// Rel is the root-relative, forward-slash path.
	Rel string
	// Abs is the absolute path.
	Abs string
	// IsDir reports whether the entry is a directory.
	IsDir bool
	// IsSymlink reports whether the entry is a symlink (not followed).
	IsSymlink bool
	// Size and ModMS are populated only when requested via opts.Stat.
	Size  int64
	ModMS int64
}

// Options controls what Walk stats per entry.
type Options struct {
	// Stat requests size/mtime collection (costs one extra stat per
	// matched entry beyond the Lstat already performed for type
	// detection).
	Stat bool
	// Logger receives per-entry error reports. Defaults to a stderr
	// logger if nil.
	Logger *log.Logger
}

// RootUnreadableError reports that root itself could not be read (spec §7
// category 4), as distinct from a per-entry failure, which is logged and
// skipped rather than propagated. The root package converts this into the
// public ScanError at its boundary.
type RootUnreadableError struct {
	Root string
	Err  error
}

func (e *RootUnreadableError) Error() string {
	return fmt.Sprintf("scan: cannot read root %s: %v", e.Root, e.Err)
}

func (e *RootUnreadableError) Unwrap() error { return e.Err }

// Walk recursively scans root, applying m, and returns every matched
// entry. Per spec §4.2:
//   - traversal is depth-first and does not follow symlinks;
//   - order is unspecified;
//   - a per-entry stat failure is logged and that entry skipped, never
//     aborting the walk;
//   - a failure to read root itself is fatal and returned to the caller.
func Walk(root string, m *glob.Matcher, opts Options) ([]Entry, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[scan] ", log.LstdFlags)
	}

	if _, err := os.Lstat(root); err != nil {
		return nil, &RootUnreadableError{Root: root, Err: err}
	}

	var entries []Entry
	if err := walkDir(root, root, "", m, opts, logger, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// walkDir recursively visits dir (absolute), tracking rel (root-relative,
// "" at the root). The root-read failure is propagated; every other
// per-entry failure is logged and skipped.
func walkDir(root, dir, rel string, m *glob.Matcher, opts Options, logger *log.Logger, out *[]Entry) error {
	children, err := os.ReadDir(dir)
	if err != nil {
		if dir == root {
			return &RootUnreadableError{Root: root, Err: err}
		}
		logger.Printf("skipping unreadable directory %s: %v", dir, err)
		return nil
	}

	for _, child := range children {
		name := child.Name()
		childAbs := filepath.Join(dir, name)
		childRel := name
		if rel != "" {
			childRel = rel + "/" + name
		}
		childRel = filepath.ToSlash(childRel)

		info, err := os.Lstat(childAbs)
		if err != nil {
			logger.Printf("skipping %s: %v", childAbs, err)
			continue
		}

		isSymlink := info.Mode()&os.ModeSymlink != 0
		isDir := info.IsDir() && !isSymlink
		isFile := !isDir && !isSymlink

		included, needsStat := m.Include(childRel, isDir, isFile, true)
		_ = needsStat // type is always known here (Lstat already ran)
		if included {
			e := Entry{Rel: childRel, Abs: childAbs, IsDir: isDir, IsSymlink: isSymlink}
			if opts.Stat {
				if st, err := os.Stat(childAbs); err != nil {
					logger.Printf("failed to stat %s: %v", childAbs, err)
				} else {
					e.Size = st.Size()
					e.ModMS = st.ModTime().UnixMilli()
				}
			}
			*out = append(*out, e)
		}

		// Recurse into real directories regardless of whether the
		// directory itself matched, so deeper matches are still found.
		// Symlinked directories are never followed (spec §4.2).
		if isDir {
			if err := walkDir(root, childAbs, childRel, m, opts, logger, out); err != nil {
				return err
			}
		}
	}
	return nil
}
