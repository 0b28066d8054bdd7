// Package glob compiles include/ignore pattern lists into a single
// inclusion decision shared by every backend, per spec §4.1: inclusion is
// always decided on root-relative, forward-slash paths so that backends
// surfacing paths differently internally can still agree on what matches.
package glob

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// TypeDecision is the result of applying onlyFiles/onlyDirectories policy
// to an entry whose type may not yet be known.
type TypeDecision int

const (
	// Admit means the entry passes type policy.
	Admit TypeDecision = iota
	// Reject means the entry fails type policy.
	Reject
	// Defer means the type is unknown and the caller must stat before
	// a decision can be made.
	Defer
)

// Matcher is the compiled representation of a Pattern Set: include
// patterns, ignore patterns, and the dot/onlyFiles/onlyDirectories policy
// bound in. It is immutable and safe for concurrent use.
type Matcher struct {
	patterns        []string
	ignore          []string
	dot             bool
	onlyFiles       bool
	onlyDirectories bool
}

// Option configures type filtering when the caller has already resolved
// the onlyFiles/onlyDirectories precedence rule (spec §3).
type Option struct {
	Dot             bool
	OnlyFiles       bool
	OnlyDirectories bool
}

// New compiles patterns and ignore into a Matcher. Patterns and ignore
// glob strings are validated eagerly via doublestar so a malformed
// pattern fails at session construction rather than on the first event.
func New(patterns, ignore []string, opt Option) (*Matcher, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, &InvalidPatternError{Pattern: p}
		}
	}
	for _, p := range ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, &InvalidPatternError{Pattern: p}
		}
	}
	return &Matcher{
		patterns:        append([]string(nil), patterns...),
		ignore:          append([]string(nil), ignore...),
		dot:             opt.Dot,
		onlyFiles:       opt.OnlyFiles,
		onlyDirectories: opt.OnlyDirectories,
	}, nil
}

// InvalidPatternError reports a malformed glob pattern.
type InvalidPatternError struct {
	Pattern string
}

func (e *InvalidPatternError) Error() string {
	return "glob: invalid pattern " + e.Pattern
}

// DotExcluded reports whether rel is excluded by dot policy: when dot is
// false, any path whose basename or any intermediate segment begins with
// "." is excluded, per spec §4.1.
func (m *Matcher) DotExcluded(rel string) bool {
	if m.dot {
		return false
	}
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// Ignored reports whether rel matches any ignore pattern.
func (m *Matcher) Ignored(rel string) bool {
	for _, pat := range m.ignore {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// PatternMatch reports whether rel matches at least one include pattern.
func (m *Matcher) PatternMatch(rel string) bool {
	for _, pat := range m.patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// TypeFilter applies onlyFiles/onlyDirectories policy given a possibly
// unknown type (typeKnown=false means unknown). Per spec §4.1, if the type is unknown
// the decision is deferred to the caller, which must stat.
func (m *Matcher) TypeFilter(isDir, isFile, typeKnown bool) TypeDecision {
	if !m.onlyFiles && !m.onlyDirectories {
		return Admit
	}
	if !typeKnown {
		return Defer
	}
	if m.onlyFiles && !isFile {
		return Reject
	}
	if m.onlyDirectories && !isDir {
		return Reject
	}
	return Admit
}

// Include reports whether rel is included given its type (pass
// typeKnown=false when the type has not been stat'd yet, in which case
// Include returns (false, true) to signal "caller must stat and retry").
//
// The full decision per spec §4.1: at least one include pattern matches,
// no ignore pattern matches, dot policy allows it, and type policy
// allows it.
func (m *Matcher) Include(rel string, isDir, isFile, typeKnown bool) (included bool, needsStat bool) {
	if m.DotExcluded(rel) {
		return false, false
	}
	if !m.PatternMatch(rel) {
		return false, false
	}
	if m.Ignored(rel) {
		return false, false
	}
	switch m.TypeFilter(isDir, isFile, typeKnown) {
	case Admit:
		return true, false
	case Reject:
		return false, false
	default:
		return false, true
	}
}
