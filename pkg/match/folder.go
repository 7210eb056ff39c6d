package match

import (
	"errors"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidPattern is returned when a pattern cannot be compiled.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// PatternError wraps pattern-related errors with context.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return "pattern " + e.Pattern + ": " + e.Err.Error()
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// FolderConfig configures a FolderFilter.
type FolderConfig struct {
	// Includes are glob patterns a folder must match (at least one). Empty
	// includes every folder.
	Includes []string

	// Excludes are glob patterns a folder must not match.
	Excludes []string

	// IncludeHidden keeps folders whose name starts with '.'.
	IncludeHidden bool

	// CaseSensitive disables the default case-insensitive comparison.
	// Shared print volumes are usually case-insensitive.
	CaseSensitive bool
}

// FolderFilter selects folder names discovered under a hotfolder or art
// root. It is safe for concurrent use after creation.
type FolderFilter struct {
	includes      []string
	excludes      []string
	includeHidden bool
	caseSensitive bool
}

// NewFolderFilter compiles cfg.
func NewFolderFilter(cfg FolderConfig) (*FolderFilter, error) {
	f := &FolderFilter{includeHidden: cfg.IncludeHidden, caseSensitive: cfg.CaseSensitive}

	var err error
	if f.includes, err = f.compile(cfg.Includes); err != nil {
		return nil, err
	}
	if f.excludes, err = f.compile(cfg.Excludes); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *FolderFilter) compile(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		p := NormalizePattern(strings.TrimSpace(r))
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, &PatternError{Pattern: r, Err: ErrInvalidPattern}
		}
		out = append(out, f.fold(p))
	}
	return out, nil
}

func (f *FolderFilter) fold(s string) string {
	if f.caseSensitive {
		return s
	}
	return strings.ToLower(s)
}

// Match reports whether name passes the filter.
func (f *FolderFilter) Match(name string) bool {
	if name == "" {
		return false
	}
	if !f.includeHidden && IsHidden(name) {
		return false
	}

	n := f.fold(name)
	if len(f.includes) > 0 {
		matched := false
		for _, p := range f.includes {
			// Patterns were validated on construction.
			if ok, _ := doublestar.Match(p, n); ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, p := range f.excludes {
		if ok, _ := doublestar.Match(p, n); ok {
			return false
		}
	}
	return true
}

// Filter returns the names that pass, preserving input order.
func (f *FolderFilter) Filter(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if f.Match(n) {
			out = append(out, n)
		}
	}
	return out
}
