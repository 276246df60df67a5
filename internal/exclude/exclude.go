package exclude

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultPatterns lists development artifacts never copied into a
// distributable archive. Matched against whole relative paths and against
// individual path segments, so "__pycache__" excludes the directory wherever
// it appears in the tree.
//
//nolint:gochecknoglobals // Static exclusion list shared by all invocations.
var defaultPatterns = []string{
	// Version control metadata.
	".git",
	".svn",
	".hg",

	// Python bytecode and tool caches.
	"__pycache__",
	"*.pyc",
	"*.pyo",
	".mypy_cache",
	".pytest_cache",
	".venv",
	"venv",

	// Editor and OS metadata.
	".idea",
	".vscode",
	"*.swp",
	".DS_Store",
	"Thumbs.db",

	// Packaging scripts and prior outputs.
	"package.py",
	"package.sh",
	"*.streamDeckPlugin",
	"*.zip",
}

// errBadPattern reports a malformed glob pattern.
var errBadPattern = errors.New("invalid glob pattern")

// Set is an ordered collection of glob patterns identifying paths
// to omit from the staged output.
type Set struct {
	patterns []string
}

// DefaultPatterns returns a copy of the built-in exclusion patterns.
func DefaultPatterns() []string {
	return append([]string(nil), defaultPatterns...)
}

// ValidatePattern checks that the pattern is a well-formed doublestar glob.
func ValidatePattern(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("%w: %q", errBadPattern, pattern)
	}

	return nil
}

// NewSet builds a Set from the built-in defaults plus any extra patterns.
// Extra patterns are validated up front so a typo fails the run before any
// file is copied.
func NewSet(extra ...string) (*Set, error) {
	patterns := DefaultPatterns()

	for _, pattern := range extra {
		if err := ValidatePattern(pattern); err != nil {
			return nil, err
		}

		patterns = append(patterns, pattern)
	}

	return &Set{patterns: patterns}, nil
}

// Patterns returns the patterns in match order.
func (s *Set) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// Match reports whether the relative path should be excluded.
// The path is normalized to forward slashes; each pattern is tried against
// the whole path and against every path segment.
func (s *Set) Match(relPath string) bool {
	normalized := filepath.ToSlash(relPath)
	segments := strings.Split(normalized, "/")

	for _, pattern := range s.patterns {
		if matched, err := doublestar.Match(pattern, normalized); err == nil && matched {
			return true
		}

		for _, segment := range segments {
			if matched, err := doublestar.Match(pattern, segment); err == nil && matched {
				return true
			}
		}
	}

	return false
}
