// Package filter decides whether a file change is relevant based on the
// user supplied ignore pattern.
package filter

import (
	"path/filepath"
	"regexp"
)

// ShouldIgnore reports whether path matches pattern. The match is an
// unanchored search over the whole path, not just its base name. An empty or
// malformed pattern never ignores anything.
func ShouldIgnore(path, pattern string) bool {
	if pattern == "" {
		return false
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(path)
}

// Matcher is ShouldIgnore with the pattern compiled once.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
	err     error
}

// NewMatcher compiles pattern. A compile failure is kept in Err and the
// matcher degrades to ignoring nothing.
func NewMatcher(pattern string) *Matcher {
	m := &Matcher{pattern: pattern}
	if pattern == "" {
		return m
	}
	m.re, m.err = regexp.Compile(pattern)
	return m
}

// Pattern returns the source pattern.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Err returns the compile error of a malformed pattern.
func (m *Matcher) Err() error {
	return m.err
}

// ShouldIgnore reports whether path matches the compiled pattern.
func (m *Matcher) ShouldIgnore(path string) bool {
	if m == nil || m.re == nil {
		return false
	}
	return m.re.MatchString(path)
}

// ShouldIgnoreDir reports whether a directory should be left out of
// recursive watch registration. A directory is skipped when the pattern
// matches the directory itself or a file directly inside it, so that
// patterns such as `.*\.git.*` or `node_modules/` prune the whole subtree.
func (m *Matcher) ShouldIgnoreDir(dir string) bool {
	if m == nil || m.re == nil {
		return false
	}
	return m.re.MatchString(dir) || m.re.MatchString(dir+string(filepath.Separator))
}
