package filter

import (
	"path/filepath"
	"testing"
)

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		pattern string
		want    bool
	}{
		{"git internals ignored", "/repo/.git/HEAD", `.*\.git.*`, true},
		{"source file kept", "/repo/src/main.x", `.*\.git.*`, false},
		{"no pattern", "/repo/.git/HEAD", "", false},
		{"unanchored search", "/repo/node_modules/pkg/index.js", `node_modules`, true},
		{"full path not base name", "/repo/build/out.js", `^/repo/build/`, true},
		{"base name only would miss", "/repo/build/out.js", `^out\.js$`, false},
		{"extension", "/repo/src/app.log", `\.log$`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldIgnore(tt.path, tt.pattern); got != tt.want {
				t.Errorf("ShouldIgnore(%q, %q) = %v, want %v", tt.path, tt.pattern, got, tt.want)
			}
			if got := NewMatcher(tt.pattern).ShouldIgnore(tt.path); got != tt.want {
				t.Errorf("Matcher(%q).ShouldIgnore(%q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}

func TestShouldIgnore_MalformedPattern(t *testing.T) {
	paths := []string{"/repo/.git/HEAD", "/repo/src/main.x", "(", ""}
	patterns := []string{"(", "[a-", `\`, "*"}

	for _, pattern := range patterns {
		m := NewMatcher(pattern)
		if m.Err() == nil {
			t.Errorf("NewMatcher(%q).Err() = nil, want compile error", pattern)
		}
		for _, path := range paths {
			if ShouldIgnore(path, pattern) {
				t.Errorf("ShouldIgnore(%q, %q) = true, malformed pattern must ignore nothing", path, pattern)
			}
			if m.ShouldIgnore(path) {
				t.Errorf("Matcher(%q).ShouldIgnore(%q) = true, malformed pattern must ignore nothing", pattern, path)
			}
		}
	}
}

func TestMatcher_Nil(t *testing.T) {
	var m *Matcher
	if m.ShouldIgnore("/repo/.git/HEAD") {
		t.Error("nil matcher should ignore nothing")
	}
	if m.ShouldIgnoreDir("/repo/.git") {
		t.Error("nil matcher should not prune directories")
	}
}

func TestMatcher_ShouldIgnoreDir(t *testing.T) {
	sep := string(filepath.Separator)
	tests := []struct {
		name    string
		pattern string
		dir     string
		want    bool
	}{
		{"git dir", `.*\.git.*`, filepath.Join(sep+"repo", ".git"), true},
		{"source dir", `.*\.git.*`, filepath.Join(sep+"repo", "src"), false},
		{"trailing separator pattern", "node_modules" + regexpSep(), filepath.Join(sep+"repo", "node_modules"), true},
		{"empty pattern", "", filepath.Join(sep+"repo", ".git"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewMatcher(tt.pattern).ShouldIgnoreDir(tt.dir); got != tt.want {
				t.Errorf("ShouldIgnoreDir(%q) with %q = %v, want %v", tt.dir, tt.pattern, got, tt.want)
			}
		})
	}
}

func regexpSep() string {
	if filepath.Separator == '\\' {
		return `\\`
	}
	return "/"
}
