package aggregator

import (
	"path/filepath"
	"testing"
)

func TestMatcher(t *testing.T) {
	root := filepath.FromSlash("/proj/lib")
	m := NewMatcher(root, []string{".git", "*.g.dart", "", "  ", "generated/"})

	tests := []struct {
		path string
		want bool
	}{
		{"/proj/lib", false},
		{"/proj/lib/.git", true},
		{"/proj/lib/src/.git/hooks", true},
		{"/proj/lib/src/model.g.dart", true},
		{"/proj/lib/src/model.dart", false},
		{"/proj/lib/generated/api", true},
		{"/proj/lib/generated", false},
		{"/proj/lib/widgets", false},
	}
	for _, tt := range tests {
		if got := m.Match(filepath.FromSlash(tt.path)); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestMatcher_NoPatterns(t *testing.T) {
	m := NewMatcher("/proj", nil)
	if m.Match(filepath.FromSlash("/proj/anything/at/all")) {
		t.Error("empty matcher should not match")
	}
}
