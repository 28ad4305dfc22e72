package aggregator

import (
	"path/filepath"
	"strings"
)

// Matcher decides whether a path under root is excluded.
// "*.x" patterns match a suffix; other patterns match a base name
// or a substring of the root-relative path.
type Matcher struct {
	root     string
	patterns []string
}

func NewMatcher(root string, patterns []string) Matcher {
	kept := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return Matcher{root: filepath.Clean(root), patterns: kept}
}

// Match reports whether path is excluded. The root itself never is.
func (m Matcher) Match(path string) bool {
	rel, err := filepath.Rel(m.root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)
	for _, p := range m.patterns {
		if strings.HasPrefix(p, "*.") && strings.HasSuffix(path, p[1:]) {
			return true
		}
		if strings.Contains(rel, p) || base == p {
			return true
		}
	}
	return false
}
