package aggregator

import (
	"bytes"
	"strings"
	"testing"
)

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		input    string
		maxWidth int
		expected string
	}{
		{"/short", 20, "/short"},
		{"/home/user/projects/app/lib", 15, "...ects/app/lib"},
		{"/abc", 2, "..."},
	}
	for _, tt := range tests {
		got := truncatePath(tt.input, tt.maxWidth)
		if got != tt.expected {
			t.Errorf("truncatePath(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.expected)
		}
	}
}

func TestBannerVariants(t *testing.T) {
	opts := BannerOptions{
		WorkDir:      "/proj/lib",
		Version:      "v1.2.3",
		Extension:    ".dart",
		Consolidated: "/proj/lib/all_dart_files.txt",
	}

	full := renderFullBanner(opts, 80)
	for _, want := range []string{"/proj/lib", "v1.2.3", "*.dart", "all_dart_files.txt"} {
		if !strings.Contains(full, want) {
			t.Errorf("full banner missing %q:\n%s", want, full)
		}
	}

	compact := renderCompactBanner(opts)
	if !strings.Contains(compact, "/proj/lib") {
		t.Errorf("compact banner missing work dir:\n%s", compact)
	}

	if minimal := renderMinimalBanner(opts); !strings.Contains(minimal, "v1.2.3") {
		t.Errorf("minimal banner missing version: %q", minimal)
	}

	var buf bytes.Buffer
	PrintBanner(&buf, opts)
	if !strings.Contains(buf.String(), "v1.2.3") {
		t.Errorf("PrintBanner output missing version:\n%s", buf.String())
	}
}
