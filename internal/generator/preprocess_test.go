package generator

import (
	"strings"
	"testing"
)

func TestPrepareContentPassThrough(t *testing.T) {
	tests := []string{
		"",
		"short note",
		strings.Repeat("a", 300),
	}
	for _, content := range tests {
		if got := PrepareContent(content, 300); got != content {
			t.Errorf("content under budget should pass through unchanged, got %d chars from %d", len(got), len(content))
		}
	}
}

func TestPrepareContentSamplesThreeZones(t *testing.T) {
	// Build content with distinct zones so provenance is checkable.
	head := strings.Repeat("HEAD ", 200)
	middle := strings.Repeat("MIDL ", 200)
	tail := strings.Repeat("TAIL ", 200)
	content := head + middle + tail

	limit := 600
	got := PrepareContent(content, limit)

	if !strings.Contains(got, "HEAD") {
		t.Error("sample is missing a leading fragment")
	}
	if !strings.Contains(got, "MIDL") {
		t.Error("sample is missing a midpoint fragment")
	}
	if !strings.Contains(got, "TAIL") {
		t.Error("sample is missing a trailing fragment")
	}
	if count := strings.Count(got, strings.TrimSpace(contentContinuesMarker)); count != 2 {
		t.Errorf("expected 2 continuation markers, got %d", count)
	}
}

func TestPrepareContentBounded(t *testing.T) {
	content := strings.Repeat("x", 100000)
	limit := 900

	got := PrepareContent(content, limit)

	// Three zone-sized slices plus two markers.
	maxLen := limit + 2*len(contentContinuesMarker)
	if len(got) > maxLen {
		t.Errorf("sample length %d exceeds bound %d", len(got), maxLen)
	}
}

func TestPrepareContentTinyBudget(t *testing.T) {
	content := strings.Repeat("y", 50)
	got := PrepareContent(content, 2)
	if len(got) > 2 {
		t.Errorf("expected hard truncation under a sub-zone budget, got %d chars", len(got))
	}
}
