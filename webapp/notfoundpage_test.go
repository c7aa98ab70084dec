package webapp

import (
	"testing"
)

func TestNotFoundPageRender(t *testing.T) {
	for _, path := range []string{"", "/missing"} {
		page := &NotFoundPage{Path: path}
		if ui := page.Render(); ui == nil {
			t.Errorf("Render for %q should not return nil", path)
		}
	}
}

func TestNotFoundMessage(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{path: "", expected: "This page does not exist."},
		{path: "/", expected: "This page does not exist."},
		{path: "/browse", expected: "There is no page at /browse."},
	}

	for _, tt := range tests {
		if got := notFoundMessage(tt.path); got != tt.expected {
			t.Errorf("notFoundMessage(%q) = %q, want %q", tt.path, got, tt.expected)
		}
	}
}
