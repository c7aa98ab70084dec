package webapp

import (
	"testing"
)

// TestGetUploadLimit tests the upload limit display conversion
func TestGetUploadLimit(t *testing.T) {
	tests := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{
			name:     "Default limit",
			bytes:    25 << 20,
			expected: "25 MB",
		},
		{
			name:     "One megabyte",
			bytes:    1 << 20,
			expected: "1 MB",
		},
		{
			name:     "Not reported",
			bytes:    0,
			expected: "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &AboutPage{
				aboutInfo: AboutInfo{
					MaxUploadBytes: tt.bytes,
				},
			}
			got := page.getUploadLimit()
			if got != tt.expected {
				t.Errorf("getUploadLimit() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// TestGetDefaultFormat tests the default format display conversion
func TestGetDefaultFormat(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		expected string
	}{
		{name: "PNG", format: "png", expected: "PNG"},
		{name: "JPEG", format: "jpeg", expected: "JPEG"},
		{name: "WebP", format: "webp", expected: "WebP"},
		{name: "Missing", format: "", expected: "PNG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &AboutPage{aboutInfo: AboutInfo{DefaultFormat: tt.format}}
			if got := page.getDefaultFormat(); got != tt.expected {
				t.Errorf("getDefaultFormat() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// TestGetScaleRange tests the scale range falls back to the built in limits
func TestGetScaleRange(t *testing.T) {
	page := &AboutPage{}
	if got := page.getScaleRange(); got != "0.1 to 10" {
		t.Errorf("getScaleRange() = %v, want 0.1 to 10", got)
	}

	page.aboutInfo.MinScale = 0.5
	page.aboutInfo.MaxScale = 4
	if got := page.getScaleRange(); got != "0.5 to 4" {
		t.Errorf("getScaleRange() = %v, want 0.5 to 4", got)
	}
}

// TestAboutPageRenderStates tests that different states produce valid UI
func TestAboutPageRenderStates(t *testing.T) {
	tests := []struct {
		name string
		page *AboutPage
	}{
		{name: "Loading", page: &AboutPage{loading: true}},
		{name: "Error", page: &AboutPage{error: "Network error"}},
		{name: "Loaded", page: &AboutPage{aboutInfo: AboutInfo{Version: "v1.0.0", MaxUploadBytes: 25 << 20}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ui := tt.page.Render(); ui == nil {
				t.Error("Render should return a valid UI component")
			}
		})
	}
}
