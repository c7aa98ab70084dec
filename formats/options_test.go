package formats

import "testing"

func TestParseScale(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{input: "1", expected: 1},
		{input: "2.5", expected: 2.5},
		{input: "0", expected: 1},
		{input: "abc", expected: 1},
		{input: "", expected: 1},
		{input: "0.05", expected: 0.1},
		{input: "-3", expected: 0.1},
		{input: "15", expected: 10},
		{input: " 3 ", expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseScale(tt.input); got != tt.expected {
				t.Errorf("ParseScale(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDimensionsScaled(t *testing.T) {
	tests := []struct {
		name          string
		dims          Dimensions
		scale         float64
		wantW, wantH int
	}{
		{name: "double", dims: Dimensions{100, 50}, scale: 2, wantW: 200, wantH: 100},
		{name: "identity", dims: Dimensions{640, 480}, scale: 1, wantW: 640, wantH: 480},
		{name: "round half up", dims: Dimensions{15, 25}, scale: 0.1, wantW: 2, wantH: 3},
		{name: "never zero", dims: Dimensions{3, 3}, scale: 0.1, wantW: 1, wantH: 1},
		{name: "fractional svg", dims: Dimensions{10.4, 20.6}, scale: 1, wantW: 10, wantH: 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.dims.Scaled(tt.scale)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Scaled(%v) = %dx%d, want %dx%d", tt.scale, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestDeriveFileName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		target   Format
		expected string
	}{
		{name: "png to jpeg", input: "photo.png", target: JPEG, expected: "photo.jpg"},
		{name: "svg to png", input: "icon.svg", target: PNG, expected: "icon.png"},
		{name: "multiple dots", input: "my.holiday.photo.jpeg", target: WebP, expected: "my.holiday.photo.webp"},
		{name: "upper case extension", input: "SCAN.TIFF", target: PNG, expected: "SCAN.png"},
		{name: "no extension", input: "photo", target: JPEG, expected: "photo.jpg"},
		{name: "dot file", input: ".hidden", target: PNG, expected: ".hidden.png"},
		{name: "trailing dot", input: "photo.", target: PNG, expected: "photo.png"},
		{name: "path stripped", input: "/tmp/uploads/cat.gif", target: PNG, expected: "cat.png"},
		{name: "empty name", input: "", target: PNG, expected: "image.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveFileName(tt.input, tt.target); got != tt.expected {
				t.Errorf("DeriveFileName(%q, %s) = %q, want %q", tt.input, tt.target, got, tt.expected)
			}
		})
	}
}
