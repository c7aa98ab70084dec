package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drummonds/imgconv/formats"
)

func TestSVGDimensions(t *testing.T) {
	tests := []struct {
		name     string
		svg      string
		expected formats.Dimensions
	}{
		{
			name:     "explicit size preferred over viewBox",
			svg:      squareSVG,
			expected: formats.Dimensions{Width: 40, Height: 20},
		},
		{
			name:     "viewBox fallback",
			svg:      viewBoxOnlySVG,
			expected: formats.Dimensions{Width: 64, Height: 32},
		},
		{
			name:     "px units",
			svg:      `<svg width="120px" height="80px"></svg>`,
			expected: formats.Dimensions{Width: 120, Height: 80},
		},
		{
			name:     "inch units at 96dpi",
			svg:      `<svg width="1in" height="0.5in"></svg>`,
			expected: formats.Dimensions{Width: 96, Height: 48},
		},
		{
			name:     "percent falls back to viewBox",
			svg:      `<svg width="100%" height="100%" viewBox="0 0 30 10"></svg>`,
			expected: formats.Dimensions{Width: 30, Height: 10},
		},
		{
			name:     "per axis fallback",
			svg:      `<svg width="50" viewBox="0,0,10,25"></svg>`,
			expected: formats.Dimensions{Width: 50, Height: 25},
		},
		{
			name:     "doctype and comments before root",
			svg:      "<?xml version=\"1.0\"?>\n<!-- logo -->\n<!DOCTYPE svg>\n<svg width=\"7\" height=\"9\"/>",
			expected: formats.Dimensions{Width: 7, Height: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dims, err := SVGDimensions([]byte(tt.svg))
			require.NoError(t, err)
			assert.InDelta(t, tt.expected.Width, dims.Width, 1e-9)
			assert.InDelta(t, tt.expected.Height, dims.Height, 1e-9)
		})
	}
}

func TestSVGDimensionsErrors(t *testing.T) {
	tests := []struct {
		name string
		svg  string
	}{
		{name: "no svg element", svg: `<html><body>nothing here</body></html>`},
		{name: "plain text", svg: "this is not xml"},
		{name: "empty", svg: ""},
		{name: "no size at all", svg: `<svg xmlns="http://www.w3.org/2000/svg"></svg>`},
		{name: "broken viewBox", svg: `<svg viewBox="0 0 ten 10"></svg>`},
		{name: "zero size", svg: `<svg width="0" height="0"></svg>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dims, err := SVGDimensions([]byte(tt.svg))
			assert.Error(t, err)
			assert.True(t, dims.IsZero(), "no dimensions should be produced")
		})
	}
}
