package formats

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	MinScale     = 0.1
	MaxScale     = 10.0
	DefaultScale = 1.0
	ScaleStep    = 0.1
)

// Options are the user-chosen conversion settings
type Options struct {
	Scale  float64 `json:"scale"`
	Target Format  `json:"format"`
}

// DefaultOptions returns scale 1 and PNG output
func DefaultOptions() Options {
	return Options{Scale: DefaultScale, Target: PNG}
}

// Dimensions is a pixel size. SVG sizes may be fractional.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Scaled returns the raster size for the given scale: each axis is rounded half away
// from zero and never drops below one pixel.
func (d Dimensions) Scaled(scale float64) (int, int) {
	return scaledAxis(d.Width, scale), scaledAxis(d.Height, scale)
}

// Rounded returns the dimensions rounded to whole pixels
func (d Dimensions) Rounded() (int, int) {
	return d.Scaled(1)
}

// IsZero reports whether no size is known
func (d Dimensions) IsZero() bool {
	return d.Width <= 0 || d.Height <= 0
}

func scaledAxis(v, scale float64) int {
	px := int(math.Round(v * scale))
	if px < 1 {
		return 1
	}
	return px
}

// ParseScale turns raw text from the scale control into an effective scale.
// Non-numeric, zero and non-finite input resets to 1; values below 0.1 become 0.1
// and values above 10 become 10.
func ParseScale(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v == 0 || math.IsNaN(v) {
		return DefaultScale
	}
	return ClampScale(v)
}

// ClampScale bounds an already numeric scale to [MinScale, MaxScale]
func ClampScale(v float64) float64 {
	switch {
	case math.IsNaN(v) || v == 0:
		return DefaultScale
	case v < MinScale:
		return MinScale
	case v > MaxScale:
		return MaxScale
	}
	return v
}

// DeriveFileName swaps the extension of name for the canonical extension of target.
// A name without an extension (no dot, or only a leading dot) gets one appended.
func DeriveFileName(name string, target Format) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	ext := target.Extension()
	dot := strings.LastIndex(base, ".")
	if dot <= 0 {
		if base == "" {
			base = "image"
		}
		return base + "." + ext
	}
	return base[:dot+1] + ext
}
