package converter

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/drummonds/imgconv/formats"
)

// user units per unit at 96dpi, matching how browsers resolve SVG lengths
var svgUnits = map[string]float64{
	"":   1,
	"px": 1,
	"pt": 96.0 / 72.0,
	"pc": 16,
	"in": 96,
	"cm": 96 / 2.54,
	"mm": 96 / 25.4,
}

// SVGAttributes is the subset of root element attributes used for sizing
type SVGAttributes struct {
	Width   string
	Height  string
	ViewBox string
}

// ReadSVGRoot finds the first <svg> element and returns its sizing attributes.
// A document with no <svg> element, or one that is not well formed up to that
// element, is an error.
func ReadSVGRoot(data []byte) (SVGAttributes, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return SVGAttributes{}, errors.New("no <svg> root element")
		}
		if err != nil {
			return SVGAttributes{}, fmt.Errorf("malformed SVG: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !strings.EqualFold(start.Name.Local, "svg") {
			return SVGAttributes{}, fmt.Errorf("root element is <%s>, not <svg>", start.Name.Local)
		}
		var attrs SVGAttributes
		for _, a := range start.Attr {
			switch a.Name.Local {
			case "width":
				attrs.Width = a.Value
			case "height":
				attrs.Height = a.Value
			case "viewBox":
				attrs.ViewBox = a.Value
			}
		}
		return attrs, nil
	}
}

// SVGDimensions returns the intrinsic size of an SVG document: explicit width/height
// when present, otherwise the viewBox size, resolved per axis.
func SVGDimensions(data []byte) (formats.Dimensions, error) {
	attrs, err := ReadSVGRoot(data)
	if err != nil {
		return formats.Dimensions{}, err
	}

	width, hasWidth := parseSVGLength(attrs.Width)
	height, hasHeight := parseSVGLength(attrs.Height)
	if !hasWidth || !hasHeight {
		vbW, vbH, ok := parseViewBox(attrs.ViewBox)
		if ok {
			if !hasWidth {
				width, hasWidth = vbW, true
			}
			if !hasHeight {
				height, hasHeight = vbH, true
			}
		}
	}
	if !hasWidth || !hasHeight {
		return formats.Dimensions{}, fmt.Errorf("svg has no usable width/height or viewBox (width=%q height=%q viewBox=%q)",
			attrs.Width, attrs.Height, attrs.ViewBox)
	}
	return formats.Dimensions{Width: width, Height: height}, nil
}

// parseSVGLength resolves an absolute SVG length to user units.
// Percentages and relative units depend on a viewport and count as absent.
func parseSVGLength(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	i := len(raw)
	for i > 0 {
		c := raw[i-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '%' {
			i--
			continue
		}
		break
	}
	number, unit := raw[:i], strings.ToLower(raw[i:])
	factor, ok := svgUnits[unit]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v * factor, true
}

func parseViewBox(raw string) (float64, float64, bool) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return 0, 0, false
	}
	w, errW := strconv.ParseFloat(fields[2], 64)
	h, errH := strconv.ParseFloat(fields[3], 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
