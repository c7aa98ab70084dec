package formats

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Format identifies an image format by its short name (the subtype of its MIME type)
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	WebP Format = "webp"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	HEIF Format = "heif"
	SVG  Format = "svg+xml"
)

// SourceTypes is the allow-list of acceptable input MIME types and their file extensions
var SourceTypes = map[string][]string{
	"image/svg+xml": {".svg"},
	"image/jpeg":    {".jpg", ".jpeg"},
	"image/png":     {".png"},
	"image/gif":     {".gif"},
	"image/bmp":     {".bmp"},
	"image/tiff":    {".tiff", ".tif"},
	"image/webp":    {".webp"},
	"image/heif":    {".heif", ".heic"},
}

// SourceFormats lists the accepted inputs in display order
var SourceFormats = []Format{SVG, JPEG, PNG, GIF, BMP, TIFF, WebP, HEIF}

// EncodeTargets are the formats the pipeline can produce, in display order
var EncodeTargets = []Format{PNG, JPEG, WebP}

var canonicalExtensions = map[Format]string{
	PNG:  "png",
	JPEG: "jpg",
	WebP: "webp",
	GIF:  "gif",
	BMP:  "bmp",
	TIFF: "tiff",
	HEIF: "heif",
	SVG:  "svg",
}

var displayNames = map[Format]string{
	PNG:  "PNG",
	JPEG: "JPEG",
	WebP: "WebP",
	GIF:  "GIF",
	BMP:  "BMP",
	TIFF: "TIFF",
	HEIF: "HEIF",
	SVG:  "SVG",
}

// ParseFormat maps a user supplied name ("jpg", "JPEG", "image/png", ".webp") to a Format.
// Unknown names are returned lower-cased so callers can still report them.
func ParseFormat(name string) Format {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "image/")
	n = strings.TrimPrefix(n, ".")
	switch n {
	case "jpg", "jpe":
		return JPEG
	case "tif":
		return TIFF
	case "heic":
		return HEIF
	case "svg":
		return SVG
	}
	return Format(n)
}

// MIME returns the MIME type of the format
func (f Format) MIME() string {
	return "image/" + string(f)
}

// Extension returns the canonical file extension, without the dot
func (f Format) Extension() string {
	if ext, ok := canonicalExtensions[f]; ok {
		return ext
	}
	return string(f)
}

// String returns the display name ("PNG", "JPEG", ...)
func (f Format) String() string {
	if name, ok := displayNames[f]; ok {
		return name
	}
	return strings.ToUpper(string(f))
}

// CanEncode reports whether f is one of the EncodeTargets
func (f Format) CanEncode() bool {
	return lo.Contains(EncodeTargets, f)
}

// HasAlpha reports whether the format can store transparency
func (f Format) HasAlpha() bool {
	return f != JPEG && f != BMP
}

// Quality is the encoder quality factor in [0, 1]: 0.9 for JPEG, 1.0 otherwise
func (f Format) Quality() float64 {
	if f == JPEG {
		return 0.9
	}
	return 1.0
}

// SupportedTargetsText renders EncodeTargets as "PNG, JPEG, and WebP"
func SupportedTargetsText() string {
	names := lo.Map(EncodeTargets, func(f Format, _ int) string { return f.String() })
	if len(names) < 2 {
		return strings.Join(names, "")
	}
	return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
}

// SourceFormatsText renders SourceFormats as "SVG, JPEG, PNG, ..."
func SourceFormatsText() string {
	return strings.Join(lo.Map(SourceFormats, func(f Format, _ int) string { return f.String() }), ", ")
}

// SourceExtensions returns every accepted input extension, sorted
func SourceExtensions() []string {
	exts := lo.Flatten(lo.Values(SourceTypes))
	sort.Strings(exts)
	return exts
}

// SourceMIMETypes returns every accepted input MIME type, sorted
func SourceMIMETypes() []string {
	mimes := lo.Keys(SourceTypes)
	sort.Strings(mimes)
	return mimes
}

// AcceptAttribute builds the value of an <input type=file accept=...> attribute
func AcceptAttribute() string {
	return strings.Join(append(SourceMIMETypes(), SourceExtensions()...), ",")
}

// AcceptSource checks a file against the allow-list using only its name and declared MIME
// type. It returns the detected source format. No content validation is done here.
func AcceptSource(name, mime string) (Format, error) {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if _, ok := SourceTypes[mime]; ok {
		return ParseFormat(mime), nil
	}

	ext := strings.ToLower(filepath.Ext(name))
	for m, exts := range SourceTypes {
		if lo.Contains(exts, ext) {
			return ParseFormat(m), nil
		}
	}
	return "", fmt.Errorf("%q (%s) is not an accepted input type; accepted: %s",
		name, mime, strings.Join(SourceExtensions(), " "))
}
