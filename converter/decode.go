package converter

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"log/slog"

	// Register decoders for the accepted raster inputs
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"

	"github.com/drummonds/imgconv/formats"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

// SourceAsset is the file the user selected
type SourceAsset struct {
	Name string
	MIME string
	Data []byte
}

// Decoded is a source that has been read and sized. Exactly one of Raster and
// Vector is set. Vector holds the validated SVG document; it is parsed again for
// every rasterization because oksvg icons are mutated by SetTarget.
type Decoded struct {
	Format     formats.Format
	Preview    string // data URI of the original bytes
	Dimensions formats.Dimensions
	Raster     image.Image
	Vector     []byte
}

// IsVector reports whether the source is an SVG document
func (d *Decoded) IsVector() bool {
	return d != nil && len(d.Vector) > 0
}

// Acquire validates a file against the input allow-list. It does not look at the
// content; a mislabeled file passes here and fails in Decode.
func Acquire(name, mime string, data []byte) (SourceAsset, formats.Format, error) {
	format, err := formats.AcceptSource(name, mime)
	if err != nil {
		return SourceAsset{}, "", newError(StageAcquire, ErrUnsupportedSource, err)
	}
	// Uploads often arrive as application/octet-stream; keep the detected type instead
	return SourceAsset{Name: name, MIME: format.MIME(), Data: data}, format, nil
}

// PreviewDataURI encodes the asset the way a FileReader data URL would
func PreviewDataURI(asset SourceAsset) string {
	mime := asset.MIME
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(asset.Data)
}

// Decode reads a SourceAsset into a preview and its intrinsic dimensions.
// SVG sizes come from the root element attributes; raster sizes from the decoded image.
func Decode(ctx context.Context, asset SourceAsset) (*Decoded, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(asset.Data) == 0 {
		return nil, newError(StageDecode, ErrDecodeFailure, fmt.Errorf("%s is empty", asset.Name))
	}
	format, err := formats.AcceptSource(asset.Name, asset.MIME)
	if err != nil {
		return nil, newError(StageDecode, ErrUnsupportedSource, err)
	}

	decoded := &Decoded{Format: format, Preview: PreviewDataURI(asset)}
	if format == formats.SVG {
		dims, err := SVGDimensions(asset.Data)
		if err != nil {
			Logger.Warn("Unable to size SVG", "name", asset.Name, "error", err)
			return nil, newError(StageDecode, ErrDecodeFailure, err)
		}
		if _, err := oksvg.ReadIconStream(bytes.NewReader(asset.Data), oksvg.IgnoreErrorMode); err != nil {
			Logger.Warn("Unable to parse SVG", "name", asset.Name, "error", err)
			return nil, newError(StageDecode, ErrDecodeFailure, err)
		}
		decoded.Dimensions = dims
		decoded.Vector = asset.Data
	} else {
		// Sized after the EXIF orientation is applied, as a browser would display it
		img, err := imaging.Decode(bytes.NewReader(asset.Data), imaging.AutoOrientation(true))
		if err != nil {
			Logger.Warn("Unable to decode image", "name", asset.Name, "format", format, "error", err)
			return nil, newError(StageDecode, ErrDecodeFailure, err)
		}
		if _, detected, err := image.DecodeConfig(bytes.NewReader(asset.Data)); err == nil && detected != "" {
			decoded.Format = formats.ParseFormat(detected)
		}
		b := img.Bounds()
		decoded.Dimensions = formats.Dimensions{Width: float64(b.Dx()), Height: float64(b.Dy())}
		decoded.Raster = img
	}

	Logger.Debug("Decoded source", "name", asset.Name, "format", decoded.Format,
		"width", decoded.Dimensions.Width, "height", decoded.Dimensions.Height)
	return decoded, nil
}
