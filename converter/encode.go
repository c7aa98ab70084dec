package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/drummonds/imgconv/formats"
)

// OutputAsset is an encoded image ready for the download sink
type OutputAsset struct {
	Name string
	MIME string
	Data []byte
}

// Encode serializes a surface into the target format. JPEG uses quality 0.9,
// every other target maximum quality.
func Encode(ctx context.Context, surface image.Image, target formats.Format) ([]byte, error) {
	if !target.CanEncode() {
		return nil, UnsupportedTarget(target)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	quality := int(math.Round(target.Quality() * 100))
	var buf bytes.Buffer
	var err error
	switch target {
	case formats.PNG:
		err = imaging.Encode(&buf, surface, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case formats.JPEG:
		err = imaging.Encode(&buf, surface, imaging.JPEG, imaging.JPEGQuality(quality))
	case formats.WebP:
		err = webp.Encode(&buf, surface, &webp.Options{Quality: float32(quality)})
	}
	if err != nil {
		return nil, &ConversionError{Stage: StageEncode, Kind: ErrEncodeFailure, Target: target, Err: err}
	}
	if buf.Len() == 0 {
		return nil, &ConversionError{Stage: StageEncode, Kind: ErrEncodeFailure, Target: target,
			Err: errors.New("encoder produced no data")}
	}
	return buf.Bytes(), nil
}

// Convert runs transform and encode for an already decoded source and names the result.
// The target is checked before any pixel work is done.
func Convert(ctx context.Context, source SourceAsset, decoded *Decoded, opts formats.Options) (*OutputAsset, error) {
	if !opts.Target.CanEncode() {
		return nil, UnsupportedTarget(opts.Target)
	}
	surface, err := Rasterize(ctx, decoded, opts)
	if err != nil {
		return nil, err
	}
	data, err := Encode(ctx, surface, opts.Target)
	if err != nil {
		return nil, err
	}
	out := &OutputAsset{
		Name: formats.DeriveFileName(source.Name, opts.Target),
		MIME: opts.Target.MIME(),
		Data: data,
	}
	Logger.Info("Converted image", "source", source.Name, "output", out.Name, "bytes", len(out.Data))
	return out, nil
}

// ConvertBytes is the one-shot path used by the CLI: acquire, decode, transform, encode.
func ConvertBytes(ctx context.Context, name, mime string, data []byte, opts formats.Options) (*OutputAsset, error) {
	if !opts.Target.CanEncode() {
		return nil, UnsupportedTarget(opts.Target)
	}
	source, _, err := Acquire(name, mime, data)
	if err != nil {
		return nil, err
	}
	decoded, err := Decode(ctx, source)
	if err != nil {
		return nil, err
	}
	out, err := Convert(ctx, source, decoded, opts)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", name, err)
	}
	return out, nil
}
