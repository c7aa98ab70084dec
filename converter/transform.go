package converter

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/drummonds/imgconv/formats"
)

// Rasterize draws the decoded source onto a new surface of round(intrinsic × scale)
// pixels. Targets without alpha get an opaque white background first so transparent
// regions do not come out black.
func Rasterize(ctx context.Context, decoded *Decoded, opts formats.Options) (*image.NRGBA, error) {
	if !opts.Target.CanEncode() {
		return nil, UnsupportedTarget(opts.Target)
	}
	if decoded == nil || (decoded.Raster == nil && !decoded.IsVector()) {
		return nil, newError(StageTransform, ErrNoSource, nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scale := formats.ClampScale(opts.Scale)
	width, height := decoded.Dimensions.Scaled(scale)

	var surface *image.NRGBA
	var err error
	if decoded.IsVector() {
		surface, err = renderSVG(decoded.Vector, width, height)
		if err != nil {
			return nil, newError(StageTransform, ErrDecodeFailure, err)
		}
	} else {
		surface = imaging.Resize(decoded.Raster, width, height, imaging.Lanczos)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !opts.Target.HasAlpha() {
		background := imaging.New(width, height, color.White)
		surface = imaging.Overlay(background, surface, image.Pt(0, 0), 1.0)
	}

	Logger.Debug("Rasterized surface", "width", width, "height", height, "scale", scale, "target", opts.Target)
	return surface, nil
}

// renderSVG rasterizes an SVG document onto a width × height surface. The viewBox
// keeps its aspect ratio and is centred (xMidYMid meet), leaving the rest transparent.
func renderSVG(data []byte, width, height int) (*image.NRGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(fitViewBox(icon.ViewBox.W, icon.ViewBox.H, float64(width), float64(height)))

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	return imaging.Clone(rgba), nil
}

// fitViewBox returns the largest box with the viewBox aspect ratio that fits the
// canvas, centred on it
func fitViewBox(vbW, vbH, canvasW, canvasH float64) (x, y, w, h float64) {
	if vbW <= 0 || vbH <= 0 {
		return 0, 0, canvasW, canvasH
	}
	scale := math.Min(canvasW/vbW, canvasH/vbH)
	w, h = vbW*scale, vbH*scale
	return (canvasW - w) / 2, (canvasH - h) / 2, w, h
}
