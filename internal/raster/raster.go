package raster

import (
	"bytes"
	"fmt"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Rasterizer renders SVG bytes into a square raster image.
type Rasterizer interface {
	// Render rasterizes the SVG document at sizePx by sizePx.
	Render(svg []byte, sizePx int) (image.Image, error)
}

// probeSVG is a minimal document used by Detect to verify the
// rasterization stack end to end.
const probeSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 4 4"><rect width="4" height="4" fill="#FF6A00"/></svg>`

// Detect probes the rasterization stack once and returns a Rasterizer if
// it is usable. A non-nil error explains why PNG export will be skipped;
// callers log it at info level, not as a failure.
func Detect() (Rasterizer, error) {
	r := &svgRasterizer{}
	if _, err := r.Render([]byte(probeSVG), 4); err != nil {
		return nil, fmt.Errorf("rasterization probe failed: %w", err)
	}
	return r, nil
}

// svgRasterizer is the oksvg/rasterx-backed implementation.
type svgRasterizer struct{}

// Render parses the SVG and draws it into an RGBA image of the requested
// size. The icon's view box is scaled to fill the target square.
func (r *svgRasterizer) Render(svg []byte, sizePx int) (image.Image, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("invalid raster size %d", sizePx)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(sizePx), float64(sizePx))

	img := image.NewRGBA(image.Rect(0, 0, sizePx, sizePx))
	scanner := rasterx.NewScannerGV(sizePx, sizePx, img, img.Bounds())
	dasher := rasterx.NewDasher(sizePx, sizePx, scanner)
	icon.Draw(dasher, 1.0)

	return img, nil
}
