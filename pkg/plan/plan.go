// Package plan derives the tile grid of a poster from the source image size,
// the tile size and the sheets-wide/sheets-tall hints.
package plan

import (
	"fmt"
	"image"
	"math"

	"github.com/PhantomInTheWire/tileprint/pkg/errs"
)

// Limits on the canvas the source is resized to. An NRGBA canvas takes four
// bytes per pixel.
const (
	MaxSide   = 1 << 20
	MaxPixels = 1 << 30
)

// Plan is the grid geometry of one run. All sizes are in pixels.
type Plan struct {
	SheetsWide   int
	SheetsHigh   int
	CanvasWidth  int // width the source image is resized to
	CanvasHeight int // height the source image is resized to
	TileWidth    int
	TileHeight   int
}

// New computes the plan for an imgW x imgH source split into tiles of
// tileW x tileH. A hint of 0 means unset; at least one must be set.
//
// With only one hint the other dimension follows the image aspect ratio and
// the canvas may not be an exact multiple of the tile size; see Remainder.
// With both hints the canvas is exactly the grid and the image is stretched.
func New(imgW, imgH, tileW, tileH, wide, high int) (Plan, error) {
	if wide == 0 && high == 0 {
		return Plan{}, errs.Configf("set at least one of sheets wide or sheets tall")
	}
	if wide < 0 || high < 0 {
		return Plan{}, errs.Configf("sheet counts must be positive, got %d wide and %d tall", wide, high)
	}
	if tileW <= 0 || tileH <= 0 {
		return Plan{}, errs.Configf("tile size must be positive, got %dx%d px", tileW, tileH)
	}
	if imgW <= 0 || imgH <= 0 {
		return Plan{}, errs.Configf("image size must be positive, got %dx%d px", imgW, imgH)
	}
	if tileW > MaxSide || tileH > MaxSide || wide > MaxSide || high > MaxSide {
		return Plan{}, errs.Configf("grid of %dx%d px tiles, %d wide and %d tall, is too large", tileW, tileH, wide, high)
	}

	p := Plan{TileWidth: tileW, TileHeight: tileH}
	switch {
	case wide > 0 && high == 0:
		p.SheetsWide = wide
		p.CanvasWidth = tileW * wide
		p.CanvasHeight = scaleSide(imgH, imgW, p.CanvasWidth)
		p.SheetsHigh = ceilDiv(p.CanvasHeight, tileH)
	case high > 0 && wide == 0:
		p.SheetsHigh = high
		p.CanvasHeight = tileH * high
		p.CanvasWidth = scaleSide(imgW, imgH, p.CanvasHeight)
		p.SheetsWide = ceilDiv(p.CanvasWidth, tileW)
	default:
		p.SheetsWide, p.SheetsHigh = wide, high
		p.CanvasWidth = tileW * wide
		p.CanvasHeight = tileH * high
	}
	if p.CanvasWidth > MaxSide || p.CanvasHeight > MaxSide || p.CanvasWidth*p.CanvasHeight > MaxPixels {
		return Plan{}, errs.Configf("canvas of %dx%d px is too large (limit %d px per side, %d px total)",
			p.CanvasWidth, p.CanvasHeight, MaxSide, MaxPixels)
	}
	return p, nil
}

// scaleSide returns round(side / other * target), at least 1.
func scaleSide(side, other, target int) int {
	v := int(math.Round(float64(side) * float64(target) / float64(other)))
	return max(v, 1)
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

// Pages is the number of output pages.
func (p Plan) Pages() int { return p.SheetsWide * p.SheetsHigh }

// Exact reports whether the canvas is an exact multiple of the tile size.
func (p Plan) Exact() bool {
	return p.CanvasWidth == p.SheetsWide*p.TileWidth && p.CanvasHeight == p.SheetsHigh*p.TileHeight
}

// Remainder returns the pixel size of the tiles in the last column and the
// last row. For an exact plan these equal the tile size.
func (p Plan) Remainder() (w, h int) {
	w = p.CanvasWidth - (p.SheetsWide-1)*p.TileWidth
	h = p.CanvasHeight - (p.SheetsHigh-1)*p.TileHeight
	return w, h
}

// Padded returns a copy whose canvas is grown to the full grid.
func (p Plan) Padded() Plan {
	p.CanvasWidth = p.SheetsWide * p.TileWidth
	p.CanvasHeight = p.SheetsHigh * p.TileHeight
	return p
}

// Canvas returns the canvas rectangle anchored at the origin.
func (p Plan) Canvas() image.Rectangle {
	return image.Rect(0, 0, p.CanvasWidth, p.CanvasHeight)
}

// TileRect returns the canvas rectangle of tile (row, col), clamped to the
// canvas bounds.
func (p Plan) TileRect(row, col int) image.Rectangle {
	x0, y0 := col*p.TileWidth, row*p.TileHeight
	return image.Rect(x0, y0, x0+p.TileWidth, y0+p.TileHeight).Intersect(p.Canvas())
}

func (p Plan) String() string {
	return fmt.Sprintf("%dx%d sheets, canvas %dx%d px, tile %dx%d px",
		p.SheetsWide, p.SheetsHigh, p.CanvasWidth, p.CanvasHeight, p.TileWidth, p.TileHeight)
}
