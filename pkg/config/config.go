// Package config holds the immutable print configuration of a tiling run
// and the YAML file it is usually read from.
package config

import (
	"math"
	"strings"

	"github.com/PhantomInTheWire/tileprint/pkg/errs"
)

// Orientation of the output pages.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// ParseOrientation accepts "portrait" or "landscape" in any case.
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case Portrait, Landscape:
		return o, nil
	case "":
		return Portrait, nil
	}
	return "", errs.Configf("invalid orientation %q (must be 'portrait' or 'landscape')", s)
}

// EdgeMode decides what happens to the last row and column when the canvas
// is not an exact multiple of the tile size.
type EdgeMode string

const (
	// EdgeClamp crops the last row/column against the canvas, producing
	// smaller tiles that are printed at the nominal scale.
	EdgeClamp EdgeMode = "clamp"
	// EdgePad grows the canvas with transparent pixels so every tile is
	// nominal size.
	EdgePad EdgeMode = "pad"
)

// ParseEdgeMode accepts "clamp" or "pad"; empty means clamp.
func ParseEdgeMode(s string) (EdgeMode, error) {
	switch m := EdgeMode(strings.ToLower(strings.TrimSpace(s))); m {
	case EdgeClamp, EdgePad:
		return m, nil
	case "":
		return EdgeClamp, nil
	}
	return "", errs.Configf("invalid edge mode %q (must be 'clamp' or 'pad')", s)
}

// Print describes how the poster is laid out on paper. Build it once and
// pass it by value.
type Print struct {
	PaperWidth  Length
	PaperHeight Length
	Orientation Orientation
	DPI         int // pixels per inch
	Margin      Length
	SheetsWide  int // 0 means derive from the image aspect ratio
	SheetsTall  int // 0 means derive from the image aspect ratio
	Edge        EdgeMode
	Flatten     bool // composite tiles onto white instead of keeping alpha
}

// DefaultPrint is US letter, portrait, 300 dpi, no margin, clamped edges.
// The grid hints are left unset.
func DefaultPrint() Print {
	letter := paperPresets["letter"]
	return Print{
		PaperWidth:  letter.Width,
		PaperHeight: letter.Height,
		Orientation: Portrait,
		DPI:         300,
		Margin:      In(0),
		Edge:        EdgeClamp,
	}
}

// PageSize returns the paper dimensions after applying the orientation.
func (p Print) PageSize() (w, h Length) {
	if p.Orientation == Landscape {
		return p.PaperHeight, p.PaperWidth
	}
	return p.PaperWidth, p.PaperHeight
}

// PrintableInches is the page area inside the margins, in inches.
func (p Print) PrintableInches() (w, h float64) {
	pw, ph := p.PageSize()
	m := p.Margin.Inches()
	return pw.Inches() - 2*m, ph.Inches() - 2*m
}

// truncation tolerance for products like 8.27in*300 that land a hair below
// an integer in float64.
const pixelEpsilon = 1e-9

// MaxTileSide caps a tile side in pixels.
const MaxTileSide = 1 << 20

// TileSize returns the pixel size of one tile: the printable area times the
// resolution, truncated.
func (p Print) TileSize() (w, h int, err error) {
	if p.DPI <= 0 {
		return 0, 0, errs.Configf("resolution must be positive, got %d dpi", p.DPI)
	}
	pw, ph := p.PrintableInches()
	fw, fh := pw*float64(p.DPI), ph*float64(p.DPI)
	if !(fw <= MaxTileSide && fh <= MaxTileSide) {
		return 0, 0, errs.Configf("tile of %.0fx%.0f px is too large (limit %d px per side)", fw, fh, MaxTileSide)
	}
	w = int(math.Floor(pw*float64(p.DPI) + pixelEpsilon))
	h = int(math.Floor(ph*float64(p.DPI) + pixelEpsilon))
	if w <= 0 || h <= 0 {
		return 0, 0, errs.Configf("margin %s leaves no printable area on %s x %s paper (tile %dx%d px)",
			p.Margin, p.PaperWidth, p.PaperHeight, w, h)
	}
	return w, h, nil
}

// Validate checks everything that can be checked without the image.
func (p Print) Validate() error {
	if p.SheetsWide == 0 && p.SheetsTall == 0 {
		return errs.Configf("set at least one of sheets wide or sheets tall")
	}
	if p.SheetsWide < 0 || p.SheetsTall < 0 {
		return errs.Configf("sheet counts must be positive, got %d wide and %d tall", p.SheetsWide, p.SheetsTall)
	}
	if p.PaperWidth.Value <= 0 || p.PaperHeight.Value <= 0 {
		return errs.Configf("paper size must be positive, got %s x %s", p.PaperWidth, p.PaperHeight)
	}
	if p.Orientation != Portrait && p.Orientation != Landscape {
		return errs.Configf("invalid orientation %q", p.Orientation)
	}
	if p.Edge != EdgeClamp && p.Edge != EdgePad {
		return errs.Configf("invalid edge mode %q", p.Edge)
	}
	m := p.Margin.Inches()
	if m < 0 {
		return errs.Configf("margin must not be negative, got %s", p.Margin)
	}
	if limit := math.Min(p.PaperWidth.Inches(), p.PaperHeight.Inches()) / 2; m > limit {
		return errs.Configf("margin %s exceeds half the smaller paper side", p.Margin)
	}
	_, _, err := p.TileSize()
	return err
}
