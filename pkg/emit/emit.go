// Package emit turns tiles into printed pages.
package emit

import (
	"github.com/PhantomInTheWire/tileprint/pkg/config"
	"github.com/PhantomInTheWire/tileprint/pkg/plan"
	"github.com/PhantomInTheWire/tileprint/pkg/split"
)

// Emitter receives tiles in row-major order, one page per tile.
// Close finalizes the document; Abort discards it. After either call the
// emitter must not be used again.
type Emitter interface {
	Page(t split.Tile) error
	Close() error
	Abort() error
}

// Layout is the page geometry shared by every page of a document.
type Layout struct {
	PageWidth  float64 // mm, orientation applied
	PageHeight float64 // mm, orientation applied
	Margin     float64 // mm, on all four sides
	TileWidth  int     // nominal tile size in px
	TileHeight int
	Flatten    bool // composite tiles onto white
}

// NewLayout derives the page layout from the print settings and the plan
// the tiles were cut from.
func NewLayout(p config.Print, pl plan.Plan) Layout {
	w, h := p.PageSize()
	return Layout{
		PageWidth:  w.Millimeters(),
		PageHeight: h.Millimeters(),
		Margin:     p.Margin.Millimeters(),
		TileWidth:  pl.TileWidth,
		TileHeight: pl.TileHeight,
		Flatten:    p.Flatten,
	}
}

// Printable is the area inside the margins, in mm.
func (l Layout) Printable() (w, h float64) {
	return l.PageWidth - 2*l.Margin, l.PageHeight - 2*l.Margin
}

// Scale is the size of one tile pixel on paper, in mm. A nominal tile
// fills the printable area exactly.
func (l Layout) Scale() (sx, sy float64) {
	w, h := l.Printable()
	return w / float64(l.TileWidth), h / float64(l.TileHeight)
}

// Placement returns where a w x h px tile lands on the page: the lower-left
// corner and size in mm, y measured from the bottom edge. Tiles are
// anchored at the top-left corner of the printable area so clamped tiles
// keep the nominal scale.
func (l Layout) Placement(w, h int) (x, y, dw, dh float64) {
	sx, sy := l.Scale()
	dw, dh = float64(w)*sx, float64(h)*sy
	return l.Margin, l.PageHeight - l.Margin - dh, dw, dh
}
