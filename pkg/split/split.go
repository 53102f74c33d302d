// Package split resizes a source image to a planned canvas and cuts the
// canvas into row-major tiles, one per printed sheet.
package split

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/PhantomInTheWire/tileprint/pkg/config"
	"github.com/PhantomInTheWire/tileprint/pkg/errs"
	"github.com/PhantomInTheWire/tileprint/pkg/plan"
	"github.com/PhantomInTheWire/tileprint/pkg/raster"
)

// Tile is one sheet's worth of the canvas.
type Tile struct {
	Row    int
	Col    int
	Raster raster.Raster
}

// Index is the tile's zero-based position in row-major order.
func (t Tile) Index(p plan.Plan) int { return t.Row*p.SheetsWide + t.Col }

// Clamped reports whether the tile is smaller than the nominal tile size.
func (t Tile) Clamped(p plan.Plan) bool {
	return t.Raster.Width() != p.TileWidth || t.Raster.Height() != p.TileHeight
}

// Prepare resizes src to the plan's canvas. With config.EdgePad the canvas
// is then grown to the full grid and the returned plan describes the padded
// canvas; otherwise p is returned unchanged.
func Prepare(src raster.Raster, p plan.Plan, mode config.EdgeMode) (raster.Raster, plan.Plan) {
	canvas := src.Resize(p.CanvasWidth, p.CanvasHeight)
	if mode == config.EdgePad && !p.Exact() {
		p = p.Padded()
		canvas = canvas.Pad(p.CanvasWidth, p.CanvasHeight)
	}
	return canvas, p
}

// Each cuts canvas into p.SheetsHigh x p.SheetsWide tiles and hands them to
// fn in row-major order. Tiles in the last row or column are clamped to the
// canvas. Each stops at the first error returned by fn.
func Each(canvas raster.Raster, p plan.Plan, fn func(Tile) error) error {
	if canvas.Bounds() != p.Canvas() {
		return fmt.Errorf("canvas is %dx%d px, plan expects %dx%d px",
			canvas.Width(), canvas.Height(), p.CanvasWidth, p.CanvasHeight)
	}
	for row := 0; row < p.SheetsHigh; row++ {
		for col := 0; col < p.SheetsWide; col++ {
			t := Tile{Row: row, Col: col, Raster: canvas.Crop(p.TileRect(row, col))}
			if err := fn(t); err != nil {
				return err
			}
		}
	}
	return nil
}

// Tiles resizes src and returns every tile, row-major, along with the plan
// the tiles were cut from.
func Tiles(src raster.Raster, p plan.Plan, mode config.EdgeMode) ([]Tile, plan.Plan, error) {
	canvas, p := Prepare(src, p, mode)
	tiles := make([]Tile, 0, p.Pages())
	err := Each(canvas, p, func(t Tile) error {
		tiles = append(tiles, t)
		return nil
	})
	if err != nil {
		return nil, p, err
	}
	return tiles, p, nil
}

// FileName is the PNG name a tile is exported under.
func FileName(t Tile) string { return fmt.Sprintf("tile_%d_%d.png", t.Row, t.Col) }

// Write saves t as PNG in dir, which must exist, and returns the file name.
func Write(dir string, t Tile) (string, error) {
	name := FileName(t)
	if err := t.Raster.Save(filepath.Join(dir, name)); err != nil {
		return "", err
	}
	return name, nil
}

// Export writes every tile into dir and returns the file names in order.
func Export(dir string, tiles []Tile) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errs.Output("create tile dir", err)
	}
	names := make([]string, 0, len(tiles))
	for _, t := range tiles {
		name, err := Write(dir, t)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// Staging holds tiles of a run in progress in a hidden directory inside the
// destination. Commit moves them into place; Discard drops them, so a failed
// run leaves no tiles behind.
type Staging struct {
	dir   string
	tmp   string
	names []string
}

// NewStaging creates dir if needed and a staging directory inside it.
func NewStaging(dir string) (*Staging, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errs.Output("create tile dir", err)
	}
	tmp, err := os.MkdirTemp(dir, ".tileprint-")
	if err != nil {
		return nil, errs.Output("create tile staging dir", err)
	}
	return &Staging{dir: dir, tmp: tmp}, nil
}

// Add writes t into the staging directory.
func (s *Staging) Add(t Tile) error {
	name, err := Write(s.tmp, t)
	if err != nil {
		return err
	}
	s.names = append(s.names, name)
	return nil
}

// Commit moves the staged tiles into the destination, replacing files of the
// same name, and returns their names in the order they were added.
func (s *Staging) Commit() ([]string, error) {
	defer os.RemoveAll(s.tmp)
	for i, name := range s.names {
		if err := os.Rename(filepath.Join(s.tmp, name), filepath.Join(s.dir, name)); err != nil {
			return s.names[:i], errs.Output("move tile "+name, err)
		}
	}
	return s.names, nil
}

// Discard removes every staged tile.
func (s *Staging) Discard() error {
	if err := os.RemoveAll(s.tmp); err != nil {
		return errs.Output("discard staged tiles", err)
	}
	return nil
}
