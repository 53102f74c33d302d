package emit

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/PhantomInTheWire/tileprint/pkg/errs"
	"github.com/PhantomInTheWire/tileprint/pkg/split"
)

// PDF writes one page per tile into a PDF document. The document is built
// in a temporary file next to the destination and only renamed into place
// by Close.
type PDF struct {
	path   string
	layout Layout
	file   *renameio.PendingFile
	writer *pdf.PDF
	pages  int
	done   bool
}

var _ Emitter = (*PDF)(nil)

// NewPDF starts a PDF document destined for path.
func NewPDF(path string, l Layout) (*PDF, error) {
	if l.TileWidth <= 0 || l.TileHeight <= 0 {
		return nil, errs.Configf("tile size must be positive, got %dx%d px", l.TileWidth, l.TileHeight)
	}
	if pw, ph := l.Printable(); pw <= 0 || ph <= 0 {
		return nil, errs.Configf("margin %gmm leaves no printable area", l.Margin)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Output("create output dir", err)
	}
	f, err := renameio.TempFile(dir, path)
	if err != nil {
		return nil, errs.Output("create "+path, err)
	}

	w := pdf.New(f, l.PageWidth, l.PageHeight, nil)
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	w.SetInfo(title, "tiled poster", "poster, tiles", "", "tileprint")
	return &PDF{path: path, layout: l, file: f, writer: w}, nil
}

// Page draws t on a new page, scaled to the printable area.
func (d *PDF) Page(t split.Tile) error {
	if d.done {
		return errs.Output("page", fmt.Errorf("document %s already finished", d.path))
	}
	r := t.Raster
	if r.Width() == 0 || r.Height() == 0 {
		return errs.Output("page", fmt.Errorf("tile %d,%d is empty", t.Row, t.Col))
	}
	if d.layout.Flatten && !r.Opaque() {
		r = r.Flatten(color.White)
	}

	if d.pages > 0 {
		d.writer.NewPage(d.layout.PageWidth, d.layout.PageHeight)
	}
	c := canvas.New(d.layout.PageWidth, d.layout.PageHeight)
	ctx := canvas.NewContext(c)

	x, y, _, _ := d.layout.Placement(r.Width(), r.Height())
	sx, sy := d.layout.Scale()
	ctx.Push()
	ctx.ComposeView(canvas.Identity.Translate(x, y).Scale(sx, sy))
	ctx.DrawImage(0, 0, r.Image(), canvas.DPMM(1))
	ctx.Pop()

	c.RenderTo(d.writer)
	d.pages++
	return nil
}

// Pages is the number of pages written so far.
func (d *PDF) Pages() int { return d.pages }

// Close finishes the document and atomically moves it to its destination.
func (d *PDF) Close() error {
	if d.done {
		return nil
	}
	d.done = true
	if d.pages == 0 {
		_ = d.file.Cleanup()
		return errs.Output("close "+d.path, fmt.Errorf("no pages written"))
	}
	if err := d.writer.Close(); err != nil {
		_ = d.file.Cleanup()
		return errs.Output("write "+d.path, err)
	}
	if err := d.file.CloseAtomicallyReplace(); err != nil {
		_ = d.file.Cleanup()
		return errs.Output("finalize "+d.path, err)
	}
	return nil
}

// Abort discards the partial document; the destination is left untouched.
func (d *PDF) Abort() error {
	if d.done {
		return nil
	}
	d.done = true
	if err := d.file.Cleanup(); err != nil {
		return errs.Output("discard "+d.path, err)
	}
	return nil
}
