// Package raster wraps decoded images in an immutable value type. Every
// operation returns a new buffer; nothing is changed in place.
package raster

import (
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/PhantomInTheWire/tileprint/pkg/errs"
)

// Format tags the pixel layout the image was decoded from. Pixels are always
// held as NRGBA internally.
type Format string

const (
	FormatGray     Format = "gray"
	FormatRGB      Format = "rgb"
	FormatRGBA     Format = "rgba"
	FormatNRGBA    Format = "nrgba"
	FormatPaletted Format = "paletted"
	FormatCMYK     Format = "cmyk"
	FormatOther    Format = "other"
)

func formatOf(img image.Image) Format {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return FormatGray
	case *image.YCbCr:
		return FormatRGB
	case *image.RGBA, *image.RGBA64:
		return FormatRGBA
	case *image.NRGBA, *image.NRGBA64:
		return FormatNRGBA
	case *image.Paletted:
		return FormatPaletted
	case *image.CMYK:
		return FormatCMYK
	}
	return FormatOther
}

// Raster is an immutable pixel buffer.
type Raster struct {
	pix    *image.NRGBA
	format Format
}

// New copies img into a Raster.
func New(img image.Image) Raster {
	return Raster{pix: imaging.Clone(img), format: formatOf(img)}
}

// Open decodes the image at path, applying its EXIF orientation.
func Open(path string) (Raster, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return Raster{}, errs.Input("open "+path, err)
	}
	return New(img), nil
}

// Decode reads an image from r, applying its EXIF orientation.
func Decode(r io.Reader) (Raster, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return Raster{}, errs.Input("decode", err)
	}
	return New(img), nil
}

func (r Raster) Width() int {
	if r.pix == nil {
		return 0
	}
	return r.pix.Rect.Dx()
}

func (r Raster) Height() int {
	if r.pix == nil {
		return 0
	}
	return r.pix.Rect.Dy()
}

// Bounds is always anchored at the origin.
func (r Raster) Bounds() image.Rectangle { return image.Rect(0, 0, r.Width(), r.Height()) }

// Format returns the pixel layout of the decoded source.
func (r Raster) Format() Format { return r.format }

// Image exposes the pixels for drawing and encoding. Callers must not
// modify the returned image.
func (r Raster) Image() image.Image { return r.pix }

// At returns the color of one pixel.
// A zero Raster has no pixels and yields transparent black.
func (r Raster) At(x, y int) color.NRGBA {
	if r.pix == nil {
		return color.NRGBA{}
	}
	return r.pix.NRGBAAt(x, y)
}

// Resize resamples to exactly w x h with a Lanczos filter.
func (r Raster) Resize(w, h int) Raster {
	return Raster{pix: imaging.Resize(r.pix, w, h, imaging.Lanczos), format: r.format}
}

// Crop copies the part of r inside rect. rect is clamped to the bounds,
// so a rectangle hanging over the edge yields a smaller raster.
func (r Raster) Crop(rect image.Rectangle) Raster {
	return Raster{pix: imaging.Crop(r.pix, rect), format: r.format}
}

// Pad places r at the top-left of a transparent w x h raster. Pixels past
// w or h are dropped.
func (r Raster) Pad(w, h int) Raster {
	dst := imaging.New(w, h, color.NRGBA{})
	return Raster{pix: imaging.Paste(dst, r.pix, image.Pt(0, 0)), format: r.format}
}

// Flatten composites r over an opaque background.
func (r Raster) Flatten(bg color.Color) Raster {
	dst := imaging.New(r.Width(), r.Height(), bg)
	return Raster{pix: imaging.Overlay(dst, r.pix, image.Pt(0, 0), 1.0), format: r.format}
}

// Opaque reports whether every pixel is fully opaque.
func (r Raster) Opaque() bool {
	if r.pix == nil {
		return true
	}
	return r.pix.Opaque()
}

// EncodePNG writes r as PNG.
func (r Raster) EncodePNG(w io.Writer) error {
	return imaging.Encode(w, r.pix, imaging.PNG)
}

// Save writes r to path; the format follows the file extension.
func (r Raster) Save(path string) error {
	if err := imaging.Save(r.pix, path); err != nil {
		return errs.Output("save "+path, err)
	}
	return nil
}
