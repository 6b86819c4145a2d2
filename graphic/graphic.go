// Package graphic defines the polymorphic graphic-object contract shared by
// every supported image format, plus a process-wide format registry hosts
// use to pick a concrete implementation by file extension or by sniffing
// signature bytes.
//
// A host application holds values of the Graphic interface and never needs
// to know which format sits behind one:
//
//	g := entry.New()
//	if err := g.LoadFrom(f); err != nil {
//	    log.Fatal(err)
//	}
//	g.Draw(canvas, image.Rect(0, 0, 640, 480))
package graphic

import (
	"image"
	"image/draw"
	"io"

	"github.com/ajroetker/go-jp2graphic/pixbuf"
)

// Graphic is the uniform contract implemented by every image format.
type Graphic interface {
	// LoadFrom decodes the remaining bytes of r into the graphic. On
	// failure the previously held pixels are left untouched.
	LoadFrom(r io.Reader) error

	// SaveTo encodes the graphic to w. Formats without encoder support
	// return ErrEncodeUnsupported and write nothing.
	SaveTo(w io.Writer) error

	// Draw stretches the graphic's pixels into the destination rectangle.
	// It mutates no graphic state.
	Draw(dst draw.Image, r image.Rectangle)

	// Width and Height report the pixel buffer dimensions.
	Width() int
	Height() int

	// SetWidth and SetHeight resize one axis of the pixel buffer without
	// rescaling its contents.
	SetWidth(w int)
	SetHeight(h int)

	// Assign resizes the graphic to src's dimensions and copies src's full
	// surface into it, converting pixel formats as needed.
	Assign(src Graphic) error

	// Transparent reports whether the graphic participates in alpha
	// compositing.
	Transparent() bool

	// SetCompressionQuality stores the encoder quality setting (0-100).
	// Decode-only formats accept and remember it without effect.
	SetCompressionQuality(q int)

	// Pixels exposes the canonical pixel buffer backing the graphic.
	Pixels() *pixbuf.Buffer
}
