// Package jp2 adapts an external JPEG2000 decoder library into the graphic
// framework. The decoder itself is a black box behind the Library
// interface; this package owns the codec session lifecycle, normalizes
// decoded component planes into the canonical BGRA pixel buffer, and
// exposes the result as a polymorphic graphic object.
//
//	lib := ... // a Library binding
//	g := jp2.New(lib)
//	if err := g.LoadFrom(f); err != nil {
//	    log.Fatal(err)
//	}
//	g.Draw(canvas, canvas.Bounds())
package jp2

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/ajroetker/go-jp2graphic/graphic"
	"github.com/ajroetker/go-jp2graphic/pixbuf"
)

// DefaultQuality is the compression quality a new Graphic starts with.
const DefaultQuality = 90

// Graphic is the JPEG2000 implementation of graphic.Graphic. It owns its
// pixel buffer for its whole lifetime; decode failures leave the buffer
// exactly as it was before the load attempt.
type Graphic struct {
	buf     *pixbuf.Buffer
	session *Session
	quality int
}

var _ graphic.Graphic = (*Graphic)(nil)

// New creates a Graphic over lib, starting as a 1×1 opaque black image
// with compression quality 90.
func New(lib Library, opts ...Option) *Graphic {
	g := &Graphic{
		buf:     pixbuf.New(1, 1),
		session: NewSession(lib, opts...),
		quality: DefaultQuality,
	}
	g.buf.Fill(color.RGBA{A: 0xFF})
	return g
}

// LoadFrom reads all remaining bytes from r and decodes them through the
// codec session. On failure the previously held pixels are untouched,
// except for ErrUnsupportedComponents where the buffer holds zeroed pixels
// at the decoded geometry.
func (g *Graphic) LoadFrom(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("jp2: read input: %w", err)
	}
	return g.session.DecodeInto(g.buf, data)
}

// SaveTo reports ErrEncodeUnsupported and writes nothing: this format is
// decode-only.
func (g *Graphic) SaveTo(io.Writer) error {
	return graphic.ErrEncodeUnsupported
}

// Draw stretches the pixel buffer into the rectangle r of dst.
func (g *Graphic) Draw(dst draw.Image, r image.Rectangle) {
	g.buf.StretchTo(dst, r)
}

// Width returns the pixel buffer width.
func (g *Graphic) Width() int { return g.buf.Width() }

// Height returns the pixel buffer height.
func (g *Graphic) Height() int { return g.buf.Height() }

// SetWidth resizes the horizontal axis only, without rescaling contents.
func (g *Graphic) SetWidth(w int) { g.buf.SetWidth(w) }

// SetHeight resizes the vertical axis only, without rescaling contents.
func (g *Graphic) SetHeight(h int) { g.buf.SetHeight(h) }

// Assign resizes the graphic to src's dimensions and copies src's full
// surface into it.
func (g *Graphic) Assign(src graphic.Graphic) error {
	if src == nil {
		return errors.New("jp2: assign from nil graphic")
	}
	pix := src.Pixels()
	if pix == nil {
		return errors.New("jp2: assign from graphic without pixels")
	}
	g.buf.CopyFrom(pix)
	return nil
}

// Transparent always reports false. Alpha is tracked in the buffer for
// 4-component decodes but the compositing signal was never exposed by the
// original contract.
func (g *Graphic) Transparent() bool { return false }

// SetCompressionQuality stores q, clamped to [0, 100]. Decoding ignores
// it; it only matters to a future encoder.
func (g *Graphic) SetCompressionQuality(q int) {
	if q < 0 {
		q = 0
	}
	if q > 100 {
		q = 100
	}
	g.quality = q
}

// CompressionQuality returns the stored quality setting.
func (g *Graphic) CompressionQuality() int { return g.quality }

// Pixels exposes the canonical pixel buffer backing the graphic.
func (g *Graphic) Pixels() *pixbuf.Buffer { return g.buf }
