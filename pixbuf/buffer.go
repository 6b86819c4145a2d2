// Package pixbuf implements the canonical pixel buffer all graphics
// normalize into: 8 bits per channel, byte order B, G, R, A within each
// pixel, scanlines stored top-down.
//
// Buffer implements image.Image and draw.Image, so stdlib compositing
// (image/draw) works against it directly; the BGRA byte order is purely an
// internal storage detail.
package pixbuf

import (
	"image"
	"image/color"
	"image/draw"
)

// BytesPerPixel is the size of one BGRA pixel.
const BytesPerPixel = 4

// Buffer is a resizable 2D grid of BGRA8 pixels. The zero value is an
// empty buffer.
type Buffer struct {
	pix    []uint8
	stride int // bytes per scanline
	w, h   int
}

// New creates a w×h buffer with all pixels zeroed (transparent black).
// Negative dimensions are clamped to zero.
func New(w, h int) *Buffer {
	b := &Buffer{}
	b.Resize(w, h)
	return b
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.w }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.h }

// Stride returns the number of bytes per scanline.
func (b *Buffer) Stride() int { return b.stride }

// Resize reallocates the buffer to w×h. Prior contents are discarded and
// every pixel is zeroed. Negative dimensions are clamped to zero.
func (b *Buffer) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	b.w, b.h = w, h
	b.stride = w * BytesPerPixel
	b.pix = make([]uint8, b.stride*h)
}

// SetWidth resizes the horizontal axis only. Overlapping content is kept
// anchored at the top-left; newly exposed pixels are zeroed. Contents are
// not rescaled, so growing or shrinking one axis of a loaded image crops
// or pads it rather than stretching it.
func (b *Buffer) SetWidth(w int) { b.resizePreserve(w, b.h) }

// SetHeight resizes the vertical axis only, with the same crop/pad
// semantics as SetWidth.
func (b *Buffer) SetHeight(h int) { b.resizePreserve(b.w, h) }

func (b *Buffer) resizePreserve(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if w == b.w && h == b.h {
		return
	}

	old := *b
	b.w, b.h = w, h
	b.stride = w * BytesPerPixel
	b.pix = make([]uint8, b.stride*h)

	rows := min(h, old.h)
	cols := min(w, old.w) * BytesPerPixel
	for y := range rows {
		copy(b.pix[y*b.stride:y*b.stride+cols], old.pix[y*old.stride:y*old.stride+cols])
	}
}

// Scanline returns the y-th row as a mutable slice of length 4×width,
// laid out as B, G, R, A per pixel. Returns nil for rows outside the
// buffer.
func (b *Buffer) Scanline(y int) []uint8 {
	if y < 0 || y >= b.h {
		return nil
	}
	return b.pix[y*b.stride : y*b.stride+b.stride : y*b.stride+b.stride]
}

// Pix returns the whole backing pixel slice.
func (b *Buffer) Pix() []uint8 { return b.pix }

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.w, b.h) }

// At implements image.Image. Out-of-bounds coordinates return zero.
func (b *Buffer) At(x, y int) color.Color { return b.RGBAAt(x, y) }

// RGBAAt returns the pixel at (x, y) as color.RGBA.
func (b *Buffer) RGBAAt(x, y int) color.RGBA {
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return color.RGBA{}
	}
	i := y*b.stride + x*BytesPerPixel
	return color.RGBA{R: b.pix[i+2], G: b.pix[i+1], B: b.pix[i+0], A: b.pix[i+3]}
}

// Set implements draw.Image. Out-of-bounds coordinates are ignored.
func (b *Buffer) Set(x, y int, c color.Color) {
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return
	}
	r, g, bl, a := c.RGBA()
	i := y*b.stride + x*BytesPerPixel
	b.pix[i+0] = uint8(bl >> 8)
	b.pix[i+1] = uint8(g >> 8)
	b.pix[i+2] = uint8(r >> 8)
	b.pix[i+3] = uint8(a >> 8)
}

// SetBGRA writes one pixel without color-model conversion.
func (b *Buffer) SetBGRA(x, y int, bl, g, r, a uint8) {
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return
	}
	i := y*b.stride + x*BytesPerPixel
	b.pix[i+0] = bl
	b.pix[i+1] = g
	b.pix[i+2] = r
	b.pix[i+3] = a
}

// Fill paints every pixel with c.
func (b *Buffer) Fill(c color.RGBA) {
	for y := range b.h {
		row := b.Scanline(y)
		for x := range b.w {
			i := x * BytesPerPixel
			row[i+0] = c.B
			row[i+1] = c.G
			row[i+2] = c.R
			row[i+3] = c.A
		}
	}
}

// CopyFrom resizes the buffer to src's bounds and copies src's full surface
// into it, converting pixel formats through the color model.
func (b *Buffer) CopyFrom(src image.Image) {
	bounds := src.Bounds()
	b.Resize(bounds.Dx(), bounds.Dy())
	if sb, ok := src.(*Buffer); ok {
		copy(b.pix, sb.pix)
		return
	}
	draw.Draw(b, b.Bounds(), src, bounds.Min, draw.Src)
}

var _ draw.Image = (*Buffer)(nil)
