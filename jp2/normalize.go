package jp2

import (
	"fmt"

	"github.com/ajroetker/go-jp2graphic/pixbuf"
)

// normalizeInto converts a decoded image's component planes into buf's
// canonical BGRA8 layout. The buffer is destructively resized to the
// decoded geometry first, then filled row-major, top row first.
//
// Component-count policy:
//
//	1 component  — grayscale; B = G = R = sample, A = 255
//	3 components — RGB in component order 0, 1, 2; A = 255
//	4 components — RGBA in component order 0..3; A from component 3
//
// Any other count leaves the resized buffer zero-filled and reports
// ErrUnsupportedComponents rather than leaving contents undefined.
func normalizeInto(buf *pixbuf.Buffer, img Image, rescale bool) error {
	bounds := img.Bounds()
	width := bounds.Max.X - bounds.Min.X
	height := bounds.Max.Y - bounds.Min.Y
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadGeometry, width, height)
	}

	buf.Resize(width, height)

	switch n := img.Components(); n {
	case 1:
		conv := newSampleConv(img, 0, rescale)
		for y := range height {
			row := buf.Scanline(y)
			for x := range width {
				g := conv.toByte(img.Sample(0, x, y))
				i := x * pixbuf.BytesPerPixel
				row[i+0] = g
				row[i+1] = g
				row[i+2] = g
				row[i+3] = 0xFF
			}
		}

	case 3:
		rConv := newSampleConv(img, 0, rescale)
		gConv := newSampleConv(img, 1, rescale)
		bConv := newSampleConv(img, 2, rescale)
		for y := range height {
			row := buf.Scanline(y)
			for x := range width {
				i := x * pixbuf.BytesPerPixel
				row[i+0] = bConv.toByte(img.Sample(2, x, y))
				row[i+1] = gConv.toByte(img.Sample(1, x, y))
				row[i+2] = rConv.toByte(img.Sample(0, x, y))
				row[i+3] = 0xFF
			}
		}

	case 4:
		rConv := newSampleConv(img, 0, rescale)
		gConv := newSampleConv(img, 1, rescale)
		bConv := newSampleConv(img, 2, rescale)
		aConv := newSampleConv(img, 3, rescale)
		for y := range height {
			row := buf.Scanline(y)
			for x := range width {
				i := x * pixbuf.BytesPerPixel
				row[i+0] = bConv.toByte(img.Sample(2, x, y))
				row[i+1] = gConv.toByte(img.Sample(1, x, y))
				row[i+2] = rConv.toByte(img.Sample(0, x, y))
				row[i+3] = aConv.toByte(img.Sample(3, x, y))
			}
		}

	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedComponents, n)
	}

	return nil
}

// sampleConv maps raw library samples of one component into 8-bit display
// range. Signed samples are offset by 2^(p-1) into unsigned range; when
// rescaling is enabled, non-8-bit precisions are linearly mapped so
// [0, 2^p-1] lands on [0, 255].
type sampleConv struct {
	offset  int32
	max     int32
	rescale bool
}

func newSampleConv(img Image, c int, rescale bool) sampleConv {
	p := img.Precision(c)
	if p <= 0 || p > 30 {
		p = 8
	}
	sc := sampleConv{
		max:     int32(1)<<p - 1,
		rescale: rescale && p != 8,
	}
	if img.Signed(c) {
		sc.offset = int32(1) << (p - 1)
	}
	return sc
}

func (sc sampleConv) toByte(v int32) uint8 {
	w := int64(v) + int64(sc.offset)
	if sc.rescale {
		// For example: 4-bit scales by 255/15 = 17, rounded to nearest.
		// The product needs 64 bits once precision passes 23.
		w = (w*255 + int64(sc.max)/2) / int64(sc.max)
	}
	return clampToUint8(w)
}

// clampToUint8 clamps a value to [0, 255].
func clampToUint8(v int64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
