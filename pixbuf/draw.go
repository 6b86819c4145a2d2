package pixbuf

import (
	"image"
	"image/draw"
	"sync"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

// stretchPool is shared by all StretchTo calls. Workers persist for the
// life of the process; per-call goroutine spawning would dominate the cost
// of small stretches.
var (
	stretchPool     *workerpool.Pool
	stretchPoolOnce sync.Once
)

func pool() *workerpool.Pool {
	stretchPoolOnce.Do(func() {
		stretchPool = workerpool.New(0)
	})
	return stretchPool
}

// StretchTo draws the whole buffer into the rectangle r of dst using
// nearest-neighbor sampling. The destination is clipped against dst's
// bounds. An empty source or an empty rectangle draws nothing.
//
// When dst is another *Buffer the scanlines are copied directly, with rows
// distributed over a worker pool; any other draw.Image goes through the
// generic Set path sequentially.
func (b *Buffer) StretchTo(dst draw.Image, r image.Rectangle) {
	r = r.Canon()
	drW, drH := r.Dx(), r.Dy()
	if b.w == 0 || b.h == 0 || drW == 0 || drH == 0 {
		return
	}

	clip := r.Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}

	if db, ok := dst.(*Buffer); ok {
		b.stretchToBuffer(db, r, clip)
		return
	}

	for dy := clip.Min.Y; dy < clip.Max.Y; dy++ {
		sy := (dy - r.Min.Y) * b.h / drH
		for dx := clip.Min.X; dx < clip.Max.X; dx++ {
			sx := (dx - r.Min.X) * b.w / drW
			dst.Set(dx, dy, b.RGBAAt(sx, sy))
		}
	}
}

func (b *Buffer) stretchToBuffer(dst *Buffer, r, clip image.Rectangle) {
	drW, drH := r.Dx(), r.Dy()
	rows := clip.Dy()

	pool().ParallelFor(rows, func(start, end int) {
		for row := start; row < end; row++ {
			dy := clip.Min.Y + row
			sy := (dy - r.Min.Y) * b.h / drH
			srcRow := b.Scanline(sy)
			dstRow := dst.Scanline(dy)
			for dx := clip.Min.X; dx < clip.Max.X; dx++ {
				sx := (dx - r.Min.X) * b.w / drW
				copy(dstRow[dx*BytesPerPixel:dx*BytesPerPixel+BytesPerPixel],
					srcRow[sx*BytesPerPixel:sx*BytesPerPixel+BytesPerPixel])
			}
		}
	})
}
