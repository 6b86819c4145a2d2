package jp2

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"

	hwyimage "github.com/ajroetker/go-highway/hwy/contrib/image"
	"github.com/sirupsen/logrus"
)

// planarMagic opens the planar interchange container understood by
// PlanarLibrary.
var planarMagic = []byte{'J', '2', 'P', 'L'}

// PlanarImage is a decoded image backed by SIMD-aligned component planes.
// It implements Image and is the decode result of PlanarLibrary; tests and
// tooling also build one directly and serialize it with Marshal.
type PlanarImage struct {
	planes        []*hwyimage.Image[int32]
	prec          []int
	signed        []bool
	width, height int

	lib    *PlanarLibrary // non-nil when produced by a PlanarLibrary decode
	closed bool
}

// NewPlanarImage creates a width×height image with the given number of
// zero-filled 8-bit unsigned component planes.
func NewPlanarImage(width, height, components int) *PlanarImage {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	p := &PlanarImage{width: width, height: height}
	for range components {
		p.planes = append(p.planes, hwyimage.NewImage[int32](width, height))
		p.prec = append(p.prec, 8)
		p.signed = append(p.signed, false)
	}
	return p
}

// SetPrecision sets component c's bit depth.
func (p *PlanarImage) SetPrecision(c, bits int) {
	if c >= 0 && c < len(p.prec) {
		p.prec[c] = bits
	}
}

// SetSigned marks component c's samples as signed.
func (p *PlanarImage) SetSigned(c int, signed bool) {
	if c >= 0 && c < len(p.signed) {
		p.signed[c] = signed
	}
}

// SetSample writes one sample. Out-of-range coordinates are ignored.
func (p *PlanarImage) SetSample(c, x, y int, v int32) {
	if c < 0 || c >= len(p.planes) || x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	p.planes[c].Row(y)[x] = v
}

// Bounds implements Image.
func (p *PlanarImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// Components implements Image.
func (p *PlanarImage) Components() int { return len(p.planes) }

// Precision implements Image.
func (p *PlanarImage) Precision(c int) int {
	if c < 0 || c >= len(p.prec) {
		return 8
	}
	return p.prec[c]
}

// Signed implements Image.
func (p *PlanarImage) Signed(c int) bool {
	if c < 0 || c >= len(p.signed) {
		return false
	}
	return p.signed[c]
}

// Sample implements Image. Out-of-range reads return 0.
func (p *PlanarImage) Sample(c, x, y int) int32 {
	if p.closed || c < 0 || c >= len(p.planes) || x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0
	}
	return p.planes[c].Row(y)[x]
}

// Close releases the handle. Closing twice is an error.
func (p *PlanarImage) Close() error {
	if p.closed {
		return ErrImageClosed
	}
	p.closed = true
	if p.lib != nil {
		p.lib.imageClosed()
	}
	return nil
}

// Marshal serializes the image into the planar interchange container:
// magic, uint32 width and height, uint8 component count, per component a
// uint8 precision and signedness flag, then each plane's samples as
// big-endian int32, row-major.
func (p *PlanarImage) Marshal() []byte {
	out := make([]byte, 0, len(planarMagic)+9+2*len(p.planes)+4*p.width*p.height*len(p.planes))
	out = append(out, planarMagic...)
	out = binary.BigEndian.AppendUint32(out, uint32(p.width))
	out = binary.BigEndian.AppendUint32(out, uint32(p.height))
	out = append(out, uint8(len(p.planes)))
	for c := range p.planes {
		out = append(out, uint8(p.prec[c]))
		if p.signed[c] {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}
	for _, plane := range p.planes {
		for y := range p.height {
			row := plane.Row(y)
			for x := range p.width {
				out = binary.BigEndian.AppendUint32(out, uint32(row[x]))
			}
		}
	}
	return out
}

// parsePlanar decodes the planar interchange container. memLimit bounds
// the decoded plane allocation in bytes; zero means unlimited.
func parsePlanar(data []byte, memLimit int64) (*PlanarImage, error) {
	if len(data) < len(planarMagic)+9 {
		return nil, ErrTruncatedData
	}
	for i, m := range planarMagic {
		if data[i] != m {
			return nil, errors.New("jp2: bad planar signature")
		}
	}
	off := len(planarMagic)
	width := int(binary.BigEndian.Uint32(data[off:]))
	height := int(binary.BigEndian.Uint32(data[off+4:]))
	components := int(data[off+8])
	off += 9

	if len(data) < off+2*components {
		return nil, ErrTruncatedData
	}

	// Bound the size check by division so a crafted header cannot
	// overflow the multiplication and slip past the ceiling.
	limit := int64(math.MaxInt64)
	if memLimit > 0 {
		limit = memLimit
	}
	if components > 0 && height > 0 && int64(width) > limit/4/int64(components)/int64(height) {
		if memLimit > 0 {
			return nil, fmt.Errorf("jp2: planar image exceeds memory limit (%dx%dx%d)", width, height, components)
		}
		return nil, ErrTruncatedData
	}
	need := int64(width) * int64(height) * int64(components) * 4
	if need > int64(len(data)-off-2*components) {
		return nil, ErrTruncatedData
	}

	img := NewPlanarImage(width, height, components)
	for c := range components {
		img.SetPrecision(c, int(data[off]))
		img.SetSigned(c, data[off+1] != 0)
		off += 2
	}
	for _, plane := range img.planes {
		for y := range height {
			row := plane.Row(y)
			for x := range width {
				row[x] = int32(binary.BigEndian.Uint32(data[off:]))
				off += 4
			}
		}
	}
	return img, nil
}

// PlanarLibrary is a pure-Go reference Library over the planar interchange
// format. It exercises every edge of the Library contract without a native
// codec, and counts live stream and image handles so leak checks stay
// cheap.
type PlanarLibrary struct {
	mu          sync.Mutex
	cfg         Config
	initialized bool
	openStreams int
	openImages  int
}

// Init implements Library.
func (l *PlanarLibrary) Init(cfg Config) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg = cfg
	l.initialized = true
	return nil
}

// InitThread implements Library. The reference library keeps no
// thread-scoped state.
func (l *PlanarLibrary) InitThread() error { return nil }

// CleanupThread implements Library.
func (l *PlanarLibrary) CleanupThread() {}

// Cleanup implements Library.
func (l *PlanarLibrary) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.initialized = false
	l.cfg = Config{}
}

// OpenStream implements Library.
func (l *PlanarLibrary) OpenStream(data []byte) (Stream, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.initialized {
		return nil, errors.New("jp2: planar library not initialized")
	}
	l.openStreams++
	return &planarStream{lib: l, data: data}, nil
}

// Decode implements Library. It accepts FormatAuto or the explicit "j2pl"
// hint.
func (l *PlanarLibrary) Decode(s Stream, format string) (Image, error) {
	ps, ok := s.(*planarStream)
	if !ok {
		return nil, errors.New("jp2: stream not opened by this library")
	}
	if ps.closed {
		return nil, ErrStreamClosed
	}
	if format != FormatAuto && format != "j2pl" {
		return nil, fmt.Errorf("jp2: unknown format hint %q", format)
	}

	l.mu.Lock()
	cfg := l.cfg
	l.mu.Unlock()

	img, err := parsePlanar(ps.data, cfg.MemoryLimit)
	if err != nil {
		return nil, err
	}
	if cfg.Diagnostics != nil {
		cfg.Diagnostics.WithFields(logrus.Fields{
			"width":      img.width,
			"height":     img.height,
			"components": img.Components(),
		}).Debug("jp2: planar decode")
	}

	l.mu.Lock()
	l.openImages++
	l.mu.Unlock()
	img.lib = l
	return img, nil
}

// OpenStreams returns the number of live stream handles.
func (l *PlanarLibrary) OpenStreams() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.openStreams
}

// OpenImages returns the number of live image handles.
func (l *PlanarLibrary) OpenImages() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.openImages
}

func (l *PlanarLibrary) imageClosed() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.openImages--
}

type planarStream struct {
	lib    *PlanarLibrary
	data   []byte
	closed bool
}

// Close releases the stream. Closing twice is an error.
func (s *planarStream) Close() error {
	if s.closed {
		return ErrStreamClosed
	}
	s.closed = true
	s.lib.mu.Lock()
	s.lib.openStreams--
	s.lib.mu.Unlock()
	return nil
}
