package jp2

import (
	"image"
	"io"

	"github.com/sirupsen/logrus"
)

// DefaultMemoryLimit is the decoder memory ceiling applied when no option
// overrides it. It is deliberately generous so large images don't trip
// spurious allocation failures.
const DefaultMemoryLimit int64 = 2 << 30 // 2 GiB

// FormatAuto asks the library to detect the codestream flavor itself.
const FormatAuto = "auto"

// Config carries the per-call configuration handed to a Library at Init
// time. A fresh Config is built for every decode; no configuration
// survives between calls.
type Config struct {
	// MemoryLimit caps the decoder's working memory in bytes.
	MemoryLimit int64

	// Diagnostics receives decoder-internal warnings. The session installs
	// a logger that discards everything unless the caller injects one, so
	// non-actionable codec chatter never reaches the user-visible surface.
	Diagnostics *logrus.Logger
}

// Library is the black-box decoder this adapter drives. Implementations
// wrap a native codec binding or a pure-Go decoder; the adapter only ever
// talks through this contract.
//
// Decode calls are serialized by the session because the contract does not
// promise reentrant library-global state.
type Library interface {
	// Init prepares library-level state with the given configuration.
	Init(cfg Config) error

	// InitThread prepares thread-scoped state. Failures here are
	// survivable; the session treats them as non-fatal.
	InitThread() error

	// CleanupThread releases thread-scoped state.
	CleanupThread()

	// Cleanup releases library-level state.
	Cleanup()

	// OpenStream opens an in-memory codec stream over data.
	OpenStream(data []byte) (Stream, error)

	// Decode runs the decoder against s. format is a hint token;
	// FormatAuto requests auto-detection.
	Decode(s Stream, format string) (Image, error)
}

// Stream is an opaque handle over an encoded byte buffer. It must be
// closed exactly once regardless of decode outcome.
type Stream interface {
	Close() error
}

// Image is a decoded image handle owned by the library. Close releases it;
// no accessor may be called afterwards.
type Image interface {
	// Bounds returns the image geometry as reported by the decoder
	// (top-left and bottom-right corners on the reference grid).
	Bounds() image.Rectangle

	// Components returns the number of color/alpha component planes.
	Components() int

	// Precision returns component c's bit depth.
	Precision(c int) int

	// Signed reports whether component c's samples are signed.
	Signed(c int) bool

	// Sample returns component c's value at pixel (x, y), 0-based from
	// the image's top-left corner.
	Sample(c, x, y int) int32

	Close() error
}

// discardLogger builds the default no-op diagnostic sink.
func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
