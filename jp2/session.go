package jp2

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ajroetker/go-jp2graphic/pixbuf"
)

// decodeMu serializes decode calls across all sessions. Library
// implementations are not required to have reentrant global state, and
// each call independently initializes and tears that state down.
var decodeMu sync.Mutex

// Session drives a Library through one self-contained decode pipeline per
// call: configure, init, open stream, decode, normalize, tear down. Every
// acquired resource is released in reverse-acquisition order on all exit
// paths.
type Session struct {
	lib         Library
	memoryLimit int64
	diagnostics *logrus.Logger
	rescale     bool
}

// Option configures a Session.
type Option func(*Session)

// WithMemoryLimit overrides the decoder memory ceiling.
func WithMemoryLimit(n int64) Option {
	return func(s *Session) { s.memoryLimit = n }
}

// WithDiagnostics routes decoder-internal warnings to l instead of
// discarding them.
func WithDiagnostics(l *logrus.Logger) Option {
	return func(s *Session) { s.diagnostics = l }
}

// WithoutRescale disables bit-depth rescaling of non-8-bit components,
// writing raw samples into the 8-bit channels the way legacy adapters did.
// Useful only for compatibility testing against such adapters.
func WithoutRescale() Option {
	return func(s *Session) { s.rescale = false }
}

// NewSession creates a session over lib with default configuration:
// 2 GiB memory ceiling, discarded diagnostics, rescaling enabled.
func NewSession(lib Library, opts ...Option) *Session {
	s := &Session{
		lib:         lib,
		memoryLimit: DefaultMemoryLimit,
		rescale:     true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.diagnostics == nil {
		s.diagnostics = discardLogger()
	}
	return s
}

// DecodeInto decodes data and writes the normalized BGRA pixels into buf.
//
// On any failure before normalization, buf is left untouched. The one
// exception is ErrUnsupportedComponents: the decode itself succeeded, so
// buf is resized to the decoded geometry and zero-filled before the error
// is reported.
func (s *Session) DecodeInto(buf *pixbuf.Buffer, data []byte) error {
	decodeMu.Lock()
	defer decodeMu.Unlock()

	// Fresh configuration every call; nothing persists between decodes.
	cfg := Config{
		MemoryLimit: s.memoryLimit,
		Diagnostics: s.diagnostics,
	}

	if err := s.lib.Init(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrCodecInit, err)
	}
	defer s.lib.Cleanup()

	if err := s.lib.InitThread(); err != nil {
		// Thread-scoped init failure is survivable: the library falls back
		// to process-wide state. Record it for anyone listening.
		s.diagnostics.WithError(err).Warn("jp2: thread-level codec init failed")
	} else {
		defer s.lib.CleanupThread()
	}

	stream, err := s.lib.OpenStream(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStreamOpen, err)
	}
	defer stream.Close()

	img, err := s.lib.Decode(stream, FormatAuto)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	if img == nil {
		return ErrDecodeFailed
	}
	defer img.Close()

	return normalizeInto(buf, img, s.rescale)
}
