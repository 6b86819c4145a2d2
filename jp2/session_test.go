package jp2

import (
	"errors"
	"testing"

	"github.com/ajroetker/go-jp2graphic/pixbuf"
)

// fakeLib records the lifecycle calls the session makes and can be told to
// fail at any stage.
type fakeLib struct {
	failInit       bool
	failInitThread bool
	failOpen       bool
	failDecode     bool
	img            Image

	calls []string
	cfg   Config
}

func (l *fakeLib) Init(cfg Config) error {
	l.calls = append(l.calls, "init")
	l.cfg = cfg
	if l.failInit {
		return errors.New("init refused")
	}
	return nil
}

func (l *fakeLib) InitThread() error {
	l.calls = append(l.calls, "initThread")
	if l.failInitThread {
		return errors.New("thread init refused")
	}
	return nil
}

func (l *fakeLib) CleanupThread() { l.calls = append(l.calls, "cleanupThread") }
func (l *fakeLib) Cleanup()       { l.calls = append(l.calls, "cleanup") }

func (l *fakeLib) OpenStream(data []byte) (Stream, error) {
	l.calls = append(l.calls, "openStream")
	if l.failOpen {
		return nil, errors.New("open refused")
	}
	return &fakeStream{lib: l}, nil
}

func (l *fakeLib) Decode(s Stream, format string) (Image, error) {
	l.calls = append(l.calls, "decode")
	if l.failDecode {
		return nil, errors.New("decode refused")
	}
	return &recordingImage{Image: l.img, lib: l}, nil
}

type fakeStream struct{ lib *fakeLib }

func (s *fakeStream) Close() error {
	s.lib.calls = append(s.lib.calls, "closeStream")
	return nil
}

// recordingImage wraps an Image so handle release shows up in the call log.
type recordingImage struct {
	Image
	lib *fakeLib
}

func (r *recordingImage) Close() error {
	r.lib.calls = append(r.lib.calls, "closeImage")
	return r.Image.Close()
}

func callsEqual(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestSessionLifecycleOrder(t *testing.T) {
	lib := &fakeLib{img: planarFrom(t, 1, 1, []int32{42})}
	buf := pixbuf.New(1, 1)

	if err := NewSession(lib).DecodeInto(buf, []byte{1}); err != nil {
		t.Fatalf("DecodeInto: %v", err)
	}

	// Teardown runs in strict reverse-acquisition order.
	want := []string{
		"init", "initThread", "openStream", "decode",
		"closeImage", "closeStream", "cleanupThread", "cleanup",
	}
	if !callsEqual(lib.calls, want) {
		t.Errorf("lifecycle calls = %v, want %v", lib.calls, want)
	}
}

func TestSessionDefaultConfig(t *testing.T) {
	lib := &fakeLib{img: planarFrom(t, 1, 1, []int32{0})}
	buf := pixbuf.New(1, 1)

	if err := NewSession(lib).DecodeInto(buf, nil); err != nil {
		t.Fatalf("DecodeInto: %v", err)
	}
	if lib.cfg.MemoryLimit != DefaultMemoryLimit {
		t.Errorf("MemoryLimit = %d, want %d", lib.cfg.MemoryLimit, DefaultMemoryLimit)
	}
	if lib.cfg.Diagnostics == nil {
		t.Error("Diagnostics sink not installed")
	}
}

func TestSessionMemoryLimitOption(t *testing.T) {
	lib := &fakeLib{img: planarFrom(t, 1, 1, []int32{0})}
	buf := pixbuf.New(1, 1)

	s := NewSession(lib, WithMemoryLimit(1<<20))
	if err := s.DecodeInto(buf, nil); err != nil {
		t.Fatalf("DecodeInto: %v", err)
	}
	if lib.cfg.MemoryLimit != 1<<20 {
		t.Errorf("MemoryLimit = %d, want %d", lib.cfg.MemoryLimit, 1<<20)
	}
}

func TestSessionFailurePaths(t *testing.T) {
	tests := []struct {
		name      string
		lib       *fakeLib
		wantErr   error
		wantCalls []string
	}{
		{
			name:      "init failure",
			lib:       &fakeLib{failInit: true},
			wantErr:   ErrCodecInit,
			wantCalls: []string{"init"},
		},
		{
			name:      "stream open failure",
			lib:       &fakeLib{failOpen: true},
			wantErr:   ErrStreamOpen,
			wantCalls: []string{"init", "initThread", "openStream", "cleanupThread", "cleanup"},
		},
		{
			name:    "decode failure",
			lib:     &fakeLib{failDecode: true},
			wantErr: ErrDecodeFailed,
			wantCalls: []string{
				"init", "initThread", "openStream", "decode",
				"closeStream", "cleanupThread", "cleanup",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := pixbuf.New(3, 2)
			buf.SetBGRA(1, 1, 1, 2, 3, 4)

			err := NewSession(tt.lib).DecodeInto(buf, []byte{0xFF})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if !callsEqual(tt.lib.calls, tt.wantCalls) {
				t.Errorf("lifecycle calls = %v, want %v", tt.lib.calls, tt.wantCalls)
			}

			// Failed decodes leave the prior pixel state untouched.
			if buf.Width() != 3 || buf.Height() != 2 {
				t.Errorf("buffer resized to %dx%d on failure", buf.Width(), buf.Height())
			}
			if got := buf.RGBAAt(1, 1); got.B != 1 || got.G != 2 || got.R != 3 || got.A != 4 {
				t.Errorf("prior pixels modified on failure: %+v", got)
			}
		})
	}
}

func TestSessionThreadInitFailureIsNonFatal(t *testing.T) {
	lib := &fakeLib{failInitThread: true, img: planarFrom(t, 1, 1, []int32{9})}
	buf := pixbuf.New(1, 1)

	if err := NewSession(lib).DecodeInto(buf, nil); err != nil {
		t.Fatalf("DecodeInto: %v", err)
	}

	// No CleanupThread after a failed InitThread; everything else proceeds.
	want := []string{
		"init", "initThread", "openStream", "decode",
		"closeImage", "closeStream", "cleanup",
	}
	if !callsEqual(lib.calls, want) {
		t.Errorf("lifecycle calls = %v, want %v", lib.calls, want)
	}
}

func TestSessionCleanupRunsWhenNormalizeFails(t *testing.T) {
	// Unsupported component count fails after a successful decode; the
	// handles must still be released.
	lib := &fakeLib{img: planarFrom(t, 1, 1, []int32{1}, []int32{2})}
	buf := pixbuf.New(1, 1)

	err := NewSession(lib).DecodeInto(buf, nil)
	if !errors.Is(err, ErrUnsupportedComponents) {
		t.Fatalf("error = %v, want ErrUnsupportedComponents", err)
	}
	want := []string{
		"init", "initThread", "openStream", "decode",
		"closeImage", "closeStream", "cleanupThread", "cleanup",
	}
	if !callsEqual(lib.calls, want) {
		t.Errorf("lifecycle calls = %v, want %v", lib.calls, want)
	}
}

func TestSessionNoHandleLeaks(t *testing.T) {
	lib := &PlanarLibrary{}
	s := NewSession(lib)

	valid := planarFrom(t, 4, 4, []int32{
		0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	}).Marshal()
	garbage := []byte("definitely not a planar container")

	buf := pixbuf.New(1, 1)
	for i := range 50 {
		if err := s.DecodeInto(buf, valid); err != nil {
			t.Fatalf("decode %d: %v", i, err)
		}
		if err := s.DecodeInto(buf, garbage); err == nil {
			t.Fatalf("decode %d: garbage input succeeded", i)
		}
	}

	if n := lib.OpenStreams(); n != 0 {
		t.Errorf("leaked %d stream handles", n)
	}
	if n := lib.OpenImages(); n != 0 {
		t.Errorf("leaked %d image handles", n)
	}
}
