package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/ingyamilmolinar/polytone/core/synth"
)

const bytesPerSample = 4 // float32 little endian

// ErrClosed is returned by Read once the stream has been closed.
var ErrClosed = errors.New("audio: stream closed")

// ErrorFunc receives failures from outside the render path.
type ErrorFunc func(error)

// Stream is the pull side of the device: each Read renders one buffer of
// interleaved float32 frames from the shared voices.
type Stream struct {
	voices *synth.Voices
	params synth.RenderParams

	mu      sync.Mutex // serializes Read against Close
	scratch []float32
	closed  bool
	failed  bool

	// errs carries at most one render failure to the watcher, so the
	// render path never blocks on the error sink.
	errs chan error
}

// NewStream returns a stream over voices, pre-sized for frames per Read.
// params are checked as synth.NewRenderParams does.
func NewStream(voices *synth.Voices, params synth.RenderParams, frames int) (*Stream, error) {
	params, err := synth.NewRenderParams(params.SampleRate, params.Channels)
	if err != nil {
		return nil, err
	}
	if frames < 0 {
		frames = 0
	}
	return &Stream{
		voices:  voices,
		params:  params,
		scratch: make([]float32, frames*params.Channels),
		errs:    make(chan error, 1),
	}, nil
}

// Params returns the fixed layout of the stream.
func (s *Stream) Params() synth.RenderParams { return s.params }

// Errors delivers the first render failure.
func (s *Stream) Errors() <-chan error { return s.errs }

// Read implements io.Reader for oto.Player. It fills all of p; bytes past
// the last whole frame are zero. After Close it returns io.EOF without
// touching the voices.
func (s *Stream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, io.EOF
	}

	n := len(p) / bytesPerSample
	if cap(s.scratch) < n {
		// only when the device asks for more than it was opened with
		s.scratch = make([]float32, n)
	}
	buf := s.scratch[:n]
	s.render(buf)

	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(v))
	}
	clear(p[n*bytesPerSample:])
	return len(p), nil
}

func (s *Stream) render(buf []float32) {
	if s.failed {
		clear(buf)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			clear(buf)
			s.fail(fmt.Errorf("audio: render panicked: %v", r))
		}
	}()
	if err := s.voices.RenderInto(buf, s.params); err != nil {
		s.fail(fmt.Errorf("audio: render: %w", err))
	}
}

// fail latches the stream into silence and hands err to the watcher.
func (s *Stream) fail(err error) {
	s.failed = true
	select {
	case s.errs <- err:
	default:
	}
}

// Close stops rendering. Once it returns no Read touches the voices again.
// Closing twice returns ErrClosed.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return nil
}
