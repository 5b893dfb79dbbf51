package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ingyamilmolinar/polytone/core/synth"
)

func decode(p []byte) []float32 {
	out := make([]float32, len(p)/bytesPerSample)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[i*bytesPerSample:]))
	}
	return out
}

func newTestStream(t *testing.T, rate, ch int) (*Stream, *synth.Voices) {
	t.Helper()
	p, err := synth.NewRenderParams(rate, ch)
	if err != nil {
		t.Fatal(err)
	}
	v := synth.NewVoices()
	s, err := NewStream(v, p, 256)
	if err != nil {
		t.Fatal(err)
	}
	return s, v
}

func TestNewStreamRejectsUnvalidatedParams(t *testing.T) {
	for _, p := range []synth.RenderParams{
		{},
		{SampleRate: 44100},
		{SampleRate: -1, Channels: 2},
	} {
		s, err := NewStream(synth.NewVoices(), p, 256)
		if !errors.Is(err, synth.ErrInvalidParams) || s != nil {
			t.Fatalf("NewStream(%+v) = %v, %v, want nil, ErrInvalidParams", p, s, err)
		}
	}
}

func TestStreamSilentWhenIdle(t *testing.T) {
	s, _ := newTestStream(t, 44100, 2)
	p := make([]byte, 1024)
	for i := range p {
		p[i] = 0xff
	}
	n, err := s.Read(p)
	if err != nil || n != len(p) {
		t.Fatalf("Read = %d, %v", n, err)
	}
	if diff := cmp.Diff(make([]float32, 256), decode(p)); diff != "" {
		t.Fatalf("idle stream not silent (-want +got):\n%s", diff)
	}
}

func TestStreamWritesInterleavedFrames(t *testing.T) {
	s, v := newTestStream(t, 48000, 2)
	v.NoteOn(0)
	var ref synth.VoiceBank
	ref.NoteOn(0)

	p := make([]byte, 2*bytesPerSample*300)
	if _, err := s.Read(p); err != nil {
		t.Fatal(err)
	}
	got := decode(p)
	for f := 0; f < 300; f++ {
		want := ref.RenderSample(48000)
		if got[2*f] != want || got[2*f+1] != want {
			t.Fatalf("frame %d = [%v %v], want %v on both channels", f, got[2*f], got[2*f+1], want)
		}
	}
}

func TestStreamGrowsForLargeRequests(t *testing.T) {
	s, v := newTestStream(t, 44100, 1)
	v.NoteOn(3)
	p := make([]byte, bytesPerSample*4096)
	if n, err := s.Read(p); err != nil || n != len(p) {
		t.Fatalf("Read = %d, %v", n, err)
	}
	nonZero := false
	for _, x := range decode(p) {
		if x != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatal("expected audio in a buffer larger than the scratch")
	}
}

func TestStreamZeroesPartialSample(t *testing.T) {
	s, v := newTestStream(t, 44100, 1)
	v.NoteOn(0)
	p := make([]byte, 2*bytesPerSample+3)
	for i := range p {
		p[i] = 0xff
	}
	if n, _ := s.Read(p); n != len(p) {
		t.Fatalf("Read n = %d, want %d", n, len(p))
	}
	if diff := cmp.Diff([]byte{0, 0, 0}, p[8:]); diff != "" {
		t.Fatalf("trailing bytes (-want +got):\n%s", diff)
	}
}

func TestStreamCloseStopsRendering(t *testing.T) {
	s, v := newTestStream(t, 44100, 2)
	v.NoteOn(1)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); !errors.Is(err, ErrClosed) {
		t.Fatalf("second Close = %v, want ErrClosed", err)
	}
	p := make([]byte, 64)
	if n, err := s.Read(p); n != 0 || err != io.EOF {
		t.Fatalf("Read after Close = %d, %v, want 0, EOF", n, err)
	}
}

func TestStreamReportsPoisonedVoices(t *testing.T) {
	s, v := newTestStream(t, 44100, 1)
	v.NoteOn(0)
	func() {
		defer func() { _ = recover() }()
		v.WithMutation(func(*synth.VoiceBank) { panic("boom") })
	}()

	p := make([]byte, 64)
	if _, err := s.Read(p); err != nil {
		t.Fatalf("Read returned %v; render failures go to the error channel", err)
	}
	select {
	case err := <-s.Errors():
		if !errors.Is(err, synth.ErrPoisoned) {
			t.Fatalf("reported %v, want ErrPoisoned", err)
		}
	default:
		t.Fatal("no failure reported")
	}
	if diff := cmp.Diff(make([]float32, 16), decode(p)); diff != "" {
		t.Fatalf("failed stream not silent (-want +got):\n%s", diff)
	}

	// latched: later buffers stay silent and do not report again
	if _, err := s.Read(p); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-s.Errors():
		t.Fatalf("reported twice: %v", err)
	default:
	}
}
