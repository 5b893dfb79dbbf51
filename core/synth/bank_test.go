package synth

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func shouldPanic(t *testing.T, f func()) {
	t.Helper()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	f()
}

func render(b *VoiceBank, rate float32, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = b.RenderSample(rate)
	}
	return out
}

func TestEmptyBankIsSilent(t *testing.T) {
	for _, rate := range []float32{1, 8000, 44100, 48000, 96000} {
		var b VoiceBank
		for i := 0; i < 64; i++ {
			if s := b.RenderSample(rate); s != 0 {
				t.Fatalf("rate %v: sample %d = %v, want exactly 0", rate, i, s)
			}
		}
	}
}

func TestNoteOnIsIdempotent(t *testing.T) {
	const rate = 44100
	var once, twice VoiceBank
	once.NoteOn(5)
	if !twice.NoteOn(5) {
		t.Fatal("first NoteOn reported no new voice")
	}
	if twice.NoteOn(5) {
		t.Fatal("second NoteOn reported a new voice")
	}
	if diff := cmp.Diff(render(&once, rate, 500), render(&twice, rate, 500)); diff != "" {
		t.Fatalf("double note-on changed waveform (-once +twice):\n%s", diff)
	}

	// a repeat mid-note must not reset phase either
	twice.NoteOn(5)
	if diff := cmp.Diff(render(&once, rate, 500), render(&twice, rate, 500)); diff != "" {
		t.Fatalf("repeat note-on reset phase (-once +twice):\n%s", diff)
	}
}

func TestMixIsAverageOfVoices(t *testing.T) {
	const rate = 48000
	var b VoiceBank
	b.NoteOn(0)
	b.NoteOn(4)

	sine := func(i int, f float64) float64 {
		return math.Sin(float64(i%rate) / rate * f * 2 * math.Pi)
	}
	got := make([]float64, 3*rate)
	want := make([]float64, len(got))
	for i := range got {
		s := b.RenderSample(rate)
		if s > 1 || s < -1 {
			t.Fatalf("sample %d = %v out of [-1,1]", i, s)
		}
		got[i] = float64(s)
		// the first rendered sample is one period past zero phase
		want[i] = (sine(i+1, 440) + sine(i+1, 554)) / 2
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-5)); diff != "" {
		t.Fatalf("mix mismatch (-want +got):\n%s", diff)
	}
}

func TestBankNoteIsPeriodic(t *testing.T) {
	for _, rate := range []float32{44000, 44100, 48000} {
		var b VoiceBank
		b.NoteOn(0)
		start := b.RenderSample(rate)
		period := int(math.Round(float64(rate) / 440))
		var s float32
		for i := 0; i < period; i++ {
			s = b.RenderSample(rate)
		}
		tol := 2 * math.Pi * 440 / float64(rate)
		if d := math.Abs(float64(s - start)); d > tol {
			t.Fatalf("rate %v: after %d samples drifted by %v (tol %v)", rate, period, d, tol)
		}
	}
}

func TestFullChordStaysInRange(t *testing.T) {
	var b VoiceBank
	for s := 0; s < 12; s++ {
		b.NoteOn(s)
	}
	for i, v := range render(&b, 44100, 44100) {
		if v > 1 || v < -1 {
			t.Fatalf("sample %d = %v out of [-1,1]", i, v)
		}
	}
}

func TestNoteOffClearsContribution(t *testing.T) {
	const rate = 44100
	var b VoiceBank
	b.NoteOn(0)
	render(&b, rate, 100)
	if !b.NoteOff(0) {
		t.Fatal("NoteOff on a sounding slot reported false")
	}
	if s := b.RenderSample(rate); s != 0 {
		t.Fatalf("after release sample = %v, want 0", s)
	}
	if b.NoteOff(0) {
		t.Fatal("NoteOff on a silent slot reported true")
	}
}

func TestNoteOffKeepsOtherSlots(t *testing.T) {
	const rate = 44100
	var b, solo VoiceBank
	b.NoteOn(2)
	b.NoteOn(7)
	solo.NoteOn(7)
	render(&b, rate, 10)
	render(&solo, rate, 10)
	b.NoteOff(2)
	if diff := cmp.Diff(render(&solo, rate, 200), render(&b, rate, 200)); diff != "" {
		t.Fatalf("releasing slot 2 disturbed slot 7 (-want +got):\n%s", diff)
	}
}

func TestActiveAndReset(t *testing.T) {
	var b VoiceBank
	b.NoteOn(9)
	b.NoteOn(3)
	want := []Note{{Slot: 3, Frequency: 523}, {Slot: 9, Frequency: 740}}
	if diff := cmp.Diff(want, b.Active()); diff != "" {
		t.Fatalf("active mismatch (-want +got):\n%s", diff)
	}
	if n := b.Len(); n != 2 {
		t.Fatalf("Len = %d, want 2", n)
	}
	b.Reset()
	if n := b.Len(); n != 0 {
		t.Fatalf("Len after Reset = %d, want 0", n)
	}
}

func TestOutOfRangeSlotPanics(t *testing.T) {
	var b VoiceBank
	shouldPanic(t, func() { b.NoteOn(12) })
	shouldPanic(t, func() { b.NoteOff(-1) })
}

func TestRenderFansOutFrames(t *testing.T) {
	p, err := NewRenderParams(44100, 3)
	if err != nil {
		t.Fatal(err)
	}
	var b, ref VoiceBank
	b.NoteOn(1)
	ref.NoteOn(1)

	buf := make([]float32, 3*64+2)
	for i := range buf {
		buf[i] = 9
	}
	b.Render(buf, p)
	for f := 0; f < 64; f++ {
		want := ref.RenderSample(44100)
		for c := 0; c < 3; c++ {
			if got := buf[f*3+c]; got != want {
				t.Fatalf("frame %d channel %d = %v, want %v", f, c, got, want)
			}
		}
	}
	if diff := cmp.Diff([]float32{0, 0}, buf[192:]); diff != "" {
		t.Fatalf("partial frame not zeroed (-want +got):\n%s", diff)
	}
}

func TestRenderContinuesPhaseAcrossBuffers(t *testing.T) {
	p, _ := NewRenderParams(48000, 1)
	var split, whole VoiceBank
	split.NoteOn(6)
	whole.NoteOn(6)

	a := make([]float32, 100)
	c := make([]float32, 156)
	split.Render(a, p)
	split.Render(c, p)
	all := make([]float32, 256)
	whole.Render(all, p)
	if diff := cmp.Diff(all, append(a, c...)); diff != "" {
		t.Fatalf("buffer boundary broke phase (-want +got):\n%s", diff)
	}
}
