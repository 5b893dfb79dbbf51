package synth

import (
	"fmt"

	"github.com/ingyamilmolinar/polytone/core/pitch"
)

// Note is a sounding slot and its pitch.
type Note struct {
	Slot      int
	Frequency float32
}

func (n Note) String() string {
	return fmt.Sprintf("%s(%d)=%gHz", pitch.Name(n.Slot), n.Slot, n.Frequency)
}

type voice struct {
	osc    Oscillator
	active bool
}

// VoiceBank holds at most one oscillator per slot. The zero value is an
// empty bank. It is not safe for concurrent use; see Voices.
type VoiceBank struct {
	voices [pitch.Slots]voice
}

// NoteOn starts an oscillator on slot at its mapped pitch. A slot that is
// already sounding keeps its phase and NoteOn reports false.
func (b *VoiceBank) NoteOn(slot int) bool {
	freq := pitch.Frequency(slot)
	v := &b.voices[slot]
	if v.active {
		return false
	}
	*v = voice{osc: NewOscillator(freq), active: true}
	return true
}

// NoteOff silences slot and reports whether it was sounding.
func (b *VoiceBank) NoteOff(slot int) bool {
	if !pitch.Valid(slot) {
		panic(fmt.Sprintf("synth: slot %d out of range [0,%d)", slot, pitch.Slots))
	}
	v := &b.voices[slot]
	was := v.active
	*v = voice{}
	return was
}

// Reset silences every slot.
func (b *VoiceBank) Reset() {
	b.voices = [pitch.Slots]voice{}
}

// Len returns the number of sounding slots.
func (b *VoiceBank) Len() int {
	n := 0
	for i := range b.voices {
		if b.voices[i].active {
			n++
		}
	}
	return n
}

// Active lists the sounding slots in slot order.
func (b *VoiceBank) Active() []Note {
	var notes []Note
	for i := range b.voices {
		if v := &b.voices[i]; v.active {
			notes = append(notes, Note{Slot: i, Frequency: v.osc.Frequency})
		}
	}
	return notes
}

// RenderSample advances every sounding oscillator by one sample and
// returns their average. An empty bank returns exactly 0. sampleRate must
// be positive.
func (b *VoiceBank) RenderSample(sampleRate float32) float32 {
	var sum float32
	n := 0
	for i := range b.voices {
		v := &b.voices[i]
		if !v.active {
			continue
		}
		v.osc.Advance(sampleRate)
		sum += v.osc.Sample(sampleRate)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float32(n)
}

// Render fills buf with interleaved frames, one mixed sample per frame
// copied to every channel. Samples past the last whole frame are zeroed.
// p must come from NewRenderParams.
func (b *VoiceBank) Render(buf []float32, p RenderParams) {
	rate := float32(p.SampleRate)
	ch := p.Channels
	frames := len(buf) / ch
	for f := 0; f < frames; f++ {
		v := b.RenderSample(rate)
		frame := buf[f*ch : f*ch+ch]
		for i := range frame {
			frame[i] = v
		}
	}
	clear(buf[frames*ch:])
}
