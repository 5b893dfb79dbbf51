package synth

import (
	"errors"
	"sync"
)

// ErrPoisoned is returned once a mutation panicked while holding the lock.
// The bank may be half-updated and is never rendered again.
var ErrPoisoned = errors.New("synth: voice state poisoned by a panicking mutation")

// Voices shares one VoiceBank between the event side and the audio side.
//
// The render side holds the lock for exactly one buffer of mixing: pure
// arithmetic over at most pitch.Slots oscillators per frame, no allocation
// and no I/O. Mutations are a single slot update, so both sides only ever
// wait for a short, bounded time.
type Voices struct {
	mu       sync.Mutex
	bank     VoiceBank
	poisoned bool
}

// NewVoices returns an empty shared voice state.
func NewVoices() *Voices {
	return &Voices{}
}

// WithMutation runs fn with exclusive access to the bank. If fn panics the
// state is marked poisoned and the panic continues; later calls panic with
// ErrPoisoned.
func (v *Voices) WithMutation(fn func(b *VoiceBank)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.poisoned {
		panic(ErrPoisoned)
	}
	ok := false
	defer func() {
		if !ok {
			v.poisoned = true
		}
	}()
	fn(&v.bank)
	ok = true
}

// NoteOn starts slot and reports whether a new voice was created.
func (v *Voices) NoteOn(slot int) (started bool) {
	v.WithMutation(func(b *VoiceBank) { started = b.NoteOn(slot) })
	return started
}

// NoteOff releases slot and reports whether it was sounding.
func (v *Voices) NoteOff(slot int) (released bool) {
	v.WithMutation(func(b *VoiceBank) { released = b.NoteOff(slot) })
	return released
}

// ReleaseAll silences every slot.
func (v *Voices) ReleaseAll() {
	v.WithMutation(func(b *VoiceBank) { b.Reset() })
}

// Snapshot returns the sounding notes in slot order.
func (v *Voices) Snapshot() (notes []Note) {
	v.WithMutation(func(b *VoiceBank) { notes = b.Active() })
	return notes
}

// RenderInto fills one audio buffer under the lock. A note change is
// either fully visible to the buffer or not at all. On a poisoned state
// buf is silenced and ErrPoisoned is returned.
func (v *Voices) RenderInto(buf []float32, p RenderParams) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.poisoned {
		clear(buf)
		return ErrPoisoned
	}
	v.bank.Render(buf, p)
	return nil
}
