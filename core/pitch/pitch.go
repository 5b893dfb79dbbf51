package pitch

import (
	"fmt"
	"math"
)

const (
	// Slots is the number of assignable notes: one equal-tempered octave.
	Slots = 12
	// ReferenceHz is the pitch of slot 0 (concert A).
	ReferenceHz = 440.0
)

var table [Slots]float32

func init() {
	for i := range table {
		table[i] = float32(math.Round(ReferenceHz * math.Pow(2, float64(i)/Slots)))
	}
}

// Frequency returns the fundamental of slot in whole Hz. Slots outside
// [0, Slots) are a caller bug and panic.
func Frequency(slot int) float32 {
	if !Valid(slot) {
		panic(fmt.Sprintf("pitch: slot %d out of range [0,%d)", slot, Slots))
	}
	return table[slot]
}

// Valid reports whether slot can be passed to Frequency.
func Valid(slot int) bool { return slot >= 0 && slot < Slots }

var names = [Slots]string{"A4", "A#4", "B4", "C5", "C#5", "D5", "D#5", "E5", "F5", "F#5", "G5", "G#5"}

// Name returns the note name of slot, e.g. "C5" for slot 3.
func Name(slot int) string {
	if !Valid(slot) {
		return "?"
	}
	return names[slot]
}
