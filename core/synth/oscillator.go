package synth

import (
	"math"
)

// Oscillator is a sine generator that keeps its own phase between buffers.
//
// The phase is tracked as elapsed samples and wrapped at the sample rate,
// so it stays in [0, sampleRate) however long the note is held. Because
// frequencies are whole Hz, a wrap always lands on a cycle boundary.
type Oscillator struct {
	Frequency float32
	clock     float32
}

// NewOscillator returns an oscillator at freq Hz with zero phase.
func NewOscillator(freq float32) Oscillator {
	return Oscillator{Frequency: freq}
}

// Advance moves the phase forward by one sample period. sampleRate must be
// positive.
func (o *Oscillator) Advance(sampleRate float32) {
	o.clock++
	for o.clock >= sampleRate {
		o.clock -= sampleRate
	}
}

// Sample returns sin(clock/sampleRate * Frequency * 2π), in [-1, 1].
func (o *Oscillator) Sample(sampleRate float32) float32 {
	rate := float64(sampleRate)
	// clock and Frequency are whole numbers, so the product is exact and
	// reducing it by the rate keeps the angle under 2π without rounding.
	cycles := math.Mod(float64(o.clock)*float64(o.Frequency), rate)
	return float32(math.Sin(cycles / rate * 2 * math.Pi))
}

// Clock returns the elapsed samples since the last wrap.
func (o *Oscillator) Clock() float32 { return o.clock }
