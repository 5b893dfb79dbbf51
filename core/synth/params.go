package synth

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned for a non-positive sample rate or channel count.
var ErrInvalidParams = errors.New("synth: invalid render parameters")

// RenderParams is the stream layout, fixed for the lifetime of a stream.
type RenderParams struct {
	SampleRate int
	Channels   int
}

// NewRenderParams validates and returns the layout of a stream.
func NewRenderParams(sampleRate, channels int) (RenderParams, error) {
	if sampleRate <= 0 {
		return RenderParams{}, fmt.Errorf("%w: sample rate %d", ErrInvalidParams, sampleRate)
	}
	if channels <= 0 {
		return RenderParams{}, fmt.Errorf("%w: channel count %d", ErrInvalidParams, channels)
	}
	return RenderParams{SampleRate: sampleRate, Channels: channels}, nil
}

// Frames returns how many whole frames fit in n samples.
func (p RenderParams) Frames(n int) int { return n / p.Channels }
