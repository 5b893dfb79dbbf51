//go:build !headless

package audio

import (
	"time"

	"github.com/ebitengine/oto/v3"
)

type otoDevice struct {
	ctx    *oto.Context
	player *oto.Player
}

func openDevice(s *Stream, frames int) (device, error) {
	p := s.Params()
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   p.SampleRate,
		ChannelCount: p.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(frames) * time.Second / time.Duration(p.SampleRate),
	})
	if err != nil {
		return nil, err
	}
	<-ready

	player := ctx.NewPlayer(s)
	player.SetBufferSize(frames * p.Channels * bytesPerSample)
	return &otoDevice{ctx: ctx, player: player}, nil
}

func (d *otoDevice) Play() { d.player.Play() }
func (d *otoDevice) Pause() { d.player.Pause() }

func (d *otoDevice) Err() error {
	if err := d.ctx.Err(); err != nil {
		return err
	}
	return d.player.Err()
}

func (d *otoDevice) Close() error { return d.player.Close() }
