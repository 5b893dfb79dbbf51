//go:build headless

package audio

import (
	"sync"
	"time"
)

// headlessDevice pulls buffers at the real-time rate and discards them, for
// hosts without a sound card.
type headlessDevice struct {
	s      *Stream
	buf    []byte
	period time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func openDevice(s *Stream, frames int) (device, error) {
	p := s.Params()
	return &headlessDevice{
		s:      s,
		buf:    make([]byte, frames*p.Channels*bytesPerSample),
		period: time.Duration(frames) * time.Second / time.Duration(p.SampleRate),
	}, nil
}

func (d *headlessDevice) Play() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return
	}
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.loop(d.stop, d.done)
}

func (d *headlessDevice) loop(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(d.period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := d.s.Read(d.buf); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}

func (d *headlessDevice) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop == nil {
		return
	}
	close(d.stop)
	<-d.done
	d.stop = nil
}

func (d *headlessDevice) Err() error   { return nil }
func (d *headlessDevice) Close() error { return nil }
