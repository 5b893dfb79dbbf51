package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/ingyamilmolinar/polytone/core/synth"
	game_log "github.com/ingyamilmolinar/polytone/internal/log"
)

// Options configure the output device.
type Options struct {
	SampleRate   int
	ChannelCount int
	// BufferSize is the device latency; it also sizes the render scratch.
	BufferSize time.Duration
}

const watchInterval = 100 * time.Millisecond

// Output plays the shared voices on a device until closed.
type Output struct {
	dev     device
	stream  *Stream
	logger  *game_log.Logger
	onError ErrorFunc

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	errOnce   sync.Once
}

// device is the platform sink pulling from a Stream.
type device interface {
	Play()
	Pause()
	// Err reports an asynchronous device failure, if any.
	Err() error
	Close() error
}

// Open starts a stream over voices on the default output device. Device
// and render failures are delivered once to onError; there is no
// automatic recovery.
func Open(voices *synth.Voices, opts Options, logger *game_log.Logger, onError ErrorFunc) (*Output, error) {
	params, err := synth.NewRenderParams(opts.SampleRate, opts.ChannelCount)
	if err != nil {
		return nil, err
	}
	frames := int(opts.BufferSize.Seconds() * float64(params.SampleRate))
	if frames <= 0 {
		frames = params.SampleRate / 100
	}
	stream, err := NewStream(voices, params, frames)
	if err != nil {
		return nil, err
	}
	dev, err := openDevice(stream, frames)
	if err != nil {
		return nil, fmt.Errorf("audio: open device: %w", err)
	}
	o := newOutput(dev, stream, logger, onError)
	dev.Play()
	logger.Infof("[AUDIO] playing %d Hz, %d ch, %d frames/buffer", params.SampleRate, params.Channels, frames)
	return o, nil
}

func newOutput(dev device, stream *Stream, logger *game_log.Logger, onError ErrorFunc) *Output {
	o := &Output{
		dev:     dev,
		stream:  stream,
		logger:  logger,
		onError: onError,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go o.watch()
	return o
}

func (o *Output) watch() {
	defer close(o.done)
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()
	for {
		select {
		case err := <-o.stream.Errors():
			o.report(err)
		case <-ticker.C:
			if err := o.dev.Err(); err != nil {
				o.report(fmt.Errorf("audio: device: %w", err))
				return
			}
		case <-o.stop:
			return
		}
	}
}

func (o *Output) report(err error) {
	o.errOnce.Do(func() {
		o.logger.Errorf("[AUDIO] %v", err)
		if o.onError != nil {
			o.onError(err)
		}
	})
}

// Params returns the layout the stream was opened with.
func (o *Output) Params() synth.RenderParams { return o.stream.Params() }

// Close tears the stream down. It is safe to call while key events are
// still arriving; no render runs after it returns.
func (o *Output) Close() error {
	var err error
	o.closeOnce.Do(func() {
		_ = o.stream.Close()
		o.dev.Pause()
		close(o.stop)
		<-o.done
		err = o.dev.Close()
		o.logger.Infof("[AUDIO] closed")
	})
	return err
}
