package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/ingyamilmolinar/polytone/core/pitch"
	"github.com/ingyamilmolinar/polytone/core/synth"
	game_log "github.com/ingyamilmolinar/polytone/internal/log"
)

// KeyChanged is a key going down or up on one of the fixed slots.
type KeyChanged struct {
	Slot    int
	Pressed bool
}

// Engine is the event side of the synth. It owns a goroutine that applies
// key changes to the shared voices in arrival order.
type Engine struct {
	voices *synth.Voices
	logger *game_log.Logger
	events chan KeyChanged
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	onChange func(notes []synth.Note)
}

// New creates an Engine over voices and starts its run loop. onChange, if
// not nil, receives the sounding notes after every change; it runs on the
// engine goroutine.
func New(voices *synth.Voices, logger *game_log.Logger, onChange func(notes []synth.Note)) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		voices:   voices,
		logger:   logger,
		events:   make(chan KeyChanged, 64),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		onChange: onChange,
	}
	go e.run()
	return e
}

func (e *Engine) run() {
	defer close(e.done)
	for {
		select {
		case ev := <-e.events:
			e.apply(ev)
		case <-e.ctx.Done():
			return
		}
	}
}

// Send queues ev. It blocks while the queue is full so no key-up is ever
// dropped, and reports false once the engine is closed.
func (e *Engine) Send(ev KeyChanged) bool {
	select {
	case <-e.ctx.Done():
		return false
	default:
	}
	select {
	case e.events <- ev:
		return true
	case <-e.ctx.Done():
		return false
	}
}

func (e *Engine) apply(ev KeyChanged) {
	var changed bool
	if ev.Pressed {
		changed = e.voices.NoteOn(ev.Slot)
	} else {
		changed = e.voices.NoteOff(ev.Slot)
	}
	if !changed {
		e.logger.Debugf("[ENGINE] slot %d pressed=%v: no change", ev.Slot, ev.Pressed)
		return
	}
	notes := e.voices.Snapshot()
	e.logger.Infof("[ENGINE] %s %s -> active: %s", pitch.Name(ev.Slot), onOff(ev.Pressed), Describe(notes))
	if e.onChange != nil {
		e.onChange(notes)
	}
}

func onOff(pressed bool) string {
	if pressed {
		return "on"
	}
	return "off"
}

// Describe formats notes as "C5(3)=523Hz E5(7)=659Hz", or "none".
func Describe(notes []synth.Note) string {
	if len(notes) == 0 {
		return "none"
	}
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}

// Close stops the run loop, drops queued events and silences every voice.
// It is safe to call more than once and while other goroutines still Send.
func (e *Engine) Close() {
	e.once.Do(func() {
		e.cancel()
		<-e.done
		e.voices.ReleaseAll()
		e.logger.Infof("[ENGINE] closed")
	})
}
