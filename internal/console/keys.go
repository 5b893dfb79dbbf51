package console

import (
	"github.com/ingyamilmolinar/polytone/core/engine"
	"github.com/ingyamilmolinar/polytone/core/keymap"
	"github.com/ingyamilmolinar/polytone/core/pitch"
	game_log "github.com/ingyamilmolinar/polytone/internal/log"
)

const (
	keyCtrlC = 0x03
	keyEsc   = 0x1b
)

// Toggler turns single key presses into note on/off pairs. Terminals only
// report presses, so each press of a bound key flips its slot.
type Toggler struct {
	keymap *keymap.Keymap
	send   func(engine.KeyChanged) bool
	held   [pitch.Slots]bool
	logger *game_log.Logger
}

func NewToggler(km *keymap.Keymap, send func(engine.KeyChanged) bool, logger *game_log.Logger) *Toggler {
	return &Toggler{keymap: km, send: send, logger: logger}
}

// HandleByte processes one input byte and reports whether it asks to quit.
func (t *Toggler) HandleByte(b byte) (quit bool) {
	if b == keyCtrlC || b == keyEsc || b == 'q' && !t.bound('q') {
		return true
	}
	slot, ok := t.keymap.Slot(rune(b))
	if !ok {
		return false
	}
	t.held[slot] = !t.held[slot]
	t.send(engine.KeyChanged{Slot: slot, Pressed: t.held[slot]})
	return false
}

func (t *Toggler) bound(r rune) bool {
	_, ok := t.keymap.Slot(r)
	return ok
}

// ReleaseAll turns off every slot left on.
func (t *Toggler) ReleaseAll() {
	for slot, on := range t.held {
		if on {
			t.held[slot] = false
			t.send(engine.KeyChanged{Slot: slot, Pressed: false})
		}
	}
	t.logger.Debugf("[CONSOLE] released all toggled notes")
}
