package keymap

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/ingyamilmolinar/polytone/core/pitch"
)

// DefaultKeys lays one octave over the home row, black keys on the row above.
const DefaultKeys = "awsedftgyhuj"

// Keymap binds one key to each slot for the life of the process.
type Keymap struct {
	keys  [pitch.Slots]rune
	slots map[rune]int
}

// New builds a keymap from exactly pitch.Slots distinct letters or digits,
// in slot order. Letters are case-insensitive.
func New(keys string) (*Keymap, error) {
	if n := utf8.RuneCountInString(keys); n != pitch.Slots {
		return nil, fmt.Errorf("keymap: need %d keys, got %d in %q", pitch.Slots, n, keys)
	}
	km := &Keymap{slots: make(map[rune]int, pitch.Slots)}
	i := 0
	for _, r := range keys {
		r = unicode.ToLower(r)
		if !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') {
			return nil, fmt.Errorf("keymap: key %q is not a letter or digit", r)
		}
		if prev, dup := km.slots[r]; dup {
			return nil, fmt.Errorf("keymap: key %q bound to slots %d and %d", r, prev, i)
		}
		km.keys[i] = r
		km.slots[r] = i
		i++
	}
	return km, nil
}

// Default returns the DefaultKeys layout.
func Default() *Keymap {
	km, err := New(DefaultKeys)
	if err != nil {
		panic(err)
	}
	return km
}

// Slot returns the slot bound to r. Unbound keys report false.
func (k *Keymap) Slot(r rune) (int, bool) {
	s, ok := k.slots[unicode.ToLower(r)]
	return s, ok
}

// Key returns the key bound to slot.
func (k *Keymap) Key(slot int) rune {
	return k.keys[slot]
}

// String returns the keys in slot order.
func (k *Keymap) String() string { return string(k.keys[:]) }
