package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var (
	isKeyJustPressed    = inpututil.IsKeyJustPressed
	isKeyJustReleased   = inpututil.IsKeyJustReleased
	isFocused           = ebiten.IsFocused
	isWindowBeingClosed = ebiten.IsWindowBeingClosed
)

// SetInputForTest replaces input functions during tests and returns a function
// to restore the originals.
func SetInputForTest(
	pressed func(ebiten.Key) bool,
	released func(ebiten.Key) bool,
	focused func() bool,
	closing func() bool,
) func() {
	oldPressed := isKeyJustPressed
	oldReleased := isKeyJustReleased
	oldFocused := isFocused
	oldClosing := isWindowBeingClosed
	isKeyJustPressed = pressed
	isKeyJustReleased = released
	isFocused = focused
	isWindowBeingClosed = closing
	return func() {
		isKeyJustPressed = oldPressed
		isKeyJustReleased = oldReleased
		isFocused = oldFocused
		isWindowBeingClosed = oldClosing
	}
}

// keyFor maps a keymap rune to its physical ebiten key.
func keyFor(r rune) (ebiten.Key, bool) {
	switch {
	case 'a' <= r && r <= 'z':
		return letterKeys[r-'a'], true
	case '0' <= r && r <= '9':
		return digitKeys[r-'0'], true
	}
	return 0, false
}

var letterKeys = [26]ebiten.Key{
	ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF,
	ebiten.KeyG, ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL,
	ebiten.KeyM, ebiten.KeyN, ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR,
	ebiten.KeyS, ebiten.KeyT, ebiten.KeyU, ebiten.KeyV, ebiten.KeyW, ebiten.KeyX,
	ebiten.KeyY, ebiten.KeyZ,
}

var digitKeys = [10]ebiten.Key{
	ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}
