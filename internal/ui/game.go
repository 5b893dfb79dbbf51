package ui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/ingyamilmolinar/polytone/core/engine"
	"github.com/ingyamilmolinar/polytone/core/keymap"
	"github.com/ingyamilmolinar/polytone/core/pitch"
	"github.com/ingyamilmolinar/polytone/core/synth"
	game_log "github.com/ingyamilmolinar/polytone/internal/log"
)

const (
	screenW = 320
	screenH = 240
)

// Game turns window key presses into key changes. It implements ebiten.Game.
type Game struct {
	keymap   *keymap.Keymap
	keys     [pitch.Slots]ebiten.Key
	held     [pitch.Slots]bool
	send     func(engine.KeyChanged) bool
	snapshot func() []synth.Note
	stop     <-chan struct{}
	logger   *game_log.Logger
}

// New builds the window front end. send delivers key changes, snapshot
// feeds the on-screen note list and stop ends the game when closed.
func New(km *keymap.Keymap, send func(engine.KeyChanged) bool, snapshot func() []synth.Note, stop <-chan struct{}, logger *game_log.Logger) *Game {
	g := &Game{
		keymap:   km,
		send:     send,
		snapshot: snapshot,
		stop:     stop,
		logger:   logger,
	}
	for slot := range g.keys {
		k, ok := keyFor(km.Key(slot))
		if !ok {
			panic(fmt.Sprintf("ui: key %q has no window binding", km.Key(slot)))
		}
		g.keys[slot] = k
	}
	return g
}

// Run opens the window and blocks until it closes. It must be called from
// the main goroutine.
func Run(g *Game) error {
	ebiten.SetWindowSize(screenW*2, screenH*2)
	ebiten.SetWindowTitle("polytone")
	ebiten.SetRunnableOnUnfocused(true)
	return ebiten.RunGame(g)
}

func (g *Game) Update() error {
	select {
	case <-g.stop:
		g.releaseAll()
		return ebiten.Termination
	default:
	}
	if isWindowBeingClosed() {
		g.releaseAll()
		return ebiten.Termination
	}
	if !isFocused() {
		// key-ups are not delivered to an unfocused window
		g.releaseAll()
		return nil
	}
	for slot, k := range g.keys {
		switch {
		case isKeyJustPressed(k):
			g.held[slot] = true
			g.send(engine.KeyChanged{Slot: slot, Pressed: true})
		case isKeyJustReleased(k) && g.held[slot]:
			g.held[slot] = false
			g.send(engine.KeyChanged{Slot: slot, Pressed: false})
		}
	}
	return nil
}

func (g *Game) releaseAll() {
	for slot, on := range g.held {
		if on {
			g.logger.Debugf("[UI] releasing held %s", pitch.Name(slot))
			g.held[slot] = false
			g.send(engine.KeyChanged{Slot: slot, Pressed: false})
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, g.status())
}

func (g *Game) status() string {
	var b strings.Builder
	b.WriteString("polytone\n\n")
	for slot := 0; slot < pitch.Slots; slot++ {
		mark := " "
		if g.held[slot] {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %c  %-3s %4.0f Hz\n", mark, unicode.ToUpper(g.keymap.Key(slot)), pitch.Name(slot), pitch.Frequency(slot))
	}
	b.WriteString("\nsounding: ")
	b.WriteString(engine.Describe(g.snapshot()))
	return b.String()
}

func (g *Game) Layout(w, h int) (int, int) {
	return screenW, screenH
}
