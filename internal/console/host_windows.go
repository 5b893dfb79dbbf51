//go:build windows

package console

import (
	"errors"

	game_log "github.com/ingyamilmolinar/polytone/internal/log"
)

// Host is unavailable on Windows; use the window frontend.
type Host struct {
	toggler *Toggler
	quit    chan struct{}
}

func NewHost(toggler *Toggler, logger *game_log.Logger) *Host {
	return &Host{toggler: toggler, quit: make(chan struct{})}
}

func (h *Host) Start() error {
	return errors.New("console: terminal frontend is not supported on windows")
}

func (h *Host) Quit() <-chan struct{} { return h.quit }

func (h *Host) Stop() { h.toggler.ReleaseAll() }
