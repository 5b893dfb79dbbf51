//go:build !windows

package console

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	game_log "github.com/ingyamilmolinar/polytone/internal/log"
)

// Host reads raw stdin and feeds each byte to a Toggler.
type Host struct {
	toggler      *Toggler
	logger       *game_log.Logger
	stopCh       chan struct{}
	done         chan struct{}
	quit         chan struct{}
	stopped      sync.Once
	quitOnce     sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

func NewHost(toggler *Toggler, logger *game_log.Logger) *Host {
	return &Host{
		toggler: toggler,
		logger:  logger,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		quit:    make(chan struct{}),
	}
}

// Start puts stdin in raw, non-blocking mode and begins reading in a
// goroutine. Call Stop to restore the terminal.
func (h *Host) Start() error {
	h.fd = int(os.Stdin.Fd())
	if !term.IsTerminal(h.fd) {
		close(h.done)
		return fmt.Errorf("console: stdin is not a terminal")
	}

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return fmt.Errorf("console: raw mode: %w", err)
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return fmt.Errorf("console: nonblocking stdin: %w", err)
	}
	h.nonblockSet = true
	h.logger.Infof("[CONSOLE] keys %s toggle notes, Esc quits", h.toggler.keymap)

	go h.loop()
	return nil
}

func (h *Host) loop() {
	defer close(h.done)
	buf := make([]byte, 1)
	for {
		select {
		case <-h.stopCh:
			return
		default:
		}

		n, err := syscall.Read(h.fd, buf)
		if n > 0 && h.toggler.HandleByte(buf[0]) {
			h.quitOnce.Do(func() { close(h.quit) })
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			h.logger.Errorf("[CONSOLE] read stdin: %v", err)
			h.quitOnce.Do(func() { close(h.quit) })
			return
		}
	}
}

// Quit is closed when the user asks to leave.
func (h *Host) Quit() <-chan struct{} { return h.quit }

// Stop ends the reader, releases toggled notes and restores the terminal.
func (h *Host) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	h.toggler.ReleaseAll()
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
