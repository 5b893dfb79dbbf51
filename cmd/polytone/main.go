package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ingyamilmolinar/polytone/core/engine"
	"github.com/ingyamilmolinar/polytone/core/keymap"
	"github.com/ingyamilmolinar/polytone/core/synth"
	"github.com/ingyamilmolinar/polytone/internal/audio"
	"github.com/ingyamilmolinar/polytone/internal/config"
	"github.com/ingyamilmolinar/polytone/internal/console"
	game_log "github.com/ingyamilmolinar/polytone/internal/log"
	"github.com/ingyamilmolinar/polytone/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Parse(args, os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	logger := game_log.New(os.Stderr, game_log.LevelFromString(cfg.LogLevel))
	if err != nil {
		logger.Errorf("%v", err)
		return 1
	}
	km, err := keymap.New(cfg.Keys)
	if err != nil {
		logger.Errorf("%v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	voices := synth.NewVoices()
	eng := engine.New(voices, logger, nil)

	// device failures end the session; there is no in-band recovery
	failed := make(chan error, 1)
	out, err := audio.Open(voices, audio.Options{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.ChannelCount,
		BufferSize:   cfg.BufferSize,
	}, logger, func(err error) {
		select {
		case failed <- err:
		default:
		}
		stop()
	})
	if err != nil {
		eng.Close()
		logger.Errorf("%v", err)
		return 1
	}

	code := 0
	switch cfg.Frontend {
	case config.FrontendWindow:
		g := ui.New(km, eng.Send, voices.Snapshot, ctx.Done(), logger)
		if err := ui.Run(g); err != nil {
			logger.Errorf("[UI] %v", err)
			code = 1
		}
	case config.FrontendTerm:
		host := console.NewHost(console.NewToggler(km, eng.Send, logger), logger)
		if err := host.Start(); err != nil {
			logger.Errorf("%v", err)
			code = 1
			break
		}
		select {
		case <-host.Quit():
		case <-ctx.Done():
		}
		host.Stop()
	}

	if err := out.Close(); err != nil {
		logger.Warnf("[AUDIO] close: %v", err)
	}
	eng.Close()

	select {
	case err := <-failed:
		logger.Errorf("stopped after audio failure: %v", err)
		return 1
	default:
	}
	return code
}
