package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/ingyamilmolinar/polytone/core/keymap"
	game_log "github.com/ingyamilmolinar/polytone/internal/log"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

const (
	FrontendWindow = "window"
	FrontendTerm   = "term"
)

// Config is everything the process needs to start.
type Config struct {
	SampleRate   int
	ChannelCount int
	BufferSize   time.Duration
	LogLevel     string
	Frontend     string
	Keys         string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SampleRate:   48000,
		ChannelCount: 2,
		BufferSize:   20 * time.Millisecond,
		LogLevel:     "INFO",
		Frontend:     FrontendWindow,
		Keys:         keymap.DefaultKeys,
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalid, c.SampleRate)
	case c.ChannelCount <= 0:
		return fmt.Errorf("%w: channel count %d", ErrInvalid, c.ChannelCount)
	case c.BufferSize <= 0:
		return fmt.Errorf("%w: buffer size %v", ErrInvalid, c.BufferSize)
	case c.Frontend != FrontendWindow && c.Frontend != FrontendTerm:
		return fmt.Errorf("%w: frontend %q (want %q or %q)", ErrInvalid, c.Frontend, FrontendWindow, FrontendTerm)
	}
	if _, err := game_log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := keymap.New(c.Keys); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Parse builds a Config from defaults, then the Lua file named by -config,
// then the remaining flags. flag.ErrHelp is returned after usage is
// printed to out.
func Parse(args []string, out io.Writer) (Config, error) {
	var (
		path     string
		rate     int
		channels int
		bufferMS int
		level    string
		frontend string
		keys     string
	)
	def := Default()

	fs := flag.NewFlagSet("polytone", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "Lua config file")
	fs.IntVar(&rate, "rate", def.SampleRate, "sample rate in Hz")
	fs.IntVar(&channels, "channels", def.ChannelCount, "output channel count")
	fs.IntVar(&bufferMS, "buffer-ms", int(def.BufferSize/time.Millisecond), "device buffer in milliseconds")
	fs.StringVar(&level, "log-level", def.LogLevel, "DEBUG, INFO, WARN, ERROR or NONE")
	fs.StringVar(&frontend, "frontend", def.Frontend, "window or term")
	fs.StringVar(&keys, "keys", def.Keys, "12 keys in slot order, lowest note first")
	fs.Usage = func() {
		fs.SetOutput(out)
		fmt.Fprintln(out, "Usage: polytone [-config file.lua] [flags]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("%w: unexpected argument %q", ErrInvalid, fs.Arg(0))
	}

	cfg := def
	if path != "" {
		if err := LoadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rate":
			cfg.SampleRate = rate
		case "channels":
			cfg.ChannelCount = channels
		case "buffer-ms":
			cfg.BufferSize = time.Duration(bufferMS) * time.Millisecond
		case "log-level":
			cfg.LogLevel = level
		case "frontend":
			cfg.Frontend = frontend
		case "keys":
			cfg.Keys = keys
		}
	})
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
