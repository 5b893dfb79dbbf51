package main

import (
	"os"
	"time"

	"github.com/ingyamilmolinar/polytone/core/synth"
	"github.com/ingyamilmolinar/polytone/internal/audio"
	game_log "github.com/ingyamilmolinar/polytone/internal/log"
)

// main plays A4 for a second, then A4 with C#5 and E5, through the default
// device. It is a manual check that the sink opens and sounds clean.
func main() {
	logger := game_log.New(os.Stderr, game_log.LevelDebug)
	voices := synth.NewVoices()
	out, err := audio.Open(voices, audio.Options{SampleRate: 48000, ChannelCount: 2, BufferSize: 20 * time.Millisecond}, logger, nil)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	defer out.Close()

	voices.NoteOn(0)
	time.Sleep(time.Second)
	voices.NoteOn(4)
	voices.NoteOn(7)
	time.Sleep(time.Second)
	voices.ReleaseAll()
	time.Sleep(100 * time.Millisecond)
}
