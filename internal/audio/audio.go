// Package audio plays the reminder notification sound: a background
// goroutine owning the host's audio output, fed through a bounded channel
// so Play never blocks the scheduler. Playback shells out to the
// platform's own sound player (afplay/paplay/PowerShell) rather than
// binding an audio device in-process.
package audio

import (
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/kalo-labs/hkb/internal/hkbpath"
)

const queueDepth = 8

// Player owns the host's audio output and plays one file at a time. The
// zero value is not usable; construct with New.
type Player struct {
	logger *slog.Logger
	reqs   chan string
}

// New starts the background player goroutine.
func New(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Player{logger: logger, reqs: make(chan string, queueDepth)}
	go p.run()
	return p
}

// Play enqueues path for playback and returns immediately. Relative paths
// resolve under the user's sound directory. A full queue drops the request
// and logs a warning rather than blocking the caller.
func (p *Player) Play(path string) {
	resolved := hkbpath.SoundPath(path)
	select {
	case p.reqs <- resolved:
	default:
		p.logger.Warn("audio: output queue full, dropping request", "path", resolved)
	}
}

// Close stops accepting further playback requests. Already-queued sounds
// are allowed to finish.
func (p *Player) Close() {
	close(p.reqs)
}

func (p *Player) run() {
	for path := range p.reqs {
		if err := playFile(path); err != nil {
			p.logger.Error("audio: playback failed", "path", path, "err", err)
		}
	}
}

// playerCommand returns the platform sound-player invocation for path.
func playerCommand(path string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "afplay", []string{path}
	case "windows":
		// PowerShell's SoundPlayer blocks until playback finishes, matching
		// the synchronous contract playFile expects.
		script := "(New-Object Media.SoundPlayer '" + path + "').PlaySync();"
		return "powershell", []string{"-c", script}
	default:
		return "paplay", []string{path}
	}
}

func playFile(path string) error {
	name, args := playerCommand(path)
	return exec.Command(name, args...).Run()
}
