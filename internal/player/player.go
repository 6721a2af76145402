// package player launches and supervises an external audio player process
// for the radio stream, and mirrors the current track over MPRIS so desktop
// media controls pick it up.
package player

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ripcast/internal/shared"
)

// Player wraps a single external playback process (mpv by default).
type Player struct {
	command string
	args    []string
	logger  *log.Logger

	mu   sync.Mutex
	cmd  *exec.Cmd
	stop context.CancelFunc
}

func New(command string, args []string, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.Default()
	}
	return &Player{command: command, args: args, logger: logger}
}

// Start launches the player against the stream URL. A missing binary is
// reported as [shared.ErrPlayerUnavailable] so callers can degrade to
// metadata-only mode.
func (p *Player) Start(ctx context.Context, streamURL string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil {
		return fmt.Errorf("%w: player already running", shared.ErrInvalidInput)
	}

	if _, err := exec.LookPath(p.command); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", shared.ErrPlayerUnavailable, p.command)
	}

	playCtx, cancel := context.WithCancel(ctx)
	args := append(append([]string{}, p.args...), streamURL)
	cmd := exec.CommandContext(playCtx, p.command, args...)

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("%w: failed to start %s: %v", shared.ErrPlayerUnavailable, p.command, err)
	}

	p.cmd = cmd
	p.stop = cancel
	p.logger.Debug("started player", "command", p.command, "pid", cmd.Process.Pid)

	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.cmd = nil
		p.stop = nil
		p.mu.Unlock()
		if err != nil && playCtx.Err() == nil {
			p.logger.Warn("player exited", "command", p.command, "error", err)
		}
	}()

	return nil
}

// Stop terminates the playback process if one is running.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		p.stop()
		p.stop = nil
	}
}

// Running reports whether a playback process is currently alive.
func (p *Player) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cmd != nil
}
