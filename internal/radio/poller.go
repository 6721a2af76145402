package radio

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ripcast/internal/models"
	"github.com/desertthunder/ripcast/internal/shared"
)

// MetadataSource abstracts the Icecast client for the poller.
type MetadataSource interface {
	NowPlaying(ctx context.Context, mount string) (*models.NowPlaying, error)
}

// Poller fetches now-playing metadata on a fixed interval, with one
// immediate poll at startup. Polls run synchronously in a single goroutine,
// so overlapping polls cannot race on downstream state; a failed poll is
// logged and simply waits for the next tick. No jitter, no backoff.
type Poller struct {
	source   MetadataSource
	mount    string
	interval time.Duration
	logger   *log.Logger
	updates  chan models.NowPlaying
}

// NewPoller creates a Poller. A non-positive interval falls back to 5s.
func NewPoller(source MetadataSource, mount string, interval time.Duration, logger *log.Logger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Poller{
		source:   source,
		mount:    mount,
		interval: interval,
		logger:   logger,
		updates:  make(chan models.NowPlaying, 8),
	}
}

// Updates returns the channel carrying successful metadata results.
// Polls that fail or carry no metadata produce nothing.
func (p *Poller) Updates() <-chan models.NowPlaying {
	return p.updates
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	defer close(p.updates)

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	np, err := p.source.NowPlaying(ctx, p.mount)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("metadata poll failed", "error", err)
		}
		return
	}
	if np == nil {
		return
	}

	select {
	case p.updates <- *np:
	case <-ctx.Done():
	}
}
