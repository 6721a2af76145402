package progress

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ripcast/internal/models"
	"github.com/desertthunder/ripcast/internal/shared"
)

// EventKind enumerates the events a Subscriber emits.
type EventKind int

const (
	EventConnected EventKind = iota
	EventDisconnected
	EventPlaylist
	EventTrack
)

// Event is the union of connection status changes and decoded stream updates.
type Event struct {
	Kind     EventKind
	Playlist *models.Playlist
	Track    *models.Track
}

// Subscriber maintains a live subscription to the admin service's SSE
// endpoint and reconnects with exponential backoff. Decoded events are
// delivered in arrival order on Events.
type Subscriber struct {
	url     string
	client  *http.Client
	backoff *Backoff
	logger  *log.Logger
	events  chan Event
}

// NewSubscriber creates a Subscriber for the given stream URL.
// The HTTP client defaults to one without a request timeout; SSE responses
// are open-ended so callers must not pass a client with Timeout set.
func NewSubscriber(url string, client *http.Client, logger *log.Logger) *Subscriber {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Subscriber{
		url:     url,
		client:  client,
		backoff: NewBackoff(),
		logger:  logger,
		events:  make(chan Event, 64),
	}
}

// Events returns the channel on which decoded events are delivered.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Run subscribes and keeps the subscription alive until the context is
// cancelled. Each stream failure emits EventDisconnected and schedules one
// reconnection attempt after the current backoff delay; the delay resets to
// its initial value only when a stream opens successfully.
func (s *Subscriber) Run(ctx context.Context) {
	defer close(s.events)

	for {
		err := s.stream(ctx)
		if ctx.Err() != nil {
			return
		}

		s.logger.Warn("event stream dropped", "error", err)
		s.emit(ctx, Event{Kind: EventDisconnected})

		delay := s.backoff.Next()
		s.logger.Debug("scheduling reconnect", "delay", delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
	}
}

// stream opens one SSE connection and pumps frames until it fails.
func (s *Subscriber) stream(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	s.backoff.Reset()
	s.emit(ctx, Event{Kind: EventConnected})
	s.logger.Info("event stream connected", "url", s.url)

	frames := newFrameReader(resp.Body)
	for {
		frame, err := frames.Next()
		if err != nil {
			if err == io.EOF {
				return shared.ErrStreamClosed
			}
			return fmt.Errorf("failed to read stream: %w", err)
		}
		s.dispatch(ctx, frame)
	}
}

// dispatch decodes a frame into a typed event. Malformed payloads are logged
// and skipped so a bad message cannot take the monitor down.
func (s *Subscriber) dispatch(ctx context.Context, frame *rawEvent) {
	switch frame.name {
	case "playlist_update":
		var p models.Playlist
		if err := json.Unmarshal([]byte(frame.data), &p); err != nil {
			s.logger.Warn("skipping malformed playlist event", "error", err)
			return
		}
		s.emit(ctx, Event{Kind: EventPlaylist, Playlist: &p})
	case "track_update":
		var t models.Track
		if err := json.Unmarshal([]byte(frame.data), &t); err != nil {
			s.logger.Warn("skipping malformed track event", "error", err)
			return
		}
		s.emit(ctx, Event{Kind: EventTrack, Track: &t})
	case "connection", "search_update":
		// handshake and search progress events are not rendered
	default:
		s.logger.Debug("ignoring unknown event", "event", frame.name)
	}
}

func (s *Subscriber) emit(ctx context.Context, ev Event) {
	select {
	case s.events <- ev:
	case <-ctx.Done():
	}
}

// rawEvent is a single parsed server-sent-event frame.
type rawEvent struct {
	name string
	data string
}

// frameReader parses the text/event-stream wire format: "event:" and "data:"
// lines accumulate until a blank line dispatches the frame. Comment lines
// (leading ':', used by the server as keepalives) are ignored.
type frameReader struct {
	scanner *bufio.Scanner
}

func newFrameReader(r io.Reader) *frameReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &frameReader{scanner: sc}
}

// Next returns the next complete frame, or io.EOF when the stream ends.
func (f *frameReader) Next() (*rawEvent, error) {
	var name string
	var data []string

	for f.scanner.Scan() {
		line := f.scanner.Text()

		switch {
		case line == "":
			if len(data) > 0 {
				return &rawEvent{name: name, data: strings.Join(data, "\n")}, nil
			}
			name = ""
			data = nil
		case strings.HasPrefix(line, ":"):
			// keepalive comment
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}

	if err := f.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
