package progress

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestFrameReader(t *testing.T) {
	t.Run("Named Events", func(t *testing.T) {
		stream := "event: playlist_update\ndata: {\"playlist_id\":\"pl1\"}\n\n" +
			"event: track_update\ndata: {\"track_id\":\"t1\"}\n\n"

		frames := newFrameReader(strings.NewReader(stream))

		first, err := frames.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first.name != "playlist_update" || first.data != `{"playlist_id":"pl1"}` {
			t.Errorf("unexpected frame: %+v", first)
		}

		second, err := frames.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if second.name != "track_update" {
			t.Errorf("unexpected frame: %+v", second)
		}

		if _, err := frames.Next(); err != io.EOF {
			t.Errorf("expected EOF, got %v", err)
		}
	})

	t.Run("Keepalives Ignored", func(t *testing.T) {
		stream := ": keepalive\n\n: keepalive\n\nevent: track_update\ndata: {}\n\n"

		frames := newFrameReader(strings.NewReader(stream))
		frame, err := frames.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if frame.name != "track_update" {
			t.Errorf("expected track_update, got %q", frame.name)
		}
	})

	t.Run("Multiline Data", func(t *testing.T) {
		stream := "event: track_update\ndata: line1\ndata: line2\n\n"

		frames := newFrameReader(strings.NewReader(stream))
		frame, err := frames.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if frame.data != "line1\nline2" {
			t.Errorf("expected joined data, got %q", frame.data)
		}
	})
}

func TestSubscriber(t *testing.T) {
	quiet := log.New(io.Discard)

	t.Run("Dispatches In Order", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Accept") != "text/event-stream" {
				t.Errorf("missing Accept header, got %q", r.Header.Get("Accept"))
			}
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, "event: connection\ndata: {\"status\":\"connected\"}\n\n")
			fmt.Fprint(w, "event: playlist_update\ndata: {\"playlist_id\":\"pl1\",\"playlist_name\":\"Mix\",\"status\":\"downloading\"}\n\n")
			fmt.Fprint(w, "event: track_update\ndata: {\"track_id\":\"t1\",\"playlist_id\":\"pl1\",\"title\":\"A\"}\n\n")
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		sub := NewSubscriber(server.URL, nil, quiet)
		go sub.Run(ctx)

		var got []EventKind
		for ev := range sub.Events() {
			got = append(got, ev.Kind)
			if ev.Kind == EventPlaylist && ev.Playlist.Name != "Mix" {
				t.Errorf("unexpected playlist payload: %+v", ev.Playlist)
			}
			if len(got) == 3 {
				break
			}
		}
		cancel()

		want := []EventKind{EventConnected, EventPlaylist, EventTrack}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("event %d: got kind %d, want %d", i, got[i], want[i])
			}
		}
	})

	t.Run("Malformed JSON Skipped", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, "event: playlist_update\ndata: {not json}\n\n")
			fmt.Fprint(w, "event: track_update\ndata: {\"track_id\":\"t1\"}\n\n")
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		sub := NewSubscriber(server.URL, nil, quiet)
		go sub.Run(ctx)

		var kinds []EventKind
		for ev := range sub.Events() {
			kinds = append(kinds, ev.Kind)
			if ev.Kind == EventTrack {
				break
			}
		}
		cancel()

		for _, k := range kinds {
			if k == EventPlaylist {
				t.Error("malformed playlist event should have been skipped")
			}
		}
	})

	t.Run("Reconnects After Drop", func(t *testing.T) {
		var connects int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			connects++
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, "event: track_update\ndata: {\"track_id\":\"t1\"}\n\n")
			// handler returns, closing the stream
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sub := NewSubscriber(server.URL, nil, quiet)
		go sub.Run(ctx)

		// connected, track, disconnected, then (after ~1s backoff) connected again
		var sawReconnect bool
		var disconnected bool
		for ev := range sub.Events() {
			if ev.Kind == EventDisconnected {
				disconnected = true
			}
			if disconnected && ev.Kind == EventConnected {
				sawReconnect = true
				break
			}
		}
		cancel()

		if !sawReconnect {
			t.Error("subscriber should reconnect after stream drop")
		}
		if connects < 2 {
			t.Errorf("expected at least 2 connections, got %d", connects)
		}
	})
}
