package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ripcast/internal/repositories"
	"github.com/desertthunder/ripcast/internal/services"
	"github.com/desertthunder/ripcast/internal/shared"
)

func TestSubmitEngine(t *testing.T) {
	quiet := log.New(io.Discard)
	ctx := context.Background()

	t.Run("Empty URL Fails Locally", func(t *testing.T) {
		var hits atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		engine := NewSubmitEngine(services.NewAPIService(server.URL, nil), nil, quiet)

		_, err := engine.Submit(ctx, "", "", "")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if hits.Load() != 0 {
			t.Errorf("empty URL must issue zero requests, got %d", hits.Load())
		}
	})

	t.Run("Success Returns Task ID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/spotify" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}

			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body["url"] != "https://open.spotify.com/playlist/abc" {
				t.Errorf("unexpected url %v", body["url"])
			}
			if body["source"] != nil {
				t.Errorf("blank source should marshal as null, got %v", body["source"])
			}
			if body["fallback_source"] != nil {
				t.Errorf("blank fallback should marshal as null, got %v", body["fallback_source"])
			}

			w.Write([]byte(`{"task_id":"task-42","status":"started"}`))
		}))
		defer server.Close()

		engine := NewSubmitEngine(services.NewAPIService(server.URL, nil), nil, quiet)

		result, err := engine.Submit(ctx, "https://open.spotify.com/playlist/abc", "", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TaskID != "task-42" {
			t.Errorf("expected task-42, got %s", result.TaskID)
		}
	})

	t.Run("Sources Forwarded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			if body["source"] != "qobuz" || body["fallback_source"] != "deezer" {
				t.Errorf("sources not forwarded: %v", body)
			}
			w.Write([]byte(`{"task_id":"t","status":"started"}`))
		}))
		defer server.Close()

		engine := NewSubmitEngine(services.NewAPIService(server.URL, nil), nil, quiet)
		if _, err := engine.Submit(ctx, "https://x", "qobuz", "deezer"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Server Error Message Surfaced", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"unsupported playlist URL"}`))
		}))
		defer server.Close()

		engine := NewSubmitEngine(services.NewAPIService(server.URL, nil), nil, quiet)

		_, err := engine.Submit(ctx, "https://x", "", "")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "unsupported playlist URL") {
			t.Errorf("server message missing from error: %v", err)
		}
	})

	t.Run("Generic Fallback Message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("nope"))
		}))
		defer server.Close()

		engine := NewSubmitEngine(services.NewAPIService(server.URL, nil), nil, quiet)

		_, err := engine.Submit(ctx, "https://x", "", "")
		if err == nil || !strings.Contains(err.Error(), "submission failed") {
			t.Errorf("expected generic fallback message, got %v", err)
		}
	})

	t.Run("Accepted Submission Recorded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"task_id":"task-7","status":"started"}`))
		}))
		defer server.Close()

		db, err := shared.NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
		if err := shared.RunMigrations(db); err != nil {
			t.Fatalf("failed to migrate: %v", err)
		}
		subs := repositories.NewSubmissionLog(db)

		engine := NewSubmitEngine(services.NewAPIService(server.URL, nil), subs, quiet)
		if _, err := engine.Submit(ctx, "https://x", "qobuz", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		recorded, err := subs.List()
		if err != nil {
			t.Fatalf("failed to list submissions: %v", err)
		}
		if len(recorded) != 1 || recorded[0].TaskID != "task-7" {
			t.Errorf("submission not recorded: %+v", recorded)
		}
	})

	t.Run("ActiveDownloads", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/downloads" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(`{"active":["a","b"],"total_clients":1,"total_playlists":2,"total_tracks":30}`))
		}))
		defer server.Close()

		engine := NewSubmitEngine(services.NewAPIService(server.URL, nil), nil, quiet)

		result, err := engine.ActiveDownloads(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Active) != 2 || result.TotalTracks != 30 {
			t.Errorf("unexpected result: %+v", result)
		}
	})
}
