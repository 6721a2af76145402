package radio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseStatus(t *testing.T) {
	t.Run("Single Source Object", func(t *testing.T) {
		doc := `{"icestats":{"source":{"artist":"Aphex Twin","title":"Xtal","album":"SAW 85-92","listeners":7,"bitrate":320,"server_name":"ripcast radio","listenurl":"http://localhost:8000/radio.ogg"}}}`

		np, err := ParseStatus([]byte(doc), "/radio.ogg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if np == nil {
			t.Fatal("expected metadata")
		}
		if np.Artist != "Aphex Twin" || np.Title != "Xtal" {
			t.Errorf("unexpected metadata: %+v", np)
		}
		if np.Listeners != 7 || np.Bitrate != 320 {
			t.Errorf("unexpected listener/bitrate values: %+v", np)
		}
	})

	t.Run("Mount Match Wins Regardless Of Order", func(t *testing.T) {
		doc := `{"icestats":{"source":[
			{"title":"Wrong","listenurl":"http://localhost:8000/other.ogg"},
			{"title":"Right","artist":"A","listenurl":"http://localhost:8000/radio.ogg"}
		]}}`

		np, err := ParseStatus([]byte(doc), "/radio.ogg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if np == nil || np.Title != "Right" {
			t.Fatalf("expected the matching mount's metadata, got %+v", np)
		}
	})

	t.Run("No Mount Match Falls Back To First", func(t *testing.T) {
		doc := `{"icestats":{"source":[
			{"title":"First","listenurl":"http://localhost:8000/a.ogg"},
			{"title":"Second","listenurl":"http://localhost:8000/b.ogg"}
		]}}`

		np, err := ParseStatus([]byte(doc), "/missing.ogg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if np == nil || np.Title != "First" {
			t.Fatalf("expected first source, got %+v", np)
		}
	})

	t.Run("Empty Title Means No Metadata", func(t *testing.T) {
		doc := `{"icestats":{"source":{"artist":"Someone","title":"","listenurl":"http://localhost:8000/radio.ogg"}}}`

		np, err := ParseStatus([]byte(doc), "/radio.ogg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if np != nil {
			t.Errorf("empty title should yield nil, got %+v", np)
		}
	})

	t.Run("Missing Source", func(t *testing.T) {
		np, err := ParseStatus([]byte(`{"icestats":{}}`), "/radio.ogg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if np != nil {
			t.Errorf("missing source should yield nil, got %+v", np)
		}
	})

	t.Run("Blank Artist Defaults", func(t *testing.T) {
		doc := `{"icestats":{"source":{"title":"Untitled"}}}`

		np, err := ParseStatus([]byte(doc), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if np == nil || np.Artist != "Unknown Artist" {
			t.Fatalf("expected Unknown Artist default, got %+v", np)
		}
	})

	t.Run("String Listeners And Bitrate", func(t *testing.T) {
		doc := `{"icestats":{"source":{"title":"T","listeners":"12","bitrate":"192"}}}`

		np, err := ParseStatus([]byte(doc), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if np.Listeners != 12 || np.Bitrate != 192 {
			t.Errorf("string numbers should parse, got %+v", np)
		}
	})

	t.Run("Malformed Document", func(t *testing.T) {
		if _, err := ParseStatus([]byte("not json"), ""); err == nil {
			t.Error("expected error for malformed document")
		}
	})
}

func TestClient(t *testing.T) {
	t.Run("NowPlaying", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/status-json.xsl" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(`{"icestats":{"source":{"artist":"A","title":"T","listenurl":"http://x/radio.ogg"}}}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		np, err := client.NowPlaying(context.Background(), "/radio.ogg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if np == nil || np.Title != "T" {
			t.Fatalf("unexpected result: %+v", np)
		}
	})

	t.Run("Non-200 Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		if _, err := client.NowPlaying(context.Background(), ""); err == nil {
			t.Error("expected error for non-200 response")
		}
	})
}
