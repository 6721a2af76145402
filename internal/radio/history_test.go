package radio

import (
	"fmt"
	"testing"

	"github.com/desertthunder/ripcast/internal/models"
)

func TestHistory(t *testing.T) {
	t.Run("First Observation Is A Change", func(t *testing.T) {
		h := NewHistory(20)

		if !h.Observe(models.NowPlaying{Artist: "A", Title: "One"}) {
			t.Error("first observation should be a change")
		}
		if h.Current() == nil || h.Current().Title != "One" {
			t.Errorf("unexpected current: %+v", h.Current())
		}
		if len(h.Past()) != 0 {
			t.Errorf("first track should not create history, got %d entries", len(h.Past()))
		}
	})

	t.Run("Duplicate Polls Are No-Ops", func(t *testing.T) {
		h := NewHistory(20)
		h.Observe(models.NowPlaying{Artist: "A", Title: "One"})

		if h.Observe(models.NowPlaying{Artist: "A", Title: "One"}) {
			t.Error("repeated identical poll should not be a change")
		}
		if h.Observe(models.NowPlaying{Artist: "a", Title: "ONE"}) {
			t.Error("composite key comparison should be case-insensitive")
		}
		if len(h.Past()) != 0 {
			t.Errorf("duplicates must not push history, got %d entries", len(h.Past()))
		}
	})

	t.Run("Change Pushes Previous Track", func(t *testing.T) {
		h := NewHistory(20)
		h.Observe(models.NowPlaying{Artist: "A", Title: "One"})

		if !h.Observe(models.NowPlaying{Artist: "A", Title: "Two"}) {
			t.Error("new title should be a change")
		}

		past := h.Past()
		if len(past) != 1 || past[0].Title != "One" {
			t.Fatalf("expected previous track at history head, got %+v", past)
		}
		if h.Current().Title != "Two" {
			t.Errorf("current should be the new track, got %+v", h.Current())
		}
	})

	t.Run("Bounded At Limit FIFO", func(t *testing.T) {
		h := NewHistory(20)

		for i := 0; i < 30; i++ {
			h.Observe(models.NowPlaying{Artist: "A", Title: fmt.Sprintf("Track %02d", i)})
		}

		past := h.Past()
		if len(past) != 20 {
			t.Fatalf("history should hold 20 entries, got %d", len(past))
		}
		// most recent previous track first, oldest dropped from the tail
		if past[0].Title != "Track 28" {
			t.Errorf("head should be the most recent previous track, got %s", past[0].Title)
		}
		if past[19].Title != "Track 09" {
			t.Errorf("tail should be the 20th most recent, got %s", past[19].Title)
		}
	})

	t.Run("No Consecutive Duplicate Heads", func(t *testing.T) {
		h := NewHistory(20)
		h.Observe(models.NowPlaying{Artist: "A", Title: "One"})
		h.Observe(models.NowPlaying{Artist: "A", Title: "Two"})
		h.Observe(models.NowPlaying{Artist: "A", Title: "One"})
		h.Observe(models.NowPlaying{Artist: "A", Title: "Two"})

		past := h.Past()
		for i := 1; i < len(past); i++ {
			if past[i].Key() == past[i-1].Key() {
				t.Errorf("consecutive history entries share a key at %d: %+v", i, past)
			}
		}
	})

	t.Run("Default Limit", func(t *testing.T) {
		h := NewHistory(0)
		for i := 0; i < 40; i++ {
			h.Observe(models.NowPlaying{Artist: "A", Title: fmt.Sprintf("%d", i)})
		}
		if len(h.Past()) != DefaultHistoryLimit {
			t.Errorf("expected default limit %d, got %d", DefaultHistoryLimit, len(h.Past()))
		}
	})
}
