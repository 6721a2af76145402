package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/desertthunder/ripcast/internal/formatter"
	"github.com/desertthunder/ripcast/internal/models"
	"github.com/desertthunder/ripcast/internal/progress"
)

func newTestMonitor() *MonitorModel {
	events := make(chan progress.Event)
	return NewMonitorModel(context.Background(), progress.NewStore(), events, nil)
}

func TestMonitorApplyEvent(t *testing.T) {
	m := newTestMonitor()

	m.applyEvent(progress.Event{Kind: progress.EventConnected})
	if !m.connected {
		t.Error("expected connected after EventConnected")
	}

	m.applyEvent(progress.Event{Kind: progress.EventPlaylist, Playlist: &models.Playlist{
		PlaylistID: "pl1", Name: "Mix", Status: "downloading", TotalTracks: 3,
	}})
	if playlists, _ := m.store.Len(); playlists != 1 {
		t.Errorf("expected 1 playlist in store, got %d", playlists)
	}

	m.applyEvent(progress.Event{Kind: progress.EventDisconnected})
	if m.connected {
		t.Error("expected disconnected after EventDisconnected")
	}
}

func TestMonitorView(t *testing.T) {
	t.Run("Empty State", func(t *testing.T) {
		m := newTestMonitor()
		if !strings.Contains(m.View(), formatter.Placeholder) {
			t.Error("empty store should render the placeholder")
		}
	})

	t.Run("Reconnecting Indicator", func(t *testing.T) {
		m := newTestMonitor()
		view := m.View()
		if !strings.Contains(view, "reconnecting") {
			t.Error("disconnected model should show reconnecting indicator")
		}

		m.applyEvent(progress.Event{Kind: progress.EventConnected})
		if !strings.Contains(m.View(), "connected") {
			t.Error("connected model should show connected indicator")
		}
	})
}

func TestNoticeSequencing(t *testing.T) {
	m := newTestMonitor()

	m.setNotice("first", false)
	m.setNotice("second", true)

	// the first notice's timer fires late; it must not clear the newer notice
	m.Update(noticeExpiredMsg{seq: 1})
	if m.notice != "second" {
		t.Errorf("stale expiry cleared active notice, got %q", m.notice)
	}

	m.Update(noticeExpiredMsg{seq: 2})
	if m.notice != "" {
		t.Errorf("expected notice cleared, got %q", m.notice)
	}
}

func TestSubmitValidation(t *testing.T) {
	m := newTestMonitor()
	m.formActive = true

	cmd := m.submit()
	if cmd == nil {
		t.Fatal("expected a notice expiry command")
	}
	if m.notice != "Please enter a playlist URL" || !m.noticeErr {
		t.Errorf("expected local validation notice, got %q (err=%v)", m.notice, m.noticeErr)
	}
}
