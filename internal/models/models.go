package models

import "github.com/desertthunder/ripcast/internal/shared"

// Playlist is the latest snapshot of a playlist download, keyed by PlaylistID.
//
// Status values are opaque strings assigned by the server ("resolving",
// "downloading", "completed", "failed", ...).
type Playlist struct {
	PlaylistID      string  `json:"playlist_id"`
	Name            string  `json:"playlist_name"`
	Status          string  `json:"status"`
	TotalTracks     int     `json:"total_tracks"`
	FoundTracks     int     `json:"found_tracks"`
	CompletedTracks int     `json:"completed_tracks"`
	FailedTracks    int     `json:"failed_tracks"`
	Timestamp       float64 `json:"timestamp,omitempty"`
}

// Progress returns the completion percentage for the playlist.
// A playlist with zero total tracks reports 0.
func (p Playlist) Progress() float64 {
	if p.TotalTracks == 0 {
		return 0
	}
	return float64(p.CompletedTracks) / float64(p.TotalTracks) * 100
}

// Track is the latest snapshot of a single track download, keyed by TrackID.
type Track struct {
	TrackID      string  `json:"track_id"`
	PlaylistID   string  `json:"playlist_id"`
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	Status       string  `json:"status"`
	Progress     float64 `json:"progress"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Timestamp    float64 `json:"timestamp,omitempty"`
}

// Downloading reports whether the track should display a progress bar.
// Stored progress for any other status is ignored by renderers.
func (t Track) Downloading() bool {
	return t.Status == "downloading"
}

// NowPlaying holds the metadata extracted from the selected Icecast source.
type NowPlaying struct {
	Artist            string
	Title             string
	Album             string
	Listeners         int
	Bitrate           int
	ServerName        string
	ServerDescription string
}

// Key returns the lowercased "artist|title" composite used for track
// identity comparison across polls.
func (n NowPlaying) Key() string {
	return shared.NormalizeTrackKey(n.Artist, n.Title)
}

// DisplayArtist returns the artist with the known upstream entity quirks undone.
func (n NowPlaying) DisplayArtist() string {
	return shared.UnescapeMeta(n.Artist)
}

// DisplayTitle returns the title with the known upstream entity quirks undone.
func (n NowPlaying) DisplayTitle() string {
	return shared.UnescapeMeta(n.Title)
}
