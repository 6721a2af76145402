package progress

import (
	"sort"
	"sync"

	"github.com/desertthunder/ripcast/internal/models"
)

// Store holds the latest snapshot of every playlist and track seen on the
// event stream. Records are replaced wholesale on each update and never
// deleted; the store lives as long as the process.
type Store struct {
	mu        sync.RWMutex
	playlists map[string]models.Playlist
	tracks    map[string]models.Track
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		playlists: make(map[string]models.Playlist),
		tracks:    make(map[string]models.Track),
	}
}

// Apply merges an event into the store. Status events are ignored.
func (s *Store) Apply(ev Event) {
	switch ev.Kind {
	case EventPlaylist:
		if ev.Playlist != nil {
			s.ApplyPlaylist(*ev.Playlist)
		}
	case EventTrack:
		if ev.Track != nil {
			s.ApplyTrack(*ev.Track)
		}
	}
}

// ApplyPlaylist replaces the stored snapshot for the playlist's id.
func (s *Store) ApplyPlaylist(p models.Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists[p.PlaylistID] = p
}

// ApplyTrack replaces the stored snapshot for the track's id.
func (s *Store) ApplyTrack(t models.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks[t.TrackID] = t
}

// Playlists returns all playlist snapshots sorted by name for stable output.
func (s *Store) Playlists() []models.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Playlist, 0, len(s.playlists))
	for _, p := range s.playlists {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].PlaylistID < out[j].PlaylistID
	})
	return out
}

// TracksFor returns the tracks belonging to a playlist, sorted by title
// (case-sensitive lexicographic order).
func (s *Store) TracksFor(playlistID string) []models.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Track
	for _, t := range s.tracks {
		if t.PlaylistID == playlistID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].TrackID < out[j].TrackID
	})
	return out
}

// Len reports the number of stored playlists and tracks.
func (s *Store) Len() (playlists, tracks int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.playlists), len(s.tracks)
}
