package radio

import "github.com/desertthunder/ripcast/internal/models"

// DefaultHistoryLimit bounds the song history when no limit is configured.
const DefaultHistoryLimit = 20

// History tracks the current song and a bounded most-recent-first sequence
// of past songs. Consecutive history entries never share a composite key.
type History struct {
	limit   int
	current *models.NowPlaying
	past    []models.NowPlaying
}

// NewHistory creates a History bounded to limit entries (DefaultHistoryLimit
// when limit is not positive).
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Observe feeds one poll result into the history and reports whether it is
// a genuine track change. Repeated observations of the same composite key
// are no-ops. On a change the previous current track is pushed onto the
// front of the history unless the head already carries the same key, then
// the sequence is truncated to the limit (oldest entries drop first).
func (h *History) Observe(np models.NowPlaying) bool {
	if h.current != nil && h.current.Key() == np.Key() {
		return false
	}

	if h.current != nil {
		if len(h.past) == 0 || h.past[0].Key() != h.current.Key() {
			h.past = append([]models.NowPlaying{*h.current}, h.past...)
			if len(h.past) > h.limit {
				h.past = h.past[:h.limit]
			}
		}
	}

	current := np
	h.current = &current
	return true
}

// Current returns the currently-tracked song, or nil before the first
// observation.
func (h *History) Current() *models.NowPlaying {
	if h.current == nil {
		return nil
	}
	current := *h.current
	return &current
}

// Past returns a copy of the history, most recent first.
func (h *History) Past() []models.NowPlaying {
	out := make([]models.NowPlaying, len(h.past))
	copy(out, h.past)
	return out
}
