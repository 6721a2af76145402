package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// CachedCover is one cover-art cache entry. Negative lookups are cached too
// (Found false, empty URL) so repeated misses skip the network.
type CachedCover struct {
	CoverURL string
	Found    bool
}

// CoverCache persists cover-art lookup results keyed by the lowercased
// "artist|title" composite.
type CoverCache struct {
	db *sql.DB
}

// NewCoverCache creates a CoverCache backed by the given database.
func NewCoverCache(db *sql.DB) *CoverCache {
	return &CoverCache{db: db}
}

// Get returns the cached entry for a lookup key, or nil on a cache miss.
func (c *CoverCache) Get(key string) (*CachedCover, error) {
	var entry CachedCover
	err := c.db.QueryRow(
		"SELECT cover_url, found FROM cover_cache WHERE lookup_key = ?", key,
	).Scan(&entry.CoverURL, &entry.Found)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cover cache: %w", err)
	}
	return &entry, nil
}

// Put stores (or replaces) the entry for a lookup key.
func (c *CoverCache) Put(key string, entry CachedCover) error {
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO cover_cache (lookup_key, cover_url, found) VALUES (?, ?, ?)",
		key, entry.CoverURL, entry.Found,
	)
	if err != nil {
		return fmt.Errorf("failed to write cover cache: %w", err)
	}
	return nil
}

// Clear removes every cached entry and returns the number deleted.
func (c *CoverCache) Clear() (int64, error) {
	res, err := c.db.Exec("DELETE FROM cover_cache")
	if err != nil {
		return 0, fmt.Errorf("failed to clear cover cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted rows: %w", err)
	}
	return n, nil
}
