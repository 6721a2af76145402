// package covers resolves (artist, title) pairs to display image URLs via
// the admin service's cover lookup API. Every failure mode degrades to the
// configured default image; lookups never propagate errors to callers.
package covers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ripcast/internal/repositories"
	"github.com/desertthunder/ripcast/internal/shared"
	"golang.org/x/time/rate"
)

// Cache abstracts the persistent lookup cache so the resolver can run
// without a database (nil cache) in one-shot commands and tests.
type Cache interface {
	Get(key string) (*repositories.CachedCover, error)
	Put(key string, entry repositories.CachedCover) error
}

// lookupResponse is the cover API's wire shape.
type lookupResponse struct {
	Found    bool   `json:"found"`
	CoverURL string `json:"cover_url"`
}

// Resolver looks up cover art with a persistent cache in front of the HTTP
// API and a polite rate limit on outbound lookups.
type Resolver struct {
	apiURL     string
	defaultURL string
	client     *http.Client
	cache      Cache
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewResolver creates a Resolver. cache may be nil to disable caching.
func NewResolver(apiURL, defaultURL string, client *http.Client, cache Cache, logger *log.Logger) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Resolver{
		apiURL:     apiURL,
		defaultURL: defaultURL,
		client:     client,
		cache:      cache,
		limiter:    rate.NewLimiter(rate.Every(500*time.Millisecond), 3),
		logger:     logger,
	}
}

// Lookup resolves a cover image URL for the given track. Not-found results,
// network errors, and malformed responses all return the default image URL.
func (r *Resolver) Lookup(ctx context.Context, artist, title string) string {
	if artist == "" || title == "" {
		return r.defaultURL
	}

	key := shared.NormalizeTrackKey(artist, title)

	if r.cache != nil {
		entry, err := r.cache.Get(key)
		if err != nil {
			r.logger.Warn("cover cache read failed", "error", err)
		} else if entry != nil {
			if entry.Found {
				return entry.CoverURL
			}
			return r.defaultURL
		}
	}

	result := r.fetch(ctx, artist, title)

	if r.cache != nil && result != nil {
		if err := r.cache.Put(key, *result); err != nil {
			r.logger.Warn("cover cache write failed", "error", err)
		}
	}

	if result != nil && result.Found {
		return result.CoverURL
	}
	return r.defaultURL
}

// fetch performs one HTTP lookup. A nil result means the outcome should not
// be cached (transport-level failure rather than a definitive miss).
func (r *Resolver) fetch(ctx context.Context, artist, title string) *repositories.CachedCover {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil
	}

	query := url.Values{}
	query.Set("artist", artist)
	query.Set("title", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.apiURL+"?"+query.Encode(), nil)
	if err != nil {
		r.logger.Warn("cover lookup request build failed", "error", err)
		return nil
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("cover lookup failed", "artist", artist, "title", title, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("cover lookup returned non-200", "status", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	var parsed lookupResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		r.logger.Warn("cover lookup response malformed", "error", err)
		return nil
	}

	if !parsed.Found || parsed.CoverURL == "" {
		return &repositories.CachedCover{}
	}
	return &repositories.CachedCover{CoverURL: parsed.CoverURL, Found: true}
}
