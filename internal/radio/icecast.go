package radio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/ripcast/internal/models"
)

// statusPath is the well-known Icecast status document location.
const statusPath = "/status-json.xsl"

// Source is one mountpoint record from the Icecast status document.
type Source struct {
	Artist            string  `json:"artist"`
	Title             string  `json:"title"`
	Album             string  `json:"album"`
	Listeners         flexInt `json:"listeners"`
	Bitrate           flexInt `json:"bitrate"`
	ServerName        string  `json:"server_name"`
	ServerDescription string  `json:"server_description"`
	ListenURL         string  `json:"listenurl"`
}

// sourceList tolerates the status document's one-or-many shape: `source` is
// a bare object when a single mount is live and an array otherwise.
type sourceList []Source

func (s *sourceList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*s = nil
		return nil
	}

	if trimmed[0] == '[' {
		var many []Source
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return err
		}
		*s = many
		return nil
	}

	var one Source
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	*s = sourceList{one}
	return nil
}

// flexInt accepts a JSON number or a numeric string; Icecast emits both
// depending on version. Unparseable values decode as zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*f = 0
		return nil
	}

	var n int
	if err := json.Unmarshal(trimmed, &n); err == nil {
		*f = flexInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		*f = 0
		return nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(parsed)
	return nil
}

type statusDocument struct {
	Icestats struct {
		Source sourceList `json:"source"`
	} `json:"icestats"`
}

// ParseStatus extracts now-playing metadata from a raw status document.
//
// Source selection prefers the mount whose listen URL contains the
// configured mount path, falling back to the first source. A selected
// source without a title carries no usable metadata and yields nil,
// which suppresses any update downstream.
func ParseStatus(data []byte, mount string) (*models.NowPlaying, error) {
	var doc statusDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse status document: %w", err)
	}

	src := selectSource(doc.Icestats.Source, mount)
	if src == nil || src.Title == "" {
		return nil, nil
	}

	artist := src.Artist
	if artist == "" {
		artist = "Unknown Artist"
	}

	return &models.NowPlaying{
		Artist:            artist,
		Title:             src.Title,
		Album:             src.Album,
		Listeners:         int(src.Listeners),
		Bitrate:           int(src.Bitrate),
		ServerName:        src.ServerName,
		ServerDescription: src.ServerDescription,
	}, nil
}

func selectSource(sources sourceList, mount string) *Source {
	if len(sources) == 0 {
		return nil
	}
	if mount != "" {
		for i := range sources {
			if strings.Contains(sources[i].ListenURL, mount) {
				return &sources[i]
			}
		}
	}
	return &sources[0]
}

// Client fetches status documents from an Icecast server.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Client for the given Icecast base URL.
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

// NowPlaying fetches the status document and extracts metadata for the
// given mount. A nil result with nil error means the stream carries no
// usable metadata right now.
func (c *Client) NowPlaying(ctx context.Context, mount string) (*models.NowPlaying, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+statusPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return ParseStatus(body, mount)
}
