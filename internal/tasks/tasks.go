package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ripcast/internal/repositories"
	"github.com/desertthunder/ripcast/internal/services"
	"github.com/desertthunder/ripcast/internal/shared"
)

// APIClient defines the interface for making API requests to the admin
// service. This abstraction allows for easier testing and decoupling from
// the concrete implementation.
type APIClient interface {
	Get(ctx context.Context, path string) (*services.APIResponse, error)
	Post(ctx context.Context, path string, data []byte) (*services.APIResponse, error)
}

// submitBody is the job-creation request body. Blank source selections
// marshal as null, matching the admin service's optional fields.
type submitBody struct {
	URL            string  `json:"url"`
	Source         *string `json:"source"`
	FallbackSource *string `json:"fallback_source"`
}

// SubmitResult carries the server's response to an accepted submission.
type SubmitResult struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// DownloadsResult mirrors the admin service's active-downloads summary.
type DownloadsResult struct {
	Active         []string `json:"active"`
	TotalClients   int      `json:"total_clients"`
	TotalPlaylists int      `json:"total_playlists"`
	TotalTracks    int      `json:"total_tracks"`
}

// SubmitEngine translates playlist URLs into admin-service download jobs
// and records accepted jobs in the local submission log.
type SubmitEngine struct {
	api    APIClient
	subs   *repositories.SubmissionLog
	logger *log.Logger
}

// NewSubmitEngine creates a SubmitEngine. The submission log may be nil,
// in which case accepted jobs are not recorded locally.
func NewSubmitEngine(api APIClient, subs *repositories.SubmissionLog, logger *log.Logger) *SubmitEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SubmitEngine{api: api, subs: subs, logger: logger}
}

// Submit validates and posts one download job. An empty URL fails locally
// before any network call. On a non-2xx response the returned error carries
// the server's error message, or a generic fallback when none is present.
func (e *SubmitEngine) Submit(ctx context.Context, playlistURL, source, fallbackSource string) (*SubmitResult, error) {
	if playlistURL == "" {
		return nil, fmt.Errorf("%w: playlist URL is required", shared.ErrInvalidInput)
	}

	body := submitBody{URL: playlistURL}
	if source != "" {
		body.Source = &source
	}
	if fallbackSource != "" {
		body.FallbackSource = &fallbackSource
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := e.api.Post(ctx, "/api/spotify", payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, serverError(resp.Body))
	}

	var result SubmitResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if e.subs != nil {
		record := repositories.Submission{
			ID:             shared.GenerateID(),
			URL:            playlistURL,
			Source:         source,
			FallbackSource: fallbackSource,
			TaskID:         result.TaskID,
		}
		if err := e.subs.Create(record); err != nil {
			e.logger.Warn("failed to record submission", "error", err)
		}
	}

	return &result, nil
}

// ActiveDownloads fetches the admin service's active-downloads summary.
func (e *SubmitEngine) ActiveDownloads(ctx context.Context) (*DownloadsResult, error) {
	resp, err := e.api.Get(ctx, "/api/downloads")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, serverError(resp.Body))
	}

	var result DownloadsResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

// serverError extracts the server's error message from a response body,
// falling back to a generic message.
func serverError(body []byte) string {
	var parsed struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Detail != "" {
			return parsed.Detail
		}
	}
	return "submission failed"
}
