package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/matchwarden/matchwarden/internal/model"
)

// Ensure HTTPSource implements model.JobSource.
var _ model.JobSource = (*HTTPSource)(nil)

// HTTPSource fetches a collected batch from an HTTP endpoint serving a JSON
// array of postings.
type HTTPSource struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewHTTPSource creates a source fetching postings from url.
func NewHTTPSource(url string, client *http.Client, logger *slog.Logger) *HTTPSource {
	return &HTTPSource{url: url, client: client, logger: logger}
}

// FetchJobs GETs the endpoint and normalizes the decoded batch. Non-200
// responses come back as a model.HTTPError carrying retry metadata.
func (s *HTTPSource) FetchJobs(ctx context.Context) ([]model.JobPosting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching postings from %s: %w", s.url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching postings from %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("fetching postings from %s", s.url),
		}
	}

	raw, err := decodeArray(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetching postings from %s: %w", s.url, err)
	}

	return normalizeAll(raw, s.logger), nil
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
