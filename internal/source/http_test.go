package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matchwarden/matchwarden/internal/model"
)

func TestHTTPSourceFetchJobs_Success(t *testing.T) {
	payload := `[
		{"title": "Backend Engineer", "company": "Acme", "url": "https://jobs.example.com/1", "description": "Go services."},
		{"title": "", "company": "Acme", "description": "No url, dropped."}
	]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	jobs, err := NewHTTPSource(srv.URL, srv.Client(), discardLogger()).FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0].URL != "https://jobs.example.com/1" {
		t.Errorf("unexpected url %q", jobs[0].URL)
	}
}

func TestHTTPSourceFetchJobs_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, srv.Client(), discardLogger()).FetchJobs(context.Background())
	if err == nil {
		t.Fatal("expected error for HTTP 500, got nil")
	}
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected a model.HTTPError, got %T", err)
	}
	if httpErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", httpErr.StatusCode)
	}
}

func TestHTTPSourceFetchJobs_RetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, srv.Client(), discardLogger()).FetchJobs(context.Background())
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected a model.HTTPError, got %v", err)
	}
	if httpErr.RetryAfter != 120*time.Second {
		t.Errorf("expected RetryAfter 120s, got %v", httpErr.RetryAfter)
	}
}

func TestHTTPSourceFetchJobs_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{not valid json`))
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, srv.Client(), discardLogger()).FetchJobs(context.Background())
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}
