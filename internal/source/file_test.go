package source

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func TestFileSourceFetchJobs_JSONArray(t *testing.T) {
	payload := `[
		{
			"title": "  Backend Engineer  ",
			"company": "Acme",
			"url": "https://jobs.example.com/1",
			"description": "Build and run Go services for our data platform."
		},
		{
			"title": "Platform Engineer",
			"company": "Initech",
			"url": "https://jobs.example.com/2",
			"description": "Own the deployment pipeline."
		}
	]`
	path := writeFile(t, "jobs.json", payload)

	jobs, err := NewFileSource(path, discardLogger()).FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	j := jobs[0]
	if j.Title != "Backend Engineer" {
		t.Errorf("expected trimmed title, got %q", j.Title)
	}
	if j.Company != "Acme" {
		t.Errorf("expected company Acme, got %q", j.Company)
	}
	if j.URL != "https://jobs.example.com/1" {
		t.Errorf("unexpected url %q", j.URL)
	}
}

func TestFileSourceFetchJobs_JSONL(t *testing.T) {
	payload := `{"title":"Backend Engineer","company":"Acme","url":"https://jobs.example.com/1","description":"Go services."}

{"title":"Platform Engineer","company":"Initech","url":"https://jobs.example.com/2","description":"Pipelines."}
`
	path := writeFile(t, "jobs.jsonl", payload)

	jobs, err := NewFileSource(path, discardLogger()).FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs (blank line skipped), got %d", len(jobs))
	}
	if jobs[1].URL != "https://jobs.example.com/2" {
		t.Errorf("unexpected url %q", jobs[1].URL)
	}
}

func TestFileSourceFetchJobs_SkipsPostingsWithoutURL(t *testing.T) {
	payload := `[
		{"title": "No Link Role", "company": "Acme", "description": "Lost posting."},
		{"title": "Backend Engineer", "company": "Acme", "url": "https://jobs.example.com/1", "description": "Go services."}
	]`
	path := writeFile(t, "jobs.json", payload)

	jobs, err := NewFileSource(path, discardLogger()).FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected the url-less posting dropped, got %d jobs", len(jobs))
	}
	if jobs[0].Title != "Backend Engineer" {
		t.Errorf("wrong posting kept: %q", jobs[0].Title)
	}
}

func TestFileSourceFetchJobs_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	_, err := NewFileSource(path, discardLogger()).FetchJobs(context.Background())
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestFileSourceFetchJobs_MalformedJSON(t *testing.T) {
	path := writeFile(t, "jobs.json", `[{not valid json`)
	_, err := NewFileSource(path, discardLogger()).FetchJobs(context.Background())
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}
