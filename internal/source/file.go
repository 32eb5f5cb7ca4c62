package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/matchwarden/matchwarden/internal/model"
)

// Ensure FileSource implements model.JobSource.
var _ model.JobSource = (*FileSource)(nil)

// FileSource reads a collected batch from a JSON array file or, when the
// path ends in .jsonl, from a line-delimited file.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a source reading postings from path.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	return &FileSource{path: path, logger: logger}
}

// FetchJobs reads, decodes, and normalizes the whole file. Postings without
// a URL are dropped with a warning.
func (s *FileSource) FetchJobs(_ context.Context) ([]model.JobPosting, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading postings from %s: %w", s.path, err)
	}
	defer f.Close()

	var raw []model.JobPosting
	if strings.EqualFold(filepath.Ext(s.path), ".jsonl") {
		raw, err = decodeLines(f)
	} else {
		raw, err = decodeArray(f)
	}
	if err != nil {
		return nil, fmt.Errorf("reading postings from %s: %w", s.path, err)
	}

	return normalizeAll(raw, s.logger), nil
}
