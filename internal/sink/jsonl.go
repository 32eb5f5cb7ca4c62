package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/matchwarden/matchwarden/internal/model"
)

// Ensure JSONLSink implements model.ResultSink.
var _ model.ResultSink = (*JSONLSink)(nil)

// JSONLSink appends each analysis as one JSON line to a file. Safe for
// concurrent use.
type JSONLSink struct {
	mu   sync.Mutex
	file *os.File
}

// NewJSONLSink opens (or creates) the file at path in append mode.
func NewJSONLSink(path string) (*JSONLSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	return &JSONLSink{file: f}, nil
}

// Deliver writes the analysis as a single JSON line.
func (s *JSONLSink) Deliver(_ context.Context, a model.MatchAnalysis) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write analysis: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (s *JSONLSink) Close() error {
	return s.file.Close()
}
