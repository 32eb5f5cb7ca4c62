package oracle

import "context"

// Provider sends a prompt to a scoring model and returns the raw text
// response. Implementations may return fenced or prose-wrapped output;
// the parser in this package tolerates both.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
