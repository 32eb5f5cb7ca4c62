package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matchwarden/matchwarden/internal/model"
)

func makeTestServer(t *testing.T, statusCode int, body any) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, srv.Client()
}

func okChatResponse(content string) chatResponse {
	var resp chatResponse
	resp.Choices = []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}{
		{Message: struct {
			Content string `json:"content"`
		}{Content: content}},
	}
	return resp
}

func TestOpenAIComplete_Success(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, okChatResponse(`{"score":80}`))

	provider := NewOpenAIProvider(srv.URL, "test-key", "test-model", client)
	got, err := provider.Complete(context.Background(), "score this job")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"score":80}` {
		t.Errorf("got %q, want json string", got)
	}
}

func TestOpenAIComplete_RateLimitedCarriesRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "15")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "test-key", "test-model", srv.Client())
	_, err := provider.Complete(context.Background(), "score this job")
	if err == nil {
		t.Fatal("expected error on 429 response")
	}
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %T: %v", err, err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", httpErr.StatusCode)
	}
	if httpErr.RetryAfter.Seconds() != 15 {
		t.Errorf("retry-after = %v, want 15s", httpErr.RetryAfter)
	}
}

func TestOpenAIComplete_ServerErrorReturnsHTTPError(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusInternalServerError, map[string]string{"error": "boom"})

	provider := NewOpenAIProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), "score this job")
	if err == nil {
		t.Fatal("expected error on 5xx response")
	}
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected HTTPError with status 500, got %v", err)
	}
}

func TestOpenAIComplete_EmptyChoices(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, chatResponse{})

	provider := NewOpenAIProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), "score this job")
	if err == nil {
		t.Fatal("expected error when the oracle returns no choices")
	}
}

func TestOpenAIComplete_SetsAuthHeaderAndSchema(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(okChatResponse("{}"))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "my-secret-key", "gpt-4o-mini", srv.Client())
	_, _ = provider.Complete(context.Background(), "score this job")

	if gotAuth != "Bearer my-secret-key" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer my-secret-key")
	}
	if gotReq.ResponseFormat.Type != "json_schema" {
		t.Errorf("response_format.type = %q, want json_schema", gotReq.ResponseFormat.Type)
	}
	if gotReq.ResponseFormat.JSONSchema.Name != "match_analysis" {
		t.Errorf("response_format.json_schema.name = %q, want match_analysis", gotReq.ResponseFormat.JSONSchema.Name)
	}
	if gotReq.Temperature != 0 {
		t.Errorf("temperature = %d, want 0", gotReq.Temperature)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("expected system+user messages, got %+v", gotReq.Messages)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{in: "", want: 0},
		{in: "30", want: 30},
		{in: "not-a-number", want: 0},
	}

	for _, tc := range tests {
		if got := parseRetryAfter(tc.in); got.Seconds() != tc.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %vs", tc.in, got, tc.want)
		}
	}
}
