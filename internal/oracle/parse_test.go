package oracle

import (
	"errors"
	"testing"

	"github.com/matchwarden/matchwarden/internal/model"
)

func TestParse_ScoreFormats(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{
			name: "plain integer",
			raw:  `{"score": 85, "reasoning": "good fit"}`,
			want: 85,
		},
		{
			name: "fenced with language tag",
			raw:  "```json\n{\"score\": 85}\n```",
			want: 85,
		},
		{
			name: "fenced without language tag",
			raw:  "```\n{\"score\": 72}\n```",
			want: 72,
		},
		{
			name: "percent string",
			raw:  `{"score": "85%"}`,
			want: 85,
		},
		{
			name: "string with whitespace",
			raw:  `{"score": " 64 "}`,
			want: 64,
		},
		{
			name: "float rounds to nearest",
			raw:  `{"score": 85.6}`,
			want: 86,
		},
		{
			name: "decimal string",
			raw:  `{"score": "85.4"}`,
			want: 85,
		},
		{
			name: "match_score field name",
			raw:  `{"match_score": 70}`,
			want: 70,
		},
		{
			name: "score preferred over match_score",
			raw:  `{"score": 80, "match_score": 20}`,
			want: 80,
		},
		{
			name: "missing score defaults to neutral",
			raw:  `{"reasoning": "no score given"}`,
			want: NeutralScore,
		},
		{
			name: "unreadable score string defaults to neutral",
			raw:  `{"score": "excellent"}`,
			want: NeutralScore,
		},
		{
			name: "above range clamps to 100",
			raw:  `{"score": 140}`,
			want: 100,
		},
		{
			name: "below range clamps to 0",
			raw:  `{"score": -10}`,
			want: 0,
		},
		{
			name: "prose around the object",
			raw:  "Here is my analysis:\n{\"score\": 55}\nHope that helps!",
			want: 55,
		},
		{
			name: "nested object extracted by brace counting",
			raw:  `noise {"score": 45, "detail": {"inner": "}"}} trailing`,
			want: 45,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Score != tc.want {
				t.Errorf("Score = %d, want %d", got.Score, tc.want)
			}
		})
	}
}

func TestParse_FullResult(t *testing.T) {
	raw := "```json\n" + `{
		"score": "92%",
		"reasoning": "Strong alignment",
		"why_matches": "Leadership scale fits.",
		"why_doesnt_match": "",
		"gaps": ["Kubernetes", "Rust"]
	}` + "\n```"

	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 92 {
		t.Errorf("Score = %d, want 92", got.Score)
	}
	if got.Reasoning != "Strong alignment" {
		t.Errorf("Reasoning = %q", got.Reasoning)
	}
	if got.WhyMatches != "Leadership scale fits." {
		t.Errorf("WhyMatches = %q", got.WhyMatches)
	}
	if len(got.Gaps) != 2 || got.Gaps[0] != "Kubernetes" {
		t.Errorf("Gaps = %v", got.Gaps)
	}
}

func TestParse_SingleGapStringBecomesSlice(t *testing.T) {
	got, err := Parse(`{"score": 60, "gaps": "only one gap"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Gaps) != 1 || got.Gaps[0] != "only one gap" {
		t.Errorf("Gaps = %v, want single-element slice", got.Gaps)
	}
}

func TestParse_NoJSONReturnsParseError(t *testing.T) {
	_, err := Parse("AI Analysis temporarily unavailable. Please review manually.")
	if err == nil {
		t.Fatal("expected error for response without JSON")
	}
	var parseErr *model.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse("")
	if err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestCoerceScore(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{name: "nil", in: nil, want: NeutralScore},
		{name: "int", in: 42, want: 42},
		{name: "float", in: 67.5, want: 68},
		{name: "percent string", in: "88%", want: 88},
		{name: "garbage string", in: "n/a", want: NeutralScore},
		{name: "bool", in: true, want: NeutralScore},
		{name: "over 100", in: 250.0, want: 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := coerceScore(tc.in); got != tc.want {
				t.Errorf("coerceScore(%v) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare object", in: `{"a":1}`, want: `{"a":1}`},
		{name: "leading prose", in: `sure: {"a":1}`, want: `{"a":1}`},
		{name: "brace inside string", in: `{"a":"}"}`, want: `{"a":"}"}`},
		{name: "escaped quote inside string", in: `{"a":"\"}"}`, want: `{"a":"\"}"}`},
		{name: "no object", in: "nothing here", want: ""},
		{name: "unbalanced", in: `{"a":1`, want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractObject(tc.in); got != tc.want {
				t.Errorf("extractObject(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
