package oracle

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/matchwarden/matchwarden/internal/model"
)

// NeutralScore is returned when the oracle produced output but no usable
// score could be extracted. Never 0: a parser failure must not read as
// "no match".
const NeutralScore = 50

// Result is the typed outcome of a single oracle evaluation. ShortCircuit
// marks title-based scores that never reached the model; Degraded marks a
// neutral fallback after an unparseable response.
type Result struct {
	Score          int
	Reasoning      string
	Gaps           []string
	WhyMatches     string
	WhyDoesntMatch string
	ShortCircuit   bool
	Degraded       bool
}

// rawAnalysis is the loose shape the oracle is asked to return. Score stays
// untyped because models send integers, floats, and strings like "85%".
type rawAnalysis struct {
	Score          any      `mapstructure:"score"`
	MatchScore     any      `mapstructure:"match_score"`
	Reasoning      string   `mapstructure:"reasoning"`
	Gaps           []string `mapstructure:"gaps"`
	WhyMatches     string   `mapstructure:"why_matches"`
	WhyDoesntMatch string   `mapstructure:"why_doesnt_match"`
}

// Parse turns a raw oracle response into a Result. It strips markdown
// fences, extracts the outermost JSON object by brace counting, decodes
// weakly typed fields, and coerces the score to a clamped integer. A
// missing or unreadable score falls back to NeutralScore; only responses
// with no JSON object at all return an error.
func Parse(raw string) (*Result, error) {
	cleaned := stripFences(raw)

	obj := decodeObject(cleaned)
	if obj == nil {
		if extracted := extractObject(cleaned); extracted != "" {
			obj = decodeObject(extracted)
		}
	}
	if obj == nil {
		return nil, &model.ParseError{Raw: raw, Err: errNoJSONObject}
	}

	var ra rawAnalysis
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &ra,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, &model.ParseError{Raw: raw, Err: err}
	}
	if err := dec.Decode(obj); err != nil {
		return nil, &model.ParseError{Raw: raw, Err: err}
	}

	scoreField := ra.Score
	if scoreField == nil {
		scoreField = ra.MatchScore
	}

	return &Result{
		Score:          coerceScore(scoreField),
		Reasoning:      ra.Reasoning,
		Gaps:           ra.Gaps,
		WhyMatches:     ra.WhyMatches,
		WhyDoesntMatch: ra.WhyDoesntMatch,
	}, nil
}

var errNoJSONObject = errors.New("no JSON object found in response")

// stripFences removes a surrounding markdown code fence, with or without a
// language tag.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-len("```")]
	}
	return strings.TrimSpace(text)
}

// extractObject returns the first balanced {...} region of text, or "" if
// none exists. Handles prose before and after the object.
func extractObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

func decodeObject(text string) map[string]any {
	if text == "" {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil
	}
	return obj
}

// coerceScore normalizes whatever the model put in the score field into an
// integer in [0,100]. Strings lose "%" and whitespace before parsing as
// float; floats round to nearest; anything unreadable is NeutralScore.
func coerceScore(v any) int {
	switch s := v.(type) {
	case nil:
		return NeutralScore
	case float64:
		return model.ClampScore(int(math.Round(s)))
	case int:
		return model.ClampScore(s)
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return NeutralScore
		}
		return model.ClampScore(int(math.Round(f)))
	default:
		return NeutralScore
	}
}
