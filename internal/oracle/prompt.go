package oracle

import (
	_ "embed"
	"sort"
	"text/template"

	"github.com/matchwarden/matchwarden/internal/model"
)

//go:embed prompts/match_analysis.md
var matchPromptRaw string

// MatchTemplate is the parsed prompt template for match analysis.
// Parsed once at package init; reused on every Score call.
var MatchTemplate = template.Must(template.New("match_analysis").Parse(matchPromptRaw))

// promptData is the render context for MatchTemplate.
type promptData struct {
	PersonaSummary  string
	RoleLevel       string
	IndustryFocus   string
	PrimaryDomain   string
	TechStack       string
	CVText          string
	PrioritySkills  string
	Ambitions       string
	AvoidPatterns   string
	FeedbackReasons []reasonCount
	JobTitle        string
	JobDescription  string
}

// reasonCount is one rejection reason with its repetition count.
type reasonCount struct {
	Reason string
	Count  int
}

// countFeedbackReasons aggregates the feedback log into per-reason counts,
// ordered most-frequent first with a name tiebreak so prompt text is
// deterministic for identical inputs.
func countFeedbackReasons(entries []model.FeedbackEntry) []reasonCount {
	if len(entries) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, e := range entries {
		if e.Reason == "" {
			continue
		}
		counts[e.Reason]++
	}
	if len(counts) == 0 {
		return nil
	}

	out := make([]reasonCount, 0, len(counts))
	for reason, n := range counts {
		out = append(out, reasonCount{Reason: reason, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}
