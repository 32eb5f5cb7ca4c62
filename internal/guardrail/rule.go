// Package guardrail imposes deterministic score corrections on top of the
// nondeterministic oracle. All corrections live in one fixed, ordered rule
// list so every override is auditable and testable in isolation; no
// adjustment is silent.
package guardrail

import (
	"strings"

	"github.com/matchwarden/matchwarden/internal/model"
)

// Input bundles everything the rules may inspect for one posting.
type Input struct {
	Job       model.JobPosting
	Candidate model.Candidate
}

// Rule is one entry in the processor's ordered adjustment list. fire returns
// the adjusted score and a human-readable note; an empty note means the rule
// did not apply. Rules never clamp on their own; the clamp is itself the
// final rule in the list.
type Rule struct {
	ID   string
	fire func(ev *evaluation, score int) (int, string)
}

// Pattern is one rejection-pattern category derived from feedback memory.
type Pattern string

const (
	PatternWrongRole         Pattern = "wrong_role"
	PatternLowSalary         Pattern = "low_salary"
	PatternLocation          Pattern = "location"
	PatternCompanyReputation Pattern = "company_reputation"
	PatternExecutive         Pattern = "executive"
)

// CountPatterns buckets feedback reasons into rejection-pattern counts. A
// single entry can feed several buckets ("Wrong Role - salary too low"
// counts for both). Feedback only weights penalties; it never adds
// constraints of its own.
func CountPatterns(entries []model.FeedbackEntry) map[Pattern]int {
	counts := make(map[Pattern]int)
	for _, e := range entries {
		reason := strings.ToLower(e.Reason)
		if reason == "" {
			continue
		}
		if strings.Contains(reason, "wrong role") {
			counts[PatternWrongRole]++
		}
		if strings.Contains(reason, "salary") {
			counts[PatternLowSalary]++
		}
		if strings.Contains(reason, "location") {
			counts[PatternLocation]++
		}
		if strings.Contains(reason, "company reputation") {
			counts[PatternCompanyReputation]++
		}
		if strings.Contains(reason, "executive") {
			counts[PatternExecutive]++
		}
	}
	return counts
}

// evaluation is the precomputed lowercase view of one Input, shared by every
// rule so predicates stay cheap string scans.
type evaluation struct {
	job      model.JobPosting
	title    string
	text     string // title + company + description
	desc     string
	resume   string
	industry string
	counts   map[Pattern]int
	prefs    []string // prioritized skills, lowercased
	terms    []string // blacklist ∪ avoid patterns, lowercased
}

func newEvaluation(in Input) *evaluation {
	return &evaluation{
		job:      in.Job,
		title:    strings.ToLower(in.Job.Title),
		text:     strings.ToLower(in.Job.Text()),
		desc:     strings.ToLower(in.Job.Description),
		resume:   strings.ToLower(in.Candidate.ResumeText),
		industry: strings.TrimSpace(strings.ToLower(in.Candidate.Persona.IndustryFocus)),
		counts:   CountPatterns(in.Candidate.Feedback),
		prefs:    lowerTerms(in.Candidate.Persona.Preferences),
		terms:    lowerTerms(in.Candidate.Blacklist, in.Candidate.Persona.AvoidPatterns),
	}
}

// lowerTerms merges the given term lists into one lowercased, deduplicated
// slice, preserving first-seen order.
func lowerTerms(lists ...[]string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, t := range list {
			t = strings.TrimSpace(strings.ToLower(t))
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
