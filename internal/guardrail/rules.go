package guardrail

import (
	"fmt"
	"strings"
)

// Penalty bases, bonus caps and floors. Floors are raise-only and run in
// ascending order after all penalties and bonuses, so the highest applicable
// floor wins and no penalty can drag a floored title below its floor.
const (
	WrongRolePenalty          = 30
	LowSalaryPenalty          = 20
	LocationPenalty           = 10
	ReputationPenalty         = 15
	ExecutiveRejectionPenalty = 25
	FeedbackPenaltyCap        = 100

	PreferenceBonusCap = 30
	BlacklistPenalty   = 50

	LeadershipFloor  = 60
	SeniorTitleFloor = 70
	FoundingFloor    = 75

	// A pattern rejected many times still counts at most three times.
	maxRepetitions = 3
)

var (
	wrongRoleTriggers = []string{"junior", "entry", "intern", "assistant"}
	lowSalaryTriggers = []string{"entry level", "junior", "intern", "starting salary"}
	executiveFlavor   = []string{"vp", "vice president", "director", "chief", "c-level", "c-suite"}
	leadershipTitles  = []string{"cto", "chief technology officer", "vice president", "vp", "chief", "director", "head of"}
	foundingTitles    = []string{"founding", "founder", "co-founder", "cofounder"}
	// Résumé signals that make a senior-title floor credible.
	resumeSignals = []string{"cto", "vp", "director", "engineer", "technology", "tech", "leadership", "senior", "chief"}
)

// DefaultRules returns the processor's rule list in execution order.
func DefaultRules() []Rule {
	return []Rule{
		feedbackPenaltyRule(),
		preferenceBonusRule(),
		blacklistPenaltyRule(),
		floorRule("leadership-floor", LeadershipFloor, leadershipTitleMatches,
			"Leadership floor: %q is a leadership-level title; score raised from %d to %d."),
		floorRule("senior-title-floor", SeniorTitleFloor, seniorTitleMatches,
			"Senior title floor: %q with a matching leadership background; score raised from %d to %d."),
		floorRule("founding-floor", FoundingFloor, foundingTitleMatches,
			"Founding role floor: %q names a founding role; score raised from %d to %d."),
		clampRule(),
	}
}

// feedbackPenaltyRule subtracts weighted penalties for rejection patterns the
// candidate has accumulated, when the posting matches the pattern's trigger
// text. Each pattern scales with its repetition count, capped at
// maxRepetitions; the combined penalty is capped at FeedbackPenaltyCap.
func feedbackPenaltyRule() Rule {
	return Rule{
		ID: "feedback-penalty",
		fire: func(ev *evaluation, score int) (int, string) {
			total := 0
			var matched []string

			if n := ev.counts[PatternWrongRole]; n > 0 && containsAny(ev.text, wrongRoleTriggers) {
				n = min(n, maxRepetitions)
				total += WrongRolePenalty * n
				matched = append(matched, fmt.Sprintf("%s x%d", PatternWrongRole, n))
			}
			if n := ev.counts[PatternLowSalary]; n > 0 && containsAny(ev.text, lowSalaryTriggers) {
				n = min(n, maxRepetitions)
				total += LowSalaryPenalty * n
				matched = append(matched, fmt.Sprintf("%s x%d", PatternLowSalary, n))
			}
			if n := ev.counts[PatternLocation]; n > 0 {
				n = min(n, maxRepetitions)
				total += LocationPenalty * n
				matched = append(matched, fmt.Sprintf("%s x%d", PatternLocation, n))
			}
			if n := ev.counts[PatternCompanyReputation]; n > 0 {
				n = min(n, maxRepetitions)
				total += ReputationPenalty * n
				matched = append(matched, fmt.Sprintf("%s x%d", PatternCompanyReputation, n))
			}
			if ev.counts[PatternExecutive] > 0 && containsAny(ev.text, executiveFlavor) && !ev.industryMatches() {
				total += ExecutiveRejectionPenalty
				matched = append(matched, "executive outside industry focus")
			}

			if total == 0 {
				return score, ""
			}
			if total > FeedbackPenaltyCap {
				total = FeedbackPenaltyCap
			}
			note := fmt.Sprintf("Feedback penalty: -%d for previously rejected patterns (%s).",
				total, strings.Join(matched, ", "))
			return score - total, note
		},
	}
}

// industryMatches reports whether the persona's industry focus appears in the
// posting text. An empty focus never matches.
func (ev *evaluation) industryMatches() bool {
	return ev.industry != "" && strings.Contains(ev.text, ev.industry)
}

// preferenceBonusRule rewards postings that ask for an explicitly prioritized
// skill. Prioritized skills outrank CV-derived ones, so the bonus applies on
// any match; it never pushes the score past 100.
func preferenceBonusRule() Rule {
	return Rule{
		ID: "preference-bonus",
		fire: func(ev *evaluation, score int) (int, string) {
			var matched []string
			for _, skill := range ev.prefs {
				if strings.Contains(ev.text, skill) {
					matched = append(matched, skill)
				}
			}
			if len(matched) == 0 {
				return score, ""
			}
			bonus := min(PreferenceBonusCap, 100-score)
			if bonus <= 0 {
				return score, ""
			}
			note := fmt.Sprintf("Priority skill bonus: +%d, job requires %s.",
				bonus, strings.Join(matched, ", "))
			return score + bonus, note
		},
	}
}

// blacklistPenaltyRule subtracts a fixed penalty per blacklisted term found in
// the description. The term set is the explicit blacklist merged with the
// persona's avoid patterns.
func blacklistPenaltyRule() Rule {
	return Rule{
		ID: "blacklist-penalty",
		fire: func(ev *evaluation, score int) (int, string) {
			var matched []string
			for _, term := range ev.terms {
				if strings.Contains(ev.desc, term) {
					matched = append(matched, term)
				}
			}
			if len(matched) == 0 {
				return score, ""
			}
			total := BlacklistPenalty * len(matched)
			note := fmt.Sprintf("Blacklisted terms present (%s); score reduced by %d.",
				strings.Join(matched, ", "), total)
			return score - total, note
		},
	}
}

// floorRule raises the score to floor when match reports the posting
// qualifies. Floors never lower a score.
func floorRule(id string, floor int, match func(ev *evaluation) bool, format string) Rule {
	return Rule{
		ID: id,
		fire: func(ev *evaluation, score int) (int, string) {
			if score >= floor || !match(ev) {
				return score, ""
			}
			return floor, fmt.Sprintf(format, ev.job.Title, score, floor)
		},
	}
}

func leadershipTitleMatches(ev *evaluation) bool {
	return containsAny(ev.title, leadershipTitles)
}

// seniorTitleMatches recognizes "head of" and founding-engineer style titles,
// but only when the résumé shows a leadership or technology signal that makes
// the floor credible.
func seniorTitleMatches(ev *evaluation) bool {
	founding := (strings.Contains(ev.title, "founding") || strings.Contains(ev.title, "founder")) &&
		strings.Contains(ev.title, "engineer")
	if !strings.Contains(ev.title, "head of") && !founding {
		return false
	}
	return containsAny(ev.resume, resumeSignals)
}

func foundingTitleMatches(ev *evaluation) bool {
	return containsAny(ev.title, foundingTitles)
}

// clampRule bounds the final score to [0,100]. It runs last so penalties and
// bonuses may transiently leave the range without ever escaping it.
func clampRule() Rule {
	return Rule{
		ID: "clamp",
		fire: func(_ *evaluation, score int) (int, string) {
			clamped := score
			if clamped < 0 {
				clamped = 0
			}
			if clamped > 100 {
				clamped = 100
			}
			if clamped == score {
				return score, ""
			}
			return clamped, fmt.Sprintf("Score %d outside valid range; clamped to %d.", score, clamped)
		},
	}
}
