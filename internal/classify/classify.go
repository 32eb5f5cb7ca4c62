// Package classify labels postings by the seniority lane their title
// advertises. Labels are inferred from text already in hand and the single
// cached analysis is reused as-is; classification never triggers another
// oracle call.
package classify

import (
	"strings"

	"github.com/matchwarden/matchwarden/internal/model"
)

// MinLabelScore is the analysis score below which a posting is demoted to
// RoleOther: the match was too weak for the label to mean anything.
const MinLabelScore = 30

// descriptionWindow bounds how far into the description the heuristic looks.
const descriptionWindow = 200

// Classify buckets a posting from its title plus the head of its description.
func Classify(title, description string) model.RoleLabel {
	if len(description) > descriptionWindow {
		description = description[:descriptionWindow]
	}
	text := strings.ToLower(title + " " + description)
	switch {
	case strings.Contains(text, "cto"),
		strings.Contains(text, "chief technology officer"),
		strings.Contains(text, "vp"),
		strings.Contains(text, "vice president"):
		return model.RoleExecutive
	case strings.Contains(text, "architect"):
		return model.RoleArchitect
	default:
		return model.RoleOther
	}
}

// ClassifyMatch pairs the inferred label with the analysis it reuses. A weak
// analysis demotes the label to RoleOther regardless of what the title says.
func ClassifyMatch(analysis model.MatchAnalysis, title, description string) model.RoleMatch {
	label := Classify(title, description)
	if analysis.Score < MinLabelScore {
		label = model.RoleOther
	}
	return model.RoleMatch{Label: label, Analysis: analysis}
}
