package vector

import (
	"strings"

	"github.com/matchwarden/matchwarden/internal/model"
)

// Section caps keep the signature text inside the embedding input budget.
const (
	maxResumeChars    = 2000
	maxAmbitionsChars = 500
	maxStackEntries   = 20
)

// BuildSignatureText assembles the candidate signature text that gets
// embedded once and reused across every job comparison. Sections are
// labeled so semantically distinct facts stay distinct in the embedding.
func BuildSignatureText(candidate model.Candidate) string {
	var parts []string

	if cv := strings.TrimSpace(candidate.ResumeText); cv != "" {
		parts = append(parts, "CV Experience: "+truncate(cv, maxResumeChars))
	}

	p := candidate.Persona
	if p.PersonaSummary != "" {
		parts = append(parts, "Persona: "+p.PersonaSummary)
	}
	if p.RoleLevel != "" {
		parts = append(parts, "Role Level: "+p.RoleLevel)
	}
	if p.IndustryFocus != "" {
		parts = append(parts, "Industry Focus: "+p.IndustryFocus)
	}
	if p.PrimaryDomain != "" {
		parts = append(parts, "Primary Domain: "+p.PrimaryDomain)
	}
	if len(p.TechStack) > 0 {
		stack := p.TechStack
		if len(stack) > maxStackEntries {
			stack = stack[:maxStackEntries]
		}
		parts = append(parts, "Tech Stack: "+strings.Join(stack, ", "))
	}
	if p.Ambitions != "" {
		parts = append(parts, "Career Ambitions: "+truncate(p.Ambitions, maxAmbitionsChars))
	}

	return strings.Join(parts, "\n")
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
