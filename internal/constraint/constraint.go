package constraint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matchwarden/matchwarden/internal/model"
)

// Filter rejects postings that explicitly violate non-negotiable candidate
// constraints. Conservative by construction: every rule group fails only on
// explicit contradicting text, never on silence, so an ambiguous posting is
// always let through to the cheaper-to-fix later stages.
type Filter struct {
	cfg model.HardConstraintsConfig
}

// NewFilter returns a filter for the given constraint set. The zero-value
// config is maximally permissive and passes everything.
func NewFilter(cfg model.HardConstraintsConfig) *Filter {
	return &Filter{cfg: cfg}
}

var (
	onsitePattern = regexp.MustCompile(
		`\b(?:fully on[- ]site|100% on[- ]site|in[- ]office|on[- ]site|5 days (?:a|per) week|five days (?:a|per) week|work from the office|must be in office|must be on site)\b`)
	remotePattern = regexp.MustCompile(`\b(?:remote|work from home|wfh)\b`)
	// Distinguishes "hybrid, 2 days on-site" from a hard five-days mandate.
	fullWeekPattern = regexp.MustCompile(`5 days|five days|fully on[- ]site`)

	overseasPattern = regexp.MustCompile(
		`\b(?:international travel|overseas travel|travel abroad|global travel|travel\s+\d{1,3}%|frequent travel|extensive travel)\b`)

	relocationPattern = regexp.MustCompile(`\b(?:relocation|must relocate|requires relocation)\b`)

	nonIsraelPattern = regexp.MustCompile(
		`\b(?:usa|united states|canada|uk|united kingdom|europe|germany|berlin|london|new york|paris|amsterdam|singapore|dubai)\b`)
)

// Filter returns (passed, reason). The reason names the violated constraint
// field so downstream consumers can audit the discard.
func (f *Filter) Filter(job model.JobPosting) (bool, string) {
	raw := job.Text()
	text := strings.ToLower(raw)

	explicitOnsite := onsitePattern.MatchString(text)
	explicitRemote := remotePattern.MatchString(text)

	wm := f.cfg.WorkModel
	if wm.RemoteOnly && explicitOnsite && !explicitRemote {
		return false, "hard constraint failed: remote_only is set but the job is explicitly on-site"
	}
	if wm.HybridAllowed && wm.MinHomeDays >= 2 && explicitOnsite && fullWeekPattern.MatchString(text) {
		return false, fmt.Sprintf("hard constraint failed: min_home_days=%d but the job is explicitly full-week on-site", wm.MinHomeDays)
	}

	if strings.EqualFold(strings.TrimSpace(f.cfg.TravelLimits.OverseasTravel), "none") &&
		overseasPattern.MatchString(text) {
		return false, "hard constraint failed: overseas_travel=none but the job requires international travel"
	}

	loc := f.cfg.LocationFlexibility
	if !loc.AllowRelocation && relocationPattern.MatchString(text) {
		return false, "hard constraint failed: allow_relocation=false but the job requires relocation"
	}

	if loc.IsraelOnly && nonIsraelPattern.MatchString(text) && !strings.Contains(text, "israel") {
		return false, "hard constraint failed: israel_only is set but the job names a non-Israel location"
	}

	// The allow-list is enforced only when a specific city is explicitly
	// named and the posting is not clearly remote.
	if len(loc.AllowedCities) > 0 && !explicitRemote {
		if city := canonicalCity(raw, text); city != "" && !containsFold(loc.AllowedCities, city) {
			return false, fmt.Sprintf("hard constraint failed: job mentions city %q not in allowed_cities", city)
		}
	}

	return true, ""
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}
