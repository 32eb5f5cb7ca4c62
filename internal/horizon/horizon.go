// Package horizon computes the career-horizon bonus: a small deterministic
// reward for postings aligned with the candidate's long-term target roles.
// The bonus is additive only; it can raise a score toward 100 but never
// lower it.
package horizon

import (
	"fmt"
	"math"
	"strings"

	"github.com/matchwarden/matchwarden/internal/model"
)

// MaxBonus caps the points so the bonus can never override the base score.
const MaxBonus = 30

const (
	exactAlignment   = 1.0
	partialAlignment = 0.6
)

// strategicRoles are transferable stepping-stone titles that earn partial
// alignment when no exact target role is mentioned.
var strategicRoles = []string{"cto office", "principal", "staff", "architect", "head of", "director", "vp"}

// Calculator scores postings against a career-horizon configuration.
type Calculator struct {
	targets []string
	weight  float64
}

// NewCalculator builds a calculator from the given config. Target roles are
// lowercased and the additive weight is clamped to [0,1].
func NewCalculator(cfg model.CareerHorizonConfig) *Calculator {
	targets := make([]string, 0, len(cfg.TargetRoles))
	for _, t := range cfg.TargetRoles {
		t = strings.TrimSpace(strings.ToLower(t))
		if t != "" {
			targets = append(targets, t)
		}
	}
	weight := cfg.AdditiveWeight
	if weight < 0 {
		weight = 0
	}
	if weight > 1 {
		weight = 1
	}
	return &Calculator{targets: targets, weight: weight}
}

// Alignment returns 1.0 when the title or description mentions a target role
// exactly, 0.6 for a strategic partial match, and 0.0 otherwise. Without
// configured target roles there is nothing to align with and the result is
// always 0.0.
func (c *Calculator) Alignment(job model.JobPosting) float64 {
	if len(c.targets) == 0 {
		return 0
	}
	text := strings.ToLower(job.Title + "\n" + job.Description)
	for _, t := range c.targets {
		if strings.Contains(text, t) {
			return exactAlignment
		}
	}
	for _, r := range strategicRoles {
		if strings.Contains(text, r) {
			return partialAlignment
		}
	}
	return 0
}

// Bonus returns the additive points for the posting together with the
// underlying alignment. Points are round(100 × alignment × weight), capped
// at MaxBonus.
func (c *Calculator) Bonus(job model.JobPosting) (int, float64) {
	alignment := c.Alignment(job)
	points := int(math.Round(100 * alignment * c.weight))
	if points < 0 {
		points = 0
	}
	if points > MaxBonus {
		points = MaxBonus
	}
	return points, alignment
}

// Note renders the reasoning line appended when points were granted.
func Note(points int, alignment float64) string {
	return fmt.Sprintf("Career horizon bonus: +%d points (alignment %.2f).", points, alignment)
}
