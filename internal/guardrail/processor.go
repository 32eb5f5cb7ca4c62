package guardrail

import "log/slog"

// PostProcessor runs the ordered rule list over an oracle score. The same
// input and starting score always produce the same adjusted score and notes.
type PostProcessor struct {
	rules  []Rule
	logger *slog.Logger
}

// NewPostProcessor returns a processor wired with DefaultRules.
func NewPostProcessor(logger *slog.Logger) *PostProcessor {
	return &PostProcessor{rules: DefaultRules(), logger: logger}
}

// Apply adjusts the oracle score and returns it with one note per adjustment.
// Rules run in list order; a rule that does not apply leaves the score and
// notes untouched. The clamp rule runs last, so the returned score is always
// within [0,100].
func (p *PostProcessor) Apply(score int, in Input) (int, []string) {
	ev := newEvaluation(in)
	var notes []string
	for _, r := range p.rules {
		next, note := r.fire(ev, score)
		if note != "" {
			p.logger.Debug("guardrail rule fired",
				"rule", r.ID,
				"title", in.Job.Title,
				"before", score,
				"after", next)
			notes = append(notes, note)
		}
		score = next
	}
	return score, notes
}
