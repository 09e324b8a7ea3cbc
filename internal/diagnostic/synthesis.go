package diagnostic

import (
	"context"

	"cineze/internal/domain"
)

// Synthesizer merges the specialist reports into the final diagnostic.
type Synthesizer struct {
	agent   *Agent
	roles   *Roles
	metrics *Metrics
}

func NewSynthesizer(agent *Agent, roles *Roles, metrics *Metrics) *Synthesizer {
	return &Synthesizer{agent: agent, roles: roles, metrics: metrics}
}

// Run makes exactly one synthesizer invocation regardless of how many
// specialists are available. false means no diagnostic could be produced.
func (s *Synthesizer) Run(ctx context.Context, q domain.Questionnaire, results SpecialistResults) (*domain.Diagnostic, bool) {
	s.metrics.specialists(results.Available())
	msg := formatSynthesisMessage(FormatQuestionnaire(q), s.roles, results)
	return Invoke[domain.Diagnostic](ctx, s.agent, CallFor(s.roles.Synthesizer, msg))
}
