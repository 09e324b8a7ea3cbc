package diagnostic

import (
	"context"
	"errors"
	"fmt"

	"cineze/internal/infra"
	"cineze/internal/providers/textgen"
)

// maxAttempts is the fixed budget per invocation: one call plus one
// identical retry, no backoff.
const maxAttempts = 2

// Call is everything one invocation sends to the generator.
type Call struct {
	Role            RoleID
	Instruction     string
	UserMessage     string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// CallFor binds a role to a user message.
func CallFor(role Role, userMessage string) Call {
	return Call{
		Role:            role.ID,
		Instruction:     role.Instruction,
		UserMessage:     userMessage,
		Model:           role.Model,
		Temperature:     role.Temperature,
		MaxOutputTokens: role.MaxOutputTokens,
	}
}

func (c Call) request() textgen.Request {
	return textgen.Request{
		Model:             c.Model,
		SystemInstruction: c.Instruction,
		UserMessage:       c.UserMessage,
		Temperature:       c.Temperature,
		MaxOutputTokens:   c.MaxOutputTokens,
	}
}

// Agent runs calls against a generator. It holds no per-call state and is
// safe for concurrent use.
type Agent struct {
	gen     textgen.Generator
	log     infra.Logger
	metrics *Metrics
}

func NewAgent(gen textgen.Generator, log infra.Logger, metrics *Metrics) *Agent {
	return &Agent{gen: gen, log: log.With().Str("component", "agent").Logger(), metrics: metrics}
}

// Invoke returns the validated document, or false once both attempts have
// failed. Failures are logged and counted, never returned.
func Invoke[T any, P document[T]](ctx context.Context, a *Agent, call Call) (*T, bool) {
	req := call.request()
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		doc, err := attemptOnce[T, P](ctx, a.gen, req)
		if err == nil {
			a.metrics.attempt(call.Role, "ok")
			if attempt > 1 {
				a.log.Info().Str("role", string(call.Role)).Int("attempt", attempt).Msg("agent recovered on retry")
			}
			return doc, true
		}
		outcome := "call_error"
		if errors.Is(err, ErrMalformedResponse) {
			outcome = "malformed"
		}
		a.metrics.attempt(call.Role, outcome)
		a.log.Warn().
			Err(err).
			Str("role", string(call.Role)).
			Str("model", call.Model).
			Int("attempt", attempt).
			Str("outcome", outcome).
			Msg("agent attempt failed")
	}
	a.metrics.giveUp(call.Role)
	a.log.Error().Str("role", string(call.Role)).Msg("agent unavailable")
	return nil, false
}

func attemptOnce[T any, P document[T]](ctx context.Context, gen textgen.Generator, req textgen.Request) (doc *T, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("generator panicked: %v", r)
		}
	}()
	raw, err := gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return Sanitize[T, P](raw)
}
