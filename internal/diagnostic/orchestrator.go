// Package diagnostic generates business diagnostics: five specialist
// reports fan out from one questionnaire, a synthesizer merges them, and
// the result is persisted on a job that ends completed or error.
package diagnostic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cineze/internal/domain"
	"cineze/internal/infra"
	"cineze/internal/providers/textgen"
)

var (
	ErrSynthesisFailed = errors.New("could not produce diagnostic")
	ErrPersistFailed   = errors.New("could not persist diagnostic")
)

// Orchestrator composes the pipeline for one request at a time; it keeps
// no state between requests and may be shared.
type Orchestrator struct {
	lifecycle *Lifecycle
	fanout    *FanOut
	synth     *Synthesizer
	log       infra.Logger
	metrics   *Metrics
}

func NewOrchestrator(gen textgen.Generator, store domain.JobStore, roles *Roles, log infra.Logger, metrics *Metrics) *Orchestrator {
	agent := NewAgent(gen, log, metrics)
	return &Orchestrator{
		lifecycle: NewLifecycle(store, log, metrics),
		fanout:    NewFanOut(agent, roles, log),
		synth:     NewSynthesizer(agent, roles, metrics),
		log:       log.With().Str("component", "orchestrator").Logger(),
		metrics:   metrics,
	}
}

// Generate runs the whole pipeline and returns the job id. Invalid input
// is rejected before a job exists. On ErrSynthesisFailed or
// ErrPersistFailed the job has been moved to error and its id is still
// returned.
func (o *Orchestrator) Generate(ctx context.Context, ownerID string, q domain.Questionnaire) (jobID string, err error) {
	if err := q.Validate(); err != nil {
		return "", err
	}
	start := time.Now()
	job, err := o.lifecycle.Begin(ctx, ownerID)
	if err != nil {
		o.metrics.pipeline("create_failed", time.Since(start))
		return "", err
	}
	log := o.log.With().Str("job_id", job.ID).Logger()

	defer func() {
		if r := recover(); r != nil {
			o.fail(ctx, job, log)
			o.metrics.pipeline("panic", time.Since(start))
			panic(r)
		}
	}()

	results := o.fanout.Run(ctx, q)
	log.Info().Int("specialists_available", results.Available()).Msg("fan-out settled")

	diag, ok := o.synth.Run(ctx, q, results)
	if !ok {
		o.fail(ctx, job, log)
		o.metrics.pipeline("synthesis_failed", time.Since(start))
		return job.ID, ErrSynthesisFailed
	}

	if err := job.Complete(ctx, diag); err != nil {
		log.Error().Err(err).Msg("persist diagnostic")
		o.fail(ctx, job, log)
		o.metrics.pipeline("persist_failed", time.Since(start))
		return job.ID, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	o.metrics.pipeline("completed", time.Since(start))
	log.Info().Dur("elapsed", time.Since(start)).Msg("diagnostic completed")
	return job.ID, nil
}

func (o *Orchestrator) fail(ctx context.Context, job *JobHandle, log infra.Logger) {
	if err := job.Fail(context.WithoutCancel(ctx)); err != nil {
		log.Error().Err(err).Msg("mark job error")
	}
}
