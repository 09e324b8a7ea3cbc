package diagnostic

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cineze/internal/domain"
	"cineze/internal/infra"
)

// Lifecycle creates jobs and performs their single terminal transition.
type Lifecycle struct {
	store   domain.JobStore
	log     infra.Logger
	metrics *Metrics
	now     func() time.Time
}

func NewLifecycle(store domain.JobStore, log infra.Logger, metrics *Metrics) *Lifecycle {
	return &Lifecycle{
		store:   store,
		log:     log.With().Str("component", "lifecycle").Logger(),
		metrics: metrics,
		now:     time.Now,
	}
}

// JobHandle tracks one job in processing. After a successful Complete or
// Fail every further transition returns domain.ErrInvalidTransition
// without touching the store.
type JobHandle struct {
	ID string

	lc     *Lifecycle
	mu     sync.Mutex
	status domain.JobStatus
}

// Begin persists a new job in processing before any external call is made.
func (l *Lifecycle) Begin(ctx context.Context, ownerID string) (*JobHandle, error) {
	id, err := l.store.CreateJob(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	l.metrics.transition(string(domain.JobStatusProcessing))
	l.log.Info().Str("job_id", id).Str("owner_id", ownerID).Msg("job created")
	return &JobHandle{ID: id, lc: l, status: domain.JobStatusProcessing}, nil
}

// Status returns the last status this handle wrote.
func (h *JobHandle) Status() domain.JobStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Complete stores the diagnostic and moves the job to completed. On a store
// error the handle stays in processing so the caller can still Fail it.
func (h *JobHandle) Complete(ctx context.Context, d *domain.Diagnostic) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.status.CanTransitionTo(domain.JobStatusCompleted) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, h.status, domain.JobStatusCompleted)
	}
	if err := h.lc.store.MarkCompleted(ctx, h.ID, d, h.lc.now().UTC()); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	h.status = domain.JobStatusCompleted
	h.lc.metrics.transition(string(domain.JobStatusCompleted))
	h.lc.log.Info().Str("job_id", h.ID).Msg("job completed")
	return nil
}

// Fail moves the job to error.
func (h *JobHandle) Fail(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.status.CanTransitionTo(domain.JobStatusError) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, h.status, domain.JobStatusError)
	}
	if err := h.lc.store.MarkError(ctx, h.ID); err != nil {
		return fmt.Errorf("mark error: %w", err)
	}
	h.status = domain.JobStatusError
	h.lc.metrics.transition(string(domain.JobStatusError))
	h.lc.log.Info().Str("job_id", h.ID).Msg("job failed")
	return nil
}
