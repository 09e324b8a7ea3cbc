package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"cineze/internal/domain"
)

// MemoryJobStore keeps jobs in process memory. It backs the CLI run command
// and tests.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
	now  func() time.Time
}

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: map[string]*domain.Job{}, now: time.Now}
}

func (s *MemoryJobStore) CreateJob(ctx context.Context, ownerID string) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[id] = &domain.Job{
		ID:        id,
		OwnerID:   ownerID,
		Status:    domain.JobStatusProcessing,
		CreatedAt: s.now().UTC(),
	}
	return id, nil
}

func (s *MemoryJobStore) MarkCompleted(ctx context.Context, jobID string, d *domain.Diagnostic, completedAt time.Time) error {
	return s.transition(jobID, domain.JobStatusCompleted, func(job *domain.Job) {
		job.Diagnostic = d
		at := completedAt
		job.CompletedAt = &at
	})
}

func (s *MemoryJobStore) MarkError(ctx context.Context, jobID string) error {
	return s.transition(jobID, domain.JobStatusError, nil)
}

func (s *MemoryJobStore) MarkStaleAsError(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, job := range s.jobs {
		if job.Status == domain.JobStatusProcessing && job.CreatedAt.Before(olderThan) {
			job.Status = domain.JobStatusError
			n++
		}
	}
	return n, nil
}

// GetJob returns a copy; callers cannot mutate stored state.
func (s *MemoryJobStore) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (s *MemoryJobStore) transition(jobID string, next domain.JobStatus, apply func(*domain.Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	if !job.Status.CanTransitionTo(next) {
		return domain.ErrInvalidTransition
	}
	job.Status = next
	if apply != nil {
		apply(job)
	}
	return nil
}

// MemoryEntitlements is a fixed set of users with an active plan.
type MemoryEntitlements struct {
	mu     sync.RWMutex
	active map[string]bool
}

func NewMemoryEntitlements(activeUsers ...string) *MemoryEntitlements {
	m := &MemoryEntitlements{active: map[string]bool{}}
	for _, id := range activeUsers {
		m.active[id] = true
	}
	return m
}

func (m *MemoryEntitlements) HasActivePlan(ctx context.Context, userID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active[userID], nil
}

func (m *MemoryEntitlements) SetPlanActive(userID string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[userID] = active
}

var (
	_ domain.JobStore         = (*MemoryJobStore)(nil)
	_ domain.StaleJobSweeper  = (*MemoryJobStore)(nil)
	_ domain.EntitlementStore = (*MemoryEntitlements)(nil)
)
