package domain

import (
	"context"
	"time"
)

// JobStore persists diagnostic jobs. MarkCompleted and MarkError only apply
// to jobs still in processing and return ErrInvalidTransition otherwise.
type JobStore interface {
	CreateJob(ctx context.Context, ownerID string) (string, error)
	MarkCompleted(ctx context.Context, jobID string, d *Diagnostic, completedAt time.Time) error
	MarkError(ctx context.Context, jobID string) error
	GetJob(ctx context.Context, jobID string) (*Job, error)
}

// EntitlementStore answers whether a user may generate diagnostics.
type EntitlementStore interface {
	HasActivePlan(ctx context.Context, userID string) (bool, error)
}

// ProfileRepository manages the entitlement flag from operator tooling.
type ProfileRepository interface {
	EntitlementStore
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	SetPlanActive(ctx context.Context, userID string, active bool) error
}

// StaleJobSweeper fails jobs left in processing by a crashed process.
type StaleJobSweeper interface {
	MarkStaleAsError(ctx context.Context, olderThan time.Time) (int64, error)
}
