package domain

import "time"

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

// Terminal reports whether no further transition is allowed.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}

// CanTransitionTo allows only processing -> completed and processing -> error.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	return s == JobStatusProcessing && next.Terminal()
}

// Job is one generation request and its outcome. Diagnostic and CompletedAt
// are set only when Status is completed.
type Job struct {
	ID          string
	OwnerID     string
	Status      JobStatus
	Diagnostic  *Diagnostic
	CreatedAt   time.Time
	CompletedAt *time.Time
}
