package repo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cineze/internal/domain"
)

func TestMemoryJobStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryJobStore()

	id, err := s.CreateJob(ctx, "user-1")
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	job, _ := s.GetJob(ctx, id)
	if job.Status != domain.JobStatusProcessing || job.OwnerID != "user-1" {
		t.Fatalf("job = %+v", job)
	}

	at := time.Now()
	if err := s.MarkCompleted(ctx, id, sampleDiagnostic(), at); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if err := s.MarkError(ctx, id); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("MarkError after completion = %v", err)
	}
	job, _ = s.GetJob(ctx, id)
	if job.Status != domain.JobStatusCompleted || job.Diagnostic == nil || !job.CompletedAt.Equal(at) {
		t.Fatalf("job = %+v", job)
	}

	if _, err := s.GetJob(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetJob = %v", err)
	}
	if err := s.MarkError(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("MarkError = %v", err)
	}
}

func TestMemoryJobStoreSingleTerminalWinner(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryJobStore()
	id, _ := s.CreateJob(ctx, "user-1")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				err = s.MarkError(ctx, id)
			} else {
				err = s.MarkCompleted(ctx, id, sampleDiagnostic(), time.Now())
			}
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("%d transitions succeeded, want 1", wins)
	}
}

func TestMemoryJobStoreSweep(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryJobStore()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	old, _ := s.CreateJob(ctx, "u")
	done, _ := s.CreateJob(ctx, "u")
	_ = s.MarkError(ctx, done)
	s.now = func() time.Time { return base.Add(time.Hour) }
	fresh, _ := s.CreateJob(ctx, "u")

	n, err := s.MarkStaleAsError(ctx, base.Add(30*time.Minute))
	if err != nil || n != 1 {
		t.Fatalf("MarkStaleAsError = %d, %v", n, err)
	}
	if job, _ := s.GetJob(ctx, old); job.Status != domain.JobStatusError {
		t.Fatalf("old job status = %s", job.Status)
	}
	if job, _ := s.GetJob(ctx, fresh); job.Status != domain.JobStatusProcessing {
		t.Fatalf("fresh job status = %s", job.Status)
	}
}

func TestMemoryEntitlements(t *testing.T) {
	e := NewMemoryEntitlements("user-1")
	if ok, _ := e.HasActivePlan(context.Background(), "user-1"); !ok {
		t.Fatalf("expected active plan")
	}
	e.SetPlanActive("user-1", false)
	if ok, _ := e.HasActivePlan(context.Background(), "user-1"); ok {
		t.Fatalf("expected inactive plan")
	}
}
