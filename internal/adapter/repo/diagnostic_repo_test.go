package repo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"cineze/internal/domain"
	"cineze/internal/sqlinline"
)

func sampleDiagnostic() *domain.Diagnostic {
	d := &domain.Diagnostic{
		OverallScore:     6.5,
		Level:            domain.LevelGrowing,
		ExecutiveSummary: "Negócio com base sólida",
		RootProblem:      "Pouca visibilidade",
		Pillars: domain.Pillars{
			Visibility:  domain.Pillar{Score: 4},
			Acquisition: domain.Pillar{Score: 6},
			Conversion:  domain.Pillar{Score: 7},
			Positioning: domain.Pillar{Score: 8},
		},
		Communication: domain.CommunicationAudit{Score: 5},
	}
	for i := 1; i <= domain.SmartObjectiveCount; i++ {
		d.SmartObjectives = append(d.SmartObjectives, domain.SmartObjective{Number: i, Title: "obj"})
	}
	d.ActionPlan = []domain.ActionItem{{Number: 1, Priority: domain.PriorityHigh, Week: 1}}
	for i := 0; i < domain.MinMetrics; i++ {
		d.Metrics = append(d.Metrics, domain.Metric{Name: "m"})
	}
	return d
}

func TestCreateJobInsertsProcessing(t *testing.T) {
	exec := &stubExecutor{row: rowOf("job-1")}
	r := NewDiagnosticRepository(exec)

	id, err := r.CreateJob(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if id != "job-1" {
		t.Fatalf("id = %q", id)
	}
	got := exec.queries[0]
	if got.query != sqlinline.QInsertDiagnosticJob {
		t.Fatalf("unexpected query")
	}
	if got.args[0] != "user-1" || got.args[1] != dbStatusProcessing {
		t.Fatalf("args = %#v", got.args)
	}
}

func TestMarkCompletedGuardsOnProcessing(t *testing.T) {
	exec := &stubExecutor{tag: pgconn.NewCommandTag("UPDATE 1")}
	r := NewDiagnosticRepository(exec)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := r.MarkCompleted(context.Background(), "job-1", sampleDiagnostic(), at); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	args := exec.execs[0].args
	if len(args) != 21 {
		t.Fatalf("got %d args, want 21", len(args))
	}
	if args[1] != dbStatusCompleted || args[20] != dbStatusProcessing {
		t.Fatalf("status args = %v, %v", args[1], args[20])
	}
	if args[19] != at {
		t.Fatalf("completedAt = %v", args[19])
	}
	var objectives []domain.SmartObjective
	if err := json.Unmarshal(args[16].([]byte), &objectives); err != nil || len(objectives) != domain.SmartObjectiveCount {
		t.Fatalf("objetivos_smart column = %s (%v)", args[16], err)
	}
}

func TestTransitionRefusedWhenNoRowsAffected(t *testing.T) {
	exec := &stubExecutor{tag: pgconn.NewCommandTag("UPDATE 0")}
	r := NewDiagnosticRepository(exec)

	err := r.MarkCompleted(context.Background(), "job-1", sampleDiagnostic(), time.Now())
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("MarkCompleted = %v, want ErrInvalidTransition", err)
	}
	if err := r.MarkError(context.Background(), "job-1"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("MarkError = %v, want ErrInvalidTransition", err)
	}
}

func TestMarkErrorPropagatesExecFailure(t *testing.T) {
	boom := errors.New("connection reset")
	r := NewDiagnosticRepository(&stubExecutor{execErr: boom})
	if err := r.MarkError(context.Background(), "job-1"); !errors.Is(err, boom) {
		t.Fatalf("MarkError = %v, want %v", err, boom)
	}
}

func TestGetJobNotFound(t *testing.T) {
	r := NewDiagnosticRepository(&stubExecutor{})
	if _, err := r.GetJob(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetJob = %v, want ErrNotFound", err)
	}
}

func TestGetJobProcessingHasNoDiagnostic(t *testing.T) {
	created := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	exec := &stubExecutor{row: rowOf(
		"job-1", "user-1", dbStatusProcessing, created,
		nil, nil, nil, nil, nil,
		nil, nil, nil, nil, nil, nil, nil, nil,
	)}
	job, err := NewDiagnosticRepository(exec).GetJob(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if job.Status != domain.JobStatusProcessing || job.Diagnostic != nil || job.CompletedAt != nil {
		t.Fatalf("job = %+v", job)
	}
}

func TestGetJobRebuildsCompletedDiagnostic(t *testing.T) {
	d := sampleDiagnostic()
	cols, err := encodeColumns(d)
	if err != nil {
		t.Fatalf("encodeColumns: %v", err)
	}
	created := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	done := created.Add(2 * time.Minute)
	score := d.OverallScore
	level := string(d.Level)
	exec := &stubExecutor{row: rowOf(
		"job-1", "user-1", dbStatusCompleted, created,
		&done, &score, &level, &d.ExecutiveSummary, &d.RootProblem,
		cols.pillars, cols.channels, cols.market, cols.company,
		cols.communication, cols.objectives, cols.actions, cols.metrics,
	)}

	job, err := NewDiagnosticRepository(exec).GetJob(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if job.Status != domain.JobStatusCompleted || job.CompletedAt == nil || !job.CompletedAt.Equal(done) {
		t.Fatalf("job = %+v", job)
	}
	got := job.Diagnostic
	if got.Level != domain.LevelGrowing || got.RootProblem != d.RootProblem {
		t.Fatalf("diagnostic = %+v", got)
	}
	if got.Pillars.Positioning.Score != 8 || len(got.SmartObjectives) != domain.SmartObjectiveCount {
		t.Fatalf("diagnostic parts not decoded: %+v", got)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("rebuilt diagnostic invalid: %v", err)
	}
}

func TestGetJobUnknownStatus(t *testing.T) {
	exec := &stubExecutor{row: rowOf(
		"job-1", "user-1", "pendente", time.Now(),
		nil, nil, nil, nil, nil,
		nil, nil, nil, nil, nil, nil, nil, nil,
	)}
	if _, err := NewDiagnosticRepository(exec).GetJob(context.Background(), "job-1"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestMarkStaleAsError(t *testing.T) {
	exec := &stubExecutor{tag: pgconn.NewCommandTag("UPDATE 3")}
	cutoff := time.Now().Add(-15 * time.Minute)
	n, err := NewDiagnosticRepository(exec).MarkStaleAsError(context.Background(), cutoff)
	if err != nil || n != 3 {
		t.Fatalf("MarkStaleAsError = %d, %v", n, err)
	}
	args := exec.execs[0].args
	if args[0] != dbStatusError || args[1] != dbStatusProcessing || args[2] != cutoff {
		t.Fatalf("args = %#v", args)
	}
}
