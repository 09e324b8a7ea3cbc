package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cineze/internal/domain"
	"cineze/internal/infra"
	"cineze/internal/sqlinline"
)

// Status values stored in diagnosticos.status.
const (
	dbStatusProcessing = "processando"
	dbStatusCompleted  = "concluido"
	dbStatusError      = "erro"
)

func toDBStatus(s domain.JobStatus) string {
	switch s {
	case domain.JobStatusCompleted:
		return dbStatusCompleted
	case domain.JobStatusError:
		return dbStatusError
	default:
		return dbStatusProcessing
	}
}

func fromDBStatus(s string) (domain.JobStatus, error) {
	switch s {
	case dbStatusProcessing:
		return domain.JobStatusProcessing, nil
	case dbStatusCompleted:
		return domain.JobStatusCompleted, nil
	case dbStatusError:
		return domain.JobStatusError, nil
	}
	return "", fmt.Errorf("unknown diagnostic status %q", s)
}

// DiagnosticRepository stores jobs in the diagnosticos table, one flattened
// row per job.
type DiagnosticRepository struct {
	sql infra.SQLExecutor
}

func NewDiagnosticRepository(sql infra.SQLExecutor) *DiagnosticRepository {
	return &DiagnosticRepository{sql: sql}
}

func (r *DiagnosticRepository) CreateJob(ctx context.Context, ownerID string) (string, error) {
	var id string
	if err := r.sql.QueryRow(ctx, sqlinline.QInsertDiagnosticJob, ownerID, dbStatusProcessing).Scan(&id); err != nil {
		return "", fmt.Errorf("insert diagnostic job: %w", err)
	}
	return id, nil
}

func (r *DiagnosticRepository) MarkCompleted(ctx context.Context, jobID string, d *domain.Diagnostic, completedAt time.Time) error {
	if d == nil {
		return fmt.Errorf("%w: nil diagnostic", domain.ErrInvalidDocument)
	}
	cols, err := encodeColumns(d)
	if err != nil {
		return err
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QCompleteDiagnosticJob,
		jobID,
		dbStatusCompleted,
		d.OverallScore,
		string(d.Level),
		d.ExecutiveSummary,
		d.RootProblem,
		d.Pillars.Visibility.Score,
		d.Pillars.Acquisition.Score,
		d.Pillars.Conversion.Score,
		d.Pillars.Positioning.Score,
		d.Communication.Score,
		cols.pillars,
		cols.channels,
		cols.market,
		cols.company,
		cols.communication,
		cols.objectives,
		cols.actions,
		cols.metrics,
		completedAt,
		dbStatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("complete diagnostic job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: job %s is not processing", domain.ErrInvalidTransition, jobID)
	}
	return nil
}

func (r *DiagnosticRepository) MarkError(ctx context.Context, jobID string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QFailDiagnosticJob, jobID, dbStatusError, dbStatusProcessing)
	if err != nil {
		return fmt.Errorf("fail diagnostic job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: job %s is not processing", domain.ErrInvalidTransition, jobID)
	}
	return nil
}

// MarkStaleAsError fails every job still processing that was created
// before olderThan.
func (r *DiagnosticRepository) MarkStaleAsError(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QFailStaleDiagnosticJobs, dbStatusError, dbStatusProcessing, olderThan)
	if err != nil {
		return 0, fmt.Errorf("sweep stale jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *DiagnosticRepository) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	var (
		job         domain.Job
		status      string
		completedAt *time.Time
		score       *float64
		level       *string
		summary     *string
		rootProblem *string
		cols        columns
	)
	err := r.sql.QueryRow(ctx, sqlinline.QSelectDiagnosticJob, jobID).Scan(
		&job.ID,
		&job.OwnerID,
		&status,
		&job.CreatedAt,
		&completedAt,
		&score,
		&level,
		&summary,
		&rootProblem,
		&cols.pillars,
		&cols.channels,
		&cols.market,
		&cols.company,
		&cols.communication,
		&cols.objectives,
		&cols.actions,
		&cols.metrics,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get diagnostic job: %w", err)
	}
	if job.Status, err = fromDBStatus(status); err != nil {
		return nil, err
	}
	if job.Status != domain.JobStatusCompleted {
		return &job, nil
	}

	d := &domain.Diagnostic{
		OverallScore:     deref(score),
		Level:            domain.Level(deref(level)),
		ExecutiveSummary: deref(summary),
		RootProblem:      deref(rootProblem),
	}
	if err := cols.decode(d); err != nil {
		return nil, fmt.Errorf("decode diagnostic %s: %w", jobID, err)
	}
	job.Diagnostic = d
	job.CompletedAt = completedAt
	return &job, nil
}

// columns are the jsonb parts of a completed row.
type columns struct {
	pillars       []byte
	channels      []byte
	market        []byte
	company       []byte
	communication []byte
	objectives    []byte
	actions       []byte
	metrics       []byte
}

func encodeColumns(d *domain.Diagnostic) (columns, error) {
	var (
		c   columns
		err error
	)
	parts := []struct {
		dst *[]byte
		v   any
	}{
		{&c.pillars, d.Pillars},
		{&c.channels, d.ChannelMaturity},
		{&c.market, d.Market},
		{&c.company, d.Company},
		{&c.communication, d.Communication},
		{&c.objectives, d.SmartObjectives},
		{&c.actions, d.ActionPlan},
		{&c.metrics, d.Metrics},
	}
	for _, p := range parts {
		if *p.dst, err = json.Marshal(p.v); err != nil {
			return columns{}, fmt.Errorf("encode diagnostic: %w", err)
		}
	}
	return c, nil
}

func (c columns) decode(d *domain.Diagnostic) error {
	parts := []struct {
		src []byte
		dst any
	}{
		{c.pillars, &d.Pillars},
		{c.channels, &d.ChannelMaturity},
		{c.market, &d.Market},
		{c.company, &d.Company},
		{c.communication, &d.Communication},
		{c.objectives, &d.SmartObjectives},
		{c.actions, &d.ActionPlan},
		{c.metrics, &d.Metrics},
	}
	for _, p := range parts {
		if len(p.src) == 0 {
			continue
		}
		if err := json.Unmarshal(p.src, p.dst); err != nil {
			return err
		}
	}
	return nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

var (
	_ domain.JobStore        = (*DiagnosticRepository)(nil)
	_ domain.StaleJobSweeper = (*DiagnosticRepository)(nil)
)
