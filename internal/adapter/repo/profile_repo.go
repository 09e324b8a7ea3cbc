package repo

import (
	"context"
	"fmt"

	"cineze/internal/domain"
	"cineze/internal/infra"
	"cineze/internal/sqlinline"
)

// ProfileRepository reads and toggles the plan flag on profiles.
type ProfileRepository struct {
	sql infra.SQLExecutor
}

func NewProfileRepository(sql infra.SQLExecutor) *ProfileRepository {
	return &ProfileRepository{sql: sql}
}

// HasActivePlan is false for unknown users.
func (r *ProfileRepository) HasActivePlan(ctx context.Context, userID string) (bool, error) {
	var active bool
	if err := r.sql.QueryRow(ctx, sqlinline.QSelectProfilePlan, userID).Scan(&active); err != nil {
		if infra.IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("load plan: %w", err)
	}
	return active, nil
}

func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.sql.QueryRow(ctx, sqlinline.QSelectProfile, userID).Scan(
		&p.UserID,
		&p.OwnerName,
		&p.BusinessName,
		&p.PlanActive,
		&p.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepository) SetPlanActive(ctx context.Context, userID string, active bool) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateProfilePlan, userID, active)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.ProfileRepository = (*ProfileRepository)(nil)
