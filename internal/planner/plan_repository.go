package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PlanRepository is a database-backed repository for generated plans.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save inserts a generated plan for a user.
func (r *PlanRepository) Save(ctx context.Context, userID string, plan *Plan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO meal_plans (id, user_id, week_start, data, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		plan.ID, userID, plan.WeekStart.UTC(), string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert meal plan %s: %w", plan.ID, err)
	}
	return nil
}

// ExistsForWeek reports whether the user already has a plan for the given
// week start date.
func (r *PlanRepository) ExistsForWeek(ctx context.Context, userID string, weekStart time.Time) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM meal_plans WHERE user_id = ? AND week_start = ?`,
		userID, weekStart.UTC()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check plans for week: %w", err)
	}
	return count > 0, nil
}

// GetLatest retrieves the most recently created plan for a user, or nil when
// none exists.
func (r *PlanRepository) GetLatest(ctx context.Context, userID string) (*Plan, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `
		SELECT data FROM meal_plans WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`,
		userID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest meal plan: %w", err)
	}

	var plan Plan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan: %w", err)
	}
	return &plan, nil
}
