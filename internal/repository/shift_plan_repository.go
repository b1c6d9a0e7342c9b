package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nordwerk/shiftplan-api/internal/models"
)

const planColumns = "id, area_id, department_id, machine_id, team_id, week_start, week_end, name, notes, created_at, updated_at"

// ShiftPlanRepository manages persistence for weekly plans and their entries.
type ShiftPlanRepository struct {
	db *sqlx.DB
}

// NewShiftPlanRepository constructs a ShiftPlanRepository.
func NewShiftPlanRepository(db *sqlx.DB) *ShiftPlanRepository {
	return &ShiftPlanRepository{db: db}
}

// FindByScopeWeek fetches the plan stored for one scope and week start.
// Scope ids are compared null-safely so an unselected level matches an
// unset column. Returns sql.ErrNoRows when no plan exists.
func (r *ShiftPlanRepository) FindByScopeWeek(ctx context.Context, areaID, departmentID, machineID, teamID string, weekStart time.Time) (*models.ShiftPlan, error) {
	query := fmt.Sprintf(`SELECT %s FROM shift_plans
		WHERE COALESCE(area_id, '') = $1
		  AND COALESCE(department_id, '') = $2
		  AND COALESCE(machine_id, '') = $3
		  AND COALESCE(team_id, '') = $4
		  AND week_start = $5`, planColumns)
	var plan models.ShiftPlan
	if err := r.db.GetContext(ctx, &plan, query, areaID, departmentID, machineID, teamID, weekStart); err != nil {
		return nil, err
	}
	return &plan, nil
}

// FindByID fetches a plan by ID.
func (r *ShiftPlanRepository) FindByID(ctx context.Context, id string) (*models.ShiftPlan, error) {
	query := fmt.Sprintf("SELECT %s FROM shift_plans WHERE id = $1", planColumns)
	var plan models.ShiftPlan
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListEntries returns all entries of a plan ordered by day then shift.
func (r *ShiftPlanRepository) ListEntries(ctx context.Context, planID string) ([]models.ShiftEntry, error) {
	const query = `SELECT id, plan_id, day, shift_code, employee_id, created_at FROM shift_entries WHERE plan_id = $1 ORDER BY day, shift_code, employee_id`
	var entries []models.ShiftEntry
	if err := r.db.SelectContext(ctx, &entries, query, planID); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// CreateWithEntries inserts a plan and its entries in one transaction.
func (r *ShiftPlanRepository) CreateWithEntries(ctx context.Context, plan *models.ShiftPlan, entries []models.ShiftEntry) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create plan: %w", err)
	}
	defer tx.Rollback()

	const planQuery = `INSERT INTO shift_plans (id, area_id, department_id, machine_id, team_id, week_start, week_end, name, notes, created_at, updated_at)
		VALUES (:id, :area_id, :department_id, :machine_id, :team_id, :week_start, :week_end, :name, :notes, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, planQuery, plan); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}

	if err := insertEntries(ctx, tx, plan.ID, entries, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create plan: %w", err)
	}
	return nil
}

// UpdateWithEntries rewrites a plan's metadata and replaces all of its
// entries in one transaction.
func (r *ShiftPlanRepository) UpdateWithEntries(ctx context.Context, plan *models.ShiftPlan, entries []models.ShiftEntry) error {
	now := time.Now().UTC()
	plan.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update plan: %w", err)
	}
	defer tx.Rollback()

	const planQuery = `UPDATE shift_plans SET name = :name, notes = :notes, week_end = :week_end, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, planQuery, plan); err != nil {
		return fmt.Errorf("update plan: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM shift_entries WHERE plan_id = $1`, plan.ID); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}

	if err := insertEntries(ctx, tx, plan.ID, entries, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update plan: %w", err)
	}
	return nil
}

// Delete removes a plan and its entries.
func (r *ShiftPlanRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete plan: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shift_entries WHERE plan_id = $1`, id); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shift_plans WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete plan: %w", err)
	}
	return nil
}

func insertEntries(ctx context.Context, tx *sqlx.Tx, planID string, entries []models.ShiftEntry, now time.Time) error {
	const query = `INSERT INTO shift_entries (id, plan_id, day, shift_code, employee_id, created_at)
		VALUES (:id, :plan_id, :day, :shift_code, :employee_id, :created_at)`
	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		entry.PlanID = planID
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
	}
	return nil
}
