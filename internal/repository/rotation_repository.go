package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nordwerk/shiftplan-api/internal/models"
)

const patternColumns = "id, team_id, kind, skip_weekends, ignore_night_shift, starts_at, ends_at, enabled, created_at, updated_at"

// RotationRepository manages rotation patterns, their group assignments and
// the generated history.
type RotationRepository struct {
	db *sqlx.DB
}

// NewRotationRepository constructs a RotationRepository.
func NewRotationRepository(db *sqlx.DB) *RotationRepository {
	return &RotationRepository{db: db}
}

// ListByTeam returns every pattern declared for a team, newest first.
func (r *RotationRepository) ListByTeam(ctx context.Context, teamID string) ([]models.RotationPattern, error) {
	query := fmt.Sprintf("SELECT %s FROM rotation_patterns WHERE team_id = $1 ORDER BY starts_at DESC", patternColumns)
	var patterns []models.RotationPattern
	if err := r.db.SelectContext(ctx, &patterns, query, teamID); err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	return patterns, nil
}

// FindByID fetches a pattern by ID.
func (r *RotationRepository) FindByID(ctx context.Context, id string) (*models.RotationPattern, error) {
	query := fmt.Sprintf("SELECT %s FROM rotation_patterns WHERE id = $1", patternColumns)
	var pattern models.RotationPattern
	if err := r.db.GetContext(ctx, &pattern, query, id); err != nil {
		return nil, err
	}
	return &pattern, nil
}

// FindActiveForTeam returns the enabled pattern whose window covers the given
// day, or sql.ErrNoRows.
func (r *RotationRepository) FindActiveForTeam(ctx context.Context, teamID string, day time.Time) (*models.RotationPattern, error) {
	query := fmt.Sprintf(`SELECT %s FROM rotation_patterns
		WHERE team_id = $1 AND enabled = TRUE
		  AND starts_at <= $2
		  AND (ends_at IS NULL OR ends_at >= $2)
		ORDER BY starts_at DESC LIMIT 1`, patternColumns)
	var pattern models.RotationPattern
	if err := r.db.GetContext(ctx, &pattern, query, teamID, day); err != nil {
		return nil, err
	}
	return &pattern, nil
}

// HasOverlap reports whether an enabled pattern for the team overlaps the
// given window. An open-ended window overlaps everything after its start.
func (r *RotationRepository) HasOverlap(ctx context.Context, teamID string, startsAt time.Time, endsAt *time.Time, excludeID string) (bool, error) {
	query := `SELECT 1 FROM rotation_patterns
		WHERE team_id = $1 AND enabled = TRUE
		  AND starts_at <= $3
		  AND (ends_at IS NULL OR ends_at >= $2)`
	end := endsAt
	if end == nil {
		far := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		end = &far
	}
	args := []interface{}{teamID, startsAt, *end}
	if excludeID != "" {
		query += " AND id <> $4"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check pattern overlap: %w", err)
	}
	return true, nil
}

// Create inserts a new pattern record.
func (r *RotationRepository) Create(ctx context.Context, pattern *models.RotationPattern) error {
	if pattern.ID == "" {
		pattern.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if pattern.CreatedAt.IsZero() {
		pattern.CreatedAt = now
	}
	pattern.UpdatedAt = now

	const query = `INSERT INTO rotation_patterns (id, team_id, kind, skip_weekends, ignore_night_shift, starts_at, ends_at, enabled, created_at, updated_at)
		VALUES (:id, :team_id, :kind, :skip_weekends, :ignore_night_shift, :starts_at, :ends_at, :enabled, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, pattern); err != nil {
		return fmt.Errorf("create pattern: %w", err)
	}
	return nil
}

// SetEnabled flips a pattern's enabled flag.
func (r *RotationRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	const query = `UPDATE rotation_patterns SET enabled = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, enabled, time.Now().UTC()); err != nil {
		return fmt.Errorf("set pattern enabled: %w", err)
	}
	return nil
}

// ReplaceAssignments swaps the full employee/shift-group mapping of a
// pattern in one transaction.
func (r *RotationRepository) ReplaceAssignments(ctx context.Context, patternID string, assignments []models.RotationAssignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace assignments: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rotation_assignments WHERE pattern_id = $1`, patternID); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}

	now := time.Now().UTC()
	const query = `INSERT INTO rotation_assignments (id, pattern_id, employee_id, shift_code, created_at)
		VALUES (:id, :pattern_id, :employee_id, :shift_code, :created_at)`
	for i := range assignments {
		assignment := &assignments[i]
		if assignment.ID == "" {
			assignment.ID = uuid.NewString()
		}
		assignment.PatternID = patternID
		if assignment.CreatedAt.IsZero() {
			assignment.CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, query, assignment); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace assignments: %w", err)
	}
	return nil
}

// ListAssignments returns the group mapping of a pattern ordered by employee.
func (r *RotationRepository) ListAssignments(ctx context.Context, patternID string) ([]models.RotationAssignment, error) {
	const query = `SELECT id, pattern_id, employee_id, shift_code, created_at FROM rotation_assignments WHERE pattern_id = $1 ORDER BY employee_id`
	var assignments []models.RotationAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, patternID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ReplaceHistory rewrites the generated history of a pattern within a window.
func (r *RotationRepository) ReplaceHistory(ctx context.Context, patternID string, from, to time.Time, entries []models.RotationHistoryEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace history: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rotation_history WHERE pattern_id = $1 AND day BETWEEN $2 AND $3`, patternID, from, to); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	now := time.Now().UTC()
	const query = `INSERT INTO rotation_history (id, team_id, pattern_id, day, shift_code, employee_id, created_at)
		VALUES (:id, :team_id, :pattern_id, :day, :shift_code, :employee_id, :created_at)`
	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		entry.PatternID = patternID
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
			return fmt.Errorf("insert history entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace history: %w", err)
	}
	return nil
}

// ListHistory returns the generated entries for a team within a window.
func (r *RotationRepository) ListHistory(ctx context.Context, teamID string, from, to time.Time) ([]models.RotationHistoryEntry, error) {
	const query = `SELECT id, team_id, pattern_id, day, shift_code, employee_id, created_at FROM rotation_history
		WHERE team_id = $1 AND day BETWEEN $2 AND $3 ORDER BY day, shift_code, employee_id`
	var entries []models.RotationHistoryEntry
	if err := r.db.SelectContext(ctx, &entries, query, teamID, from, to); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// DeleteHistoryByPattern removes every generated entry of a pattern. Used
// when the pattern is disabled so stale rotations stop shadowing manual
// plans.
func (r *RotationRepository) DeleteHistoryByPattern(ctx context.Context, patternID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM rotation_history WHERE pattern_id = $1`, patternID); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	return nil
}
