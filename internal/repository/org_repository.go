package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nordwerk/shiftplan-api/internal/models"
	"github.com/nordwerk/shiftplan-api/internal/planner"
)

// OrgRepository reads the organizational hierarchy used for scope selection.
type OrgRepository struct {
	db *sqlx.DB
}

// NewOrgRepository constructs an OrgRepository.
func NewOrgRepository(db *sqlx.DB) *OrgRepository {
	return &OrgRepository{db: db}
}

// ListAreas returns every area ordered by name.
func (r *OrgRepository) ListAreas(ctx context.Context) ([]models.Area, error) {
	const query = `SELECT id, name, created_at, updated_at FROM areas ORDER BY name`
	var areas []models.Area
	if err := r.db.SelectContext(ctx, &areas, query); err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	return areas, nil
}

// ListDepartments returns departments, optionally restricted to one area.
func (r *OrgRepository) ListDepartments(ctx context.Context, areaID string) ([]models.Department, error) {
	query := `SELECT id, area_id, name, created_at, updated_at FROM departments`
	var args []interface{}
	if areaID != "" {
		query += ` WHERE area_id = $1`
		args = append(args, areaID)
	}
	query += ` ORDER BY name`
	var departments []models.Department
	if err := r.db.SelectContext(ctx, &departments, query, args...); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

// ListMachines returns machines, optionally restricted to one department.
func (r *OrgRepository) ListMachines(ctx context.Context, departmentID string) ([]models.Machine, error) {
	query := `SELECT id, department_id, name, created_at, updated_at FROM machines`
	var args []interface{}
	if departmentID != "" {
		query += ` WHERE department_id = $1`
		args = append(args, departmentID)
	}
	query += ` ORDER BY name`
	var machines []models.Machine
	if err := r.db.SelectContext(ctx, &machines, query, args...); err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}
	return machines, nil
}

// ListTeams returns teams, optionally restricted to one department.
func (r *OrgRepository) ListTeams(ctx context.Context, departmentID string) ([]models.Team, error) {
	query := `SELECT id, department_id, name, created_at, updated_at FROM teams`
	var args []interface{}
	if departmentID != "" {
		query += ` WHERE department_id = $1`
		args = append(args, departmentID)
	}
	query += ` ORDER BY name`
	var teams []models.Team
	if err := r.db.SelectContext(ctx, &teams, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

// FindTeam fetches a team by ID.
func (r *OrgRepository) FindTeam(ctx context.Context, id string) (*models.Team, error) {
	const query = `SELECT id, department_id, name, created_at, updated_at FROM teams WHERE id = $1`
	var team models.Team
	if err := r.db.GetContext(ctx, &team, query, id); err != nil {
		return nil, err
	}
	return &team, nil
}

// Catalog loads the full parent mapping the scope validator walks. The
// hierarchy is small (tens of rows per level) so one load per request is
// acceptable; callers cache it where needed.
func (r *OrgRepository) Catalog(ctx context.Context) (planner.Catalog, error) {
	catalog := planner.Catalog{
		DepartmentArea:    map[string]string{},
		MachineDepartment: map[string]string{},
		TeamDepartment:    map[string]string{},
	}

	var areaIDs []string
	if err := r.db.SelectContext(ctx, &areaIDs, `SELECT id FROM areas`); err != nil {
		return catalog, fmt.Errorf("load areas: %w", err)
	}
	catalog.HasAreas = len(areaIDs) > 0

	type link struct {
		ID     string `db:"id"`
		Parent string `db:"parent"`
	}

	var departments []link
	if err := r.db.SelectContext(ctx, &departments, `SELECT id, area_id AS parent FROM departments`); err != nil {
		return catalog, fmt.Errorf("load departments: %w", err)
	}
	for _, d := range departments {
		catalog.DepartmentArea[d.ID] = d.Parent
	}

	var machines []link
	if err := r.db.SelectContext(ctx, &machines, `SELECT id, department_id AS parent FROM machines`); err != nil {
		return catalog, fmt.Errorf("load machines: %w", err)
	}
	for _, m := range machines {
		catalog.MachineDepartment[m.ID] = m.Parent
	}

	var teams []link
	if err := r.db.SelectContext(ctx, &teams, `SELECT id, department_id AS parent FROM teams`); err != nil {
		return catalog, fmt.Errorf("load teams: %w", err)
	}
	for _, t := range teams {
		catalog.TeamDepartment[t.ID] = t.Parent
	}

	return catalog, nil
}
