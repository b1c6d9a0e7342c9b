package models

import "time"

// ShiftPlan is one persisted weekly schedule tied to a scope and date range.
type ShiftPlan struct {
	ID           string    `db:"id" json:"id"`
	AreaID       *string   `db:"area_id" json:"area_id,omitempty"`
	DepartmentID *string   `db:"department_id" json:"department_id,omitempty"`
	MachineID    *string   `db:"machine_id" json:"machine_id,omitempty"`
	TeamID       *string   `db:"team_id" json:"team_id,omitempty"`
	WeekStart    time.Time `db:"week_start" json:"week_start"`
	WeekEnd      time.Time `db:"week_end" json:"week_end"`
	Name         string    `db:"name" json:"name"`
	Notes        string    `db:"notes" json:"notes"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ShiftEntry is one assignment inside a plan. The shift travels as its
// external single-letter code (F/S/N); the planner package owns conversion.
type ShiftEntry struct {
	ID         string    `db:"id" json:"id"`
	PlanID     string    `db:"plan_id" json:"plan_id"`
	Day        time.Time `db:"day" json:"day"`
	ShiftCode  string    `db:"shift_code" json:"shift_code"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
