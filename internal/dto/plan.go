package dto

import "github.com/nordwerk/shiftplan-api/internal/models"

// ScopePayload carries the Area -> Department -> Machine -> Team selection.
// Empty ids mean "not selected".
type ScopePayload struct {
	AreaID       string `json:"area_id"`
	DepartmentID string `json:"department_id"`
	MachineID    string `json:"machine_id"`
	TeamID       string `json:"team_id"`
}

// ShiftEntryPayload is one grid cell occupant on the wire. The shift is the
// external single-letter code (F/S/N), the day a YYYY-MM-DD date.
type ShiftEntryPayload struct {
	Day        string `json:"day" validate:"required"`
	Shift      string `json:"shift" validate:"required,oneof=F S N"`
	EmployeeID string `json:"employee_id" validate:"required"`
}

// WeekQuery identifies the week to load for a scope.
type WeekQuery struct {
	Scope     ScopePayload
	WeekStart string
}

// SavePlanRequest creates or updates a weekly plan. Replacing an existing
// plan requires edit mode, the same gate assignments go through.
type SavePlanRequest struct {
	Scope     ScopePayload        `json:"scope"`
	WeekStart string              `json:"week_start" validate:"required"`
	Name      string              `json:"name" validate:"required,max=120"`
	Notes     string              `json:"notes" validate:"max=2000"`
	Shifts    []ShiftEntryPayload `json:"shifts" validate:"dive"`
	EditMode  bool                `json:"edit_mode"`
}

// AssignRequest is one drop or click attempt against a week's grid.
type AssignRequest struct {
	Scope      ScopePayload `json:"scope"`
	WeekStart  string       `json:"week_start" validate:"required"`
	Day        string       `json:"day" validate:"required"`
	Shift      string       `json:"shift" validate:"required,oneof=F S N"`
	EmployeeID string       `json:"employee_id" validate:"required"`
	EditMode   bool         `json:"edit_mode"`
}

// AutofillRequest replicates one assignment across the week's remaining
// weekdays.
type AutofillRequest struct {
	Scope      ScopePayload `json:"scope"`
	WeekStart  string       `json:"week_start" validate:"required"`
	OriginDay  string       `json:"origin_day" validate:"required"`
	Shift      string       `json:"shift" validate:"required,oneof=F S N"`
	EmployeeID string       `json:"employee_id" validate:"required"`
	EditMode   bool         `json:"edit_mode"`
}

// Week content sources reported to the UI layer.
const (
	WeekSourceManual   = "manual"
	WeekSourceRotation = "rotation"
	WeekSourceFallback = "fallback"
	WeekSourceEmpty    = "empty"
)

// WeekPlanResponse is the resolved content of one scope+week combination.
type WeekPlanResponse struct {
	State  string              `json:"state"`
	Source string              `json:"source"`
	Locked bool                `json:"locked"`
	Plan   *models.ShiftPlan   `json:"plan,omitempty"`
	Shifts []ShiftEntryPayload `json:"shifts"`
}

// AssignResponse reports the grid cell after a successful attempt.
type AssignResponse struct {
	Day       string   `json:"day"`
	Shift     string   `json:"shift"`
	Assigned  bool     `json:"assigned"`
	Occupants []string `json:"occupants"`
}

// AutofillResponse lists the days an autofill actually filled.
type AutofillResponse struct {
	FilledDays []string `json:"filled_days"`
}
