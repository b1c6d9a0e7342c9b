package models

import (
	"time"

	"github.com/nordwerk/shiftplan-api/internal/planner"
)

// Employee is a plannable worker with the canonical availability fields.
// Availability arrives from two historical API spellings; the dto layer
// normalizes both into this single shape before anything else touches it.
type Employee struct {
	ID                 string                     `db:"id" json:"id"`
	FirstName          string                     `db:"first_name" json:"first_name"`
	LastName           string                     `db:"last_name" json:"last_name"`
	TeamID             *string                    `db:"team_id" json:"team_id,omitempty"`
	DepartmentID       *string                    `db:"department_id" json:"department_id,omitempty"`
	AvailabilityStatus planner.AvailabilityStatus `db:"availability_status" json:"availability_status"`
	AvailabilityStart  *time.Time                 `db:"availability_start" json:"availability_start,omitempty"`
	AvailabilityEnd    *time.Time                 `db:"availability_end" json:"availability_end,omitempty"`
	AvailabilityReason *string                    `db:"availability_reason" json:"availability_reason,omitempty"`
	Active             bool                       `db:"active" json:"active"`
	CreatedAt          time.Time                  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time                  `db:"updated_at" json:"updated_at"`
}

// FullName joins the name fields for display in error messages.
func (e Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// Availability converts the stored fields into the planner's window form.
func (e Employee) Availability() planner.Availability {
	reason := ""
	if e.AvailabilityReason != nil {
		reason = *e.AvailabilityReason
	}
	return planner.Availability{
		Status: e.AvailabilityStatus,
		Start:  e.AvailabilityStart,
		End:    e.AvailabilityEnd,
		Reason: reason,
	}
}

// Assignee adapts the employee for the assignment validator.
func (e Employee) Assignee() planner.Assignee {
	return planner.Assignee{ID: e.ID, Name: e.FullName(), Availability: e.Availability()}
}

// EmployeeFilter describes query params for listing employees.
type EmployeeFilter struct {
	TeamID       string
	DepartmentID string
	Search       string
	Active       *bool
	Page         int
	PageSize     int
}
