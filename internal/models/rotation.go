package models

import "time"

// RotationPattern is the persisted form of a rotation rule for one team.
type RotationPattern struct {
	ID               string     `db:"id" json:"id"`
	TeamID           string     `db:"team_id" json:"team_id"`
	Kind             string     `db:"kind" json:"kind"`
	SkipWeekends     bool       `db:"skip_weekends" json:"skip_weekends"`
	IgnoreNightShift bool       `db:"ignore_night_shift" json:"ignore_night_shift"`
	StartsAt         time.Time  `db:"starts_at" json:"starts_at"`
	EndsAt           *time.Time `db:"ends_at" json:"ends_at,omitempty"`
	Enabled          bool       `db:"enabled" json:"enabled"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// RotationAssignment maps one employee to a shift group within a pattern.
type RotationAssignment struct {
	ID         string    `db:"id" json:"id"`
	PatternID  string    `db:"pattern_id" json:"pattern_id"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	ShiftCode  string    `db:"shift_code" json:"shift_code"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// RotationHistoryEntry is one generated (date, shift, employee) tuple
// persisted for a team.
type RotationHistoryEntry struct {
	ID         string    `db:"id" json:"id"`
	TeamID     string    `db:"team_id" json:"team_id"`
	PatternID  string    `db:"pattern_id" json:"pattern_id"`
	Day        time.Time `db:"day" json:"day"`
	ShiftCode  string    `db:"shift_code" json:"shift_code"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
