package dto

// CreatePatternRequest declares a rotation rule for a team.
type CreatePatternRequest struct {
	TeamID           string  `json:"team_id" validate:"required"`
	Kind             string  `json:"kind" validate:"required,oneof=alternate_fs fixed_n custom"`
	SkipWeekends     bool    `json:"skip_weekends"`
	IgnoreNightShift bool    `json:"ignore_night_shift"`
	StartsAt         string  `json:"starts_at" validate:"required"`
	EndsAt           *string `json:"ends_at,omitempty"`
}

// GroupAssignment maps one employee to a pattern shift group.
type GroupAssignment struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Shift      string `json:"shift" validate:"required,oneof=F S N"`
}

// AssignGroupsRequest replaces the employee/shift-group mapping of a pattern.
type AssignGroupsRequest struct {
	Assignments []GroupAssignment `json:"assignments" validate:"required,min=1,dive"`
}

// GenerateHistoryRequest asks for history generation over a window.
type GenerateHistoryRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// HistoryEntryPayload is one generated tuple on the wire.
type HistoryEntryPayload struct {
	Day        string `json:"day"`
	Shift      string `json:"shift"`
	EmployeeID string `json:"employee_id"`
	Status     string `json:"status"`
}

// GenerateHistoryResponse summarises a generation run.
type GenerateHistoryResponse struct {
	PatternID string `json:"pattern_id"`
	Generated int    `json:"generated"`
	From      string `json:"from"`
	To        string `json:"to"`
}
