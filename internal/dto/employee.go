package dto

import "encoding/json"

// EmployeePayload is the normalized employee write shape. Two historical API
// spellings exist in the wild (snake_case and camelCase); normalization
// happens exactly once, here, so the core never branches on field variants.
type EmployeePayload struct {
	FirstName          string  `validate:"required,max=80"`
	LastName           string  `validate:"required,max=80"`
	TeamID             string  `validate:"omitempty,uuid4"`
	DepartmentID       string  `validate:"omitempty,uuid4"`
	AvailabilityStatus string  `validate:"omitempty,oneof=available vacation sick unavailable training other"`
	AvailabilityStart  *string `validate:"omitempty"`
	AvailabilityEnd    *string `validate:"omitempty"`
	AvailabilityReason string  `validate:"max=500"`
}

type employeePayloadWire struct {
	FirstName           *string `json:"first_name"`
	FirstNameCamel      *string `json:"firstName"`
	LastName            *string `json:"last_name"`
	LastNameCamel       *string `json:"lastName"`
	TeamID              *string `json:"team_id"`
	TeamIDCamel         *string `json:"teamId"`
	DepartmentID        *string `json:"department_id"`
	DepartmentIDCamel   *string `json:"departmentId"`
	AvailabilityStatus  *string `json:"availability_status"`
	AvailabilityCamel   *string `json:"availabilityStatus"`
	AvailabilityStart   *string `json:"availability_start"`
	AvailStartCamel     *string `json:"availabilityStart"`
	AvailabilityEnd     *string `json:"availability_end"`
	AvailEndCamel       *string `json:"availabilityEnd"`
	AvailabilityReason  *string `json:"availability_reason"`
	AvailReasonCamel    *string `json:"availabilityReason"`
}

// UnmarshalJSON accepts both spellings, preferring snake_case when both are
// present.
func (p *EmployeePayload) UnmarshalJSON(data []byte) error {
	var wire employeePayloadWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	p.FirstName = coalesce(wire.FirstName, wire.FirstNameCamel)
	p.LastName = coalesce(wire.LastName, wire.LastNameCamel)
	p.TeamID = coalesce(wire.TeamID, wire.TeamIDCamel)
	p.DepartmentID = coalesce(wire.DepartmentID, wire.DepartmentIDCamel)
	p.AvailabilityStatus = coalesce(wire.AvailabilityStatus, wire.AvailabilityCamel)
	p.AvailabilityStart = firstNonNil(wire.AvailabilityStart, wire.AvailStartCamel)
	p.AvailabilityEnd = firstNonNil(wire.AvailabilityEnd, wire.AvailEndCamel)
	p.AvailabilityReason = coalesce(wire.AvailabilityReason, wire.AvailReasonCamel)
	return nil
}

// UpdateAvailabilityRequest changes only the availability fields.
type UpdateAvailabilityRequest struct {
	Status string  `json:"status" validate:"required,oneof=available vacation sick unavailable training other"`
	Start  *string `json:"start,omitempty"`
	End    *string `json:"end,omitempty"`
	Reason string  `json:"reason" validate:"max=500"`
}

func coalesce(values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return ""
}

func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
