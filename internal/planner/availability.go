package planner

import "time"

// AvailabilityStatus is an employee's base availability state.
type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "available"
	StatusVacation    AvailabilityStatus = "vacation"
	StatusSick        AvailabilityStatus = "sick"
	StatusUnavailable AvailabilityStatus = "unavailable"
	StatusTraining    AvailabilityStatus = "training"
	StatusOther       AvailabilityStatus = "other"
)

// AvailabilityStatuses lists every recognised status.
var AvailabilityStatuses = [6]AvailabilityStatus{
	StatusAvailable, StatusVacation, StatusSick, StatusUnavailable, StatusTraining, StatusOther,
}

// Valid reports whether a is a recognised status.
func (a AvailabilityStatus) Valid() bool {
	switch a {
	case StatusAvailable, StatusVacation, StatusSick, StatusUnavailable, StatusTraining, StatusOther:
		return true
	}
	return false
}

// Availability combines a base status with an optional date window bounding
// when a non-available status applies. A missing start means unbounded past,
// a missing end unbounded future; both missing means the status is permanent.
type Availability struct {
	Status AvailabilityStatus
	Start  *time.Time
	End    *time.Time
	Reason string
}

// ResolveForDate returns the effective status on the given day. An available
// base status always resolves to available; a non-available status applies
// only while the day falls inside the window.
func (a Availability) ResolveForDate(day time.Time) AvailabilityStatus {
	if a.Status == StatusAvailable || a.Status == "" {
		return StatusAvailable
	}

	d := truncateDay(day)
	if a.Start != nil && d.Before(truncateDay(*a.Start)) {
		return StatusAvailable
	}
	if a.End != nil && d.After(truncateDay(*a.End)) {
		return StatusAvailable
	}
	return a.Status
}

// ResolveForWeek returns the base status when the availability window overlaps
// any day of the 7-day week starting at weekStart, else available. Callers use
// it to decide whether a week view should flag the employee at all.
func (a Availability) ResolveForWeek(weekStart time.Time) AvailabilityStatus {
	if a.Status == StatusAvailable || a.Status == "" {
		return StatusAvailable
	}

	ws := truncateDay(weekStart)
	we := ws.AddDate(0, 0, 6)

	if a.Start != nil && truncateDay(*a.Start).After(we) {
		return StatusAvailable
	}
	if a.End != nil && truncateDay(*a.End).Before(ws) {
		return StatusAvailable
	}
	return a.Status
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
