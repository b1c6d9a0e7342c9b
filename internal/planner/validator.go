package planner

import "fmt"

// Assignee is the employee view the validator needs: identity plus the
// availability window resolved at the data-ingestion boundary.
type Assignee struct {
	ID           string
	Name         string
	Availability Availability
}

// UnavailableError reports that the employee's effective status on the target
// date is not available.
type UnavailableError struct {
	Status AvailabilityStatus
	Reason string
}

func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("employee unavailable: %s (%s)", e.Status, e.Reason)
	}
	return fmt.Sprintf("employee unavailable: %s", e.Status)
}

// DuplicateShiftError reports a same-day double booking.
type DuplicateShiftError struct {
	Conflicting ShiftType
}

func (e *DuplicateShiftError) Error() string {
	return fmt.Sprintf("employee already assigned to the %s shift on this date", e.Conflicting)
}

// InvalidDayError reports a malformed date key in an assignment attempt.
type InvalidDayError struct {
	Day string
}

func (e *InvalidDayError) Error() string {
	return fmt.Sprintf("invalid date %q", e.Day)
}

// CanAssign decides whether the employee may be placed into (day, shift).
// Checks run in a fixed order: scope consistency first (structural), then
// availability on the date (about the person), then same-day double booking
// (about the day, requires scanning the other shift types). The first failure
// wins; nothing is mutated here.
func CanAssign(a Assignee, day string, shift ShiftType, resolver *ContextResolver, grid *Grid) error {
	if err := resolver.Validate(); err != nil {
		return err
	}

	parsed, err := ParseDay(day)
	if err != nil {
		return &InvalidDayError{Day: day}
	}
	if !shift.Valid() {
		return fmt.Errorf("unknown shift type %q", shift)
	}

	if status := a.Availability.ResolveForDate(parsed); status != StatusAvailable {
		return &UnavailableError{Status: status, Reason: a.Availability.Reason}
	}

	for _, other := range ShiftTypes {
		if other == shift {
			continue
		}
		if grid.Has(day, other, a.ID) {
			return &DuplicateShiftError{Conflicting: other}
		}
	}
	return nil
}
