package planner

import "time"

// Autofill replicates a single assignment across the remaining weekdays of
// the session week: for each Monday-to-Friday day other than originDay whose
// cell for the shift is empty, the employee is assigned there when the
// validator allows it. Occupied cells and weekends are never touched, and
// nothing is ever removed. It returns the days that were filled.
func (s *Session) Autofill(a Assignee, originDay string, shift ShiftType) ([]string, error) {
	if !s.lifecycle.CanMutate() {
		return nil, ErrPlanLocked
	}
	if _, err := ParseDay(originDay); err != nil {
		return nil, &InvalidDayError{Day: originDay}
	}
	if err := s.resolver.Validate(); err != nil {
		return nil, err
	}

	var filled []string
	for offset := 0; offset < 7; offset++ {
		day := s.weekStart.AddDate(0, 0, offset)
		if isWeekend(day) {
			continue
		}
		key := DayKey(day)
		if key == originDay {
			continue
		}
		if len(s.grid.Get(key, shift)) > 0 {
			continue
		}
		// Per-day failures (availability, double booking) skip the day
		// rather than aborting the whole propagation.
		if err := CanAssign(a, key, shift, s.resolver, s.grid); err != nil {
			continue
		}
		s.grid.Toggle(key, shift, a.ID)
		filled = append(filled, key)
	}
	return filled, nil
}

// WeekdayKeys returns the Monday-to-Friday date keys of the week starting at
// weekStart, in order.
func WeekdayKeys(weekStart time.Time) []string {
	keys := make([]string, 0, 5)
	for offset := 0; offset < 7; offset++ {
		day := truncateDay(weekStart).AddDate(0, 0, offset)
		if isWeekend(day) {
			continue
		}
		keys = append(keys, DayKey(day))
	}
	return keys
}
