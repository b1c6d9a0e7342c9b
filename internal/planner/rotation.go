package planner

import (
	"fmt"
	"sort"
	"time"
)

// PatternKind names the rotation rule family.
type PatternKind string

const (
	PatternAlternateFS PatternKind = "alternate_fs"
	PatternFixedN      PatternKind = "fixed_n"
	PatternCustom      PatternKind = "custom"
)

// Valid reports whether k is a recognised pattern kind.
func (k PatternKind) Valid() bool {
	switch k {
	case PatternAlternateFS, PatternFixedN, PatternCustom:
		return true
	}
	return false
}

// Pattern is a declarative rotation rule: a mapping of employees to shift
// groups plus generation policies and a validity window.
type Pattern struct {
	Kind             PatternKind
	SkipWeekends     bool
	IgnoreNightShift bool
	Groups           map[string]ShiftType
	StartsAt         time.Time
	EndsAt           *time.Time
}

// EffectiveEnd returns the pattern's end bound capped to December 31 of the
// year containing now. A pattern never generates into the next calendar year.
func (p Pattern) EffectiveEnd(now time.Time) time.Time {
	yearEnd := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	if p.EndsAt == nil || p.EndsAt.After(yearEnd) {
		return yearEnd
	}
	return truncateDay(*p.EndsAt)
}

// ValidateWindow checks that a requested generation window is well-formed.
func (p Pattern) ValidateWindow(from, to time.Time) error {
	if to.Before(from) {
		return fmt.Errorf("window end %s before start %s", DayKey(to), DayKey(from))
	}
	return nil
}

// RotationEntry is one generated (date, shift, employee) tuple.
type RotationEntry struct {
	Day        string
	Shift      ShiftType
	EmployeeID string
}

// Generate walks every calendar day in [from, to] and emits one entry per
// mapped employee, honouring the skip-weekend and ignore-night-shift
// policies. Output order is deterministic (day ascending, employee id
// ascending), so regenerating the same pattern over the same window is
// idempotent.
func Generate(p Pattern, from, to time.Time) []RotationEntry {
	start := truncateDay(from)
	end := truncateDay(to)
	if end.Before(start) {
		return nil
	}

	ids := make([]string, 0, len(p.Groups))
	for id := range p.Groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var entries []RotationEntry
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if p.SkipWeekends && isWeekend(day) {
			continue
		}
		for _, id := range ids {
			shift := p.Groups[id]
			if !shift.Valid() {
				continue
			}
			if p.IgnoreNightShift && shift == ShiftNight {
				continue
			}
			entries = append(entries, RotationEntry{Day: DayKey(day), Shift: shift, EmployeeID: id})
		}
	}
	return entries
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
