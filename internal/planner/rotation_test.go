package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fsPattern() Pattern {
	return Pattern{
		Kind:         PatternAlternateFS,
		SkipWeekends: true,
		Groups: map[string]ShiftType{
			"e1": ShiftEarly,
			"e2": ShiftLate,
		},
		StartsAt: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerateSkipsWeekends(t *testing.T) {
	// 2024-07-05 is a Friday; the window spans the following weekend.
	from := day(t, "2024-07-05")
	to := day(t, "2024-07-08")

	entries := Generate(fsPattern(), from, to)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.NotEqual(t, "2024-07-06", e.Day)
		assert.NotEqual(t, "2024-07-07", e.Day)
	}
	// Friday and Monday, two employees each.
	assert.Len(t, entries, 4)
}

func TestGenerateIncludesWeekendsWhenNotSkipping(t *testing.T) {
	p := fsPattern()
	p.SkipWeekends = false

	entries := Generate(p, day(t, "2024-07-06"), day(t, "2024-07-07"))
	assert.Len(t, entries, 4)
}

func TestGenerateIgnoreNightShift(t *testing.T) {
	p := Pattern{
		Kind:             PatternFixedN,
		IgnoreNightShift: true,
		Groups: map[string]ShiftType{
			"e1": ShiftNight,
			"e2": ShiftEarly,
		},
		StartsAt: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	entries := Generate(p, day(t, "2024-07-08"), day(t, "2024-07-09"))
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "e2", e.EmployeeID)
		assert.Equal(t, ShiftEarly, e.Shift)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	from := day(t, "2024-07-01")
	to := day(t, "2024-07-14")

	first := Generate(fsPattern(), from, to)
	second := Generate(fsPattern(), from, to)
	assert.Equal(t, first, second)
}

func TestGenerateEmptyOrInvertedWindow(t *testing.T) {
	assert.Nil(t, Generate(fsPattern(), day(t, "2024-07-08"), day(t, "2024-07-01")))
}

func TestGenerateSkipsUnknownShiftGroups(t *testing.T) {
	p := fsPattern()
	p.Groups["e3"] = ShiftType("brunch")

	entries := Generate(p, day(t, "2024-07-08"), day(t, "2024-07-08"))
	assert.Len(t, entries, 2)
}

func TestEffectiveEndCappedToCalendarYear(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	yearEnd := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	open := fsPattern()
	assert.Equal(t, yearEnd, open.EffectiveEnd(now))

	next := fsPattern()
	e := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	next.EndsAt = &e
	assert.Equal(t, yearEnd, next.EffectiveEnd(now))

	inside := fsPattern()
	e2 := time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)
	inside.EndsAt = &e2
	assert.Equal(t, e2, inside.EffectiveEnd(now))
}

func TestPatternKindValid(t *testing.T) {
	assert.True(t, PatternAlternateFS.Valid())
	assert.True(t, PatternFixedN.Valid())
	assert.True(t, PatternCustom.Valid())
	assert.False(t, PatternKind("weekly").Valid())
}
