package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(testCatalog())
	s.SetScope(Scope{AreaID: "a1", DepartmentID: "d2", TeamID: "t1"})
	s.SetWeek(day(t, "2024-07-08")) // a Monday
	return s
}

func TestSessionAttemptAssign(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.AttemptAssign(availableAssignee("e1"), "2024-07-08", ShiftEarly))
	assert.Equal(t, []string{"e1"}, s.Grid().Get("2024-07-08", ShiftEarly))

	// Same-day second shift is rejected with the conflicting shift named.
	err := s.AttemptAssign(availableAssignee("e1"), "2024-07-08", ShiftLate)
	var dup *DuplicateShiftError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, ShiftEarly, dup.Conflicting)
}

func TestSessionAttemptAssignToggleRemoves(t *testing.T) {
	s := newTestSession(t)
	a := availableAssignee("e1")

	require.NoError(t, s.AttemptAssign(a, "2024-07-08", ShiftEarly))
	require.NoError(t, s.AttemptAssign(a, "2024-07-08", ShiftEarly))
	assert.Empty(t, s.Grid().Get("2024-07-08", ShiftEarly))
}

func TestSessionRejectsMutationWhenSaved(t *testing.T) {
	s := newTestSession(t)
	ok := s.Apply(s.Token(), "p1", nil)
	require.True(t, ok)

	err := s.AttemptAssign(availableAssignee("e1"), "2024-07-08", ShiftEarly)
	assert.ErrorIs(t, err, ErrPlanLocked)

	err = s.Remove("2024-07-08", ShiftEarly, "e1")
	assert.ErrorIs(t, err, ErrPlanLocked)

	require.NoError(t, s.Lifecycle().Unlock())
	assert.NoError(t, s.AttemptAssign(availableAssignee("e1"), "2024-07-08", ShiftEarly))
}

func TestSessionRejectsDayOutsideWeek(t *testing.T) {
	s := newTestSession(t)
	err := s.AttemptAssign(availableAssignee("e1"), "2024-07-20", ShiftEarly)
	assert.Error(t, err)
}

func TestSessionStaleLoadDiscarded(t *testing.T) {
	s := newTestSession(t)
	stale := s.Token()

	// Scope changes while the load is in flight.
	s.SetScope(Scope{AreaID: "a9", DepartmentID: "d3"})

	ok := s.Apply(stale, "p1", []Entry{{Day: "2024-07-08", Shift: ShiftEarly, EmployeeID: "e1"}})
	assert.False(t, ok)
	assert.Empty(t, s.Grid().Get("2024-07-08", ShiftEarly))
	assert.Equal(t, StateNoPlan, s.Lifecycle().State())
}

func TestSessionApplyIdempotentReload(t *testing.T) {
	s := newTestSession(t)
	entries := []Entry{
		{Day: "2024-07-08", Shift: ShiftEarly, EmployeeID: "e1"},
		{Day: "2024-07-09", Shift: ShiftLate, EmployeeID: "e2"},
	}

	require.True(t, s.Apply(s.Token(), "p1", entries))
	require.True(t, s.Apply(s.Token(), "p1", entries))

	assert.Equal(t, []string{"e1"}, s.Grid().Get("2024-07-08", ShiftEarly))
	assert.Equal(t, []string{"e2"}, s.Grid().Get("2024-07-09", ShiftLate))
	assert.Equal(t, StateSaved, s.Lifecycle().State())
	assert.Equal(t, "p1", s.Lifecycle().PlanID())
}

func TestSessionScopeOrWeekChangeClearsState(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AttemptAssign(availableAssignee("e1"), "2024-07-08", ShiftEarly))

	s.SetWeek(day(t, "2024-07-15"))
	assert.Empty(t, s.Grid().Days())
	assert.Equal(t, StateNoPlan, s.Lifecycle().State())
}

func TestAutofillFillsEmptyWeekdays(t *testing.T) {
	s := newTestSession(t)
	a := availableAssignee("e1")

	// Tuesday's early cell is already occupied by someone else.
	require.NoError(t, s.AttemptAssign(availableAssignee("e2"), "2024-07-09", ShiftEarly))
	require.NoError(t, s.AttemptAssign(a, "2024-07-08", ShiftEarly))

	filled, err := s.Autofill(a, "2024-07-08", ShiftEarly)
	require.NoError(t, err)

	// Wednesday through Friday; Tuesday occupied, weekend untouched.
	assert.Equal(t, []string{"2024-07-10", "2024-07-11", "2024-07-12"}, filled)
	assert.Equal(t, []string{"e2"}, s.Grid().Get("2024-07-09", ShiftEarly))
	assert.Empty(t, s.Grid().Get("2024-07-13", ShiftEarly))
	assert.Empty(t, s.Grid().Get("2024-07-14", ShiftEarly))
}

func TestAutofillSkipsUnavailableDays(t *testing.T) {
	s := newTestSession(t)
	a := Assignee{
		ID: "e1",
		Availability: Availability{
			Status: StatusVacation,
			Start:  datePtr(t, "2024-07-11"),
			End:    datePtr(t, "2024-07-12"),
		},
	}
	require.NoError(t, s.AttemptAssign(a, "2024-07-08", ShiftLate))

	filled, err := s.Autofill(a, "2024-07-08", ShiftLate)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-07-09", "2024-07-10"}, filled)
}

func TestAutofillLockedPlan(t *testing.T) {
	s := newTestSession(t)
	require.True(t, s.Apply(s.Token(), "p1", nil))

	_, err := s.Autofill(availableAssignee("e1"), "2024-07-08", ShiftEarly)
	assert.ErrorIs(t, err, ErrPlanLocked)
}

func TestWeekdayKeys(t *testing.T) {
	keys := WeekdayKeys(day(t, "2024-07-08"))
	assert.Equal(t, []string{"2024-07-08", "2024-07-09", "2024-07-10", "2024-07-11", "2024-07-12"}, keys)
}
