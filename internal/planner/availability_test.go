package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := ParseDay(raw)
	if err != nil {
		t.Fatalf("bad test date %q: %v", raw, err)
	}
	return parsed
}

func datePtr(t *testing.T, raw string) *time.Time {
	t.Helper()
	d := day(t, raw)
	return &d
}

func TestResolveForDateAvailableBaseIgnoresBounds(t *testing.T) {
	av := Availability{
		Status: StatusAvailable,
		Start:  datePtr(t, "2024-07-01"),
		End:    datePtr(t, "2024-07-14"),
	}
	assert.Equal(t, StatusAvailable, av.ResolveForDate(day(t, "2024-07-10")))
	assert.Equal(t, StatusAvailable, av.ResolveForWeek(day(t, "2024-07-08")))
}

func TestResolveForDateWindow(t *testing.T) {
	av := Availability{
		Status: StatusVacation,
		Start:  datePtr(t, "2024-07-01"),
		End:    datePtr(t, "2024-07-14"),
	}

	tests := []struct {
		date string
		want AvailabilityStatus
	}{
		{"2024-06-30", StatusAvailable},
		{"2024-07-01", StatusVacation},
		{"2024-07-10", StatusVacation},
		{"2024-07-14", StatusVacation},
		{"2024-07-15", StatusAvailable},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, av.ResolveForDate(day(t, tc.date)), "date %s", tc.date)
	}
}

func TestResolveForDateOpenEndedBounds(t *testing.T) {
	onlyEnd := Availability{Status: StatusSick, End: datePtr(t, "2024-07-14")}
	assert.Equal(t, StatusSick, onlyEnd.ResolveForDate(day(t, "2020-01-01")))
	assert.Equal(t, StatusAvailable, onlyEnd.ResolveForDate(day(t, "2024-07-15")))

	onlyStart := Availability{Status: StatusTraining, Start: datePtr(t, "2024-07-01")}
	assert.Equal(t, StatusAvailable, onlyStart.ResolveForDate(day(t, "2024-06-30")))
	assert.Equal(t, StatusTraining, onlyStart.ResolveForDate(day(t, "2030-12-31")))

	permanent := Availability{Status: StatusUnavailable}
	assert.Equal(t, StatusUnavailable, permanent.ResolveForDate(day(t, "2024-07-10")))
}

func TestResolveForWeekOverlap(t *testing.T) {
	av := Availability{
		Status: StatusVacation,
		Start:  datePtr(t, "2024-07-10"),
		End:    datePtr(t, "2024-07-12"),
	}

	// Window inside the week flags the whole week.
	assert.Equal(t, StatusVacation, av.ResolveForWeek(day(t, "2024-07-08")))
	// Weeks entirely before or after the window stay available.
	assert.Equal(t, StatusAvailable, av.ResolveForWeek(day(t, "2024-07-01")))
	assert.Equal(t, StatusAvailable, av.ResolveForWeek(day(t, "2024-07-15")))
	// A window touching only the week's last day still overlaps.
	edge := Availability{Status: StatusVacation, Start: datePtr(t, "2024-07-07"), End: datePtr(t, "2024-07-07")}
	assert.Equal(t, StatusVacation, edge.ResolveForWeek(day(t, "2024-07-01")))
}

func TestAvailabilityStatusValid(t *testing.T) {
	for _, status := range AvailabilityStatuses {
		assert.True(t, status.Valid())
	}
	assert.False(t, AvailabilityStatus("holiday").Valid())
}
