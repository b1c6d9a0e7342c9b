package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordwerk/shiftplan-api/internal/models"
)

func patternRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "team_id", "kind", "skip_weekends", "ignore_night_shift", "starts_at", "ends_at", "enabled", "created_at", "updated_at"})
}

func TestRotationRepositoryFindActiveForTeam(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRotationRepository(db)

	day := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	rows := patternRows().
		AddRow("r1", "t1", "alternate_fs", true, false, day.AddDate(0, -1, 0), nil, true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM rotation_patterns").
		WithArgs("t1", day).
		WillReturnRows(rows)

	pattern, err := repo.FindActiveForTeam(context.Background(), "t1", day)
	require.NoError(t, err)
	assert.Equal(t, "r1", pattern.ID)
	assert.True(t, pattern.SkipWeekends)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRotationRepositoryHasOverlap(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRotationRepository(db)

	starts := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT 1 FROM rotation_patterns").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	overlaps, err := repo.HasOverlap(context.Background(), "t1", starts, nil, "")
	require.NoError(t, err)
	assert.True(t, overlaps)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRotationRepositoryReplaceAssignments(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRotationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rotation_assignments WHERE pattern_id = $1")).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectExec("INSERT INTO rotation_assignments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO rotation_assignments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	assignments := []models.RotationAssignment{
		{EmployeeID: "e1", ShiftCode: "F"},
		{EmployeeID: "e2", ShiftCode: "S"},
	}
	require.NoError(t, repo.ReplaceAssignments(context.Background(), "r1", assignments))
	assert.Equal(t, "r1", assignments[0].PatternID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRotationRepositoryReplaceHistory(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRotationRepository(db)

	from := time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM rotation_history").
		WithArgs("r1", from, to).
		WillReturnResult(sqlmock.NewResult(1, 0))
	mock.ExpectExec("INSERT INTO rotation_history").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entries := []models.RotationHistoryEntry{
		{TeamID: "t1", Day: from, ShiftCode: "F", EmployeeID: "e1"},
	}
	require.NoError(t, repo.ReplaceHistory(context.Background(), "r1", from, to, entries))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRotationRepositoryListHistory(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRotationRepository(db)

	from := time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)
	rows := sqlmock.NewRows([]string{"id", "team_id", "pattern_id", "day", "shift_code", "employee_id", "created_at"}).
		AddRow("h1", "t1", "r1", from, "F", "e1", time.Now()).
		AddRow("h2", "t1", "r1", from, "S", "e2", time.Now())
	mock.ExpectQuery("SELECT (.+) FROM rotation_history").
		WithArgs("t1", from, to).
		WillReturnRows(rows)

	entries, err := repo.ListHistory(context.Background(), "t1", from, to)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "F", entries[0].ShiftCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
