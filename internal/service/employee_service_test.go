package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nordwerk/shiftplan-api/internal/dto"
	"github.com/nordwerk/shiftplan-api/internal/models"
	"github.com/nordwerk/shiftplan-api/internal/planner"
	appErrors "github.com/nordwerk/shiftplan-api/pkg/errors"
)

type mockEmployeeRepo struct {
	items       map[string]*models.Employee
	byTeam      map[string][]models.Employee
	listResult  []models.Employee
	listTotal   int
	deactivated []string
	availCalls  int
}

func (m *mockEmployeeRepo) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	return m.listResult, m.listTotal, nil
}

func (m *mockEmployeeRepo) ListByTeam(ctx context.Context, teamID string) ([]models.Employee, error) {
	return m.byTeam[teamID], nil
}

func (m *mockEmployeeRepo) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	if e, ok := m.items[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEmployeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	if m.items == nil {
		m.items = map[string]*models.Employee{}
	}
	if employee.ID == "" {
		employee.ID = "generated"
	}
	cp := *employee
	m.items[employee.ID] = &cp
	return nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, employee *models.Employee) error {
	cp := *employee
	m.items[employee.ID] = &cp
	return nil
}

func (m *mockEmployeeRepo) UpdateAvailability(ctx context.Context, id string, status string, start, end *time.Time, reason string) error {
	m.availCalls++
	if e, ok := m.items[id]; ok {
		e.AvailabilityStatus = planner.AvailabilityStatus(status)
		e.AvailabilityStart = start
		e.AvailabilityEnd = end
	}
	return nil
}

func (m *mockEmployeeRepo) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	return nil
}

func TestEmployeeServiceCreateNormalizesDefaults(t *testing.T) {
	repo := &mockEmployeeRepo{}
	svc := NewEmployeeService(repo, validator.New(), zap.NewNop())

	employee, err := svc.Create(context.Background(), dto.EmployeePayload{
		FirstName: "  Anna ", LastName: "Berg",
	})
	require.NoError(t, err)
	assert.Equal(t, "Anna", employee.FirstName)
	assert.Equal(t, planner.StatusAvailable, employee.AvailabilityStatus)
	assert.True(t, employee.Active)
}

func TestEmployeeServiceCreateAcceptsBothFieldSpellings(t *testing.T) {
	repo := &mockEmployeeRepo{}
	svc := NewEmployeeService(repo, validator.New(), zap.NewNop())

	var snake dto.EmployeePayload
	require.NoError(t, json.Unmarshal([]byte(`{"first_name":"Anna","last_name":"Berg","availability_status":"vacation","availability_start":"2024-07-01"}`), &snake))
	var camel dto.EmployeePayload
	require.NoError(t, json.Unmarshal([]byte(`{"firstName":"Anna","lastName":"Berg","availabilityStatus":"vacation","availabilityStart":"2024-07-01"}`), &camel))
	assert.Equal(t, snake, camel)

	employee, err := svc.Create(context.Background(), camel)
	require.NoError(t, err)
	assert.Equal(t, planner.StatusVacation, employee.AvailabilityStatus)
	require.NotNil(t, employee.AvailabilityStart)
	assert.Equal(t, "2024-07-01", planner.DayKey(*employee.AvailabilityStart))
}

func TestEmployeeServiceCreateRejectsInvalidWindow(t *testing.T) {
	svc := NewEmployeeService(&mockEmployeeRepo{}, validator.New(), zap.NewNop())

	start, end := "2024-07-10", "2024-07-01"
	_, err := svc.Create(context.Background(), dto.EmployeePayload{
		FirstName: "Anna", LastName: "Berg",
		AvailabilityStatus: "vacation", AvailabilityStart: &start, AvailabilityEnd: &end,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))
}

func TestEmployeeServiceRosterResolvesWeekAvailability(t *testing.T) {
	week := time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC)
	vacStart := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	repo := &mockEmployeeRepo{byTeam: map[string][]models.Employee{"t1": {
		{ID: "e1", FirstName: "Anna", LastName: "Berg", AvailabilityStatus: planner.StatusAvailable, Active: true},
		{ID: "e2", FirstName: "Jonas", LastName: "Falk", AvailabilityStatus: planner.StatusVacation, AvailabilityStart: &vacStart, Active: true},
	}}}
	svc := NewEmployeeService(repo, validator.New(), zap.NewNop())

	roster, err := svc.Roster(context.Background(), "t1", week)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, planner.StatusAvailable, roster[0].Resolved)
	// Window overlaps the week, so the whole week reports the blocking status.
	assert.Equal(t, planner.StatusVacation, roster[1].Resolved)
}

func TestEmployeeServiceSetAvailability(t *testing.T) {
	repo := &mockEmployeeRepo{items: map[string]*models.Employee{
		"e1": {ID: "e1", FirstName: "Anna", LastName: "Berg", AvailabilityStatus: planner.StatusAvailable},
	}}
	svc := NewEmployeeService(repo, validator.New(), zap.NewNop())

	start := "2024-07-01"
	err := svc.SetAvailability(context.Background(), "e1", dto.UpdateAvailabilityRequest{
		Status: "sick", Start: &start, Reason: "medical leave",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.availCalls)
	assert.Equal(t, planner.StatusSick, repo.items["e1"].AvailabilityStatus)
}

func TestEmployeeServiceDeactivateMissing(t *testing.T) {
	svc := NewEmployeeService(&mockEmployeeRepo{}, validator.New(), zap.NewNop())

	err := svc.Deactivate(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
}
