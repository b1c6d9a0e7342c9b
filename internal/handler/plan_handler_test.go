package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordwerk/shiftplan-api/internal/dto"
	"github.com/nordwerk/shiftplan-api/internal/models"
	appErrors "github.com/nordwerk/shiftplan-api/pkg/errors"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakePlanSrv struct {
	week      *dto.WeekPlanResponse
	weekErr   error
	lastQuery dto.WeekQuery
	assign    *dto.AssignResponse
	assignErr error
	lastReq   dto.AssignRequest
	unlocked  string
}

func (f *fakePlanSrv) LoadWeek(_ context.Context, query dto.WeekQuery) (*dto.WeekPlanResponse, error) {
	f.lastQuery = query
	return f.week, f.weekErr
}

func (f *fakePlanSrv) Save(context.Context, dto.SavePlanRequest) (*models.ShiftPlan, error) {
	return &models.ShiftPlan{ID: "p1"}, nil
}

func (f *fakePlanSrv) Get(context.Context, string) (*models.ShiftPlan, []models.ShiftEntry, error) {
	return &models.ShiftPlan{ID: "p1"}, nil, nil
}

func (f *fakePlanSrv) Delete(context.Context, string) error { return nil }

func (f *fakePlanSrv) Unlock(context.Context, string) (string, error) {
	return f.unlocked, nil
}

func (f *fakePlanSrv) Assign(_ context.Context, req dto.AssignRequest) (*dto.AssignResponse, error) {
	f.lastReq = req
	return f.assign, f.assignErr
}

func (f *fakePlanSrv) Unassign(_ context.Context, req dto.AssignRequest) (*dto.AssignResponse, error) {
	f.lastReq = req
	return f.assign, f.assignErr
}

func (f *fakePlanSrv) Autofill(context.Context, dto.AutofillRequest) (*dto.AutofillResponse, error) {
	return &dto.AutofillResponse{FilledDays: []string{"2024-07-09"}}, nil
}

func TestPlanHandlerWeekReportsSourceInMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakePlanSrv{week: &dto.WeekPlanResponse{
		State: "saved", Source: dto.WeekSourceRotation, Locked: true,
	}}
	handler := NewPlanHandler(srv, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/plans/week?team_id=t1&week_start=2024-07-08", nil)

	handler.Week(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, dto.WeekSourceRotation, envelope.Meta["source"])
	assert.Equal(t, true, envelope.Meta["locked"])
	assert.Equal(t, "t1", srv.lastQuery.Scope.TeamID)
	assert.Equal(t, "2024-07-08", srv.lastQuery.WeekStart)
}

func TestPlanHandlerAssignRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewPlanHandler(&fakePlanSrv{}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/plans/week/assign", bytes.NewBufferString("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Assign(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanHandlerAssignPassesEditMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakePlanSrv{assign: &dto.AssignResponse{Day: "2024-07-08", Shift: "F", Assigned: true, Occupants: []string{"e1"}}}
	handler := NewPlanHandler(srv, nil)

	body := `{"scope":{"team_id":"t1"},"week_start":"2024-07-08","day":"2024-07-08","shift":"F","employee_id":"e1","edit_mode":true}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/plans/week/assign", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Assign(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, srv.lastReq.EditMode)
	assert.Equal(t, "e1", srv.lastReq.EmployeeID)
}

func TestPlanHandlerAssignSurfacesDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakePlanSrv{assignErr: appErrors.ErrPlanLocked}
	handler := NewPlanHandler(srv, nil)

	body := `{"scope":{"team_id":"t1"},"week_start":"2024-07-08","day":"2024-07-08","shift":"F","employee_id":"e1"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/plans/week/assign", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Assign(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrPlanLocked.Code, envelope.Error.Code)
}

func TestPlanHandlerUnlock(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewPlanHandler(&fakePlanSrv{unlocked: "editing"}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/plans/p1/unlock", nil)
	c.Params = gin.Params{{Key: "id", Value: "p1"}}

	handler.Unlock(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "editing", envelope.Data["state"])
}
