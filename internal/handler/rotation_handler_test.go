package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordwerk/shiftplan-api/internal/dto"
	"github.com/nordwerk/shiftplan-api/internal/models"
)

type rotationServiceStub struct {
	generated   *dto.GenerateHistoryResponse
	lastPattern string
	disabled    []string
}

func (s *rotationServiceStub) Patterns(context.Context, string) ([]models.RotationPattern, error) {
	return []models.RotationPattern{{ID: "r1", TeamID: "t1"}}, nil
}

func (s *rotationServiceStub) CreatePattern(_ context.Context, req dto.CreatePatternRequest) (*models.RotationPattern, error) {
	return &models.RotationPattern{ID: "r1", TeamID: req.TeamID, Kind: req.Kind}, nil
}

func (s *rotationServiceStub) AssignGroups(_ context.Context, patternID string, _ dto.AssignGroupsRequest) error {
	s.lastPattern = patternID
	return nil
}

func (s *rotationServiceStub) Generate(_ context.Context, patternID string, req dto.GenerateHistoryRequest) (*dto.GenerateHistoryResponse, error) {
	s.lastPattern = patternID
	if s.generated != nil {
		return s.generated, nil
	}
	return &dto.GenerateHistoryResponse{PatternID: patternID, From: req.From, To: req.To}, nil
}

func (s *rotationServiceStub) History(context.Context, string, time.Time, time.Time) ([]models.RotationHistoryEntry, error) {
	return nil, nil
}

func (s *rotationServiceStub) Disable(_ context.Context, patternID string) error {
	s.disabled = append(s.disabled, patternID)
	return nil
}

func TestRotationHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &rotationServiceStub{generated: &dto.GenerateHistoryResponse{PatternID: "r1", Generated: 10}}
	handler := NewRotationHandler(stub, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/rotations/r1/generate", bytes.NewBufferString(`{"from":"2024-07-08","to":"2024-07-31"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "r1"}}

	handler.Generate(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "r1", stub.lastPattern)
	assert.Contains(t, rec.Body.String(), `"generated":10`)
}

func TestRotationHandlerHistoryRejectsBadDates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRotationHandler(&rotationServiceStub{}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/teams/t1/rotation-history?from=yesterday&to=2024-07-31", nil)
	c.Params = gin.Params{{Key: "id", Value: "t1"}}

	handler.History(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRotationHandlerDisable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &rotationServiceStub{}
	handler := NewRotationHandler(stub, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/rotations/r1", nil)
	c.Params = gin.Params{{Key: "id", Value: "r1"}}

	handler.Disable(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"r1"}, stub.disabled)
}
