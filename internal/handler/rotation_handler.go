package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nordwerk/shiftplan-api/internal/dto"
	"github.com/nordwerk/shiftplan-api/internal/models"
	"github.com/nordwerk/shiftplan-api/internal/planner"
	"github.com/nordwerk/shiftplan-api/internal/service"
	appErrors "github.com/nordwerk/shiftplan-api/pkg/errors"
	"github.com/nordwerk/shiftplan-api/pkg/response"
)

type rotationService interface {
	Patterns(ctx context.Context, teamID string) ([]models.RotationPattern, error)
	CreatePattern(ctx context.Context, req dto.CreatePatternRequest) (*models.RotationPattern, error)
	AssignGroups(ctx context.Context, patternID string, req dto.AssignGroupsRequest) error
	Generate(ctx context.Context, patternID string, req dto.GenerateHistoryRequest) (*dto.GenerateHistoryResponse, error)
	History(ctx context.Context, teamID string, from, to time.Time) ([]models.RotationHistoryEntry, error)
	Disable(ctx context.Context, patternID string) error
}

// RotationHandler wires rotation pattern administration.
type RotationHandler struct {
	rotations rotationService
	metrics   *service.MetricsService
}

// NewRotationHandler constructs a rotation handler. Metrics may be nil.
func NewRotationHandler(rotations rotationService, metrics *service.MetricsService) *RotationHandler {
	return &RotationHandler{rotations: rotations, metrics: metrics}
}

// Patterns godoc
// @Summary List rotation patterns of a team
// @Tags Rotations
// @Produce json
// @Param id path string true "Team ID"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/rotations [get]
func (h *RotationHandler) Patterns(c *gin.Context) {
	patterns, err := h.rotations.Patterns(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, patterns, nil)
}

// Create godoc
// @Summary Create a rotation pattern
// @Tags Rotations
// @Accept json
// @Produce json
// @Param payload body dto.CreatePatternRequest true "Pattern payload"
// @Success 201 {object} response.Envelope
// @Router /rotations [post]
func (h *RotationHandler) Create(c *gin.Context) {
	var req dto.CreatePatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pattern payload"))
		return
	}
	pattern, err := h.rotations.CreatePattern(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pattern)
}

// AssignGroups godoc
// @Summary Replace the employee shift-group mapping of a pattern
// @Tags Rotations
// @Accept json
// @Produce json
// @Param id path string true "Pattern ID"
// @Param payload body dto.AssignGroupsRequest true "Group assignments"
// @Success 204
// @Router /rotations/{id}/groups [put]
func (h *RotationHandler) AssignGroups(c *gin.Context) {
	var req dto.AssignGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid group payload"))
		return
	}
	if err := h.rotations.AssignGroups(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Generate godoc
// @Summary Generate rotation history over a window
// @Tags Rotations
// @Accept json
// @Produce json
// @Param id path string true "Pattern ID"
// @Param payload body dto.GenerateHistoryRequest true "Generation window"
// @Success 200 {object} response.Envelope
// @Router /rotations/{id}/generate [post]
func (h *RotationHandler) Generate(c *gin.Context) {
	var req dto.GenerateHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	result, err := h.rotations.Generate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordGenerated(result.Generated)
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// History godoc
// @Summary List generated rotation history of a team
// @Tags Rotations
// @Produce json
// @Param id path string true "Team ID"
// @Param from query string true "Window start (YYYY-MM-DD)"
// @Param to query string true "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/rotation-history [get]
func (h *RotationHandler) History(c *gin.Context) {
	from, err := planner.ParseDay(c.Query("from"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid from date"))
		return
	}
	to, err := planner.ParseDay(c.Query("to"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid to date"))
		return
	}
	entries, err := h.rotations.History(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Disable godoc
// @Summary Disable a rotation pattern and drop its generated history
// @Tags Rotations
// @Param id path string true "Pattern ID"
// @Success 204
// @Router /rotations/{id} [delete]
func (h *RotationHandler) Disable(c *gin.Context) {
	if err := h.rotations.Disable(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
