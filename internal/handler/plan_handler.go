package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nordwerk/shiftplan-api/internal/dto"
	"github.com/nordwerk/shiftplan-api/internal/models"
	"github.com/nordwerk/shiftplan-api/internal/service"
	appErrors "github.com/nordwerk/shiftplan-api/pkg/errors"
	"github.com/nordwerk/shiftplan-api/pkg/response"
)

type planService interface {
	LoadWeek(ctx context.Context, query dto.WeekQuery) (*dto.WeekPlanResponse, error)
	Save(ctx context.Context, req dto.SavePlanRequest) (*models.ShiftPlan, error)
	Get(ctx context.Context, id string) (*models.ShiftPlan, []models.ShiftEntry, error)
	Delete(ctx context.Context, id string) error
	Unlock(ctx context.Context, id string) (string, error)
	Assign(ctx context.Context, req dto.AssignRequest) (*dto.AssignResponse, error)
	Unassign(ctx context.Context, req dto.AssignRequest) (*dto.AssignResponse, error)
	Autofill(ctx context.Context, req dto.AutofillRequest) (*dto.AutofillResponse, error)
}

// PlanHandler wires weekly plan resolution and grid mutations.
type PlanHandler struct {
	plans   planService
	metrics *service.MetricsService
}

// NewPlanHandler constructs a plan handler. Metrics may be nil.
func NewPlanHandler(plans planService, metrics *service.MetricsService) *PlanHandler {
	return &PlanHandler{plans: plans, metrics: metrics}
}

// Week godoc
// @Summary Resolve the plan content for a scope and week
// @Tags Plans
// @Produce json
// @Param area_id query string false "Area ID"
// @Param department_id query string false "Department ID"
// @Param machine_id query string false "Machine ID"
// @Param team_id query string false "Team ID"
// @Param week_start query string true "Week start date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /plans/week [get]
func (h *PlanHandler) Week(c *gin.Context) {
	query := dto.WeekQuery{
		Scope:     scopeFromQuery(c),
		WeekStart: c.Query("week_start"),
	}
	week, err := h.plans.LoadWeek(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil, map[string]interface{}{
		"state":  week.State,
		"source": week.Source,
		"locked": week.Locked,
	})
}

// Save godoc
// @Summary Create or replace the weekly plan for a scope
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.SavePlanRequest true "Plan payload"
// @Success 201 {object} response.Envelope
// @Router /plans [post]
func (h *PlanHandler) Save(c *gin.Context) {
	var req dto.SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
		return
	}
	plan, err := h.plans.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// Get godoc
// @Summary Get a saved plan with its entries
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{id} [get]
func (h *PlanHandler) Get(c *gin.Context) {
	plan, entries, err := h.plans.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"plan": plan, "entries": entries}, nil)
}

// Delete godoc
// @Summary Delete a saved plan
// @Tags Plans
// @Param id path string true "Plan ID"
// @Success 204
// @Router /plans/{id} [delete]
func (h *PlanHandler) Delete(c *gin.Context) {
	if err := h.plans.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Unlock godoc
// @Summary Unlock a saved plan for editing
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{id}/unlock [post]
func (h *PlanHandler) Unlock(c *gin.Context) {
	state, err := h.plans.Unlock(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"state": state}, nil)
}

// Assign godoc
// @Summary Assign an employee to a grid cell
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.AssignRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Router /plans/week/assign [post]
func (h *PlanHandler) Assign(c *gin.Context) {
	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	result, err := h.plans.Assign(c.Request.Context(), req)
	h.recordAssignment(err)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Unassign godoc
// @Summary Remove an employee from a grid cell
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.AssignRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Router /plans/week/unassign [post]
func (h *PlanHandler) Unassign(c *gin.Context) {
	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	result, err := h.plans.Unassign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Autofill godoc
// @Summary Replicate an assignment across the week's remaining weekdays
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.AutofillRequest true "Autofill payload"
// @Success 200 {object} response.Envelope
// @Router /plans/week/autofill [post]
func (h *PlanHandler) Autofill(c *gin.Context) {
	var req dto.AutofillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid autofill payload"))
		return
	}
	result, err := h.plans.Autofill(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func (h *PlanHandler) recordAssignment(err error) {
	if h.metrics == nil {
		return
	}
	if err == nil {
		h.metrics.RecordAssignment("accepted")
		return
	}
	h.metrics.RecordAssignment(strings.ToLower(appErrors.FromError(err).Code))
}

func scopeFromQuery(c *gin.Context) dto.ScopePayload {
	return dto.ScopePayload{
		AreaID:       c.Query("area_id"),
		DepartmentID: c.Query("department_id"),
		MachineID:    c.Query("machine_id"),
		TeamID:       c.Query("team_id"),
	}
}
