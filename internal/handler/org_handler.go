package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nordwerk/shiftplan-api/internal/service"
	"github.com/nordwerk/shiftplan-api/pkg/response"
)

// OrgHandler serves the Area -> Department -> Machine/Team hierarchy used to
// scope plans.
type OrgHandler struct {
	org *service.OrgService
}

// NewOrgHandler constructs an org handler.
func NewOrgHandler(org *service.OrgService) *OrgHandler {
	return &OrgHandler{org: org}
}

// Areas godoc
// @Summary List areas
// @Tags Hierarchy
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /areas [get]
func (h *OrgHandler) Areas(c *gin.Context) {
	areas, err := h.org.Areas(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, areas, nil)
}

// Departments godoc
// @Summary List departments of an area
// @Tags Hierarchy
// @Produce json
// @Param id path string true "Area ID"
// @Success 200 {object} response.Envelope
// @Router /areas/{id}/departments [get]
func (h *OrgHandler) Departments(c *gin.Context) {
	departments, err := h.org.Departments(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, departments, nil)
}

// Machines godoc
// @Summary List machines of a department
// @Tags Hierarchy
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} response.Envelope
// @Router /departments/{id}/machines [get]
func (h *OrgHandler) Machines(c *gin.Context) {
	machines, err := h.org.Machines(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, machines, nil)
}

// Teams godoc
// @Summary List teams of a department
// @Tags Hierarchy
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} response.Envelope
// @Router /departments/{id}/teams [get]
func (h *OrgHandler) Teams(c *gin.Context) {
	teams, err := h.org.Teams(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teams, nil)
}

// Team godoc
// @Summary Get team detail
// @Tags Hierarchy
// @Produce json
// @Param id path string true "Team ID"
// @Success 200 {object} response.Envelope
// @Router /teams/{id} [get]
func (h *OrgHandler) Team(c *gin.Context) {
	team, err := h.org.Team(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, team, nil)
}
