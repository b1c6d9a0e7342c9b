package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nordwerk/shiftplan-api/internal/service"
	"github.com/nordwerk/shiftplan-api/pkg/response"
)

type exportService interface {
	WeeklyPlan(ctx context.Context, planID, format string) (*service.ExportResult, error)
}

// ExportHandler streams rendered plan exports.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// WeeklyPlan godoc
// @Summary Export a saved plan as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param id path string true "Plan ID"
// @Param format query string false "Export format (csv or pdf, default csv)"
// @Success 200 {file} binary
// @Router /plans/{id}/export [get]
func (h *ExportHandler) WeeklyPlan(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", service.ExportFormatCSV))
	result, err := h.exports.WeeklyPlan(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
