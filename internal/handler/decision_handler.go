package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/guardian-backend-go/internal/export"
	"github.com/jengzang/guardian-backend-go/internal/models"
	"github.com/jengzang/guardian-backend-go/internal/service"
	"github.com/jengzang/guardian-backend-go/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DecisionHandler handles HTTP requests for the decision audit trail
type DecisionHandler struct {
	service *service.MonitorService
}

// NewDecisionHandler creates a new decision handler
func NewDecisionHandler(service *service.MonitorService) *DecisionHandler {
	return &DecisionHandler{service: service}
}

// GetDecisions handles GET /api/v1/decisions
func (h *DecisionHandler) GetDecisions(c *gin.Context) {
	var filter models.DecisionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	records, total, err := h.service.RecentDecisions(c.Request.Context(), filter)
	if err != nil {
		writeError(c, "Failed to get decisions", err)
		return
	}

	// Calculate pagination info
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}
	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	response.Success(c, models.DecisionsResponse{
		Data:       records,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	})
}

// GetDecisionByID handles GET /api/v1/decisions/:id
func (h *DecisionHandler) GetDecisionByID(c *gin.Context) {
	record, err := h.service.GetDecision(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "Decision not found", err)
		return
	}

	response.Success(c, record)
}

// ExportDecisions handles GET /api/v1/decisions/export
func (h *DecisionHandler) ExportDecisions(c *gin.Context) {
	var filter models.DecisionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	records, err := h.service.ExportDecisions(c.Request.Context(), filter)
	if err != nil {
		writeError(c, "Failed to export decisions", err)
		return
	}

	data, err := export.Decisions(records)
	if err != nil {
		response.InternalError(c, "Failed to render export", err)
		return
	}

	filename := fmt.Sprintf("decisions_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
