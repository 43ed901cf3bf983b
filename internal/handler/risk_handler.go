package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jengzang/guardian-backend-go/internal/risk"
	"github.com/jengzang/guardian-backend-go/internal/service"
	"github.com/jengzang/guardian-backend-go/pkg/response"
)

// RiskHandler exposes the risk engine directly
type RiskHandler struct {
	service *service.MonitorService
}

// NewRiskHandler creates a new risk handler
func NewRiskHandler(service *service.MonitorService) *RiskHandler {
	return &RiskHandler{service: service}
}

// Evaluate handles POST /api/v1/risk/evaluate
func (h *RiskHandler) Evaluate(c *gin.Context) {
	var in risk.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	out, err := h.service.Evaluate(c.Request.Context(), in)
	if err != nil {
		writeError(c, "Failed to evaluate risk", err)
		return
	}

	response.Success(c, out)
}
