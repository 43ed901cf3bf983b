package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/guardian-backend-go/internal/middleware"
	"github.com/jengzang/guardian-backend-go/internal/service"
	"github.com/jengzang/guardian-backend-go/pkg/response"
)

// AlertHandler handles HTTP requests for SOS and alerts
type AlertHandler struct {
	service *service.MonitorService
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(service *service.MonitorService) *AlertHandler {
	return &AlertHandler{service: service}
}

// SOSRequest is a manual SOS from a device
type SOSRequest struct {
	SubjectID string `json:"subject_id" binding:"required"`
	Coords    struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"coords"`
}

// TriggerSOS handles POST /api/v1/sos
func (h *AlertHandler) TriggerSOS(c *gin.Context) {
	var req SOSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}
	if !middleware.AuthorizeSubject(c, req.SubjectID) {
		return
	}

	a, err := h.service.TriggerSOS(c.Request.Context(), req.SubjectID, req.Coords.Latitude, req.Coords.Longitude)
	if err != nil {
		writeError(c, "Failed to raise SOS", err)
		return
	}

	response.Success(c, a)
}

// GetAlerts handles GET /api/v1/alerts
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(c, "Invalid limit", err)
			return
		}
		limit = n
	}

	alerts, err := h.service.RecentAlerts(c.Request.Context(), limit)
	if err != nil {
		writeError(c, "Failed to get alerts", err)
		return
	}

	response.Success(c, alerts)
}

// TestAlert handles POST /api/v1/alerts/test
func (h *AlertHandler) TestAlert(c *gin.Context) {
	if err := h.service.TestAlert(c.Request.Context()); err != nil {
		response.Error(c, http.StatusBadGateway, "Test alert failed", err)
		return
	}

	response.Success(c, gin.H{"msg": "Test alert sent"})
}
