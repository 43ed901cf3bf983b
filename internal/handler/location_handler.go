package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jengzang/guardian-backend-go/internal/middleware"
	"github.com/jengzang/guardian-backend-go/internal/models"
	"github.com/jengzang/guardian-backend-go/internal/service"
	"github.com/jengzang/guardian-backend-go/pkg/response"
)

// LocationHandler handles HTTP requests for position reports
type LocationHandler struct {
	service *service.MonitorService
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(service *service.MonitorService) *LocationHandler {
	return &LocationHandler{service: service}
}

// LocationRequest is one position report from a device
type LocationRequest struct {
	SubjectID string   `json:"subject_id" binding:"required"`
	Latitude  *float64 `json:"lat" binding:"required"`
	Longitude *float64 `json:"lon" binding:"required"`
	Accuracy  float64  `json:"acc"`
	Timestamp int64    `json:"ts"`
}

// IngestLocation handles POST /api/v1/locations
func (h *LocationHandler) IngestLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}
	if !middleware.AuthorizeSubject(c, req.SubjectID) {
		return
	}

	out, err := h.service.IngestLocation(c.Request.Context(), models.PositionSample{
		SubjectID:      req.SubjectID,
		Timestamp:      req.Timestamp,
		Latitude:       *req.Latitude,
		Longitude:      *req.Longitude,
		AccuracyMeters: req.Accuracy,
	})
	if err != nil {
		writeError(c, "Failed to ingest location", err)
		return
	}

	response.Success(c, out)
}

// GetStationary handles GET /api/v1/subjects/:id/stationary
func (h *LocationHandler) GetStationary(c *gin.Context) {
	result, err := h.service.Stationary(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "Failed to read position history", err)
		return
	}

	response.Success(c, result)
}
