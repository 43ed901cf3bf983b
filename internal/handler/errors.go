package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/guardian-backend-go/internal/repository"
	"github.com/jengzang/guardian-backend-go/internal/service"
	"github.com/jengzang/guardian-backend-go/internal/voice"
	"github.com/jengzang/guardian-backend-go/pkg/response"
)

// writeError maps service errors onto the response envelope
func writeError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, message, err)
	case errors.Is(err, voice.ErrScorerUnavailable):
		response.ServiceUnavailable(c, "Voice scorer unavailable", err)
	case errors.Is(err, repository.ErrNotFound):
		response.NotFound(c, message)
	default:
		response.InternalError(c, message, err)
	}
}
