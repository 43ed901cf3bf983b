package handler

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/guardian-backend-go/internal/middleware"
	"github.com/jengzang/guardian-backend-go/internal/service"
	"github.com/jengzang/guardian-backend-go/pkg/response"
)

// MaxAudioBytes caps an uploaded clip
const MaxAudioBytes = 10 << 20

// VoiceHandler handles HTTP requests for voice clips
type VoiceHandler struct {
	service *service.MonitorService
}

// NewVoiceHandler creates a new voice handler
func NewVoiceHandler(service *service.MonitorService) *VoiceHandler {
	return &VoiceHandler{service: service}
}

func optionalFloat(c *gin.Context, key string) (*float64, error) {
	raw := c.PostForm(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &v, nil
}

// ScoreVoice handles POST /api/v1/voice/score (multipart: audio, subject_id, lat, lon)
func (h *VoiceHandler) ScoreVoice(c *gin.Context) {
	subjectID := c.PostForm("subject_id")
	if subjectID == "" {
		response.BadRequest(c, "subject_id is required")
		return
	}
	if !middleware.AuthorizeSubject(c, subjectID) {
		return
	}

	lat, err := optionalFloat(c, "lat")
	if err != nil {
		response.BadRequest(c, "Invalid coordinates", err)
		return
	}
	lon, err := optionalFloat(c, "lon")
	if err != nil {
		response.BadRequest(c, "Invalid coordinates", err)
		return
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		response.BadRequest(c, "audio file is required", err)
		return
	}
	if fileHeader.Size > MaxAudioBytes {
		response.BadRequest(c, "audio file too large")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Failed to read audio", err)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, MaxAudioBytes))
	if err != nil {
		response.BadRequest(c, "Failed to read audio", err)
		return
	}

	out, err := h.service.ScoreVoice(c.Request.Context(), service.VoiceRequest{
		SubjectID: subjectID,
		Filename:  fileHeader.Filename,
		Audio:     audio,
		Latitude:  lat,
		Longitude: lon,
	})
	if err != nil {
		writeError(c, "Failed to score voice", err)
		return
	}

	response.Success(c, out)
}
