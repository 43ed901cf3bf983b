package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/guardian-backend-go/internal/auth"
	"github.com/jengzang/guardian-backend-go/pkg/response"
	"go.uber.org/zap"
)

// subjectKey is the gin context key holding the authenticated subject
const subjectKey = "auth.subject"

// DeviceAuth requires a valid Bearer device token and stores its subject
func DeviceAuth(secret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Unauthorized(c, "Missing bearer token")
			return
		}

		claims, err := auth.Parse(secret, token)
		if err != nil {
			logger.Warn("Rejected device token",
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
			response.Unauthorized(c, "Invalid token")
			return
		}

		c.Set(subjectKey, claims.Subject)
		c.Next()
	}
}

// AuthorizeSubject reports whether the request may act for subjectID. Requests
// that did not pass through DeviceAuth are always allowed. On refusal a 403
// has already been written.
func AuthorizeSubject(c *gin.Context, subjectID string) bool {
	v, exists := c.Get(subjectKey)
	if !exists {
		return true
	}
	if sub, _ := v.(string); sub == subjectID {
		return true
	}
	response.Forbidden(c, "Token subject does not match request subject")
	return false
}
