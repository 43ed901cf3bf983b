package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/guardian-backend-go/internal/config"
	"github.com/jengzang/guardian-backend-go/internal/handler"
	"github.com/jengzang/guardian-backend-go/internal/middleware"
	"github.com/jengzang/guardian-backend-go/internal/service"
	"go.uber.org/zap"
)

// SetupRouter 设置路由. The returned func releases background resources
// held by middleware and must be called once the server stops.
func SetupRouter(cfg *config.Config, monitor *service.MonitorService, logger *zap.Logger) (*gin.Engine, func()) {
	cleanup := func() {}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(logger))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, time.Minute)
		cleanup = limiter.Stop
		r.Use(middleware.RateLimit(limiter))
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Guardian Backend API is running",
		})
	})

	locationHandler := handler.NewLocationHandler(monitor)
	alertHandler := handler.NewAlertHandler(monitor)
	voiceHandler := handler.NewVoiceHandler(monitor)
	riskHandler := handler.NewRiskHandler(monitor)
	decisionHandler := handler.NewDecisionHandler(monitor)

	// API 路由组
	api := r.Group("/api/v1")
	{
		// 设备上报接口
		device := api.Group("")
		if cfg.AuthEnabled {
			device.Use(middleware.DeviceAuth(cfg.JWTSecret, logger))
		}
		{
			device.POST("/locations", locationHandler.IngestLocation)
			device.POST("/sos", alertHandler.TriggerSOS)
			device.POST("/voice/score", voiceHandler.ScoreVoice)
		}

		api.GET("/subjects/:id/stationary", locationHandler.GetStationary)
		api.POST("/risk/evaluate", riskHandler.Evaluate)

		alerts := api.Group("/alerts")
		{
			alerts.GET("", alertHandler.GetAlerts)
			alerts.POST("/test", alertHandler.TestAlert)
		}

		decisions := api.Group("/decisions")
		{
			decisions.GET("", decisionHandler.GetDecisions)
			decisions.GET("/export", decisionHandler.ExportDecisions)
			decisions.GET("/:id", decisionHandler.GetDecisionByID)
		}
	}

	return r, cleanup
}
