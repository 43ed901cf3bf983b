package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/guardian-backend-go/internal/api"
	"github.com/jengzang/guardian-backend-go/internal/app"
	"github.com/jengzang/guardian-backend-go/internal/config"
	"github.com/jengzang/guardian-backend-go/internal/database"
	"github.com/jengzang/guardian-backend-go/internal/history"
	"github.com/jengzang/guardian-backend-go/internal/logger"
	"github.com/jengzang/guardian-backend-go/internal/repository"
	"github.com/jengzang/guardian-backend-go/internal/service"
	"github.com/jengzang/guardian-backend-go/internal/voice"
	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "guardian-backend")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
	log.Info("Server stopped")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化数据库
	db, err := database.Open(database.Config{Path: cfg.DBPath}, log)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb, err := app.NewRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var store history.Store
	switch cfg.History.Backend {
	case config.HistoryRedis:
		store = history.NewRedisStore(rdb, cfg.History.Max)
	default:
		store = history.NewSQLStore(repository.NewPositionRepository(db))
	}
	log.Info("Position history ready", zap.String("backend", cfg.History.Backend))

	dispatcher, closeDispatcher, err := app.NewDispatcher(cfg, rdb, log)
	if err != nil {
		return err
	}
	defer closeDispatcher()

	engine := app.NewEngine(cfg, app.NewDensityProbe(cfg, rdb, log), log)

	var scorer voice.Scorer
	if cfg.Voice.ScorerURL != "" {
		scorer = voice.NewClient(cfg.Voice.ScorerURL, cfg.Voice.Timeout)
	} else {
		log.Warn("VOICE_SCORER_URL not set; voice scoring disabled")
	}

	monitor := service.NewMonitorService(service.Dependencies{
		History:           store,
		Alerts:            repository.NewAlertRepository(db),
		Decisions:         repository.NewDecisionRepository(db),
		Engine:            engine,
		Dispatcher:        dispatcher,
		Scorer:            scorer,
		StationaryWindow:  cfg.Risk.StationaryWindow,
		StationaryRadiusM: cfg.Risk.StationaryRadiusM,
	}, log)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	router, stopRouter := api.SetupRouter(cfg, monitor, log)
	defer stopRouter()

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Received signal, shutting down")
	case err := <-errChan:
		return fmt.Errorf("failed to start server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
