// Package app builds the long-lived components shared by the binaries.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jengzang/guardian-backend-go/internal/alert"
	"github.com/jengzang/guardian-backend-go/internal/config"
	"github.com/jengzang/guardian-backend-go/internal/poi"
	"github.com/jengzang/guardian-backend-go/internal/risk"
	"go.uber.org/zap"
)

// NewRedis connects to Redis, or returns nil when no address is configured
func NewRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if !cfg.RedisEnabled() {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewDensityProbe builds the Overpass probe, cached in Redis when available
func NewDensityProbe(cfg *config.Config, rdb *redis.Client, logger *zap.Logger) *poi.Probe {
	var lookup poi.Lookup = poi.NewClient(cfg.POI.OverpassURL, cfg.POI.Timeout)
	if rdb != nil && cfg.POI.CacheTTL > 0 {
		lookup = poi.NewCachedLookup(lookup, rdb, cfg.POI.CacheTTL, logger)
	}
	return poi.NewProbe(lookup, cfg.POI.Timeout, logger)
}

// NewEngine builds the risk engine with the configured thresholds
func NewEngine(cfg *config.Config, probe risk.DensityProbe, logger *zap.Logger) *risk.Engine {
	return risk.NewEngine(cfg.Thresholds(), probe, risk.WithLogger(logger))
}

// NewDispatcher assembles every configured alert channel. When none is
// configured alerts go to the log. The returned func releases connections.
func NewDispatcher(cfg *config.Config, rdb *redis.Client, logger *zap.Logger) (alert.Dispatcher, func(), error) {
	var dispatchers alert.Multi
	cleanup := func() {}

	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != "" {
		dispatchers = append(dispatchers, alert.NewTelegramDispatcher(cfg.Telegram.APIURL, cfg.Telegram.Token, cfg.Telegram.ChatID))
		logger.Info("Telegram alerts enabled")
	}

	if cfg.MQTT.Broker != "" {
		client, err := alert.NewMQTTClient(alert.MQTTConfig{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
		})
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = client.Disconnect
		dispatchers = append(dispatchers, alert.NewMQTTDispatcher(client, cfg.MQTT.TopicPrefix))
		logger.Info("MQTT alerts enabled", zap.String("broker", cfg.MQTT.Broker))
	}

	if cfg.AlertStream != "" && rdb != nil {
		dispatchers = append(dispatchers, alert.NewStreamDispatcher(rdb, cfg.AlertStream))
		logger.Info("Redis stream alerts enabled", zap.String("stream", cfg.AlertStream))
	}

	if len(dispatchers) == 0 {
		logger.Warn("No alert channel configured; alerts are only logged")
		return alert.NewLogDispatcher(logger), cleanup, nil
	}
	return dispatchers, cleanup, nil
}
