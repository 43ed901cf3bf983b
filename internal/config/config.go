package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/guardian-backend-go/internal/risk"
)

// History backends
const (
	HistorySQLite = "sqlite"
	HistoryRedis  = "redis"
)

// Config 应用配置
type Config struct {
	Port        string
	DBPath      string
	JWTSecret   string
	AuthEnabled bool
	RateLimit   int // requests per minute per client IP, 0 disables

	Log struct {
		Level  string
		Format string
	}

	Redis struct {
		Addr     string // empty disables every Redis-backed component
		Password string
		DB       int
	}

	History struct {
		Backend string
		Max     int // samples kept per subject in Redis
	}

	Risk struct {
		VoiceDistress     float64
		WeakVoice         float64
		StationarySeconds int64
		MaxIsolatedPOI    int
		POIRadiusM        float64
		TZOffsetHours     float64
		StationaryWindow  int
		StationaryRadiusM float64
	}

	POI struct {
		OverpassURL string
		Timeout     time.Duration
		CacheTTL    time.Duration
	}

	Voice struct {
		ScorerURL string
		Timeout   time.Duration
	}

	Telegram struct {
		APIURL string
		Token  string
		ChatID string
	}

	MQTT struct {
		Broker      string
		ClientID    string
		Username    string
		Password    string
		TopicPrefix string
	}

	AlertStream string // Redis stream name, empty disables
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{}
	var errs []string
	p := parser{errs: &errs}

	cfg.Port = getEnv("PORT", ":8080")
	cfg.DBPath = getEnv("DB_PATH", "./data/guardian/events.db")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.AuthEnabled = p.getBool("AUTH_ENABLED", false)
	cfg.RateLimit = p.getInt("RATE_LIMIT", 120)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = p.getInt("REDIS_DB", 0)

	cfg.History.Backend = strings.ToLower(getEnv("HISTORY_BACKEND", HistorySQLite))
	cfg.History.Max = p.getInt("HISTORY_MAX", 100)

	defaults := risk.DefaultThresholds()
	cfg.Risk.VoiceDistress = p.getFloat("VOICE_THRESHOLD", defaults.VoiceDistress)
	cfg.Risk.WeakVoice = p.getFloat("WEAK_VOICE_THRESHOLD", defaults.WeakVoice)
	cfg.Risk.StationarySeconds = int64(p.getInt("STATIONARY_THRESHOLD_SEC", int(defaults.StationarySeconds)))
	cfg.Risk.MaxIsolatedPOI = p.getInt("POI_THRESHOLD", defaults.MaxIsolatedPOI)
	cfg.Risk.POIRadiusM = p.getFloat("POI_RADIUS_M", defaults.POIRadiusM)
	cfg.Risk.TZOffsetHours = p.getFloat("TZ_OFFSET_HOURS", defaults.TZOffsetHours)
	cfg.Risk.StationaryWindow = p.getInt("STATIONARY_WINDOW", 10)
	cfg.Risk.StationaryRadiusM = p.getFloat("STATIONARY_RADIUS_M", 15)

	cfg.POI.OverpassURL = getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter")
	cfg.POI.Timeout = p.getDuration("POI_TIMEOUT", 5*time.Second)
	cfg.POI.CacheTTL = p.getDuration("POI_CACHE_TTL", 10*time.Minute)

	cfg.Voice.ScorerURL = getEnv("VOICE_SCORER_URL", "")
	cfg.Voice.Timeout = p.getDuration("VOICE_TIMEOUT", 10*time.Second)

	cfg.Telegram.APIURL = getEnv("TELEGRAM_API_URL", "https://api.telegram.org")
	cfg.Telegram.Token = getEnv("TELEGRAM_TOKEN", "")
	cfg.Telegram.ChatID = getEnv("TELEGRAM_CHAT_ID", "")

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "guardian-backend")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.TopicPrefix = getEnv("MQTT_TOPIC_PREFIX", "guardian/alerts")

	cfg.AlertStream = getEnv("ALERT_STREAM", "")

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	switch c.History.Backend {
	case HistorySQLite:
	case HistoryRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("HISTORY_BACKEND=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown HISTORY_BACKEND %q", c.History.Backend)
	}
	if c.AuthEnabled && c.JWTSecret == "" {
		return fmt.Errorf("AUTH_ENABLED requires JWT_SECRET")
	}
	if c.AlertStream != "" && c.Redis.Addr == "" {
		return fmt.Errorf("ALERT_STREAM requires REDIS_ADDR")
	}
	if c.Risk.StationaryWindow < 2 {
		return fmt.Errorf("STATIONARY_WINDOW must be at least 2")
	}
	return nil
}

// Thresholds returns the risk thresholds fixed for this process
func (c *Config) Thresholds() risk.Thresholds {
	return risk.Thresholds{
		VoiceDistress:     c.Risk.VoiceDistress,
		WeakVoice:         c.Risk.WeakVoice,
		StationarySeconds: c.Risk.StationarySeconds,
		MaxIsolatedPOI:    c.Risk.MaxIsolatedPOI,
		POIRadiusM:        c.Risk.POIRadiusM,
		TZOffsetHours:     c.Risk.TZOffsetHours,
	}
}

// RedisEnabled reports whether a Redis address is configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parser collects parse errors instead of failing on the first one
type parser struct {
	errs *[]string
}

func (p parser) fail(key, value string, err error) {
	*p.errs = append(*p.errs, fmt.Sprintf("%s=%q: %v", key, value, err))
}

func (p parser) getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p parser) getFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return f
}

func (p parser) getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return b
}

func (p parser) getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return d
}
