package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	LogLevel        string
	HTTPAddr        string
	MetricsAddr     string // empty: metrics only on the API router
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	JWTSecret       string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	TrustProxy      bool // honor X-Forwarded-For / X-Real-IP from a fronting proxy
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer env value")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric env value")
		}
		return def
	}
	atob := func(k string, def bool) bool {
		if v := os.Getenv(k); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-boolean env value")
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		LogLevel:        env("LOG_LEVEL", "info"),
		HTTPAddr:        env("HTTP_ADDR", ":4000"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/drivent?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		JWTSecret:       env("JWT_SECRET", ""),
		RequestTimeout:  time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		ShutdownTimeout: time.Duration(atoi("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		RateLimitRPS:    atof("RATE_LIMIT_RPS", 20),
		RateLimitBurst:  atoi("RATE_LIMIT_BURST", 40),
		TrustProxy:      atob("TRUST_PROXY", false),
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
