package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr       = ":8080"
	defaultDatabaseURL    = "foodgram.db"
	defaultJWTSecret      = "change-me-jwt-secret"
	defaultJWTTTL         = "24h"
	defaultUploadsDir     = "./uploads"
	defaultStaticURLBase  = "/static"
	defaultLogLevel       = "info"
	defaultRateLimitRPS   = "20"
	defaultRateLimitBurst = "40"
	defaultReadTimeout    = "10s"
	defaultWriteTimeout   = "30s"
	defaultCORSOrigins    = "http://localhost:3000"
	defaultMaxImageBytes  = "5242880"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	DatabaseURL   string
	JWTSecret     string
	JWTTTL        time.Duration
	UploadsDir    string
	StaticURLBase string
	LogLevel      string

	RateLimitRPS   float64
	RateLimitBurst int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	CORSAllowedOrigins []string
	MaxImageBytes      int
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.UploadsDir = strings.TrimSpace(getEnv("UPLOADS_DIR", defaultUploadsDir))
	cfg.StaticURLBase = strings.TrimRight(strings.TrimSpace(getEnv("STATIC_URL_BASE", defaultStaticURLBase)), "/")
	cfg.LogLevel = strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel))
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins))

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.HTTPReadTimeout, err = parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = parseFloatEnv("RATE_LIMIT_RPS", defaultRateLimitRPS); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = parseIntEnv("RATE_LIMIT_BURST", defaultRateLimitBurst); err != nil {
		return nil, err
	}
	if cfg.MaxImageBytes, err = parseIntEnv("MAX_IMAGE_BYTES", defaultMaxImageBytes); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProd() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.UploadsDir == "" {
		return fmt.Errorf("UPLOADS_DIR must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.HTTPReadTimeout <= 0 || cfg.HTTPWriteTimeout <= 0 {
		return fmt.Errorf("HTTP_READ_TIMEOUT and HTTP_WRITE_TIMEOUT must be > 0")
	}
	if cfg.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be > 0")
	}
	if cfg.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 1")
	}
	if cfg.MaxImageBytes < 1 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be >= 1")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		for _, o := range cfg.CORSAllowedOrigins {
			if o == "*" {
				return fmt.Errorf("in prod/release CORS_ALLOWED_ORIGINS must not contain *")
			}
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseFloatEnv(name, fallback string) (float64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return f, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
