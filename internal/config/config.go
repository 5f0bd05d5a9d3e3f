package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

const (
	defaultAccessTTL      = "1h"
	defaultRefreshTTL     = "168h"
	defaultCookieMaxAge   = "720h"
	defaultCookieSecure   = "false"
	defaultCookieSameSite = "Lax"
	defaultCookiePath     = "/"
	defaultAccessSecret   = "change-me-access-secret"
	defaultRefreshSecret  = "change-me-refresh-secret"
	defaultBusBaseURL     = "https://urapp.i-xiaoma.com.cn/app/v2/bus/new"
	defaultBusPoll        = "15s"
)

// Config is the immutable runtime configuration, loaded once at startup and
// injected into the components that need it. Signing secrets are never read
// from the environment at call time.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// CookieMaxAge intentionally exceeds RefreshTTL (30 days vs 7); the
	// ledger expiry is what actually bounds a session. Kept as configured
	// in the source system.
	CookieMaxAge   time.Duration
	CookieSecure   bool
	CookieSameSite string
	CookiePath     string

	BusBaseURL      string
	BusAppKey       string
	BusPollInterval time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseURL = getEnv("DATABASE_URL", "cityhub.db")

	cfg.AccessSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultAccessSecret))
	cfg.RefreshSecret = strings.TrimSpace(getEnv("JWT_REFRESH_SECRET", defaultRefreshSecret))

	var err error
	cfg.AccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTTL, err = parseDurationEnv("JWT_REFRESH_TTL", defaultRefreshTTL)
	if err != nil {
		return nil, err
	}
	cfg.CookieMaxAge, err = parseDurationEnv("COOKIE_MAX_AGE", defaultCookieMaxAge)
	if err != nil {
		return nil, err
	}

	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", defaultCookieSecure)
	cfg.CookieSameSite = strings.TrimSpace(getEnv("COOKIE_SAMESITE", defaultCookieSameSite))
	cfg.CookiePath = strings.TrimSpace(getEnv("COOKIE_PATH", defaultCookiePath))

	cfg.BusBaseURL = strings.TrimSpace(getEnv("BUS_API_BASE_URL", defaultBusBaseURL))
	cfg.BusAppKey = strings.TrimSpace(os.Getenv("BUS_APP_KEY"))
	cfg.BusPollInterval, err = parseDurationEnv("BUS_POLL_INTERVAL", defaultBusPoll)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s access_ttl=%s refresh_ttl=%s cookie_max_age=%s cookie_secure=%t",
		cfg.AppEnv, cfg.AccessTTL, cfg.RefreshTTL, cfg.CookieMaxAge, cfg.CookieSecure)

	return cfg, nil
}

func (c *Config) IsProd() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

func validate(cfg *Config) error {
	if cfg.AccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.RefreshTTL <= 0 {
		return fmt.Errorf("JWT_REFRESH_TTL must be > 0")
	}
	if cfg.CookieMaxAge <= 0 {
		return fmt.Errorf("COOKIE_MAX_AGE must be > 0")
	}
	if cfg.CookiePath == "" {
		return fmt.Errorf("COOKIE_PATH must not be empty")
	}
	sameSite := strings.ToLower(cfg.CookieSameSite)
	if sameSite != "lax" && sameSite != "none" && sameSite != "strict" {
		return fmt.Errorf("COOKIE_SAMESITE must be one of: Lax, None, Strict")
	}
	if sameSite == "none" && !cfg.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be true when COOKIE_SAMESITE=None")
	}

	if cfg.IsProd() {
		if isEmptyOrDefault(cfg.AccessSecret, defaultAccessSecret) {
			return fmt.Errorf("in prod JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.RefreshSecret, defaultRefreshSecret) {
			return fmt.Errorf("in prod JWT_REFRESH_SECRET must be set and not default")
		}
		if cfg.AccessSecret == cfg.RefreshSecret {
			return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must differ")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod COOKIE_SECURE must be true")
		}
	}

	return nil
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

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
