package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultTemplateID is used when neither the request nor the environment
// provides a provider template.
const DefaultTemplateID = "52df47c0bd8e435c9729121e036d2e7f"

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	HeyGenAPIKey     string
	HeyGenBaseURL    string
	TemplateID       string
	AllowedOrigins   []string
	GeoIPDBPath      string
	DefaultLocale    string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	GenerateTimeout  time.Duration
	StatusTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. A missing HEYGEN_API_KEY is not an error here: the
// service still starts, the generation endpoints degrade to a 500
// "not configured" response and the health endpoints stay available.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8000"),
		HeyGenAPIKey:     os.Getenv("HEYGEN_API_KEY"),
		HeyGenBaseURL:    getEnv("HEYGEN_BASE_URL", "https://api.heygen.com"),
		TemplateID:       getEnv("TEMPLATE_ID", DefaultTemplateID),
		AllowedOrigins:   splitList(os.Getenv("ALLOWED_ORIGINS")),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:    getEnv("DEFAULT_LOCALE", "en"),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		GenerateTimeout:  time.Second * time.Duration(getEnvInt("HEYGEN_GENERATE_TIMEOUT_SECONDS", 30)),
		StatusTimeout:    time.Second * time.Duration(getEnvInt("HEYGEN_STATUS_TIMEOUT_SECONDS", 15)),
	}

	return cfg, nil
}

// APIKeyConfigured reports whether a provider credential is present.
func (c *Config) APIKeyConfigured() bool {
	return strings.TrimSpace(c.HeyGenAPIKey) != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
