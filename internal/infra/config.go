package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	LogLevel           string
	Port               string
	DatabaseURL        string
	DBMaxConns         int32
	JWTSecret          string
	TextgenProvider    string
	GeminiAPIKey       string
	GeminiBaseURL      string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	SpecialistModel    string
	SynthesizerModel   string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	StatusRateLimit    int
	CORSAllowedOrigins []string
	StaleJobAfter      time.Duration
	SweepInterval      time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults. Binaries call the Require* helpers for what they need.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBMaxConns:         int32(getEnvInt("DB_MAX_CONNS", 10)),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TextgenProvider:    strings.ToLower(getEnv("TEXTGEN_PROVIDER", "gemini")),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:      os.Getenv("GEMINI_BASE_URL"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		SpecialistModel:    os.Getenv("SPECIALIST_MODEL"),
		SynthesizerModel:   os.Getenv("SYNTHESIZER_MODEL"),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		StatusRateLimit:    getEnvInt("STATUS_RATE_LIMIT_PER_MINUTE", 60),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		StaleJobAfter:      time.Minute * time.Duration(getEnvInt("STALE_JOB_AFTER_MINUTES", 15)),
		SweepInterval:      time.Second * time.Duration(getEnvInt("SWEEP_INTERVAL_SECONDS", 60)),
	}

	switch cfg.TextgenProvider {
	case "gemini", "openai":
	default:
		return nil, fmt.Errorf("TEXTGEN_PROVIDER must be gemini or openai, got %q", cfg.TextgenProvider)
	}
	if cfg.DBMaxConns <= 0 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.StatusRateLimit <= 0 {
		return nil, fmt.Errorf("STATUS_RATE_LIMIT_PER_MINUTE must be positive")
	}

	return cfg, nil
}

// RequireDatabase reports a missing DATABASE_URL.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

// RequireJWTSecret reports a missing JWT_SECRET.
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
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

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
