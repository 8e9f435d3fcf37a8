package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth
	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int

	// Email (Resend)
	ResendAPIKey string
	ResendAPIURL string
	FromEmail    string
	AdminEmail   string
	AppURL       string

	// Server
	Port          string
	CORSOrigins   string
	AuthRateLimit int
	APIRateLimit  int
	RedisURL      string

	// Observability
	LogFile          string
	LogRetentionDays int
	SentryDSN        string
	AppEnv           string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "gapanalysis"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTExpiry:  parseDuration(getEnv("JWT_EXPIRY", "168h"), 7*24*time.Hour),
		BcryptCost: parseInt(getEnv("BCRYPT_COST", "12"), 12),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		ResendAPIURL: getEnv("RESEND_API_URL", "https://api.resend.com"),
		FromEmail:    getEnv("FROM_EMAIL", "PM SkillsAssess <noreply@pmskillsassess.com>"),
		AdminEmail:   getEnv("ADMIN_EMAIL", "admin@pmskillsassess.com"),
		AppURL:       getEnv("APP_URL", "https://pmskillsassess.com"),

		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		AuthRateLimit: parseInt(getEnv("AUTH_RATE_LIMIT", "10"), 10),
		APIRateLimit:  parseInt(getEnv("API_RATE_LIMIT", "120"), 120),
		RedisURL:      getEnv("REDIS_URL", ""),

		LogFile:          getEnv("LOG_FILE", ""),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
		AppEnv:           getEnv("APP_ENV", "development"),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	if c.DBPassword == "" {
		return errors.New("DB_PASSWORD environment variable is required")
	}
	return nil
}

// EmailEnabled reports whether transactional email can be sent.
func (c *Config) EmailEnabled() bool {
	return c.ResendAPIKey != ""
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
