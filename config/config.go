package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPHost string
	HTTPPort string

	MySQLDSN string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	ResetTokenTTL time.Duration
	ResetLinkBase string

	RevokedTokenPruneInterval time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignores error if not found)
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	return &Config{
		HTTPHost:                  getEnv("HTTP_HOST", ""),
		HTTPPort:                  getEnv("HTTP_PORT", "8080"),
		MySQLDSN:                  mysqlDSN,
		JWTSecret:                 jwtSecret,
		AccessTokenTTL:            getDurationEnv("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:           getDurationEnv("REFRESH_TOKEN_TTL", 48*time.Hour),
		ResetTokenTTL:             getDurationEnv("RESET_TOKEN_TTL", 10*time.Minute),
		ResetLinkBase:             getEnv("RESET_LINK_BASE", "http://localhost:8080/api/auth/verify-token"),
		RevokedTokenPruneInterval: getDurationEnv("REVOKED_TOKEN_PRUNE_INTERVAL", time.Hour),
		SMTPHost:                  getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:                  getIntEnv("SMTP_PORT", 587),
		SMTPUser:                  getEnv("EMAIL_ADDRESS", ""),
		SMTPPassword:              getEnv("EMAIL_PASSWORD", ""),
		MailFrom:                  getEnv("MAIL_FROM", getEnv("EMAIL_ADDRESS", "no-reply@localhost")),
		LogLevel:                  getEnv("LOG_LEVEL", "info"),
		LogFormat:                 getEnv("LOG_FORMAT", "text"),
	}, nil
}

func (c *Config) DSN() string {
	return c.MySQLDSN
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
