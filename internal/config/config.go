package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Telegram
	BotToken string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Security
	JWTSecret string

	// Application
	AppEnv   string
	LogLevel string

	// Rate Limiting
	RateLimitPerUser int
	RateLimitPerChat int

	// Place search
	PlaceSearchBaseURL string
	PlaceSearchAPIKey  string
	PlaceSearchTimeout int // seconds

	// Recommendations
	MaxCandidates      int
	FallbackPlaceLimit int

	// Invitations
	InviteLinkTTLHours int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken:   getEnv("BOT_TOKEN", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "hangout"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "hangout_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET_KEY", ""),

		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RateLimitPerUser: getEnvInt("RATE_LIMIT_PER_USER", 20),
		RateLimitPerChat: getEnvInt("RATE_LIMIT_PER_CHAT", 100),

		PlaceSearchBaseURL: getEnv("PLACE_SEARCH_BASE_URL", ""),
		PlaceSearchAPIKey:  getEnv("PLACE_SEARCH_API_KEY", ""),
		PlaceSearchTimeout: getEnvInt("PLACE_SEARCH_TIMEOUT_SECONDS", 5),

		MaxCandidates:      getEnvInt("MAX_CANDIDATES", 7),
		FallbackPlaceLimit: getEnvInt("FALLBACK_PLACE_LIMIT", 50),

		InviteLinkTTLHours: getEnvInt("INVITE_LINK_TTL_HOURS", 72),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters")
	}
	if c.MaxCandidates <= 0 {
		return fmt.Errorf("MAX_CANDIDATES must be positive")
	}
	if c.PlaceSearchTimeout <= 0 {
		return fmt.Errorf("PLACE_SEARCH_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.JWTSecret == "your_jwt_secret_minimum_32_chars_here_change_this" {
		return fmt.Errorf("JWT_SECRET_KEY must be changed from default in production")
	}
	if c.PlaceSearchBaseURL == "" {
		return fmt.Errorf("PLACE_SEARCH_BASE_URL must be set in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) GetPlaceSearchTimeout() time.Duration {
	return time.Duration(c.PlaceSearchTimeout) * time.Second
}

func (c *Config) GetInviteLinkTTL() time.Duration {
	return time.Duration(c.InviteLinkTTLHours) * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
