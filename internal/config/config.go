package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/loyaltyhub/core/internal/tier"
)

type Config struct {
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

	// Telegram ops notifications (optional)
	TelegramBotToken string
	TelegramChatID   int64

	// Loyalty program
	WelcomeBonus    float64
	ReferrerBonus   float64
	CreditsPerPoint int64

	// VIP tier thresholds
	SilverMinPoints   int64
	GoldMinPoints     int64
	PlatinumMinPoints int64
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "loyalty"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "loyalty_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET_KEY", ""),

		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnvInt64("TELEGRAM_CHAT_ID", 0),

		WelcomeBonus:    getEnvFloat("WELCOME_BONUS", 25),
		ReferrerBonus:   getEnvFloat("REFERRER_BONUS", 50),
		CreditsPerPoint: getEnvInt64("CREDITS_PER_POINT", 2),

		SilverMinPoints:   getEnvInt64("SILVER_MIN_POINTS", 500),
		GoldMinPoints:     getEnvInt64("GOLD_MIN_POINTS", 2000),
		PlatinumMinPoints: getEnvInt64("PLATINUM_MIN_POINTS", 5000),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters")
	}
	if c.WelcomeBonus < 0 || c.ReferrerBonus < 0 {
		return fmt.Errorf("bonus amounts must not be negative")
	}
	if c.CreditsPerPoint < 1 {
		return fmt.Errorf("CREDITS_PER_POINT must be at least 1")
	}
	if err := c.TierTable().Validate(); err != nil {
		return fmt.Errorf("invalid tier thresholds: %w", err)
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

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// TierTable builds the VIP tier table from the configured thresholds. The
// reference multipliers are fixed per tier name; thresholds are tunable.
func (c *Config) TierTable() tier.Table {
	return tier.Table{
		{Name: tier.Bronze, MinPoints: 0, Multiplier: 1},
		{Name: tier.Silver, MinPoints: c.SilverMinPoints, Multiplier: 1.25},
		{Name: tier.Gold, MinPoints: c.GoldMinPoints, Multiplier: 1.5},
		{Name: tier.Platinum, MinPoints: c.PlatinumMinPoints, Multiplier: 2},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
