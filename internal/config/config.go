package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL    string
	RedisURL       string
	JWTSecret      string
	ServerPort     string
	Environment    string
	CORSOrigins    string
	SessionHours   int
	InvoiceDueDays int

	// Akun awal yang dibuat saat seeding
	AdminUsername string
	AdminPassword string
	UserUsername  string
	UserPassword  string
}

func Load() *Config {
	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL == "" {
		databaseURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Jakarta",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", ""),
			getEnv("DB_NAME", "erp_docs"),
			getEnv("DB_PORT", "5432"),
		)
	}

	return &Config{
		DatabaseURL:    databaseURL,
		RedisURL:       getEnv("REDIS_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		ServerPort:     getEnv("PORT", "3000"),
		Environment:    strings.ToLower(getEnv("APP_ENV", "development")),
		CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
		SessionHours:   getEnvInt("SESSION_HOURS", 8),
		InvoiceDueDays: getEnvInt("INVOICE_DUE_DAYS", 30),
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin123"),
		UserUsername:   getEnv("USER_USERNAME", "user"),
		UserPassword:   getEnv("USER_PASSWORD", "user123"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SessionTTL is the lifetime of a login session
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionHours) * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}
