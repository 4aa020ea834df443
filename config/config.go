package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	DatabaseDSN    string
	Port           string
	GinMode        string
	JWTSecret      string
	SessionMinutes int
	SweepInterval  time.Duration
	TaxRate        float64
	CORSOrigin     string
}

// Load reads configuration from the environment, loading .env first when it
// exists. Missing values fall back to development defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using system environment variables")
	}

	return &Config{
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:root@tcp(127.0.0.1:3306)/dinein?charset=utf8mb4&parseTime=True&loc=Local"),
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		SessionMinutes: getEnvInt("SESSION_DURATION_MINUTES", 120),
		SweepInterval:  time.Duration(getEnvInt("SWEEP_INTERVAL_SECONDS", 60)) * time.Second,
		TaxRate:        getEnvFloat("TAX_RATE", 0),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %d", key, value, fallback)
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %f", key, value, fallback)
		return fallback
	}
	return parsed
}
