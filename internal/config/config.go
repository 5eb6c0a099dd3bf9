// Package config loads server configuration from the environment, with a
// .env file honored in development.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string

	AmadeusBaseURL      string
	AmadeusClientID     string
	AmadeusClientSecret string

	CacheEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	SessionTTL    time.Duration
	SearchTimeout time.Duration
}

// Load reads configuration from the environment. A missing .env file is
// not an error. Amadeus credentials are optional at startup: the client
// reports a terminal configuration error at call time, which the store
// surfaces to the UI.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AmadeusBaseURL:      getEnv("AMADEUS_BASE_URL", "https://test.api.amadeus.com"),
		AmadeusClientID:     os.Getenv("AMADEUS_API_KEY"),
		AmadeusClientSecret: os.Getenv("AMADEUS_API_SECRET"),

		CacheEnabled:  getEnvBool("CACHE_ENABLED", true),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       0,

		SessionTTL:    getEnvDuration("SESSION_TTL", 30*time.Minute),
		SearchTimeout: getEnvDuration("SEARCH_TIMEOUT", 15*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
