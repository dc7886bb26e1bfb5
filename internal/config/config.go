// Package config provides configuration management for the smart-city client.
//
// This package handles loading configuration from environment variables,
// validating required settings, and providing sensible defaults for optional
// parameters. Configuration is loaded once at startup and remains immutable
// during runtime for thread-safety.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (highest priority)
//  2. External .env file
//  3. Hard-coded defaults (lowest priority)
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
//
// This struct is immutable after creation to ensure thread-safety.
// All duration and timeout values are configurable via environment
// variables to allow tuning for different network conditions.
type Config struct {
	// Base URLs for the three backend services
	UserServiceURL       string // Identity service (login, register, users)
	ComplaintServiceURL  string // Complaint service
	WorkerServiceURL     string // Worker resource group
	AssignmentServiceURL string // Work-assignment resource group

	// Login credentials for the watcher (required)
	Email    string
	Password string

	// Retry configuration for resilience
	MaxLoginRetries int           // Maximum login attempts before giving up
	LoginRetryDelay time.Duration // Delay between login retry attempts
	MaxFetchRetries int           // Consecutive fetch failures before alerting

	// Timing configuration
	FetchInterval time.Duration // How often to re-fetch the aggregate view
	HTTPTimeout   time.Duration // HTTP client timeout

	// Durable session storage
	SessionFile string // Path to the persisted token + user record

	// Telegram configuration (optional)
	TelegramBotToken string // Telegram bot API token
	TelegramChatID   string // Telegram chat ID for notifications

	// Health check server configuration
	HealthPort string // Port for the health/metrics HTTP server

	// Debug mode - notifications are logged instead of sent
	DebugMode bool
}

// Load loads configuration from environment variables with defaults.
//
// Loading process:
//  1. Try to load external .env file (optional)
//  2. Read environment variables
//  3. Apply hard-coded defaults for any missing optional values
//  4. Validate that all required fields are present
//
// Returns:
//   - *Config: Fully populated configuration struct
//   - error: Validation error if required fields are missing
func Load() (*Config, error) {
	// External .env is optional; environment variables win either way
	_ = godotenv.Load()

	cfg := &Config{
		// Service URLs - match the default local deployment ports
		UserServiceURL:       getEnvOrDefault("USER_SERVICE_URL", "http://localhost:8081/api/user"),
		ComplaintServiceURL:  getEnvOrDefault("COMPLAINT_SERVICE_URL", "http://localhost:8080/api/complaint"),
		WorkerServiceURL:     getEnvOrDefault("WORKER_SERVICE_URL", "http://localhost:8082/api/worker"),
		AssignmentServiceURL: getEnvOrDefault("ASSIGNMENT_SERVICE_URL", "http://localhost:8082/api/work-assignment"),

		// Credentials - REQUIRED, no defaults
		Email:    os.Getenv("SMARTCITY_EMAIL"),
		Password: os.Getenv("SMARTCITY_PASSWORD"),

		// Retry configuration
		MaxLoginRetries: getEnvInt("MAX_LOGIN_RETRIES", 3),
		LoginRetryDelay: getEnvDuration("LOGIN_RETRY_DELAY", 5*time.Second),
		MaxFetchRetries: getEnvInt("MAX_FETCH_RETRIES", 2),

		// Timing
		FetchInterval: getEnvDuration("FETCH_INTERVAL", 5*time.Minute),
		HTTPTimeout:   getEnvDuration("HTTP_TIMEOUT", 30*time.Second),

		// Session storage
		SessionFile: getEnvOrDefault("SESSION_FILE", "session.json"),

		// Telegram - optional, notifications disabled if not set
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),

		// Health check - default port 8090 (8080-8082 belong to the services)
		HealthPort: getEnvOrDefault("HEALTH_PORT", "8090"),

		// Debug mode - default false (production mode)
		DebugMode: getEnvOrDefault("DEBUG_MODE", "false") == "true",
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present and values are sensible.
//
// Validation rules:
//   - Email and Password must be non-empty (required for login)
//   - Service URLs must be non-empty
//   - Numeric values must be positive
//
// Returns:
//   - error: Descriptive error if validation fails, nil if all checks pass
func (c *Config) Validate() error {
	if c.Email == "" {
		return fmt.Errorf("SMARTCITY_EMAIL environment variable is required")
	}
	if c.Password == "" {
		return fmt.Errorf("SMARTCITY_PASSWORD environment variable is required")
	}

	if c.UserServiceURL == "" {
		return fmt.Errorf("USER_SERVICE_URL cannot be empty")
	}
	if c.ComplaintServiceURL == "" {
		return fmt.Errorf("COMPLAINT_SERVICE_URL cannot be empty")
	}
	if c.WorkerServiceURL == "" {
		return fmt.Errorf("WORKER_SERVICE_URL cannot be empty")
	}
	if c.AssignmentServiceURL == "" {
		return fmt.Errorf("ASSIGNMENT_SERVICE_URL cannot be empty")
	}

	if c.MaxLoginRetries < 1 {
		return fmt.Errorf("MAX_LOGIN_RETRIES must be at least 1, got %d", c.MaxLoginRetries)
	}
	if c.FetchInterval < time.Second {
		return fmt.Errorf("FETCH_INTERVAL must be at least 1s, got %v", c.FetchInterval)
	}

	return nil
}

// Helper functions for environment variable parsing

// getEnvOrDefault returns the environment variable value or a default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an integer or a default if not set/invalid
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as a duration or a default if not set/invalid.
//
// Accepts standard Go duration strings like "5s", "10m", "1h30m"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
