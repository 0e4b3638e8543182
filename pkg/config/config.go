package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret string
	JWTIssuer string

	// Dispatcher scheduling. PollInterval drives the ticker; RunBackoff is
	// the constant delay written into next_run_at after each evaluation.
	AutomationPollInterval time.Duration
	AutomationRunBackoff   time.Duration

	// Rate limiting, in ulule/limiter format (e.g. "100-M").
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "field-service-app")
	viper.SetDefault("AUTOMATION_POLL_INTERVAL", "30s")
	viper.SetDefault("AUTOMATION_RUN_BACKOFF", "5m")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	pollStr := viper.GetString("AUTOMATION_POLL_INTERVAL")
	poll, err := time.ParseDuration(pollStr)
	if err != nil {
		poll = 30 * time.Second
		log.Printf("Warning: Invalid value for AUTOMATION_POLL_INTERVAL ('%s'). Defaulting to %s.\n", pollStr, poll)
	}
	cfg.AutomationPollInterval = poll

	backoffStr := viper.GetString("AUTOMATION_RUN_BACKOFF")
	backoff, err := time.ParseDuration(backoffStr)
	if err != nil {
		backoff = 5 * time.Minute
		log.Printf("Warning: Invalid value for AUTOMATION_RUN_BACKOFF ('%s'). Defaulting to %s.\n", backoffStr, backoff)
	}
	cfg.AutomationRunBackoff = backoff

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
