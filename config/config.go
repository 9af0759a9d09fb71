package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the client.
type Config struct {
	APIBaseURL     string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	LogFile        string
}

// Load reads configuration from the environment, after loading a .env file if
// one is present.
func Load() (Config, error) {
	// Missing .env is fine; real env vars may already be set.
	_ = godotenv.Load(".env")

	cfg := Config{
		APIBaseURL:     strings.TrimSpace(os.Getenv("TASKMAP_API_URL")),
		PollInterval:   parseDuration(os.Getenv("POLL_INTERVAL")),
		RequestTimeout: parseDuration(os.Getenv("REQUEST_TIMEOUT")),
		LogFile:        strings.TrimSpace(os.Getenv("LOG_FILE")),
	}

	if cfg.PollInterval == 0 {
		cfg.PollInterval = time.Minute
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "logs/client.log"
	}

	if cfg.APIBaseURL == "" {
		return cfg, fmt.Errorf("TASKMAP_API_URL is required")
	}

	return cfg, nil
}

func parseDuration(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}
