package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/aggregator"
	"github.com/dennisdiepolder/monti/recovery/internal/hours"
	"github.com/dennisdiepolder/monti/recovery/internal/normalize"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	WSReadTimeout  time.Duration
	WSWriteTimeout time.Duration
	LogLevel       string
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64

	// Operating hours
	HoursConfig string         // YAML registry file, empty for the embedded table
	WallClock   *time.Location // fixed offset operating hours are evaluated in

	// Metric policy
	RecoveryPolicy       aggregator.RecoveryStrategy
	CapCallRate          bool
	ExcludeOffHoursCalls bool
	MatchDID             bool

	// Periodic refresh of the trailing range, disabled when zero
	RefreshInterval time.Duration
	RefreshDays     int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HoursConfig:    getEnv("HOURS_CONFIG", ""),
	}

	// Parse WebSocket timeouts
	wsReadTimeout, err := strconv.Atoi(getEnv("WS_READ_TIMEOUT", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_READ_TIMEOUT: %w", err)
	}
	config.WSReadTimeout = time.Duration(wsReadTimeout) * time.Second

	wsWriteTimeout, err := strconv.Atoi(getEnv("WS_WRITE_TIMEOUT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_WRITE_TIMEOUT: %w", err)
	}
	config.WSWriteTimeout = time.Duration(wsWriteTimeout) * time.Second

	// Calculate WebSocket constants
	config.PongWait = config.WSReadTimeout
	config.PingPeriod = (config.PongWait * 9) / 10 // Must be less than pongWait
	config.WriteWait = config.WSWriteTimeout
	config.MaxMessageSize = 512

	// Trim spaces from allowed origins
	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	config.WallClock, err = hours.ParseOffset(getEnv("WALL_CLOCK_OFFSET", "-08:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid WALL_CLOCK_OFFSET: %w", err)
	}

	policy := getEnv("RECOVERY_POLICY", "matched")
	strategy, ok := aggregator.StrategyByName(policy)
	if !ok {
		return nil, fmt.Errorf("invalid RECOVERY_POLICY: %q", policy)
	}
	config.RecoveryPolicy = strategy

	if config.CapCallRate, err = parseBool("CAP_CALL_RATE", true); err != nil {
		return nil, err
	}
	if config.ExcludeOffHoursCalls, err = parseBool("EXCLUDE_OFF_HOURS_CALLS", true); err != nil {
		return nil, err
	}
	if config.MatchDID, err = parseBool("MATCH_DID", false); err != nil {
		return nil, err
	}

	refreshInterval, err := strconv.Atoi(getEnv("REFRESH_INTERVAL", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	config.RefreshInterval = time.Duration(refreshInterval) * time.Second

	config.RefreshDays, err = strconv.Atoi(getEnv("REFRESH_DAYS", "7"))
	if err != nil || config.RefreshDays <= 0 {
		return nil, fmt.Errorf("invalid REFRESH_DAYS: %q", os.Getenv("REFRESH_DAYS"))
	}

	return config, nil
}

// NormalizePolicy returns the record-level rules in effect
func (c *Config) NormalizePolicy() normalize.Policy {
	p := normalize.DefaultPolicy()
	p.MatchDID = c.MatchDID
	p.ExcludeOffHoursCalls = c.ExcludeOffHoursCalls
	return p
}

// AggregatorOptions returns the aggregation rules in effect
func (c *Config) AggregatorOptions() aggregator.Options {
	return aggregator.Options{Recovery: c.RecoveryPolicy, CapCallRate: c.CapCallRate}
}

func parseBool(key string, defaultValue bool) (bool, error) {
	raw := getEnv(key, strconv.FormatBool(defaultValue))
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
