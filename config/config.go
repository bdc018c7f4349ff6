package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"clover/database"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration. The token is only needed to edit rendered
	// leaderboards; without it the pusher is disabled.
	DiscordToken string `env:"DISCORD_TOKEN"`

	// Database configuration
	DatabaseURL      string `env:"DATABASE_URL"`
	DatabaseName     string `env:"DATABASE_NAME"`
	DatabaseMaxConns int    `env:"DATABASE_MAX_CONNS" envDefault:"10"`

	// NATS server addresses (comma-separated). Empty keeps events in-process.
	NATSServers      string        `env:"NATS_SERVERS"`
	NATSStreamMaxAge time.Duration `env:"NATS_STREAM_MAX_AGE" envDefault:"168h"`

	// Debug HTTP listener, e.g. ":8081". Empty disables it.
	DebugAPIAddr string `env:"DEBUG_API_ADDR"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// OpenTelemetry metrics
	OTelEnabled              bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelServiceName          string `env:"OTEL_SERVICE_NAME" envDefault:"clover"`
	OTelExporterType         string `env:"OTEL_EXPORTER_TYPE" envDefault:"console"`
	OTelOTLPEndpoint         string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTelExportIntervalMillis int    `env:"OTEL_EXPORT_INTERVAL_MILLIS" envDefault:"60000"`

	Economy EconomyConfig `envPrefix:"ECONOMY_"`

	// Environment is "development", "production" or "test"
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// EconomyConfig holds the tunable rules of the economy
type EconomyConfig struct {
	// Daily grant for eligible accounts
	DailyIncome int64 `env:"DAILY_INCOME" envDefault:"500"`

	// Weekly grant per qualifying tier, summed across tiers
	WeeklyTierIncome map[string]int64 `env:"WEEKLY_TIER_INCOME" envDefault:"Efflorescent:5000,Staff:2500,Vanity Link:2000,Bronze Clover:2000"`

	SlotsWinChance float64 `env:"SLOTS_WIN_CHANCE" envDefault:"0.35"`

	BlackjackTurnTimeout time.Duration `env:"BLACKJACK_TURN_TIMEOUT" envDefault:"30s"`
	BlackjackCooldown    time.Duration `env:"BLACKJACK_COOLDOWN" envDefault:"24h"`

	LeaderboardInterval time.Duration `env:"LEADERBOARD_INTERVAL" envDefault:"4h"`
	LeaderboardSize     int           `env:"LEADERBOARD_SIZE" envDefault:"9"`
	LeaderboardWindow   time.Duration `env:"LEADERBOARD_WINDOW" envDefault:"168h"`
}

// Load parses the configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings and economy bounds
func (c *Config) Validate() error {
	if c.Environment != "test" {
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
		if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
			return errors.New("DATABASE_NAME cannot be blank when provided")
		}
	}

	if c.DatabaseMaxConns < 0 {
		return fmt.Errorf("DATABASE_MAX_CONNS must not be negative, got %d", c.DatabaseMaxConns)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}

	return c.Economy.Validate()
}

// Validate checks the economy settings are usable
func (e *EconomyConfig) Validate() error {
	if e.DailyIncome < 0 {
		return fmt.Errorf("ECONOMY_DAILY_INCOME must not be negative, got %d", e.DailyIncome)
	}
	for tier, amount := range e.WeeklyTierIncome {
		if amount < 0 {
			return fmt.Errorf("ECONOMY_WEEKLY_TIER_INCOME for %q must not be negative", tier)
		}
	}
	if e.SlotsWinChance <= 0 || e.SlotsWinChance >= 1 {
		return fmt.Errorf("ECONOMY_SLOTS_WIN_CHANCE must be strictly between 0 and 1, got %v", e.SlotsWinChance)
	}
	if e.BlackjackTurnTimeout <= 0 {
		return errors.New("ECONOMY_BLACKJACK_TURN_TIMEOUT must be positive")
	}
	if e.BlackjackCooldown < 0 {
		return errors.New("ECONOMY_BLACKJACK_COOLDOWN must not be negative")
	}
	if e.LeaderboardInterval <= 0 {
		return errors.New("ECONOMY_LEADERBOARD_INTERVAL must be positive")
	}
	if e.LeaderboardSize <= 0 {
		return errors.New("ECONOMY_LEADERBOARD_SIZE must be positive")
	}
	if e.LeaderboardWindow <= 0 {
		return errors.New("ECONOMY_LEADERBOARD_WINDOW must be positive")
	}
	return nil
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// NewTestConfig creates a config with production economy defaults for tests
func NewTestConfig() *Config {
	return &Config{
		Environment:              "test",
		LogLevel:                 "debug",
		LogFormat:                "text",
		OTelServiceName:          "clover",
		OTelExporterType:         "none",
		OTelExportIntervalMillis: 60000,
		Economy:                  DefaultEconomy(),
	}
}

// DefaultEconomy returns the economy rules the bot ships with
func DefaultEconomy() EconomyConfig {
	return EconomyConfig{
		DailyIncome: 500,
		WeeklyTierIncome: map[string]int64{
			"Efflorescent":  5000,
			"Staff":         2500,
			"Vanity Link":   2000,
			"Bronze Clover": 2000,
		},
		SlotsWinChance:       0.35,
		BlackjackTurnTimeout: 30 * time.Second,
		BlackjackCooldown:    24 * time.Hour,
		LeaderboardInterval:  4 * time.Hour,
		LeaderboardSize:      9,
		LeaderboardWindow:    7 * 24 * time.Hour,
	}
}
