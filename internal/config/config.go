package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

// CronParser parses sync schedules: standard five fields, an optional leading
// seconds field, and descriptors such as @daily.
var CronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Config holds all application configuration
type Config struct {
	// Ticketmaster Discovery API
	TicketmasterAPIKey          string        `envconfig:"TICKETMASTER_API_KEY" required:"true"`
	TicketmasterBaseURL         string        `envconfig:"TICKETMASTER_BASE_URL" default:"https://app.ticketmaster.com/discovery/v2"`
	TicketmasterTimeout         time.Duration `envconfig:"TICKETMASTER_TIMEOUT" default:"30s"`
	TicketmasterRequestInterval time.Duration `envconfig:"TICKETMASTER_REQUEST_INTERVAL" default:"200ms"`
	TicketmasterPageSize        int           `envconfig:"TICKETMASTER_PAGE_SIZE" default:"200"` // API maximum
	TicketmasterMaxRetries      int           `envconfig:"TICKETMASTER_MAX_RETRIES" default:"3"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"ticketsync"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"ticketsync"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Caching TTL for reference lists
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"1h"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8080"`

	// Sync
	SyncSchedule     string `envconfig:"SYNC_SCHEDULE" default:"0 */12 * * *"`
	SyncWindowMonths int    `envconfig:"SYNC_WINDOW_MONTHS" default:"1"`
	MinTeamsPerEvent int    `envconfig:"MIN_TEAMS_PER_EVENT" default:"2"`
	TicketVendorName string `envconfig:"TICKET_VENDOR_NAME" default:"Ticketmaster"`

	// Scheduler
	EnableScheduler    bool `envconfig:"ENABLE_SCHEDULER" default:"true"`
	InitialSyncEnabled bool `envconfig:"INITIAL_SYNC_ENABLED" default:"false"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.TicketmasterAPIKey == "" {
		return fmt.Errorf("TICKETMASTER_API_KEY is required")
	}

	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if _, err := CronParser.Parse(c.SyncSchedule); err != nil {
		return fmt.Errorf("SYNC_SCHEDULE %q is not a valid cron expression: %w", c.SyncSchedule, err)
	}

	if c.MinTeamsPerEvent < 1 {
		return fmt.Errorf("MIN_TEAMS_PER_EVENT must be at least 1, got %d", c.MinTeamsPerEvent)
	}

	if c.SyncWindowMonths < 1 {
		return fmt.Errorf("SYNC_WINDOW_MONTHS must be at least 1, got %d", c.SyncWindowMonths)
	}

	if c.TicketmasterPageSize < 1 || c.TicketmasterPageSize > 200 {
		return fmt.Errorf("TICKETMASTER_PAGE_SIZE must be between 1 and 200, got %d", c.TicketmasterPageSize)
	}

	if c.TicketVendorName == "" {
		return fmt.Errorf("TICKET_VENDOR_NAME must not be empty")
	}

	return nil
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
