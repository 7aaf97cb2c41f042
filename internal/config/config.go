package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	DiscordToken      string
	OwnerID           string
	StatsRole         string
	JoinRole          string
	ReactionRolesPath string

	HTTPPort     string
	AdminToken   string
	AppMode      string
	FiberPrefork bool

	AuditPollInterval  time.Duration
	AuditLogLimit      int
	ReportTimeout      time.Duration
	SkipFailedChannels bool

	ClickHouse ClickHouseConfig

	WorkerBufferSize int
	WorkerBatchSize  int
	WorkerFlushEvery time.Duration
}

// ClickHouseConfig locates the moderation archive. An empty Addr disables it.
type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
}

// Enabled reports whether a ClickHouse address was configured.
func (c ClickHouseConfig) Enabled() bool {
	return c.Addr != ""
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DiscordToken:      os.Getenv("DISCORD_TOKEN"),
		OwnerID:           os.Getenv("OWNER_ID"),
		StatsRole:         getEnv("STATS_ROLE", "stats canada"),
		JoinRole:          getEnv("JOIN_ROLE", "all"),
		ReactionRolesPath: getEnv("REACTION_ROLES_PATH", "reaction_roles.json"),

		HTTPPort:     getEnv("HTTP_PORT", ":8080"),
		AdminToken:   os.Getenv("ADMIN_TOKEN"),
		AppMode:      strings.ToLower(getEnv("APP_MODE", "dev")),
		FiberPrefork: parseBoolEnv("FIBER_PREFORK", false),

		AuditPollInterval:  parseDurationEnv("AUDIT_POLL_INTERVAL", 5*time.Minute),
		AuditLogLimit:      parseIntEnv("AUDIT_LOG_LIMIT", 10),
		ReportTimeout:      parseDurationEnv("REPORT_TIMEOUT", 10*time.Minute),
		SkipFailedChannels: parseBoolEnv("SKIP_FAILED_CHANNELS", false),

		ClickHouse: ClickHouseConfig{
			Addr:     os.Getenv("CLICKHOUSE_ADDR"),
			Database: getEnv("CLICKHOUSE_DATABASE", "default"),
			Username: getEnv("CLICKHOUSE_USER", "default"),
			Password: os.Getenv("CLICKHOUSE_PASSWORD"),
		},

		WorkerBufferSize: parseIntEnv("WORKER_BUFFER_SIZE", 1000),
		WorkerBatchSize:  parseIntEnv("WORKER_BATCH_SIZE", 100),
		WorkerFlushEvery: parseDurationEnv("WORKER_FLUSH_EVERY", 5*time.Second),
	}
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	if cfg.OwnerID == "" {
		return nil, fmt.Errorf("OWNER_ID is required")
	}
	if cfg.AuditPollInterval <= 0 {
		return nil, fmt.Errorf("AUDIT_POLL_INTERVAL must be positive, got %s", cfg.AuditPollInterval)
	}
	if cfg.WorkerFlushEvery <= 0 {
		return nil, fmt.Errorf("WORKER_FLUSH_EVERY must be positive, got %s", cfg.WorkerFlushEvery)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseBoolEnv(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseIntEnv(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func parseDurationEnv(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
