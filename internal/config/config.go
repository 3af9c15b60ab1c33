// Package config provides configuration management for the lead pruning
// pipeline. It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	SmartLead SmartLeadConfig
	Pruning   PruningConfig
	Email     EmailConfig
	Storage   StorageConfig
	RunLock   RunLockConfig
	Artifacts ArtifactsConfig
	Logging   LoggingConfig
}

// SmartLeadConfig holds SmartLead API configuration
type SmartLeadConfig struct {
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int
	BackoffFactor float64
}

// PruningConfig holds the selection parameters for a pruning run
type PruningConfig struct {
	TargetLeads         int
	DaysWithoutActivity int
	ExcludeClientIDs    []int64
	ReferenceTimezone   string
	DeleteDelay         time.Duration
}

// EmailConfig holds notification email configuration
type EmailConfig struct {
	Enabled    bool
	Sender     string
	Password   string
	Recipients []string
	SMTPServer string
	SMTPPort   int
}

// StorageConfig holds the optional audit database configuration
type StorageConfig struct {
	Enabled  bool
	Postgres PostgresConfig
}

// PostgresConfig holds Postgres configuration
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// RunLockConfig holds the optional Redis run lock configuration
type RunLockConfig struct {
	Enabled bool
	TTL     time.Duration
	Redis   RedisConfig
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// ArtifactsConfig holds the output location for run artifacts
type ArtifactsConfig struct {
	Dir string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// Load .env file (optional in production)
	if err := godotenv.Load(); err != nil {
		// .env file is optional - environment variables can be set directly
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	excludeIDs, err := parseClientIDs(getEnv("EXCLUDE_CLIENT_IDS", ""))
	if err != nil {
		return nil, err
	}

	config := &Config{
		SmartLead: SmartLeadConfig{
			APIKey:        getEnv("SMARTLEAD_API_KEY", ""),
			BaseURL:       getEnv("SMARTLEAD_BASE_URL", "https://server.smartlead.ai/api/v1"),
			Timeout:       getEnvAsDuration("SMARTLEAD_TIMEOUT", 30*time.Second),
			MaxRetries:    getEnvAsInt("MAX_RETRIES", 5),
			BackoffFactor: getEnvAsFloat("BACKOFF_FACTOR", 2.0),
		},
		Pruning: PruningConfig{
			TargetLeads:         getEnvAsInt("TARGET_LEADS", 20000),
			DaysWithoutActivity: getEnvAsInt("DAYS_WITHOUT_ACTIVITY", 30),
			ExcludeClientIDs:    excludeIDs,
			ReferenceTimezone:   getEnv("REFERENCE_TIMEZONE", "Asia/Kolkata"),
			DeleteDelay:         getEnvAsDuration("DELETE_DELAY", 500*time.Millisecond),
		},
		Email: EmailConfig{
			Enabled:    getEnvAsBool("EMAIL_ENABLED", true),
			Sender:     getEnv("EMAIL_SENDER", ""),
			Password:   getEnv("EMAIL_PASSWORD", ""),
			Recipients: splitList(getEnv("EMAIL_RECIPIENTS", "")),
			SMTPServer: getEnv("SMTP_SERVER", "smtp.gmail.com"),
			SMTPPort:   getEnvAsInt("SMTP_PORT", 465),
		},
		Storage: StorageConfig{
			Enabled: getEnvAsBool("AUDIT_DB_ENABLED", false),
			Postgres: PostgresConfig{
				Host:           getEnv("POSTGRES_HOST", "localhost"),
				Port:           getEnv("POSTGRES_PORT", "5432"),
				Database:       getEnv("POSTGRES_DB", "lead_pruner"),
				User:           getEnv("POSTGRES_USER", "pruner"),
				Password:       getEnv("POSTGRES_PASSWORD", ""),
				MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 10),
			},
		},
		RunLock: RunLockConfig{
			Enabled: getEnvAsBool("RUN_LOCK_ENABLED", false),
			TTL:     getEnvAsDuration("RUN_LOCK_TTL", 2*time.Hour),
			Redis: RedisConfig{
				Host:     getEnv("REDIS_HOST", "localhost"),
				Port:     getEnv("REDIS_PORT", "6379"),
				Password: getEnv("REDIS_PASSWORD", ""),
				DB:       getEnvAsInt("REDIS_DB", 0),
			},
		},
		Artifacts: ArtifactsConfig{
			Dir: getEnv("ARTIFACTS_DIR", "."),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

// Validate checks that the configuration is complete enough to run with.
func (c *Config) Validate() error {
	var missing []string

	if c.SmartLead.APIKey == "" {
		missing = append(missing, "SMARTLEAD_API_KEY")
	}
	if c.Email.Enabled {
		if c.Email.Sender == "" {
			missing = append(missing, "EMAIL_SENDER")
		}
		if c.Email.Password == "" {
			missing = append(missing, "EMAIL_PASSWORD")
		}
		if len(c.Email.Recipients) == 0 {
			missing = append(missing, "EMAIL_RECIPIENTS")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.Pruning.TargetLeads <= 0 {
		return fmt.Errorf("TARGET_LEADS must be positive, got %d", c.Pruning.TargetLeads)
	}
	if c.Pruning.DaysWithoutActivity <= 0 {
		return fmt.Errorf("DAYS_WITHOUT_ACTIVITY must be positive, got %d", c.Pruning.DaysWithoutActivity)
	}
	if c.Pruning.DeleteDelay < 0 {
		return fmt.Errorf("DELETE_DELAY must not be negative, got %s", c.Pruning.DeleteDelay)
	}
	if c.Storage.Enabled && c.Storage.Postgres.MaxConnections <= 0 {
		return fmt.Errorf("POSTGRES_MAX_CONNECTIONS must be positive, got %d", c.Storage.Postgres.MaxConnections)
	}
	if _, err := time.LoadLocation(c.Pruning.ReferenceTimezone); err != nil {
		return fmt.Errorf("invalid REFERENCE_TIMEZONE %q: %w", c.Pruning.ReferenceTimezone, err)
	}

	return nil
}

// parseClientIDs parses the comma separated client exclusion list. A
// malformed entry is a configuration error, never a silently shorter list.
func parseClientIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid client id %q in EXCLUDE_CLIENT_IDS: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// splitList splits a comma separated value into trimmed non-empty entries
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat gets an environment variable as a float with a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean with a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
