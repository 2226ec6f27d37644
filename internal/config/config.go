// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for all databases (always absolute)
	Port     int
	LogLevel string
	DevMode  bool

	// Background job schedules (cron expressions, overridable via settings DB)
	SnapshotSchedule string // portfolio snapshot recording
	BackupSchedule   string // database backup upload

	// StreamInterval is how often the live summary stream pushes updates, in seconds
	StreamInterval int

	Backup *BackupConfig
}

// BackupConfig holds S3-compatible backup storage configuration.
// Backups are disabled unless endpoint, bucket and credentials are all set.
type BackupConfig struct {
	Endpoint        string // e.g. https://<account>.r2.cloudflarestorage.com
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string // object key prefix inside the bucket
	Keep            int    // number of backups to retain
}

// Enabled reports whether enough configuration is present to run backups
func (b *BackupConfig) Enabled() bool {
	return b != nil && b.Endpoint != "" && b.Bucket != "" &&
		b.AccessKeyID != "" && b.SecretAccessKey != ""
}

// SettingsProvider supplies runtime settings stored in config.db.
// Settings DB values take precedence over environment variables.
type SettingsProvider interface {
	Get(key string) (*string, error)
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("MONI_DATA_DIR", "")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".moni")
	}

	// Always resolve to absolute path and make sure it exists
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:          absDataDir,
		Port:             getEnvAsInt("MONI_PORT", 8080),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		SnapshotSchedule: getEnv("SNAPSHOT_SCHEDULE", "@hourly"),
		BackupSchedule:   getEnv("BACKUP_SCHEDULE", "@daily"),
		StreamInterval:   getEnvAsInt("STREAM_INTERVAL_SECONDS", 15),
		Backup: &BackupConfig{
			Endpoint:        getEnv("BACKUP_S3_ENDPOINT", ""),
			Region:          getEnv("BACKUP_S3_REGION", "auto"),
			Bucket:          getEnv("BACKUP_S3_BUCKET", ""),
			AccessKeyID:     getEnv("BACKUP_S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("BACKUP_S3_SECRET_ACCESS_KEY", ""),
			Prefix:          getEnv("BACKUP_S3_PREFIX", "moni-backups"),
			Keep:            getEnvAsInt("BACKUP_KEEP", 7),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UpdateFromSettings overrides configuration with values from the settings
// database. This should be called after config.db is initialized so that
// credentials and schedules edited via the UI survive restarts without
// touching the .env file.
func (c *Config) UpdateFromSettings(settings SettingsProvider) error {
	overrides := []struct {
		key    string
		target *string
	}{
		{"snapshot_schedule", &c.SnapshotSchedule},
		{"backup_schedule", &c.BackupSchedule},
		{"backup_s3_endpoint", &c.Backup.Endpoint},
		{"backup_s3_region", &c.Backup.Region},
		{"backup_s3_bucket", &c.Backup.Bucket},
		{"backup_s3_access_key_id", &c.Backup.AccessKeyID},
		{"backup_s3_secret_access_key", &c.Backup.SecretAccessKey},
	}

	for _, o := range overrides {
		val, err := settings.Get(o.key)
		if err != nil {
			return fmt.Errorf("failed to get %s from settings: %w", o.key, err)
		}
		// Empty settings keep the env var value as fallback
		if val != nil && *val != "" {
			*o.target = *val
		}
	}

	return nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.StreamInterval <= 0 {
		return fmt.Errorf("stream interval must be positive, got %d", c.StreamInterval)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
