// Package config centralises configuration parsing for timeanalyzer.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration values.
type Config struct {
	HTTPAddress   string
	DBPath        string
	LogLevel      string
	LogFormat     string // "text" or "json"
	DefaultWindow string
	Location      *time.Location

	NotifyEnabled bool

	S3                 S3Config
	BackupPassphrase   string
	BackupScheduleHour int // -1 disables scheduled backups.
	BackupRetention    time.Duration
}

type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Load reads an optional .env file and then the environment, applying
// defaults suitable for running on a single machine. Values already set in
// the environment win over the .env file.
func Load(envFiles ...string) Config {
	_ = godotenv.Load(envFiles...)

	cfg := Config{
		HTTPAddress:        getEnv("TIMEANALYZER_ADDR", "127.0.0.1:8080"),
		DBPath:             getEnv("TIMEANALYZER_DB_PATH", "timeanalyzer.db"),
		LogLevel:           getEnv("TIMEANALYZER_LOG_LEVEL", "info"),
		LogFormat:          getEnv("TIMEANALYZER_LOG_FORMAT", "text"),
		DefaultWindow:      getEnv("TIMEANALYZER_DEFAULT_WINDOW", "week"),
		Location:           getLocationEnv("TIMEANALYZER_TZ", time.Local),
		NotifyEnabled:      getBoolEnv("TIMEANALYZER_NOTIFY", false),
		BackupPassphrase:   getEnv("TIMEANALYZER_BACKUP_PASSPHRASE", ""),
		BackupScheduleHour: getIntEnv("TIMEANALYZER_BACKUP_HOUR", -1),
		BackupRetention:    getDurationEnv("TIMEANALYZER_BACKUP_RETENTION", 30*24*time.Hour),
		S3: S3Config{
			Endpoint:  getEnv("TIMEANALYZER_S3_ENDPOINT", ""),
			Bucket:    getEnv("TIMEANALYZER_S3_BUCKET", ""),
			Region:    getEnv("TIMEANALYZER_S3_REGION", "us-east-1"),
			AccessKey: getEnv("TIMEANALYZER_S3_ACCESS_KEY", ""),
			SecretKey: getEnv("TIMEANALYZER_S3_SECRET_KEY", ""),
		},
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func getLocationEnv(key string, fallback *time.Location) *time.Location {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if loc, err := time.LoadLocation(strings.TrimSpace(value)); err == nil {
			return loc
		}
	}
	return fallback
}
