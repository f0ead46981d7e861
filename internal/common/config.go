package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Journal JournalConfig
	Vision  VisionConfig
	Raster  RasterConfig
	Batch   BatchConfig
	Watch   WatchConfig
}

// JournalConfig holds processing-journal storage configuration
type JournalConfig struct {
	Driver           string
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// VisionConfig holds cloud text-detection configuration. Credential material
// is resolved from the environment at startup, never compiled into the binary.
type VisionConfig struct {
	CredentialsFile string
	CredentialsJSON string
	Endpoint        string
	Timeout         time.Duration
}

// RasterConfig holds first-page rasterization configuration
type RasterConfig struct {
	PopplerPath string
	DPI         int
	Timeout     time.Duration
	WorkDir     string
}

// BatchConfig holds batch execution configuration
type BatchConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
}

// WatchConfig holds hot-folder daemon configuration
type WatchConfig struct {
	Roots       []string
	Debounce    time.Duration
	InitialScan bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Journal: JournalConfig{
			Driver:           getEnv("JOURNAL_DRIVER", "sqlite"),
			DSN:              getEnv("JOURNAL_DSN", "file:millsheet.db"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Vision: VisionConfig{
			CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			CredentialsJSON: getEnv("VISION_CREDENTIALS_JSON", ""),
			Endpoint:        getEnv("VISION_ENDPOINT", ""),
			Timeout:         getEnvAsDuration("VISION_TIMEOUT", 30*time.Second),
		},
		Raster: RasterConfig{
			PopplerPath: getEnv("POPPLER_PATH", "pdftoppm"),
			DPI:         getEnvAsInt("RASTER_DPI", 300),
			Timeout:     getEnvAsDuration("RASTER_TIMEOUT", 60*time.Second),
			WorkDir:     getEnv("RASTER_WORKDIR", ""),
		},
		Batch: BatchConfig{
			Workers:        getEnvAsInt("BATCH_WORKERS", 4),
			QueueSize:      getEnvAsInt("BATCH_QUEUE_SIZE", 64),
			ProcessTimeout: getEnvAsDuration("PROCESS_TIMEOUT", 2*time.Minute),
		},
		Watch: WatchConfig{
			Roots:       splitList(getEnv("WATCH_ROOTS", "")),
			Debounce:    getEnvAsDuration("WATCH_DEBOUNCE", 2*time.Second),
			InitialScan: getEnvAsBool("WATCH_INITIAL_SCAN", true),
		},
	}
}

// Helper functions for environment variable parsing
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

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.Journal.Driver {
	case "sqlite", "postgres":
	default:
		return NewAppError("CONFIG_ERROR", "JOURNAL_DRIVER must be sqlite or postgres", ErrInvalidInput)
	}
	if c.Journal.DSN == "" {
		return NewAppError("CONFIG_ERROR", "JOURNAL_DSN is required", ErrInvalidInput)
	}
	if c.Raster.DPI < 72 || c.Raster.DPI > 1200 {
		return NewAppError("CONFIG_ERROR", "RASTER_DPI must be between 72 and 1200", ErrInvalidInput)
	}
	if c.Batch.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "BATCH_WORKERS must be at least 1", ErrInvalidInput)
	}
	return nil
}
