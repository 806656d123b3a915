package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string
	ServiceName string
	Version     string
	Environment string

	// StoreDriver selects the item store: "postgres" or "memory"
	StoreDriver string

	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// NATSURL is optional; empty disables notification forwarding
	NATSURL string

	AutosaveSchedule string
	AutosaveWorkers  int
	ExpirySchedule   string

	ItemsConfigPath string
	ItemSchemaPath  string
	ItemCacheSize   int

	EventMaxRetries int
	EventRetryDelay time.Duration
	DeadLetterPath  string

	APIKey         string   // API key for authentication
	TrustedProxies []string // proxies whose X-Forwarded-For is honored
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		LogDir:      getEnv("LOG_DIR", ""),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),

		StoreDriver: getEnv("STORE_DRIVER", StoreDriverPostgres),

		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", DefaultDBName),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		NATSURL: getEnv("NATS_URL", ""),

		AutosaveSchedule: getEnv("AUTOSAVE_SCHEDULE", DefaultAutosaveSchedule),
		AutosaveWorkers:  getEnvAsInt("AUTOSAVE_WORKERS", DefaultAutosaveWorkers),
		ExpirySchedule:   getEnv("EXPIRY_SCHEDULE", DefaultExpirySchedule),

		ItemsConfigPath: getEnv("ITEMS_CONFIG_PATH", ConfigPathItems),
		ItemSchemaPath:  getEnv("ITEMS_SCHEMA_PATH", ConfigPathItemSchema),
		ItemCacheSize:   getEnvAsInt("ITEM_CACHE_SIZE", DefaultItemCacheSize),

		EventMaxRetries: getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventRetryDelay: getEnvAsDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay),
		DeadLetterPath:  getEnv("DEAD_LETTER_PATH", DefaultDeadLetterPath),

		APIKey:         getEnv("API_KEY", ""),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),
	}

	portStr := getEnv("PORT", strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	switch cfg.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER value: %q", cfg.StoreDriver)
	}

	if err := ValidateSchedule("AUTOSAVE_SCHEDULE", cfg.AutosaveSchedule); err != nil {
		return nil, err
	}
	if err := ValidateSchedule("EXPIRY_SCHEDULE", cfg.ExpirySchedule); err != nil {
		return nil, err
	}

	if cfg.AutosaveWorkers < 1 {
		return nil, fmt.Errorf("invalid AUTOSAVE_WORKERS value: %d", cfg.AutosaveWorkers)
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default when
// it is unset or malformed
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a Go duration variable ("5m", "1h30m"), falling
// back to the default when it is unset or malformed
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
