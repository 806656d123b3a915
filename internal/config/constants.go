package config

import "time"

const (
	// Configuration file paths
	ConfigPathItems      = "configs/items/items.json"
	ConfigPathItemSchema = "configs/schemas/items.schema.json"
)

// Defaults
const (
	DefaultPort              = 8080
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultServiceName       = "item-vault"
	DefaultVersion           = "dev"
	DefaultEnvironment       = "dev"
	DefaultDBName            = "itemvault"
	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute
	DefaultAutosaveSchedule  = "@every 5m"
	DefaultAutosaveWorkers   = 4
	DefaultExpirySchedule    = "@every 1m"
	DefaultItemCacheSize     = 1024
	DefaultEventMaxRetries   = 5
	DefaultEventRetryDelay   = 2 * time.Second
	DefaultDeadLetterPath    = "logs/deadletter.jsonl"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)
