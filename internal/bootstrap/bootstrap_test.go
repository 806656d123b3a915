package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemVault_Go/internal/config"
	"github.com/osse101/ItemVault_Go/internal/session"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		StoreDriver:      config.StoreDriverMemory,
		LogLevel:         "debug",
		LogFormat:        "text",
		ServiceName:      "itemvault-test",
		Environment:      "test",
		AutosaveSchedule: "@every 1h",
		AutosaveWorkers:  1,
		ExpirySchedule:   "@every 1h",
		ItemsConfigPath:  "../../configs/items/items.json",
		ItemSchemaPath:   "../../configs/schemas/items.schema.json",
		ItemCacheSize:    16,
		EventMaxRetries:  1,
		DeadLetterPath:   filepath.Join(t.TempDir(), "deadletter", "events.jsonl"),
	}
}

func TestSetupLogger(t *testing.T) {
	cfg := memoryConfig(t)

	f, err := SetupLogger(cfg)
	require.NoError(t, err)
	assert.Nil(t, f, "no log file without LOG_DIR")

	cfg.LogDir = t.TempDir()
	f, err = SetupLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, f)
	defer f.Close()
	assert.Equal(t, cfg.LogDir, filepath.Dir(f.Name()))
}

func TestInitializeStores(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		stores, err := InitializeStores(ctx, memoryConfig(t))

		require.NoError(t, err)
		assert.NotNil(t, stores.Items)
		assert.NotNil(t, stores.Accounts)
		assert.Nil(t, stores.Pool)
		assert.Empty(t, stores.ReadinessChecks(), "memory store has nothing to probe")
		stores.Close()
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := memoryConfig(t)
		cfg.StoreDriver = "mysql"

		_, err := InitializeStores(ctx, cfg)

		assert.ErrorContains(t, err, ErrMsgUnknownStoreDriver)
	})
}

func TestLoadItemMetadata(t *testing.T) {
	ctx := context.Background()

	provider, err := LoadItemMetadata(ctx, memoryConfig(t))
	require.NoError(t, err)
	_, ok := provider.Get(11000003)
	assert.True(t, ok)

	cfg := memoryConfig(t)
	cfg.ItemsConfigPath = "/nonexistent/items.json"
	_, err = LoadItemMetadata(ctx, cfg)
	assert.ErrorContains(t, err, ErrMsgFailedLoadItems)
}

func TestInitializeJobs_InvalidSchedule(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.ExpirySchedule = "every now and then"

	_, _, err := InitializeJobs(cfg, session.NewRegistry(session.Config{}))

	assert.ErrorContains(t, err, ErrMsgFailedScheduleJob)
}

// TestAssembleAndShutdown wires the in-memory application and checks that
// shutdown saves and unloads open sessions.
func TestAssembleAndShutdown(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig(t)

	events, err := InitializeEventSystem(cfg)
	require.NoError(t, err)
	assert.Nil(t, events.NATS, "forwarding is off without NATS_URL")
	assert.Empty(t, events.ReadinessChecks())

	stores, err := InitializeStores(ctx, cfg)
	require.NoError(t, err)

	provider, err := LoadItemMetadata(ctx, cfg)
	require.NoError(t, err)

	registry := session.NewRegistry(session.Config{
		Store:    stores.Items,
		Accounts: stores.Accounts,
		Metadata: provider,
		Bus:      events.Publisher,
	})
	_, err = registry.Open(ctx, 1, 10)
	require.NoError(t, err)

	workers, sched, err := InitializeJobs(cfg, registry)
	require.NoError(t, err)
	assert.Equal(t, 2, sched.Entries())

	GracefulShutdown(ctx, ShutdownComponents{
		Scheduler: sched,
		Workers:   workers,
		Sessions:  registry,
		Events:    events,
		Stores:    stores,
	})

	assert.Zero(t, registry.Len())
	_, err = registry.Get(10)
	assert.Error(t, err)
}
