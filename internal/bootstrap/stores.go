package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ItemVault_Go/internal/config"
	"github.com/osse101/ItemVault_Go/internal/database"
	"github.com/osse101/ItemVault_Go/internal/database/postgres"
	"github.com/osse101/ItemVault_Go/internal/handler"
	"github.com/osse101/ItemVault_Go/internal/item"
	"github.com/osse101/ItemVault_Go/internal/repository"
	"github.com/osse101/ItemVault_Go/internal/repository/memory"
)

// Stores holds the item and account store implementations. Pool is nil for
// the in-memory driver.
type Stores struct {
	Items    repository.ItemStore
	Accounts repository.AccountStore
	Pool     *pgxpool.Pool
}

// ReadinessChecks probes the database. The in-memory driver has nothing to
// probe.
func (s *Stores) ReadinessChecks() []handler.Check {
	if s.Pool == nil {
		return nil
	}
	return []handler.Check{handler.PoolCheck(s.Pool)}
}

// Close releases the database pool, if any.
func (s *Stores) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// InitializeStores opens the store selected by cfg.StoreDriver. For Postgres
// it connects the pool and applies pending migrations.
func InitializeStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		slog.Warn(LogMsgUsingMemoryStore)
		store := memory.NewStore(MemoryStoreFirstUID)
		return &Stores{Items: store, Accounts: store}, nil

	case config.StoreDriverPostgres:
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}

		version, err := database.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
		slog.Info(LogMsgMigrationsApplied, "version", version)

		return &Stores{
			Items:    postgres.NewItemStore(pool),
			Accounts: postgres.NewAccountStore(pool),
			Pool:     pool,
		}, nil
	}
	return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStoreDriver, cfg.StoreDriver)
}

// LoadItemMetadata loads and validates the item catalog and fronts it with
// the LRU cache.
func LoadItemMetadata(ctx context.Context, cfg *config.Config) (*item.CachedProvider, error) {
	catalog, err := item.LoadCatalog(ctx, item.NewLoader(cfg.ItemSchemaPath), cfg.ItemsConfigPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadItems, err)
	}

	provider, err := item.NewCachedProvider(catalog, cfg.ItemCacheSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateCache, err)
	}

	slog.Info(LogMsgItemCatalogLoaded, "items", catalog.Len(), "cache_size", cfg.ItemCacheSize)
	return provider, nil
}
