package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ItemVault_Go/internal/config"
	"github.com/osse101/ItemVault_Go/internal/database"
)

// connect opens a small pool against the database named by the environment.
func connect(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.StoreDriver == config.StoreDriverMemory {
		return nil, fmt.Errorf("STORE_DRIVER=memory has no database")
	}
	return database.NewPool(ctx, cfg.GetDBConnString(), 2, time.Minute, time.Minute)
}

type CheckDBCommand struct{}

func (c *CheckDBCommand) Name() string {
	return "check-db"
}

func (c *CheckDBCommand) Description() string {
	return "Check if the database accepts connections"
}

func (c *CheckDBCommand) Run(args []string) error {
	PrintHeader("Checking database...")

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	pool, err := connect(ctx)
	if err != nil {
		return err
	}
	pool.Close()

	PrintSuccess("Database is ready")
	return nil
}

type WaitForDBCommand struct{}

func (c *WaitForDBCommand) Name() string {
	return "wait-for-db"
}

func (c *WaitForDBCommand) Description() string {
	return "Wait for database to be ready (with retries)"
}

func (c *WaitForDBCommand) Run(args []string) error {
	PrintHeader("Waiting for database...")

	var err error
	for i := 0; i < dbMaxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
		var pool *pgxpool.Pool
		pool, err = connect(ctx)
		cancel()
		if err == nil {
			pool.Close()
			PrintSuccess("Database is ready")
			return nil
		}

		fmt.Printf("Database not ready (%d/%d): %v\n", i+1, dbMaxRetries, err)
		time.Sleep(dbRetryInterval)
	}

	return fmt.Errorf("database failed to become ready after %d attempts: %w", dbMaxRetries, err)
}
