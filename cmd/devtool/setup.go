package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/ItemVault_Go/internal/config"
	"github.com/osse101/ItemVault_Go/internal/database"
)

// serverConn connects to the maintenance database of the configured server.
func serverConn(ctx context.Context) (*pgx.Conn, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	connString := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort)
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, "", fmt.Errorf("unable to connect to postgres database: %w", err)
	}
	return conn, cfg.DBName, nil
}

// migrateUp applies the embedded migrations to the configured database.
func migrateUp(ctx context.Context) error {
	pool, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	version, err := database.Migrate(ctx, pool)
	if err != nil {
		return err
	}
	PrintSuccess("Schema at version %d", version)
	return nil
}

type SetupDBCommand struct{}

func (c *SetupDBCommand) Name() string {
	return "setup-db"
}

func (c *SetupDBCommand) Description() string {
	return "Create the database if missing and apply migrations"
}

func (c *SetupDBCommand) Run(args []string) error {
	PrintHeader("Setting up database...")
	ctx := context.Background()

	conn, dbName, err := serverConn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if exists {
		PrintInfo("Database %s already exists", dbName)
	} else {
		if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{dbName}.Sanitize()); err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		PrintSuccess("Database %s created", dbName)
	}

	return migrateUp(ctx)
}

type ResetDBCommand struct{}

func (c *ResetDBCommand) Name() string {
	return "reset-db"
}

func (c *ResetDBCommand) Description() string {
	return "Drop and recreate the database, then apply migrations (destroys all items)"
}

func (c *ResetDBCommand) Run(args []string) error {
	if len(args) == 0 || args[0] != "--yes" {
		return fmt.Errorf("reset-db destroys every stored item; rerun with --yes to confirm")
	}

	PrintHeader("Resetting database...")
	ctx := context.Background()

	conn, dbName, err := serverConn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, `SELECT pg_terminate_backend(pid) FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()`, dbName)
	if err != nil {
		PrintWarning("Failed to terminate connections: %v", err)
	}

	quoted := pgx.Identifier{dbName}.Sanitize()
	if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+quoted); err != nil {
		return fmt.Errorf("failed to drop database: %w", err)
	}
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+quoted); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	PrintSuccess("Database %s recreated", dbName)

	return migrateUp(ctx)
}
