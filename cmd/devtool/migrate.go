package main

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/osse101/ItemVault_Go/internal/database"
)

const migrationsDir = "migrations"

type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

func (c *MigrateCommand) Description() string {
	return "Manage database migrations (up, down, status, create)"
}

func (c *MigrateCommand) Run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("subcommand required: up, down, status, create")
	}
	subcmd := args[0]

	// create only writes a file
	if subcmd == "create" {
		if len(args) < 2 {
			return fmt.Errorf("migration name required for create")
		}
		return goose.Create(nil, migrationsDir, args[1], "sql")
	}

	ctx := context.Background()
	switch subcmd {
	case "up":
		return migrateUp(ctx)
	case "down", "status":
	default:
		return fmt.Errorf("unknown subcommand %q: want up, down, status, create", subcmd)
	}

	pool, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	switch subcmd {
	case "down":
		version, err := database.Rollback(ctx, pool)
		if err != nil {
			return err
		}
		PrintSuccess("Rolled back to version %d", version)

	case "status":
		statuses, err := database.MigrationStatus(ctx, pool)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			applied := "pending"
			if s.State == goose.StateApplied {
				applied = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("  %-40s %s\n", s.Source.Path, applied)
		}
	}
	return nil
}
