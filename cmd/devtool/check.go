package main

import (
	"context"
	"fmt"

	"github.com/osse101/ItemVault_Go/internal/config"
	"github.com/osse101/ItemVault_Go/internal/item"
)

type CheckEnvCommand struct{}

func (c *CheckEnvCommand) Name() string {
	return "check-env"
}

func (c *CheckEnvCommand) Description() string {
	return "Validate the .env file against the expected schema"
}

func (c *CheckEnvCommand) Run(args []string) error {
	PrintHeader("Checking environment...")

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		PrintWarning("%s", w)
	}

	PrintSuccess("Environment OK (schema %s)", config.ExpectedEnvSchemaVersion)
	return nil
}

type ValidateItemsCommand struct{}

func (c *ValidateItemsCommand) Name() string {
	return "validate-items"
}

func (c *ValidateItemsCommand) Description() string {
	return "Validate the item definitions against the JSON schema and rules"
}

func (c *ValidateItemsCommand) Run(args []string) error {
	PrintHeader("Validating item definitions...")

	itemsPath := config.ConfigPathItems
	if len(args) > 0 {
		itemsPath = args[0]
	}
	schemaPath := config.ConfigPathItemSchema
	if len(args) > 1 {
		schemaPath = args[1]
	}

	catalog, err := item.LoadCatalog(context.Background(), item.NewLoader(schemaPath), itemsPath)
	if err != nil {
		return fmt.Errorf("%s: %w", itemsPath, err)
	}

	PrintSuccess("%d items valid", catalog.Len())
	return nil
}
