package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; the real environment wins.
	_ = godotenv.Load()

	registry := NewRegistry(
		&CheckEnvCommand{},
		&CheckDBCommand{},
		&WaitForDBCommand{},
		&MigrateCommand{},
		&SetupDBCommand{},
		&ResetDBCommand{},
		&ValidateItemsCommand{},
		&DeadLettersCommand{},
		&DoctorCommand{},
	)

	if err := registry.Dispatch(os.Args[1:]); err != nil {
		PrintError("%v", err)
		os.Exit(1)
	}
}
