// Package pgtest starts a throwaway Postgres for integration tests.
package pgtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	Image          = "postgres:15-alpine"
	User           = "testuser"
	Password       = "testpass"
	StartupTimeout = 30 * time.Second
	readyLog       = "database system is ready to accept connections"
)

// Instance is a running Postgres container.
type Instance struct {
	ConnString string
	container  *postgres.PostgresContainer
}

// Start runs a container with an empty database named dbName. Docker being
// unavailable is reported as an error; testcontainers panics are recovered.
func Start(ctx context.Context, dbName string) (inst *Instance, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("postgres container panicked: %v", r)
		}
	}()

	c, err := postgres.Run(ctx, Image,
		postgres.WithDatabase(dbName),
		postgres.WithUsername(User),
		postgres.WithPassword(Password),
		testcontainers.WithWaitStrategy(
			// Postgres logs readiness once for the init pass and once for real.
			wait.ForLog(readyLog).WithOccurrence(2).WithStartupTimeout(StartupTimeout)),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	connStr, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("postgres connection string: %w", err)
	}
	return &Instance{ConnString: connStr, container: c}, nil
}

// Stop terminates the container. A nil Instance is a no-op.
func (i *Instance) Stop(ctx context.Context) {
	if i == nil || i.container == nil {
		return
	}
	if err := i.container.Terminate(ctx); err != nil {
		fmt.Printf("pgtest: terminate container: %v\n", err)
	}
}

// Require skips t in -short mode or when available is false.
func Require(t testing.TB, available bool) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if !available {
		t.Skip("Skipping integration test: database not available")
	}
}
