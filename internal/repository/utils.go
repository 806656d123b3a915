package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/ItemVault_Go/internal/logger"
)

// Rollbacker is the part of a transaction SafeRollback needs.
type Rollbacker interface {
	Rollback(ctx context.Context) error
}

// SafeRollback rolls back a transaction and logs any error
func SafeRollback(ctx context.Context, tx Rollbacker) {
	if err := tx.Rollback(ctx); err != nil {
		// Rollback after Commit is expected on the success path
		if !errors.Is(err, pgx.ErrTxClosed) {
			logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
		}
	}
}
