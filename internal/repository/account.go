package repository

import (
	"context"

	"github.com/osse101/ItemVault_Go/internal/domain"
)

// AccountStore persists the account-level state used by item sessions.
type AccountStore interface {
	GetAccountState(ctx context.Context, accountID, characterID int64) (*domain.AccountState, error)
	// PurchaseExpansion records the extra slots purchased for a container and
	// the account's meret balance after paying for them, atomically.
	PurchaseExpansion(ctx context.Context, accountID int64, key string, extra int, meret int64) error
	// SaveBalances writes the meret, meso and stored meso balances.
	SaveBalances(ctx context.Context, state *domain.AccountState) error
}
