package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/repository"
)

// AccountStore implements repository.AccountStore for PostgreSQL
type AccountStore struct {
	pool *pgxpool.Pool
}

// NewAccountStore creates a new AccountStore
func NewAccountStore(pool *pgxpool.Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

var _ repository.AccountStore = (*AccountStore)(nil)

// GetAccountState loads balances and expansions, creating empty account and
// character rows on first sight.
func (s *AccountStore) GetAccountState(ctx context.Context, accountID, characterID int64) (*domain.AccountState, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if _, err := tx.Exec(ctx, queryEnsureAccount, accountID); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLoadAccount, err)
	}
	if _, err := tx.Exec(ctx, queryEnsureCharacter, characterID, accountID); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLoadAccount, err)
	}

	state := &domain.AccountState{
		AccountID:   accountID,
		CharacterID: characterID,
		Expansions:  make(map[string]int),
	}
	var owner int64
	err = tx.QueryRow(ctx, querySelectBalances, accountID, characterID).
		Scan(&state.Meret, &state.StorageMesos, &state.Meso, &owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLoadAccount, err)
	}
	if owner != accountID {
		return nil, fmt.Errorf("%s: character %d, account %d", ErrMsgCharacterAccountMismatch, characterID, accountID)
	}

	rows, err := tx.Query(ctx, querySelectExpansions, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLoadExpansions, err)
	}
	var (
		key   string
		extra int
	)
	_, err = pgx.ForEachRow(rows, []any{&key, &extra}, func() error {
		state.Expansions[key] = extra
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLoadExpansions, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return state, nil
}

// PurchaseExpansion writes the new extra slot count and the charged meret
// balance in one transaction.
func (s *AccountStore) PurchaseExpansion(ctx context.Context, accountID int64, key string, extra int, meret int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer repository.SafeRollback(ctx, tx)

	tag, err := tx.Exec(ctx, queryUpdateAccountMeret, accountID, meret)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBuyExpansion, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: account %d", ErrMsgAccountNotFound, accountID)
	}
	if _, err := tx.Exec(ctx, queryUpsertExpansion, accountID, key, extra); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBuyExpansion, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// SaveBalances writes the account and character balances together.
func (s *AccountStore) SaveBalances(ctx context.Context, state *domain.AccountState) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if _, err := tx.Exec(ctx, queryUpdateAccountBalances, state.AccountID, state.Meret, state.StorageMesos); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveBalances, err)
	}
	if _, err := tx.Exec(ctx, queryUpdateCharacterMeso, state.CharacterID, state.Meso); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveBalances, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}
