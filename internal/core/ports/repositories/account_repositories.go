package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for chart-of-accounts data
type AccountReader interface {
	// FindAccountByID returns apperrors.ErrNotFound when the account does not exist in the organization.
	FindAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error)

	// FindAccountsByIDs returns the accounts that exist; missing ids are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error)

	ListAccounts(ctx context.Context, organizationID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data
type AccountWriter interface {
	// SaveAccount returns apperrors.ErrDuplicate when the code is already used in the organization.
	SaveAccount(ctx context.Context, account domain.Account) error

	// LockAccountsForUpdate loads the accounts and holds a row lock on them until the transaction ends.
	// Locks are taken in account id order.
	LockAccountsForUpdate(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error)

	// UpdateCurrentBalance stores the cached balance and bumps the version.
	// It returns apperrors.ErrStaleRead when the stored version differs from expectedVersion.
	UpdateCurrentBalance(ctx context.Context, organizationID, accountID string, balance decimal.Decimal, expectedVersion int64) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
