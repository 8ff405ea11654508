package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// AccountResolver is the chart-of-accounts lookup the ledger core consumes.
type AccountResolver interface {
	// ResolveAccount returns an apperrors.ErrUnknownAccount error when the account does not exist.
	ResolveAccount(ctx context.Context, organizationID, accountID string) (*domain.Account, error)

	// ResolveAccounts resolves every id or fails with the first unknown one, in input order.
	ResolveAccounts(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error)
}

// FxRateResolver converts between currencies. amount(to) = amount(from) * rate.
type FxRateResolver interface {
	// GetFxRate returns 1 when the currencies match or no rate is known.
	GetFxRate(ctx context.Context, organizationID, fromCurrency, toCurrency string, onDate time.Time) (decimal.Decimal, error)
}

// PeriodLockGuard answers whether posting is forbidden on a date.
type PeriodLockGuard interface {
	IsPeriodLocked(ctx context.Context, organizationID string, date time.Time) (bool, error)
}
