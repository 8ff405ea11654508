package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations over ledger rows. All date bounds compare calendar days.
type LedgerReader interface {
	// BalanceBefore returns the running balance of the account's last row dated strictly before date,
	// or zero when there is none.
	BalanceBefore(ctx context.Context, organizationID, accountID string, date time.Time) (decimal.Decimal, error)

	// ListLedgerEntriesFrom returns the account's rows dated on or after from in (entry date, sequence) order.
	ListLedgerEntriesFrom(ctx context.Context, organizationID, accountID string, from time.Time) ([]domain.LedgerEntry, error)

	// SumAccount aggregates one account's rows dated on or before asOf.
	SumAccount(ctx context.Context, organizationID, accountID string, asOf time.Time) (domain.AccountTotals, error)

	// SumByAccount aggregates every account with rows dated on or before asOf.
	SumByAccount(ctx context.Context, organizationID string, asOf time.Time) ([]domain.AccountTotals, error)

	// SumByTransactionCurrency aggregates rows carrying a transaction currency, per account and currency.
	SumByTransactionCurrency(ctx context.Context, organizationID string, accountIDs []string, asOf time.Time) ([]domain.CurrencyExposure, error)

	// ListAccountLedger pages the account's rows in chronological order.
	ListAccountLedger(ctx context.Context, organizationID, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// LedgerWriter defines write operations over ledger rows
type LedgerWriter interface {
	// InsertLedgerEntries appends rows and returns them with their assigned sequence.
	InsertLedgerEntries(ctx context.Context, entries []domain.LedgerEntry) ([]domain.LedgerEntry, error)

	// UpdateRunningBalances rewrites the running balance of the given rows, keyed by ledger entry id.
	UpdateRunningBalances(ctx context.Context, organizationID string, balances map[string]decimal.Decimal) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
