package repositories

import (
	"context"
)

// Store groups the repositories that take part in a unit of work.
// Outside a transaction every call runs on its own; inside WithinTransaction all calls share the transaction.
type Store interface {
	Accounts() AccountRepositoryFacade
	Journals() JournalRepositoryFacade
	Ledger() LedgerRepositoryFacade
	PeriodLocks() PeriodLockRepositoryFacade
	ExchangeRates() ExchangeRateRepositoryFacade
}

// TransactionManager runs fn inside a single transaction.
// fn's error rolls back every write made through the Store it received; a nil error commits.
// Once begun, the transaction runs to commit or rollback regardless of ctx cancellation.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

// RepositoryProvider bundles a storage backend's non-transactional Store with its TransactionManager.
type RepositoryProvider struct {
	Store     Store
	TxManager TransactionManager
}
