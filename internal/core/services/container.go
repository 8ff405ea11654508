package services

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// NewContainer creates a new service container with properly initialized dependencies
func NewContainer(repos *portsrepo.RepositoryProvider, locker portsrepo.AccountLocker, options ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The collaborators the ledger core consumes come first
	container.Account = NewAccountService(repos.Store.Accounts(), options...)
	container.ExchangeRate = NewExchangeRateService(repos.Store.ExchangeRates(), options...)
	container.PeriodLock = NewPeriodLockService(repos.Store.PeriodLocks(), options...)

	container.Journal = NewJournalService(repos, locker,
		container.Account, container.PeriodLock, container.ExchangeRate, options...)
	container.Ledger = NewLedgerService(repos, locker, container.Account, options...)

	// Revaluation only writes through the journal engine
	container.Revaluation = NewRevaluationService(repos.Store.Ledger(), container.Journal,
		container.Account, container.PeriodLock, container.ExchangeRate, options...)

	return container
}
