// Package memory is an in-process implementation of the repository ports.
// A single writer at a time is admitted; transactions snapshot the state and restore it on failure.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type key struct {
	org string
	id  string
}

type state struct {
	accounts     map[key]domain.Account
	journals     map[key]domain.JournalEntry
	entryNumbers map[key]string // (org, entry number) -> journal entry id
	ledger       []domain.LedgerEntry
	periodLocks  map[key]domain.PeriodLock
	rates        []domain.ExchangeRate
	nextSequence int64
}

func newState() *state {
	return &state{
		accounts:     make(map[key]domain.Account),
		journals:     make(map[key]domain.JournalEntry),
		entryNumbers: make(map[key]string),
		periodLocks:  make(map[key]domain.PeriodLock),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:     make(map[key]domain.Account, len(s.accounts)),
		journals:     make(map[key]domain.JournalEntry, len(s.journals)),
		entryNumbers: make(map[key]string, len(s.entryNumbers)),
		ledger:       make([]domain.LedgerEntry, len(s.ledger)),
		periodLocks:  make(map[key]domain.PeriodLock, len(s.periodLocks)),
		rates:        make([]domain.ExchangeRate, len(s.rates)),
		nextSequence: s.nextSequence,
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.journals {
		c.journals[k] = v // lines are copied on every write, never mutated in place
	}
	for k, v := range s.entryNumbers {
		c.entryNumbers[k] = v
	}
	for k, v := range s.periodLocks {
		c.periodLocks[k] = v
	}
	copy(c.ledger, s.ledger)
	copy(c.rates, s.rates)
	return c
}

// DB holds the whole dataset behind one lock.
type DB struct {
	mu    sync.RWMutex
	state *state
}

// NewDB creates an empty in-memory database.
func NewDB() *DB {
	return &DB{state: newState()}
}

// NewRepositoryProvider exposes the database through the repository ports.
func NewRepositoryProvider(db *DB) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		Store:     &store{db: db},
		TxManager: db,
	}
}

var _ portsrepo.TransactionManager = (*DB)(nil)

// WithinTransaction runs fn with exclusive access. Any error or panic restores the state fn started from.
// Calling WithinTransaction again from inside fn deadlocks.
func (db *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context, store portsrepo.Store) error) (err error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	snapshot := db.state.clone()
	defer func() {
		if r := recover(); r != nil {
			db.state = snapshot
			panic(r)
		}
	}()

	if err = fn(context.WithoutCancel(ctx), &store{db: db, inTx: true}); err != nil {
		db.state = snapshot
		return err
	}
	return nil
}

// store routes calls through the DB lock unless it is bound to a running transaction, which already holds it.
type store struct {
	db   *DB
	inTx bool
}

var _ portsrepo.Store = (*store)(nil)

func (s *store) read(fn func(st *state) error) error {
	if !s.inTx {
		s.db.mu.RLock()
		defer s.db.mu.RUnlock()
	}
	return fn(s.db.state)
}

func (s *store) write(fn func(st *state) error) error {
	if !s.inTx {
		s.db.mu.Lock()
		defer s.db.mu.Unlock()
	}
	return fn(s.db.state)
}

func (s *store) Accounts() portsrepo.AccountRepositoryFacade {
	return &accountRepository{store: s}
}

func (s *store) Journals() portsrepo.JournalRepositoryFacade {
	return &journalRepository{store: s}
}

func (s *store) Ledger() portsrepo.LedgerRepositoryFacade {
	return &ledgerRepository{store: s}
}

func (s *store) PeriodLocks() portsrepo.PeriodLockRepositoryFacade {
	return &periodLockRepository{store: s}
}

func (s *store) ExchangeRates() portsrepo.ExchangeRateRepositoryFacade {
	return &exchangeRateRepository{store: s}
}
