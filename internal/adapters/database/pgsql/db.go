// Package pgsql implements the repository ports on PostgreSQL through pgx.
package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

const (
	uniqueViolation       = "23505"
	entryNumberConstraint = "uq_journal_entries_org_number"
)

// querier is the subset of pgxpool.Pool and pgx.Tx the repositories use.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// DB is the transaction manager over a connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

var _ portsrepo.TransactionManager = (*DB)(nil)

// NewRepositoryProvider wires the pool-backed store and its transaction manager.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		Store:     &store{q: pool},
		TxManager: &DB{Pool: pool},
	}
}

// Begin starts a new database transaction
func (db *DB) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (db *DB) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (db *DB) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", err)
	}
	return nil
}

// WithinTransaction runs fn on a store bound to one transaction. The transaction ignores ctx
// cancellation once started, so a cancelled request still commits or rolls back cleanly.
func (db *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context, store portsrepo.Store) error) error {
	ctx = context.WithoutCancel(ctx)
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer db.Rollback(ctx, tx) // no-op after commit

	if err := fn(ctx, &store{q: tx}); err != nil {
		return err
	}
	return db.Commit(ctx, tx)
}

type store struct {
	q querier
}

var _ portsrepo.Store = (*store)(nil)

func (s *store) Accounts() portsrepo.AccountRepositoryFacade {
	return &accountRepository{q: s.q}
}

func (s *store) Journals() portsrepo.JournalRepositoryFacade {
	return &journalRepository{q: s.q}
}

func (s *store) Ledger() portsrepo.LedgerRepositoryFacade {
	return &ledgerRepository{q: s.q}
}

func (s *store) PeriodLocks() portsrepo.PeriodLockRepositoryFacade {
	return &periodLockRepository{q: s.q}
}

func (s *store) ExchangeRates() portsrepo.ExchangeRateRepositoryFacade {
	return &exchangeRateRepository{q: s.q}
}

// uniqueViolationOn returns the violated constraint name when err is a unique violation.
func uniqueViolationOn(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func internalError(message string, err error) error {
	return apperrors.NewAppError(http.StatusInternalServerError, message, err)
}
