package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type periodLockRepository struct {
	q querier
}

var _ portsrepo.PeriodLockRepositoryFacade = (*periodLockRepository)(nil)

const periodLockColumns = `
	organization_id, period_lock_id, period_start, period_end, status,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPeriodLock(row pgx.Row) (domain.PeriodLock, error) {
	var l domain.PeriodLock
	err := row.Scan(
		&l.OrganizationID,
		&l.PeriodLockID,
		&l.PeriodStart,
		&l.PeriodEnd,
		&l.Status,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	return l, err
}

func (r *periodLockRepository) FindBlockingPeriodLock(ctx context.Context, organizationID string, date time.Time) (*domain.PeriodLock, error) {
	query := `
		SELECT ` + periodLockColumns + `
		FROM period_locks
		WHERE organization_id = $1 AND status = $2 AND period_start <= $3 AND period_end >= $3
		ORDER BY period_start
		LIMIT 1;
	`
	lock, err := scanPeriodLock(r.q.QueryRow(ctx, query, organizationID, domain.PeriodLocked, domain.NormalizeDate(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, internalError("failed to query period locks", err)
	}
	return &lock, nil
}

func (r *periodLockRepository) FindPeriodLockByID(ctx context.Context, organizationID, periodLockID string) (*domain.PeriodLock, error) {
	query := `SELECT ` + periodLockColumns + ` FROM period_locks WHERE organization_id = $1 AND period_lock_id = $2;`
	lock, err := scanPeriodLock(r.q.QueryRow(ctx, query, organizationID, periodLockID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: period lock %s", apperrors.ErrNotFound, periodLockID)
		}
		return nil, internalError("failed to find period lock "+periodLockID, err)
	}
	return &lock, nil
}

func (r *periodLockRepository) ListPeriodLocks(ctx context.Context, organizationID string) ([]domain.PeriodLock, error) {
	query := `SELECT ` + periodLockColumns + ` FROM period_locks WHERE organization_id = $1 ORDER BY period_start;`
	rows, err := r.q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, internalError("failed to list period locks", err)
	}
	defer rows.Close()

	locks := []domain.PeriodLock{}
	for rows.Next() {
		l, err := scanPeriodLock(rows)
		if err != nil {
			return nil, internalError("failed to scan period lock row", err)
		}
		locks = append(locks, l)
	}
	if err := rows.Err(); err != nil {
		return nil, internalError("error iterating period lock rows", err)
	}
	return locks, nil
}

func (r *periodLockRepository) SavePeriodLock(ctx context.Context, lock domain.PeriodLock) error {
	query := `
		INSERT INTO period_locks (` + periodLockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.q.Exec(ctx, query,
		lock.OrganizationID,
		lock.PeriodLockID,
		lock.PeriodStart,
		lock.PeriodEnd,
		lock.Status,
		lock.CreatedAt,
		lock.CreatedBy,
		lock.LastUpdatedAt,
		lock.LastUpdatedBy,
	)
	if err != nil {
		if _, ok := uniqueViolationOn(err); ok {
			return fmt.Errorf("%w: period lock %s", apperrors.ErrDuplicate, lock.PeriodLockID)
		}
		return internalError("failed to save period lock", err)
	}
	return nil
}

func (r *periodLockRepository) UpdatePeriodLockStatus(ctx context.Context, lock domain.PeriodLock) error {
	query := `
		UPDATE period_locks
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE organization_id = $1 AND period_lock_id = $2;
	`
	tag, err := r.q.Exec(ctx, query, lock.OrganizationID, lock.PeriodLockID, lock.Status, lock.LastUpdatedAt, lock.LastUpdatedBy)
	if err != nil {
		return internalError("failed to update period lock "+lock.PeriodLockID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: period lock %s", apperrors.ErrNotFound, lock.PeriodLockID)
	}
	return nil
}
