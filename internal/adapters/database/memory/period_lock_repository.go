package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type periodLockRepository struct {
	*store
}

var _ portsrepo.PeriodLockRepositoryFacade = (*periodLockRepository)(nil)

func (r *periodLockRepository) FindBlockingPeriodLock(ctx context.Context, organizationID string, date time.Time) (*domain.PeriodLock, error) {
	var found *domain.PeriodLock
	err := r.read(func(st *state) error {
		for k, lock := range st.periodLocks {
			if k.org == organizationID && lock.Blocks(date) {
				l := lock
				found = &l
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *periodLockRepository) FindPeriodLockByID(ctx context.Context, organizationID, periodLockID string) (*domain.PeriodLock, error) {
	var found *domain.PeriodLock
	err := r.read(func(st *state) error {
		lock, ok := st.periodLocks[key{organizationID, periodLockID}]
		if !ok {
			return fmt.Errorf("%w: period lock %s", apperrors.ErrNotFound, periodLockID)
		}
		found = &lock
		return nil
	})
	return found, err
}

func (r *periodLockRepository) ListPeriodLocks(ctx context.Context, organizationID string) ([]domain.PeriodLock, error) {
	var locks []domain.PeriodLock
	err := r.read(func(st *state) error {
		for k, lock := range st.periodLocks {
			if k.org == organizationID {
				locks = append(locks, lock)
			}
		}
		return nil
	})
	sort.Slice(locks, func(i, j int) bool { return locks[i].PeriodStart.Before(locks[j].PeriodStart) })
	return locks, err
}

func (r *periodLockRepository) SavePeriodLock(ctx context.Context, lock domain.PeriodLock) error {
	return r.write(func(st *state) error {
		k := key{lock.OrganizationID, lock.PeriodLockID}
		if _, exists := st.periodLocks[k]; exists {
			return fmt.Errorf("%w: period lock %s", apperrors.ErrDuplicate, lock.PeriodLockID)
		}
		st.periodLocks[k] = lock
		return nil
	})
}

func (r *periodLockRepository) UpdatePeriodLockStatus(ctx context.Context, lock domain.PeriodLock) error {
	return r.write(func(st *state) error {
		k := key{lock.OrganizationID, lock.PeriodLockID}
		stored, ok := st.periodLocks[k]
		if !ok {
			return fmt.Errorf("%w: period lock %s", apperrors.ErrNotFound, lock.PeriodLockID)
		}
		stored.Status = lock.Status
		stored.LastUpdatedAt = lock.LastUpdatedAt
		stored.LastUpdatedBy = lock.LastUpdatedBy
		st.periodLocks[k] = stored
		return nil
	})
}
