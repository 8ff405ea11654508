package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// PeriodLockRepositoryFacade defines storage for accounting period locks
type PeriodLockRepositoryFacade interface {
	// FindBlockingPeriodLock returns a locked period covering date, or nil when posting is allowed.
	FindBlockingPeriodLock(ctx context.Context, organizationID string, date time.Time) (*domain.PeriodLock, error)

	FindPeriodLockByID(ctx context.Context, organizationID, periodLockID string) (*domain.PeriodLock, error)
	ListPeriodLocks(ctx context.Context, organizationID string) ([]domain.PeriodLock, error)
	SavePeriodLock(ctx context.Context, lock domain.PeriodLock) error
	UpdatePeriodLockStatus(ctx context.Context, lock domain.PeriodLock) error
}
