package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// PeriodLockSvcFacade exposes period administration alongside the guard the engine uses.
type PeriodLockSvcFacade interface {
	PeriodLockGuard
	LockPeriod(ctx context.Context, organizationID string, req dto.LockPeriodRequest, actorID string) (*domain.PeriodLock, error)
	UnlockPeriod(ctx context.Context, organizationID, periodLockID, actorID string) (*domain.PeriodLock, error)
	ListPeriodLocks(ctx context.Context, organizationID string) ([]domain.PeriodLock, error)
}
