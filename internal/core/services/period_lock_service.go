package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

type periodLockService struct {
	BaseService
	lockRepo portsrepo.PeriodLockRepositoryFacade
	opts     serviceOptions
}

// NewPeriodLockService creates the period lock guard and its administration.
func NewPeriodLockService(lockRepo portsrepo.PeriodLockRepositoryFacade, options ...ServiceOption) portssvc.PeriodLockSvcFacade {
	return &periodLockService{
		lockRepo: lockRepo,
		opts:     applyOptions(options),
	}
}

var _ portssvc.PeriodLockSvcFacade = (*periodLockService)(nil)

func (s *periodLockService) IsPeriodLocked(ctx context.Context, organizationID string, date time.Time) (bool, error) {
	lock, err := s.lockRepo.FindBlockingPeriodLock(ctx, organizationID, domain.NormalizeDate(date))
	if err != nil {
		return false, fmt.Errorf("failed to check period lock: %w", err)
	}
	return lock != nil, nil
}

func (s *periodLockService) LockPeriod(ctx context.Context, organizationID string, req dto.LockPeriodRequest, actorID string) (*domain.PeriodLock, error) {
	start := domain.NormalizeDate(req.PeriodStart)
	end := domain.NormalizeDate(req.PeriodEnd)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: period end %s is before period start %s", apperrors.ErrValidation,
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	lock := domain.PeriodLock{
		PeriodLockID:   s.opts.newID(),
		OrganizationID: organizationID,
		PeriodStart:    start,
		PeriodEnd:      end,
		Status:         domain.PeriodLocked,
		AuditFields:    domain.NewAuditFields(actorID, s.opts.now()),
	}
	if err := s.lockRepo.SavePeriodLock(ctx, lock); err != nil {
		s.LogError(ctx, err, "Failed to save period lock", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to lock period: %w", err)
	}

	s.LogInfo(ctx, "Period locked",
		slog.String("period_lock_id", lock.PeriodLockID),
		slog.String("period_start", start.Format(time.DateOnly)),
		slog.String("period_end", end.Format(time.DateOnly)))
	return &lock, nil
}

func (s *periodLockService) UnlockPeriod(ctx context.Context, organizationID, periodLockID, actorID string) (*domain.PeriodLock, error) {
	lock, err := s.lockRepo.FindPeriodLockByID(ctx, organizationID, periodLockID)
	if err != nil {
		return nil, err
	}
	if lock.Status == domain.PeriodOpen {
		return lock, nil
	}

	lock.Status = domain.PeriodOpen
	lock.Touch(actorID, s.opts.now())
	if err := s.lockRepo.UpdatePeriodLockStatus(ctx, *lock); err != nil {
		return nil, fmt.Errorf("failed to unlock period: %w", err)
	}

	s.LogInfo(ctx, "Period unlocked", slog.String("period_lock_id", periodLockID))
	return lock, nil
}

func (s *periodLockService) ListPeriodLocks(ctx context.Context, organizationID string) ([]domain.PeriodLock, error) {
	locks, err := s.lockRepo.ListPeriodLocks(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list period locks: %w", err)
	}
	if locks == nil {
		return []domain.PeriodLock{}, nil
	}
	return locks, nil
}
