package services_test

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

func (s *LedgerEngineTestSuite) TestPeriodLock_BoundsAreInclusive() {
	lock, err := s.svc.PeriodLock.LockPeriod(s.ctx, testOrg, dto.LockPeriodRequest{PeriodStart: day(2026, 1, 1), PeriodEnd: day(2026, 1, 31)}, testActor)
	s.Require().NoError(err)
	s.Equal(domain.PeriodLocked, lock.Status)

	for _, tc := range []struct {
		date   time.Time
		locked bool
	}{
		{day(2025, 12, 31), false},
		{day(2026, 1, 1), true},
		{time.Date(2026, 1, 15, 23, 59, 0, 0, time.UTC), true},
		{day(2026, 1, 31), true},
		{day(2026, 2, 1), false},
	} {
		locked, err := s.svc.PeriodLock.IsPeriodLocked(s.ctx, testOrg, tc.date)
		s.Require().NoError(err)
		s.Equalf(tc.locked, locked, "%s", tc.date.Format(time.DateOnly))
	}

	locked, err := s.svc.PeriodLock.IsPeriodLocked(s.ctx, "org-2", day(2026, 1, 15))
	s.Require().NoError(err)
	s.False(locked, "locks are scoped to their organization")
}

func (s *LedgerEngineTestSuite) TestPeriodLock_UnlockReopensPosting() {
	lock, err := s.svc.PeriodLock.LockPeriod(s.ctx, testOrg, dto.LockPeriodRequest{PeriodStart: day(2026, 1, 1), PeriodEnd: day(2026, 1, 31)}, testActor)
	s.Require().NoError(err)

	_, err = s.svc.Journal.CreateJournalEntry(s.ctx, testOrg, s.request(day(2026, 1, 20), true, s.debit("1000", "10"), s.credit("4000", "10")), testActor)
	s.ErrorIs(err, apperrors.ErrPeriodLocked)

	opened, err := s.svc.PeriodLock.UnlockPeriod(s.ctx, testOrg, lock.PeriodLockID, "user-2")
	s.Require().NoError(err)
	s.Equal(domain.PeriodOpen, opened.Status)
	s.Equal("user-2", opened.LastUpdatedBy)

	again, err := s.svc.PeriodLock.UnlockPeriod(s.ctx, testOrg, lock.PeriodLockID, testActor)
	s.Require().NoError(err)
	s.Equal(domain.PeriodOpen, again.Status)

	s.mustCreate(s.request(day(2026, 1, 20), true, s.debit("1000", "10"), s.credit("4000", "10")))

	locks, err := s.svc.PeriodLock.ListPeriodLocks(s.ctx, testOrg)
	s.Require().NoError(err)
	s.Require().Len(locks, 1)
	s.Equal(domain.PeriodOpen, locks[0].Status)
}

func (s *LedgerEngineTestSuite) TestPeriodLock_Rejections() {
	_, err := s.svc.PeriodLock.LockPeriod(s.ctx, testOrg, dto.LockPeriodRequest{PeriodStart: day(2026, 2, 1), PeriodEnd: day(2026, 1, 31)}, testActor)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.PeriodLock.UnlockPeriod(s.ctx, testOrg, "missing", testActor)
	s.ErrorIs(err, apperrors.ErrNotFound)
}
