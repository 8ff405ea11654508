package services_test

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

func (s *LedgerEngineTestSuite) seedRate(from, to, rate string, effective time.Time) {
	_, err := s.svc.ExchangeRate.CreateExchangeRate(s.ctx, testOrg, dto.CreateExchangeRateRequest{
		FromCurrency: from, ToCurrency: to, Rate: dec(rate), EffectiveDate: effective,
	}, testActor)
	s.Require().NoError(err)
}

func (s *LedgerEngineTestSuite) eurEntry(req dto.CreateJournalEntryRequest) *domain.JournalEntry {
	req.Currency = "EUR"
	return s.mustCreate(req)
}

func (s *LedgerEngineTestSuite) revaluationAccounts() domain.RevaluationAccounts {
	return domain.RevaluationAccounts{
		Receivable:     []string{s.id("1100")},
		Payable:        []string{s.id("2000")},
		Cash:           []string{s.id("1000")},
		UnrealizedGain: s.id("4900"),
		UnrealizedLoss: s.id("5900"),
	}
}

func (s *LedgerEngineTestSuite) revalue(scope []string, reverse bool) (*domain.RevaluationResult, error) {
	return s.svc.Revaluation.RunRevaluation(s.ctx, testOrg, dto.RunRevaluationRequest{
		AsOfDate:       day(2026, 3, 31),
		Scope:          scope,
		Accounts:       s.revaluationAccounts(),
		CreateReversal: reverse,
	}, testActor)
}

func (s *LedgerEngineTestSuite) TestRunRevaluation_ReceivableGainScenario() {
	s.seedRate("EUR", "USD", "1.10", day(2026, 1, 1))
	s.eurEntry(s.request(day(2026, 1, 10), true, s.debit("1100", "1100"), s.credit("4000", "1100")))
	s.seedRate("EUR", "USD", "1.20", day(2026, 3, 1))

	result, err := s.revalue([]string{"AR"}, false)
	s.Require().NoError(err)
	s.Equal(1, result.Count)
	s.Require().Len(result.Entries, 1)
	s.Equal(domain.DocumentFXRevaluation, result.Entries[0].DocumentType)

	adjustment, err := s.svc.Journal.GetJournalEntry(s.ctx, testOrg, result.Entries[0].JournalEntryID)
	s.Require().NoError(err)
	s.Equal(domain.Posted, adjustment.Status)
	s.Equal(day(2026, 3, 31), adjustment.EntryDate)
	s.Equal(domain.SourceDocument{DocumentType: domain.DocumentFXRevaluation, DocumentID: result.RunID}, adjustment.SourceDocument)
	s.Require().Len(adjustment.Lines, 2)
	s.Equal(s.id("1100"), adjustment.Lines[0].AccountID)
	s.assertDecimal("100", adjustment.Lines[0].DebitAmount)
	s.Equal(s.id("4900"), adjustment.Lines[1].AccountID)
	s.assertDecimal("100", adjustment.Lines[1].CreditAmount)
	s.Require().NotNil(adjustment.Lines[0].TransactionCurrency)
	s.Equal("EUR", *adjustment.Lines[0].TransactionCurrency)
	s.True(adjustment.Lines[0].TransactionDebit.IsZero())

	s.assertDecimal("1200", s.balance("1100", day(2026, 3, 31)))
	s.assertDecimal("100", s.balance("4900", day(2026, 3, 31)))

	again, err := s.revalue([]string{"AR"}, false)
	s.Require().NoError(err)
	s.Zero(again.Count, "an unchanged rate books nothing the second time")
	s.Empty(again.Entries)

	tb, err := s.svc.Ledger.GetTrialBalance(s.ctx, testOrg, day(2026, 3, 31))
	s.Require().NoError(err)
	s.True(tb.IsBalanced)
	s.assertRunningBalancesConsistent()
}

func (s *LedgerEngineTestSuite) TestRunRevaluation_WithReversal() {
	s.seedRate("EUR", "USD", "1.10", day(2026, 1, 1))
	s.eurEntry(s.request(day(2026, 1, 10), true, s.debit("1100", "1100"), s.credit("4000", "1100")))
	s.seedRate("EUR", "USD", "1.20", day(2026, 3, 1))

	result, err := s.revalue([]string{"AR"}, true)
	s.Require().NoError(err)
	s.Equal(2, result.Count)
	s.Require().Len(result.Entries, 2)
	s.Equal(domain.DocumentFXRevaluationReversal, result.Entries[1].DocumentType)

	reversal, err := s.svc.Journal.GetJournalEntry(s.ctx, testOrg, result.Entries[1].JournalEntryID)
	s.Require().NoError(err)
	s.Equal(day(2026, 4, 1), reversal.EntryDate)
	s.Equal(result.Entries[0].JournalEntryID, reversal.SourceDocument.DocumentID)
	s.assertDecimal("100", reversal.Lines[0].CreditAmount)
	s.Equal(s.id("1100"), reversal.Lines[0].AccountID)

	s.assertDecimal("1200", s.balance("1100", day(2026, 3, 31)))
	s.assertDecimal("1100", s.balance("1100", day(2026, 4, 1)))

	again, err := s.revalue([]string{"AR"}, true)
	s.Require().NoError(err)
	s.Zero(again.Count)
}

func (s *LedgerEngineTestSuite) TestRunRevaluation_PayableLossAndCashLoss() {
	s.seedRate("EUR", "USD", "1.10", day(2026, 1, 1))
	s.eurEntry(s.request(day(2026, 1, 10), true, s.debit("5000", "1100"), s.credit("2000", "1100")))
	s.eurEntry(s.request(day(2026, 1, 11), true, s.debit("1000", "550"), s.credit("3000", "550")))
	s.seedRate("EUR", "USD", "1.20", day(2026, 3, 1))

	result, err := s.revalue([]string{"AP", "CASH"}, false)
	s.Require().NoError(err)
	s.Require().Equal(2, result.Count)

	payable, err := s.svc.Journal.GetJournalEntry(s.ctx, testOrg, result.Entries[0].JournalEntryID)
	s.Require().NoError(err)
	s.Equal(s.id("5900"), payable.Lines[0].AccountID, "a grown liability is a loss")
	s.assertDecimal("100", payable.Lines[0].DebitAmount)
	s.Equal(s.id("2000"), payable.Lines[1].AccountID)
	s.assertDecimal("100", payable.Lines[1].CreditAmount)
	s.assertDecimal("1200", s.balance("2000", day(2026, 3, 31)))

	cash, err := s.svc.Journal.GetJournalEntry(s.ctx, testOrg, result.Entries[1].JournalEntryID)
	s.Require().NoError(err)
	s.Equal(s.id("1000"), cash.Lines[0].AccountID)
	s.assertDecimal("50", cash.Lines[0].DebitAmount)
	s.assertDecimal("600", s.balance("1000", day(2026, 3, 31)))
}

func (s *LedgerEngineTestSuite) TestRunRevaluation_ReceivableLoss() {
	s.seedRate("EUR", "USD", "1.20", day(2026, 1, 1))
	s.eurEntry(s.request(day(2026, 1, 10), true, s.debit("1100", "1200"), s.credit("4000", "1200")))
	s.seedRate("EUR", "USD", "1.15", day(2026, 3, 1))

	result, err := s.revalue([]string{"AR"}, false)
	s.Require().NoError(err)
	s.Require().Equal(1, result.Count)

	entry, err := s.svc.Journal.GetJournalEntry(s.ctx, testOrg, result.Entries[0].JournalEntryID)
	s.Require().NoError(err)
	s.Equal(s.id("5900"), entry.Lines[0].AccountID)
	s.assertDecimal("50", entry.Lines[0].DebitAmount)
	s.Equal(s.id("1100"), entry.Lines[1].AccountID)
	s.assertDecimal("50", entry.Lines[1].CreditAmount)
}

func (s *LedgerEngineTestSuite) TestRunRevaluation_SkipsBaseCurrencyAndImmaterialDeltas() {
	s.mustCreate(s.request(day(2026, 1, 10), true, s.debit("1100", "500"), s.credit("4000", "500")))

	rate := dec("1.1")
	req := s.request(day(2026, 1, 10), true, s.debit("1100", "1.1"), s.credit("4000", "1.1"))
	req.Currency = "EUR"
	req.ExchangeRate = &rate
	s.mustCreate(req)
	s.seedRate("EUR", "USD", "1.102", day(2026, 3, 1))

	result, err := s.revalue([]string{"AR"}, false)
	s.Require().NoError(err)
	s.Zero(result.Count, "a 0.002 delta is below materiality")
}

func (s *LedgerEngineTestSuite) TestRunRevaluation_HalfCentDeltaConverges() {
	s.seedRate("EUR", "USD", "1.10", day(2026, 1, 1))
	s.eurEntry(s.request(day(2026, 1, 10), true, s.debit("1100", "1100"), s.credit("4000", "1100")))
	// EUR 1000 at 1.200005 is USD 1200.005, so the exact delta sits on a half cent.
	s.seedRate("EUR", "USD", "1.200005", day(2026, 3, 1))

	first, err := s.revalue([]string{"AR"}, false)
	s.Require().NoError(err)
	s.Require().Equal(1, first.Count)
	s.assertDecimal("1200.01", s.balance("1100", day(2026, 3, 31)))

	for i := 0; i < 3; i++ {
		again, err := s.revalue([]string{"AR"}, false)
		s.Require().NoError(err)
		s.Zero(again.Count, "run %d booked the rounding residual", i+2)
	}
	s.assertDecimal("1200.01", s.balance("1100", day(2026, 3, 31)))
	s.assertRunningBalancesConsistent()
}

func (s *LedgerEngineTestSuite) TestRunRevaluation_MissingAccounts() {
	accounts := s.revaluationAccounts()
	accounts.UnrealizedGain = ""
	_, err := s.svc.Revaluation.RunRevaluation(s.ctx, testOrg, dto.RunRevaluationRequest{
		AsOfDate: day(2026, 3, 31), Scope: []string{"AR"}, Accounts: accounts,
	}, testActor)
	s.ErrorIs(err, apperrors.ErrMissingFxAccounts)

	accounts = s.revaluationAccounts()
	accounts.Payable = nil
	_, err = s.svc.Revaluation.RunRevaluation(s.ctx, testOrg, dto.RunRevaluationRequest{
		AsOfDate: day(2026, 3, 31), Scope: []string{"AP"}, Accounts: accounts,
	}, testActor)
	s.ErrorIs(err, apperrors.ErrMissingFxAccounts)
	s.Contains(err.Error(), "AP accounts")

	accounts = s.revaluationAccounts()
	accounts.UnrealizedLoss = "ghost"
	_, err = s.svc.Revaluation.RunRevaluation(s.ctx, testOrg, dto.RunRevaluationRequest{
		AsOfDate: day(2026, 3, 31), Scope: []string{"AR"}, Accounts: accounts,
	}, testActor)
	s.ErrorIs(err, apperrors.ErrUnknownAccount)
}

func (s *LedgerEngineTestSuite) TestRunRevaluation_LockedReversalDateFailsBeforeWriting() {
	s.seedRate("EUR", "USD", "1.10", day(2026, 1, 1))
	s.eurEntry(s.request(day(2026, 1, 10), true, s.debit("1100", "1100"), s.credit("4000", "1100")))
	s.seedRate("EUR", "USD", "1.20", day(2026, 3, 1))
	_, err := s.svc.PeriodLock.LockPeriod(s.ctx, testOrg, dto.LockPeriodRequest{PeriodStart: day(2026, 4, 1), PeriodEnd: day(2026, 4, 30)}, testActor)
	s.Require().NoError(err)

	_, err = s.revalue([]string{"AR"}, true)
	s.ErrorIs(err, apperrors.ErrPeriodLocked)

	entries, err := s.svc.Journal.ListJournalEntries(s.ctx, testOrg, dto.ListJournalEntriesParams{})
	s.Require().NoError(err)
	s.Len(entries.Entries, 1, "only the seeded invoice exists")

	// Without the reversal the run is allowed
	result, err := s.revalue([]string{"AR"}, false)
	s.Require().NoError(err)
	s.Equal(1, result.Count)
}

func (s *LedgerEngineTestSuite) TestRunRevaluation_EntriesFoundByRunID() {
	s.seedRate("EUR", "USD", "1.10", day(2026, 1, 1))
	s.eurEntry(s.request(day(2026, 1, 10), true, s.debit("1100", "1100"), s.credit("4000", "1100")))
	s.seedRate("EUR", "USD", "1.30", day(2026, 3, 1))

	result, err := s.revalue([]string{"AR", "AR"}, false)
	s.Require().NoError(err)
	s.Equal(1, result.Count, "duplicate scope entries are revalued once")

	found, err := s.svc.Journal.FindBySourceDocument(s.ctx, testOrg, domain.DocumentFXRevaluation, result.RunID)
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.assertDecimal("200", found[0].TotalDebit)
}
