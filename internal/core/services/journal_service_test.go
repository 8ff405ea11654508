package services_test

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

func (s *LedgerEngineTestSuite) TestCreateJournalEntry_DraftThenPost() {
	entry := s.mustCreate(s.request(day(2026, 6, 1), false, s.debit("1000", "100"), s.credit("4000", "100")))

	s.Equal("JE2026000001", entry.EntryNumber)
	s.Equal(domain.Draft, entry.Status)
	s.assertDecimal("100", entry.TotalDebit)
	s.assertDecimal("100", entry.TotalCredit)
	s.Equal(domain.DocumentManual, entry.SourceDocument.DocumentType)
	s.Equal("USD", entry.Currency)
	s.Nil(entry.PostedAt)
	s.True(s.balance("1000", s.now).IsZero(), "drafts do not touch the ledger")

	posted, err := s.svc.Journal.PostJournalEntry(s.ctx, testOrg, entry.JournalEntryID, testActor)
	s.Require().NoError(err)
	s.Equal(domain.Posted, posted.Status)
	s.Require().NotNil(posted.PostedBy)
	s.Equal(testActor, *posted.PostedBy)
	s.Require().NotNil(posted.PostedAt)

	ledger, err := s.svc.Ledger.ListAccountLedger(s.ctx, testOrg, s.id("1000"), dto.ListLedgerEntriesParams{})
	s.Require().NoError(err)
	s.Len(ledger.Entries, 1)
	s.assertDecimal("100", s.balance("1000", s.now))
	s.assertDecimal("100", s.balance("4000", s.now))
	s.assertRunningBalancesConsistent()
}

func (s *LedgerEngineTestSuite) TestCreateJournalEntry_NumbersAreSequential() {
	first := s.mustCreate(s.request(day(2026, 6, 1), false, s.debit("1000", "1"), s.credit("4000", "1")))
	second := s.mustCreate(s.request(day(2025, 12, 31), true, s.debit("1000", "1"), s.credit("4000", "1")))

	s.Equal("JE2026000001", first.EntryNumber)
	s.Equal("JE2026000002", second.EntryNumber, "numbering follows the current year, not the entry date")
}

func (s *LedgerEngineTestSuite) TestCreateJournalEntry_PeriodLockedRegardlessOfLines() {
	_, err := s.svc.PeriodLock.LockPeriod(s.ctx, testOrg, dto.LockPeriodRequest{PeriodStart: day(2026, 1, 1), PeriodEnd: day(2026, 1, 31)}, testActor)
	s.Require().NoError(err)

	_, err = s.svc.Journal.CreateJournalEntry(s.ctx, testOrg,
		s.request(day(2026, 1, 15), false, s.debit("1000", "100"), s.credit("4000", "100")), testActor)
	s.ErrorIs(err, apperrors.ErrPeriodLocked)
	s.EqualError(err, "Cannot post to a locked period. Entry date: 2026-01-15")

	// Invalid lines still report the lock first
	_, err = s.svc.Journal.CreateJournalEntry(s.ctx, testOrg,
		s.request(day(2026, 1, 15), false, dto.JournalLineRequest{AccountID: "nope", DebitAmount: dec("5"), CreditAmount: dec("5")}), testActor)
	s.ErrorIs(err, apperrors.ErrPeriodLocked)

	list, err := s.svc.Journal.ListJournalEntries(s.ctx, testOrg, dto.ListJournalEntriesParams{})
	s.Require().NoError(err)
	s.Empty(list.Entries)
}

func (s *LedgerEngineTestSuite) TestCreateJournalEntry_Validation() {
	testCases := []struct {
		name    string
		lines   []dto.JournalLineRequest
		kind    error
		message string
	}{
		{
			name:  "unknown account",
			lines: []dto.JournalLineRequest{{AccountID: "missing", DebitAmount: dec("10")}, s.credit("4000", "10")},
			kind:  apperrors.ErrUnknownAccount, message: "Account not found: missing",
		},
		{
			name:  "both sides on one line",
			lines: []dto.JournalLineRequest{{AccountID: s.id("1000"), DebitAmount: dec("10"), CreditAmount: dec("10")}, s.credit("4000", "10")},
			kind:  apperrors.ErrMalformedLine,
		},
		{
			name:  "neither side",
			lines: []dto.JournalLineRequest{{AccountID: s.id("1000")}, s.credit("4000", "10")},
			kind:  apperrors.ErrMalformedLine,
		},
		{
			name:  "negative amount",
			lines: []dto.JournalLineRequest{s.debit("1000", "-10"), s.credit("4000", "10")},
			kind:  apperrors.ErrMalformedLine,
		},
		{
			name:  "single line",
			lines: []dto.JournalLineRequest{s.debit("1000", "10")},
			kind:  apperrors.ErrMalformedLine,
		},
		{
			name:  "unbalanced",
			lines: []dto.JournalLineRequest{s.debit("1000", "100"), s.credit("4000", "90")},
			kind:  apperrors.ErrUnbalancedEntry, message: "Journal entry must be balanced. Debit: 100.00, Credit: 90.00",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.svc.Journal.CreateJournalEntry(s.ctx, testOrg, s.request(day(2026, 6, 1), true, tc.lines...), testActor)
			s.ErrorIs(err, tc.kind)
			if tc.message != "" {
				s.EqualError(err, tc.message)
			}
		})
	}

	list, err := s.svc.Journal.ListJournalEntries(s.ctx, testOrg, dto.ListJournalEntriesParams{})
	s.Require().NoError(err)
	s.Empty(list.Entries, "nothing is written when validation fails")
	s.True(s.balance("1000", s.now).IsZero())
}

func (s *LedgerEngineTestSuite) TestCreateJournalEntry_WithinTolerance() {
	entry := s.mustCreate(s.request(day(2026, 6, 1), false, s.debit("1000", "100.00"), s.credit("4000", "99.99")))
	s.assertDecimal("100", entry.TotalDebit)
	s.assertDecimal("99.99", entry.TotalCredit)
}

func (s *LedgerEngineTestSuite) TestCreateJournalEntry_ForeignCurrencyDerivesTransactionAmounts() {
	rate := dec("1.25")
	req := s.request(day(2026, 6, 1), true, s.debit("1100", "125"), s.credit("4000", "125"))
	req.Currency = "EUR"
	req.ExchangeRate = &rate

	entry := s.mustCreate(req)

	s.True(entry.IsForeignCurrency())
	s.assertDecimal("1.25", entry.ExchangeRate)
	for _, line := range entry.Lines {
		s.Require().NotNil(line.TransactionCurrency)
		s.Equal("EUR", *line.TransactionCurrency)
	}
	s.assertDecimal("100", entry.Lines[0].TransactionDebit)
	s.assertDecimal("100", entry.Lines[1].TransactionCredit)

	ledger, err := s.svc.Ledger.ListAccountLedger(s.ctx, testOrg, s.id("1100"), dto.ListLedgerEntriesParams{})
	s.Require().NoError(err)
	s.Require().Len(ledger.Entries, 1)
	s.Equal("EUR", *ledger.Entries[0].TransactionCurrency)
	s.assertDecimal("100", ledger.Entries[0].TransactionDebit)
	s.assertDecimal("125", ledger.Entries[0].DebitAmount)
}

func (s *LedgerEngineTestSuite) TestCreateJournalEntry_ForeignCurrencyResolvesRate() {
	_, err := s.svc.ExchangeRate.CreateExchangeRate(s.ctx, testOrg, dto.CreateExchangeRateRequest{
		FromCurrency: "GBP", ToCurrency: "USD", Rate: dec("1.30"), EffectiveDate: day(2026, 1, 1),
	}, testActor)
	s.Require().NoError(err)

	req := s.request(day(2026, 6, 1), false, s.debit("1000", "130"), s.credit("4000", "130"))
	req.Currency = "GBP"
	entry := s.mustCreate(req)

	s.assertDecimal("1.3", entry.ExchangeRate)
	s.assertDecimal("100", entry.Lines[0].TransactionDebit)
}

func (s *LedgerEngineTestSuite) TestPostJournalEntry_Rejections() {
	entry := s.mustCreate(s.request(day(2026, 6, 1), true, s.debit("1000", "10"), s.credit("4000", "10")))

	_, err := s.svc.Journal.PostJournalEntry(s.ctx, testOrg, entry.JournalEntryID, testActor)
	s.ErrorIs(err, apperrors.ErrAlreadyPosted)

	_, err = s.svc.Journal.PostJournalEntry(s.ctx, testOrg, "missing", testActor)
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.svc.Journal.PostJournalEntry(s.ctx, "org-2", entry.JournalEntryID, testActor)
	s.ErrorIs(err, apperrors.ErrNotFound, "entries are invisible to other organizations")
}

func (s *LedgerEngineTestSuite) TestPostJournalEntry_RechecksPeriodLock() {
	draft := s.mustCreate(s.request(day(2026, 3, 10), false, s.debit("1000", "10"), s.credit("4000", "10")))
	_, err := s.svc.PeriodLock.LockPeriod(s.ctx, testOrg, dto.LockPeriodRequest{PeriodStart: day(2026, 3, 1), PeriodEnd: day(2026, 3, 31)}, testActor)
	s.Require().NoError(err)

	_, err = s.svc.Journal.PostJournalEntry(s.ctx, testOrg, draft.JournalEntryID, testActor)
	s.ErrorIs(err, apperrors.ErrPeriodLocked)

	stored, err := s.svc.Journal.GetJournalEntry(s.ctx, testOrg, draft.JournalEntryID)
	s.Require().NoError(err)
	s.Equal(domain.Draft, stored.Status)
	s.True(s.balance("1000", s.now).IsZero())
}

func (s *LedgerEngineTestSuite) TestReverseJournalEntry_RoundTrip() {
	original := s.mustCreate(s.request(day(2026, 5, 2), true, s.debit("5000", "40"), s.credit("1000", "40")))

	result, err := s.svc.Journal.ReverseJournalEntry(s.ctx, testOrg, original.JournalEntryID, testActor, nil)
	s.Require().NoError(err)

	s.Equal(domain.Reversed, result.Original.Status)
	s.Require().NotNil(result.Original.ReversalEntryID)
	s.Equal(result.Reversal.JournalEntryID, *result.Original.ReversalEntryID)

	rev := result.Reversal
	s.True(rev.IsReversal)
	s.Equal(domain.Posted, rev.Status)
	s.Equal("JE2026000002", rev.EntryNumber)
	s.Equal(day(2026, 6, 15), rev.EntryDate, "reversals are dated today")
	s.Equal(domain.SourceDocument{DocumentType: domain.DocumentJournalEntry, DocumentID: original.JournalEntryID}, rev.SourceDocument)
	s.Equal("Reversal of JE2026000001: test entry", rev.Description)
	s.assertDecimal("40", rev.Lines[0].CreditAmount)
	s.assertDecimal("40", rev.Lines[1].DebitAmount)

	s.True(s.balance("5000", s.now).IsZero())
	s.True(s.balance("1000", s.now).IsZero())

	stored, err := s.svc.Journal.GetJournalEntry(s.ctx, testOrg, original.JournalEntryID)
	s.Require().NoError(err)
	s.Equal(domain.Reversed, stored.Status)

	_, err = s.svc.Journal.ReverseJournalEntry(s.ctx, testOrg, original.JournalEntryID, testActor, nil)
	s.ErrorIs(err, apperrors.ErrNotPosted)

	// Reversing the reversal restores the original effect; undoing that again nets to zero
	description := "undo the undo"
	again, err := s.svc.Journal.ReverseJournalEntry(s.ctx, testOrg, rev.JournalEntryID, testActor, &description)
	s.Require().NoError(err)
	s.Equal(description, again.Reversal.Description)
	s.assertDecimal("40", s.balance("5000", s.now))

	_, err = s.svc.Journal.ReverseJournalEntry(s.ctx, testOrg, again.Reversal.JournalEntryID, testActor, nil)
	s.Require().NoError(err)
	s.True(s.balance("5000", s.now).IsZero())
	s.True(s.balance("1000", s.now).IsZero())
	s.assertRunningBalancesConsistent()

	linked, err := s.svc.Journal.FindBySourceDocument(s.ctx, testOrg, domain.DocumentJournalEntry, original.JournalEntryID)
	s.Require().NoError(err)
	s.Require().Len(linked, 1)
	s.Equal(rev.JournalEntryID, linked[0].JournalEntryID)
}

func (s *LedgerEngineTestSuite) TestReverseJournalEntry_DraftAndLockedToday() {
	draft := s.mustCreate(s.request(day(2026, 5, 2), false, s.debit("5000", "40"), s.credit("1000", "40")))
	_, err := s.svc.Journal.ReverseJournalEntry(s.ctx, testOrg, draft.JournalEntryID, testActor, nil)
	s.ErrorIs(err, apperrors.ErrNotPosted)

	posted := s.mustCreate(s.request(day(2026, 5, 2), true, s.debit("5000", "40"), s.credit("1000", "40")))
	_, err = s.svc.PeriodLock.LockPeriod(s.ctx, testOrg, dto.LockPeriodRequest{PeriodStart: day(2026, 6, 1), PeriodEnd: day(2026, 6, 30)}, testActor)
	s.Require().NoError(err)

	_, err = s.svc.Journal.ReverseJournalEntry(s.ctx, testOrg, posted.JournalEntryID, testActor, nil)
	s.ErrorIs(err, apperrors.ErrPeriodLocked)

	stored, err := s.svc.Journal.GetJournalEntry(s.ctx, testOrg, posted.JournalEntryID)
	s.Require().NoError(err)
	s.Equal(domain.Posted, stored.Status)
}

func (s *LedgerEngineTestSuite) TestCreateJournalEntry_RetriesEntryNumberCollisions() {
	collisions := int32(2)
	repos := &portsrepo.RepositoryProvider{
		Store:     s.repos.Store,
		TxManager: collidingTxManager{inner: s.repos.TxManager, collisions: &collisions},
	}
	journal := services.NewJournalService(repos, s.locker, s.svc.Account, s.svc.PeriodLock, s.svc.ExchangeRate, s.options()...)

	entry, err := journal.CreateJournalEntry(s.ctx, testOrg, s.request(day(2026, 6, 1), true, s.debit("1000", "10"), s.credit("4000", "10")), testActor)
	s.Require().NoError(err)
	s.Equal("JE2026000001", entry.EntryNumber)
	s.assertDecimal("10", s.balance("1000", s.now), "failed attempts leave no ledger rows behind")

	collisions = 10
	_, err = journal.CreateJournalEntry(s.ctx, testOrg, s.request(day(2026, 6, 1), true, s.debit("1000", "10"), s.credit("4000", "10")), testActor)
	s.ErrorIs(err, apperrors.ErrEntryNumberCollision)
	s.assertDecimal("10", s.balance("1000", s.now))
}

func (s *LedgerEngineTestSuite) TestCreateJournalEntry_ConcurrentPostingsStayBalanced() {
	const writers = 20
	var wg sync.WaitGroup
	numbers := make(chan string, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry, err := s.svc.Journal.CreateJournalEntry(s.ctx, testOrg,
				s.request(day(2026, 6, 1+i%10), true, s.debit("1000", "5"), s.credit("4000", "5")), testActor)
			if s.NoError(err) {
				numbers <- entry.EntryNumber
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for n := range numbers {
		s.False(seen[n], "duplicate entry number %s", n)
		seen[n] = true
	}
	s.Len(seen, writers)
	s.assertDecimal("100", s.balance("1000", s.now))
	s.assertRunningBalancesConsistent()
}

func (s *LedgerEngineTestSuite) TestListJournalEntries_StatusFilterAndPaging() {
	for i := 0; i < 3; i++ {
		s.mustCreate(s.request(day(2026, 6, 1+i), true, s.debit("1000", "1"), s.credit("4000", "1")))
	}
	s.mustCreate(s.request(day(2026, 6, 10), false, s.debit("1000", "1"), s.credit("4000", "1")))

	drafts, err := s.svc.Journal.ListJournalEntries(s.ctx, testOrg, dto.ListJournalEntriesParams{Status: "DRAFT"})
	s.Require().NoError(err)
	s.Len(drafts.Entries, 1)

	page, err := s.svc.Journal.ListJournalEntries(s.ctx, testOrg, dto.ListJournalEntriesParams{Status: "POSTED", Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page.Entries, 2)
	s.Equal(day(2026, 6, 3), page.Entries[0].EntryDate)
	s.Require().NotNil(page.NextToken)

	rest, err := s.svc.Journal.ListJournalEntries(s.ctx, testOrg, dto.ListJournalEntriesParams{Status: "POSTED", Limit: 2, NextToken: page.NextToken})
	s.Require().NoError(err)
	s.Require().Len(rest.Entries, 1)
	s.Equal(day(2026, 6, 1), rest.Entries[0].EntryDate)
	s.Nil(rest.NextToken)
}

func (s *LedgerEngineTestSuite) TestFindBySourceDocument_RequiresType() {
	_, err := s.svc.Journal.FindBySourceDocument(s.ctx, testOrg, "", "x")
	s.ErrorIs(err, apperrors.ErrValidation)

	req := s.request(day(2026, 6, 1), false, s.debit("1100", "10"), s.credit("4000", "10"))
	req.SourceDocument = &dto.SourceDocumentRequest{DocumentType: "Invoice", DocumentID: "INV-7"}
	entry := s.mustCreate(req)

	found, err := s.svc.Journal.FindBySourceDocument(s.ctx, testOrg, "Invoice", "INV-7")
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(entry.JournalEntryID, found[0].JournalEntryID)
	s.Equal(decimal.NewFromInt(10).String(), found[0].TotalDebit.String())
}

func (s *LedgerEngineTestSuite) TestReverseJournalEntry_FailedStatusUpdateRollsBackReversal() {
	original := s.mustCreate(s.request(day(2026, 5, 2), true, s.debit("5000", "40"), s.credit("1000", "40")))
	rowsBefore := s.ledgerRowCount("1000")

	journal := s.faultyJournalService(faultyTxManager{failStatusUpdate: true})
	_, err := journal.ReverseJournalEntry(s.ctx, testOrg, original.JournalEntryID, testActor, nil)
	s.Require().ErrorIs(err, errInjected)

	stored, err := s.svc.Journal.GetJournalEntry(s.ctx, testOrg, original.JournalEntryID)
	s.Require().NoError(err)
	s.Equal(domain.Posted, stored.Status)
	s.Nil(stored.ReversalEntryID)

	reversals, err := s.svc.Journal.FindBySourceDocument(s.ctx, testOrg, domain.DocumentJournalEntry, original.JournalEntryID)
	s.Require().NoError(err)
	s.Empty(reversals, "the reversal entry must not survive the rollback")

	page, err := s.svc.Journal.ListJournalEntries(s.ctx, testOrg, dto.ListJournalEntriesParams{})
	s.Require().NoError(err)
	s.Len(page.Entries, 1)

	s.Equal(rowsBefore, s.ledgerRowCount("1000"))
	s.assertDecimal("-40", s.balance("1000", s.now))
	s.assertDecimal("40", s.balance("5000", s.now))
	s.assertRunningBalancesConsistent()

	result, err := s.svc.Journal.ReverseJournalEntry(s.ctx, testOrg, original.JournalEntryID, testActor, nil)
	s.Require().NoError(err, "the entry is still reversible after the failed attempt")
	s.Equal("JE2026000002", result.Reversal.EntryNumber)
}

func (s *LedgerEngineTestSuite) TestPostJournalEntry_FailedLedgerWriteLeavesDraft() {
	draft := s.mustCreate(s.request(day(2026, 6, 1), false, s.debit("1000", "25"), s.credit("4000", "25")))

	journal := s.faultyJournalService(faultyTxManager{failRunningBalance: true})
	_, err := journal.PostJournalEntry(s.ctx, testOrg, draft.JournalEntryID, testActor)
	s.Require().ErrorIs(err, errInjected)

	stored, err := s.svc.Journal.GetJournalEntry(s.ctx, testOrg, draft.JournalEntryID)
	s.Require().NoError(err)
	s.Equal(domain.Draft, stored.Status)
	s.Nil(stored.PostedAt)
	s.Zero(s.ledgerRowCount("1000"))
	s.Zero(s.ledgerRowCount("4000"))
	s.True(s.balance("1000", s.now).IsZero())
	s.assertRunningBalancesConsistent()
}

func (s *LedgerEngineTestSuite) TestCreateJournalEntry_SequenceExhausted() {
	journal := s.faultyJournalService(faultyTxManager{lastEntryNumber: "JE2026999999"})
	_, err := journal.CreateJournalEntry(s.ctx, testOrg, s.request(day(2026, 6, 1), true, s.debit("1000", "10"), s.credit("4000", "10")), testActor)
	s.ErrorIs(err, domain.ErrEntryNumberSequenceExhausted)
	s.Zero(s.ledgerRowCount("1000"))
}
