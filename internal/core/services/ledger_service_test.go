package services_test

import (
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

func (s *LedgerEngineTestSuite) TestGetAccountBalance_ConcreteScenario() {
	entry := s.mustCreate(s.request(day(2026, 6, 15), false, s.debit("1000", "100"), s.credit("4000", "100")))
	s.assertDecimal("100", entry.TotalDebit)
	s.assertDecimal("100", entry.TotalCredit)
	s.Equal(domain.Draft, entry.Status)

	_, err := s.svc.Journal.PostJournalEntry(s.ctx, testOrg, entry.JournalEntryID, testActor)
	s.Require().NoError(err)

	cash, err := s.svc.Ledger.ListAccountLedger(s.ctx, testOrg, s.id("1000"), dto.ListLedgerEntriesParams{})
	s.Require().NoError(err)
	sales, err := s.svc.Ledger.ListAccountLedger(s.ctx, testOrg, s.id("4000"), dto.ListLedgerEntriesParams{})
	s.Require().NoError(err)
	s.Len(cash.Entries, 1)
	s.Len(sales.Entries, 1)

	balance, err := s.svc.Ledger.GetAccountBalance(s.ctx, testOrg, s.id("1000"), s.now)
	s.Require().NoError(err)
	s.assertDecimal("100", balance.Balance)
	s.assertDecimal("100", balance.TotalDebit)
	s.True(balance.TotalCredit.IsZero())
	s.Equal(day(2026, 6, 15), balance.AsOfDate)
}

func (s *LedgerEngineTestSuite) TestGetAccountBalance_AsOfIsInclusive() {
	s.mustCreate(s.request(day(2026, 3, 1), true, s.debit("1000", "10"), s.credit("3000", "10")))
	s.mustCreate(s.request(day(2026, 3, 2), true, s.debit("1000", "5"), s.credit("3000", "5")))

	s.True(s.balance("1000", day(2026, 2, 28)).IsZero())
	s.assertDecimal("10", s.balance("1000", day(2026, 3, 1)))
	s.assertDecimal("15", s.balance("1000", day(2026, 3, 2)))
	s.assertDecimal("15", s.balance("3000", day(2026, 12, 31)), "credit-normal accounts grow with credits")

	_, err := s.svc.Ledger.GetAccountBalance(s.ctx, testOrg, "missing", s.now)
	s.ErrorIs(err, apperrors.ErrUnknownAccount)
}

func (s *LedgerEngineTestSuite) TestRunningBalances_BackDatedInsert() {
	s.mustCreate(s.request(day(2026, 1, 10), true, s.debit("1000", "100"), s.credit("4000", "100")))
	s.mustCreate(s.request(day(2026, 1, 20), true, s.debit("1000", "50"), s.credit("4000", "50")))
	s.mustCreate(s.request(day(2026, 1, 5), true, s.debit("1000", "25"), s.credit("4000", "25")))
	s.mustCreate(s.request(day(2026, 1, 10), true, s.credit("1000", "30"), s.debit("5000", "30")))

	page, err := s.svc.Ledger.ListAccountLedger(s.ctx, testOrg, s.id("1000"), dto.ListLedgerEntriesParams{})
	s.Require().NoError(err)
	s.Require().Len(page.Entries, 4)

	expected := []string{"25", "125", "95", "145"}
	for i, row := range page.Entries {
		s.assertDecimal(expected[i], row.RunningBalance, "row", i)
	}

	cash, err := s.svc.Account.GetAccount(s.ctx, testOrg, s.id("1000"))
	s.Require().NoError(err)
	s.assertDecimal("145", cash.CurrentBalance)
	s.assertRunningBalancesConsistent()
}

func (s *LedgerEngineTestSuite) TestGetTrialBalance_OrderingAndZeroNet() {
	s.mustCreate(s.request(day(2026, 2, 1), true, s.debit("1000", "1000"), s.credit("3000", "1000")))
	s.mustCreate(s.request(day(2026, 2, 5), true, s.debit("5000", "200"), s.credit("2000", "200")))
	s.mustCreate(s.request(day(2026, 2, 9), true, s.debit("1100", "300"), s.credit("4000", "300")))
	s.mustCreate(s.request(day(2026, 3, 1), true, s.debit("2000", "200"), s.credit("1000", "200")))

	tb, err := s.svc.Ledger.GetTrialBalance(s.ctx, testOrg, day(2026, 2, 28))
	s.Require().NoError(err)

	codes := make([]string, len(tb.Rows))
	for i, row := range tb.Rows {
		codes[i] = row.AccountCode
	}
	s.Equal([]string{"1000", "1100", "2000", "3000", "4000", "5000"}, codes)
	s.True(tb.IsBalanced)
	s.True(tb.NetDifference.IsZero())
	s.assertDecimal("1500", tb.TotalDebit)
	s.assertDecimal("1500", tb.TotalCredit)

	// Signed by debit minus credit, every row nets to zero
	net := decimal.Zero
	for _, row := range tb.Rows {
		net = net.Add(row.TotalDebit.Sub(row.TotalCredit))
	}
	s.True(net.IsZero())

	s.assertDecimal("200", tb.Rows[2].Balance, "payable shown on its normal side")

	later, err := s.svc.Ledger.GetTrialBalance(s.ctx, testOrg, day(2026, 3, 31))
	s.Require().NoError(err)
	s.True(later.IsBalanced)
	for _, row := range later.Rows {
		if row.AccountCode == "2000" {
			s.True(row.Balance.IsZero())
		}
	}
}

func (s *LedgerEngineTestSuite) TestGetTrialBalance_EmptyLedger() {
	tb, err := s.svc.Ledger.GetTrialBalance(s.ctx, testOrg, s.now)
	s.Require().NoError(err)
	s.Empty(tb.Rows)
	s.True(tb.IsBalanced)
}

func (s *LedgerEngineTestSuite) TestRebuildRunningBalances_RepairsDrift() {
	s.mustCreate(s.request(day(2026, 1, 10), true, s.debit("1000", "100"), s.credit("4000", "100")))
	s.mustCreate(s.request(day(2026, 1, 12), true, s.debit("5000", "40"), s.credit("1000", "40")))

	page, err := s.svc.Ledger.ListAccountLedger(s.ctx, testOrg, s.id("1000"), dto.ListLedgerEntriesParams{})
	s.Require().NoError(err)
	drift := map[string]decimal.Decimal{}
	for _, row := range page.Entries {
		drift[row.LedgerEntryID] = decimal.NewFromInt(999)
	}
	s.Require().NoError(s.repos.Store.Ledger().UpdateRunningBalances(s.ctx, testOrg, drift))
	cash, err := s.svc.Account.GetAccount(s.ctx, testOrg, s.id("1000"))
	s.Require().NoError(err)
	s.Require().NoError(s.repos.Store.Accounts().UpdateCurrentBalance(s.ctx, testOrg, cash.AccountID, decimal.NewFromInt(-1), cash.Version))

	s.Require().NoError(s.svc.Ledger.RebuildRunningBalances(s.ctx, testOrg))

	s.assertRunningBalancesConsistent()
	cash, err = s.svc.Account.GetAccount(s.ctx, testOrg, s.id("1000"))
	s.Require().NoError(err)
	s.assertDecimal("60", cash.CurrentBalance)
}

func (s *LedgerEngineTestSuite) TestListAccountLedger_UnknownAccount() {
	_, err := s.svc.Ledger.ListAccountLedger(s.ctx, testOrg, "missing", dto.ListLedgerEntriesParams{})
	s.ErrorIs(err, apperrors.ErrUnknownAccount)
}
