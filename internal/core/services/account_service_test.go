package services_test

import (
	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

func (s *LedgerEngineTestSuite) TestCreateAccount_DefaultsNormalBalance() {
	tests := []struct {
		accountType string
		want        domain.NormalBalance
	}{
		{"ASSET", domain.DebitNormal},
		{"expense", domain.DebitNormal},
		{"LIABILITY", domain.CreditNormal},
		{"EQUITY", domain.CreditNormal},
		{"REVENUE", domain.CreditNormal},
	}
	for i, tc := range tests {
		s.Run(tc.accountType, func() {
			acc, err := s.svc.Account.CreateAccount(s.ctx, testOrg, dto.CreateAccountRequest{
				Code: "9" + string(rune('0'+i)), Name: "  Spare  ", AccountType: tc.accountType,
			}, testActor)
			s.Require().NoError(err)
			s.Equal(tc.want, acc.NormalBalance)
			s.Equal("Spare", acc.Name)
			s.True(acc.CurrentBalance.IsZero())
		})
	}
}

func (s *LedgerEngineTestSuite) TestCreateAccount_ContraAccountOverride() {
	acc, err := s.svc.Account.CreateAccount(s.ctx, testOrg, dto.CreateAccountRequest{
		Code: "1590", Name: "Accumulated Depreciation", AccountType: "ASSET", NormalBalance: "CREDIT",
	}, testActor)
	s.Require().NoError(err)
	s.Equal(domain.CreditNormal, acc.NormalBalance)

	s.mustCreate(s.request(day(2026, 2, 1), true, s.debit("5000", "40"), dto.JournalLineRequest{AccountID: acc.AccountID, CreditAmount: dec("40")}))
	b, err := s.svc.Ledger.GetAccountBalance(s.ctx, testOrg, acc.AccountID, day(2026, 2, 1))
	s.Require().NoError(err)
	s.assertDecimal("40", b.Balance)
}

func (s *LedgerEngineTestSuite) TestCreateAccount_Rejections() {
	_, err := s.svc.Account.CreateAccount(s.ctx, testOrg, dto.CreateAccountRequest{Code: "1000", Name: "Cash again", AccountType: "ASSET"}, testActor)
	s.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = s.svc.Account.CreateAccount(s.ctx, testOrg, dto.CreateAccountRequest{Code: "7000", Name: "Inventory", AccountType: "STOCK"}, testActor)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Account.CreateAccount(s.ctx, testOrg, dto.CreateAccountRequest{Code: "7001", Name: "Odd", AccountType: "ASSET", NormalBalance: "SIDEWAYS"}, testActor)
	s.ErrorIs(err, apperrors.ErrValidation)

	// Codes are unique per organization only
	_, err = s.svc.Account.CreateAccount(s.ctx, "org-2", dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: "ASSET"}, testActor)
	s.NoError(err)
}

func (s *LedgerEngineTestSuite) TestResolveAccounts() {
	got, err := s.svc.Account.ResolveAccounts(s.ctx, testOrg, []string{s.id("1000"), s.id("4000")})
	s.Require().NoError(err)
	s.Len(got, 2)

	_, err = s.svc.Account.ResolveAccounts(s.ctx, testOrg, []string{s.id("1000"), "missing-1", "missing-2"})
	s.ErrorIs(err, apperrors.ErrUnknownAccount)
	s.EqualError(err, "Account not found: missing-1")

	_, err = s.svc.Account.ResolveAccount(s.ctx, "org-2", s.id("1000"))
	s.ErrorIs(err, apperrors.ErrUnknownAccount, "accounts are scoped to their organization")

	_, err = s.svc.Account.GetAccount(s.ctx, testOrg, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerEngineTestSuite) TestListAccounts_OtherOrganizationIsEmpty() {
	all, err := s.svc.Account.ListAccounts(s.ctx, testOrg)
	s.Require().NoError(err)
	s.Len(all, 8)

	none, err := s.svc.Account.ListAccounts(s.ctx, "org-empty")
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}
