package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

// ledgerService answers balance queries over ledger rows and maintains running balances.
type ledgerService struct {
	BaseService
	store     portsrepo.Store
	txManager portsrepo.TransactionManager
	locker    portsrepo.AccountLocker
	accounts  portssvc.AccountResolver
	opts      serviceOptions
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(repos *portsrepo.RepositoryProvider, locker portsrepo.AccountLocker, accounts portssvc.AccountResolver, options ...ServiceOption) portssvc.LedgerSvcFacade {
	return &ledgerService{
		store:     repos.Store,
		txManager: repos.TxManager,
		locker:    locker,
		accounts:  accounts,
		opts:      applyOptions(options),
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetAccountBalance(ctx context.Context, organizationID, accountID string, asOf time.Time) (_ *domain.AccountBalance, err error) {
	ctx, span := startSpan(ctx, "ledgerService.GetAccountBalance", organizationID)
	defer func() { endSpan(span, err) }()

	account, err := s.accounts.ResolveAccount(ctx, organizationID, accountID)
	if err != nil {
		return nil, err
	}

	day := domain.NormalizeDate(asOf)
	totals, err := s.store.Ledger().SumAccount(ctx, organizationID, accountID, day)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account ledger", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to compute balance for account %s: %w", accountID, err)
	}

	return &domain.AccountBalance{
		AccountID:   accountID,
		AsOfDate:    day,
		Balance:     accounting.SignedAmount(account.NormalBalance, totals.TotalDebit, totals.TotalCredit),
		TotalDebit:  totals.TotalDebit,
		TotalCredit: totals.TotalCredit,
	}, nil
}

func (s *ledgerService) GetTrialBalance(ctx context.Context, organizationID string, asOf time.Time) (_ *domain.TrialBalance, err error) {
	ctx, span := startSpan(ctx, "ledgerService.GetTrialBalance", organizationID)
	defer func() { endSpan(span, err) }()

	day := domain.NormalizeDate(asOf)
	totals, err := s.store.Ledger().SumByAccount(ctx, organizationID, day)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate ledger", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to compute trial balance: %w", err)
	}

	ids := make([]string, len(totals))
	for i, t := range totals {
		ids[i] = t.AccountID
	}
	accounts, err := s.store.Accounts().FindAccountsByIDs(ctx, organizationID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts for trial balance: %w", err)
	}

	tb := &domain.TrialBalance{
		OrganizationID: organizationID,
		AsOfDate:       day,
		Rows:           make([]domain.TrialBalanceRow, 0, len(totals)),
	}
	for _, t := range totals {
		account, ok := accounts[t.AccountID]
		if !ok {
			s.LogWarn(ctx, "Ledger rows reference an account missing from the chart",
				slog.String("account_id", t.AccountID))
			account = domain.Account{AccountID: t.AccountID, NormalBalance: domain.DebitNormal}
		}
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountID:     t.AccountID,
			AccountCode:   account.Code,
			AccountName:   account.Name,
			AccountType:   account.AccountType,
			NormalBalance: account.NormalBalance,
			TotalDebit:    t.TotalDebit,
			TotalCredit:   t.TotalCredit,
			Balance:       accounting.SignedAmount(account.NormalBalance, t.TotalDebit, t.TotalCredit),
		})
		tb.TotalDebit = tb.TotalDebit.Add(t.TotalDebit)
		tb.TotalCredit = tb.TotalCredit.Add(t.TotalCredit)
	}

	sort.SliceStable(tb.Rows, func(i, j int) bool {
		pi, pj := accounting.TypePrecedence(tb.Rows[i].AccountType), accounting.TypePrecedence(tb.Rows[j].AccountType)
		if pi != pj {
			return pi < pj
		}
		return tb.Rows[i].AccountCode < tb.Rows[j].AccountCode
	})

	tb.NetDifference = tb.TotalDebit.Sub(tb.TotalCredit)
	tb.IsBalanced = accounting.IsBalanced(tb.TotalDebit, tb.TotalCredit)
	if !tb.IsBalanced {
		s.LogError(ctx, fmt.Errorf("trial balance off by %s", tb.NetDifference.StringFixed(2)),
			"Trial balance does not balance", slog.String("organization_id", organizationID))
	}
	return tb, nil
}

func (s *ledgerService) ListAccountLedger(ctx context.Context, organizationID, accountID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	if _, err := s.accounts.ResolveAccount(ctx, organizationID, accountID); err != nil {
		return nil, err
	}

	rows, next, err := s.store.Ledger().ListAccountLedger(ctx, organizationID, accountID, pagination.ClampLimit(params.Limit), params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries for account %s: %w", accountID, err)
	}
	if rows == nil {
		rows = []domain.LedgerEntry{}
	}
	return &dto.ListLedgerEntriesResponse{Entries: rows, NextToken: next}, nil
}

// RebuildRunningBalances recomputes every account from its first row. Accounts are processed
// concurrently, each under its own lock and transaction.
func (s *ledgerService) RebuildRunningBalances(ctx context.Context, organizationID string) (err error) {
	ctx, span := startSpan(ctx, "ledgerService.RebuildRunningBalances", organizationID)
	defer func() { endSpan(span, err) }()

	accounts, err := s.store.Accounts().ListAccounts(ctx, organizationID)
	if err != nil {
		return fmt.Errorf("failed to list accounts for rebuild: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.rebuildConcurrency)
	for _, account := range accounts {
		accountID := account.AccountID
		g.Go(func() error {
			return s.locker.WithAccountLocks(gctx, organizationID, []string{accountID}, func() error {
				return s.txManager.WithinTransaction(gctx, func(ctx context.Context, store portsrepo.Store) error {
					locked, err := store.Accounts().LockAccountsForUpdate(ctx, organizationID, []string{accountID})
					if err != nil {
						return err
					}
					return updateRunningBalances(ctx, store, locked[accountID], time.Time{})
				})
			})
		})
	}
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Running balance rebuild failed", slog.String("organization_id", organizationID))
		return err
	}

	s.LogInfo(ctx, "Running balances rebuilt",
		slog.String("organization_id", organizationID),
		slog.Int("accounts", len(accounts)))
	return nil
}
