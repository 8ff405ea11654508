package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// postToLedger writes one ledger row per line of a posted entry and brings the running balances of
// every touched account up to date. It must run inside the caller's transaction and account locks.
func postToLedger(ctx context.Context, store portsrepo.Store, entry *domain.JournalEntry, opts serviceOptions) error {
	now := opts.now()
	rows := make([]domain.LedgerEntry, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		description := line.Description
		if description == "" {
			description = entry.Description
		}
		rows = append(rows, domain.LedgerEntry{
			LedgerEntryID:       opts.newID(),
			OrganizationID:      entry.OrganizationID,
			AccountID:           line.AccountID,
			JournalEntryID:      entry.JournalEntryID,
			LineNumber:          line.LineNumber,
			EntryDate:           entry.EntryDate,
			Description:         description,
			Reference:           entry.Reference,
			DebitAmount:         line.DebitAmount,
			CreditAmount:        line.CreditAmount,
			TransactionCurrency: line.TransactionCurrency,
			TransactionDebit:    line.TransactionDebit,
			TransactionCredit:   line.TransactionCredit,
			RunningBalance:      decimal.Zero,
			CreatedAt:           now,
		})
	}

	if _, err := store.Ledger().InsertLedgerEntries(ctx, rows); err != nil {
		return fmt.Errorf("failed to insert ledger entries for %s: %w", entry.EntryNumber, err)
	}

	accountIDs := entry.AccountIDs()
	accounts, err := store.Accounts().LockAccountsForUpdate(ctx, entry.OrganizationID, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to lock accounts for %s: %w", entry.EntryNumber, err)
	}
	for _, id := range accountIDs {
		if err := updateRunningBalances(ctx, store, accounts[id], entry.EntryDate); err != nil {
			return err
		}
	}
	return nil
}

// updateRunningBalances replays the account's rows dated on or after fromDate on top of the last
// balance before it, rewrites the running balances that changed and refreshes the cached balance.
// A zero fromDate replays the whole history.
func updateRunningBalances(ctx context.Context, store portsrepo.Store, account domain.Account, fromDate time.Time) error {
	from := domain.NormalizeDate(fromDate)

	balance, err := store.Ledger().BalanceBefore(ctx, account.OrganizationID, account.AccountID, from)
	if err != nil {
		return fmt.Errorf("failed to read balance checkpoint for account %s: %w", account.AccountID, err)
	}

	rows, err := store.Ledger().ListLedgerEntriesFrom(ctx, account.OrganizationID, account.AccountID, from)
	if err != nil {
		return fmt.Errorf("failed to read ledger entries for account %s: %w", account.AccountID, err)
	}

	changed := make(map[string]decimal.Decimal)
	for _, row := range rows {
		balance = balance.Add(accounting.SignedAmount(account.NormalBalance, row.DebitAmount, row.CreditAmount))
		if !row.RunningBalance.Equal(balance) {
			changed[row.LedgerEntryID] = balance
		}
	}

	if len(changed) > 0 {
		if err := store.Ledger().UpdateRunningBalances(ctx, account.OrganizationID, changed); err != nil {
			return fmt.Errorf("failed to update running balances for account %s: %w", account.AccountID, err)
		}
	}

	if account.CurrentBalance.Equal(balance) {
		return nil
	}
	return store.Accounts().UpdateCurrentBalance(ctx, account.OrganizationID, account.AccountID, balance, account.Version)
}
