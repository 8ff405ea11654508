package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

type ledgerRepository struct {
	*store
}

var _ portsrepo.LedgerRepositoryFacade = (*ledgerRepository)(nil)

func (r *ledgerRepository) accountRows(st *state, organizationID, accountID string, keep func(domain.LedgerEntry) bool) []domain.LedgerEntry {
	var rows []domain.LedgerEntry
	for _, row := range st.ledger {
		if row.OrganizationID == organizationID && row.AccountID == accountID && keep(row) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return domain.LedgerEntryLess(rows[i], rows[j]) })
	return rows
}

func (r *ledgerRepository) BalanceBefore(ctx context.Context, organizationID, accountID string, date time.Time) (decimal.Decimal, error) {
	balance := decimal.Zero
	day := domain.NormalizeDate(date)
	err := r.read(func(st *state) error {
		rows := r.accountRows(st, organizationID, accountID, func(row domain.LedgerEntry) bool {
			return domain.NormalizeDate(row.EntryDate).Before(day)
		})
		if len(rows) > 0 {
			balance = rows[len(rows)-1].RunningBalance
		}
		return nil
	})
	return balance, err
}

func (r *ledgerRepository) ListLedgerEntriesFrom(ctx context.Context, organizationID, accountID string, from time.Time) ([]domain.LedgerEntry, error) {
	var rows []domain.LedgerEntry
	day := domain.NormalizeDate(from)
	err := r.read(func(st *state) error {
		rows = r.accountRows(st, organizationID, accountID, func(row domain.LedgerEntry) bool {
			return !domain.NormalizeDate(row.EntryDate).Before(day)
		})
		return nil
	})
	return rows, err
}

func (r *ledgerRepository) SumAccount(ctx context.Context, organizationID, accountID string, asOf time.Time) (domain.AccountTotals, error) {
	totals := domain.AccountTotals{AccountID: accountID, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	day := domain.NormalizeDate(asOf)
	err := r.read(func(st *state) error {
		for _, row := range st.ledger {
			if row.OrganizationID != organizationID || row.AccountID != accountID || domain.NormalizeDate(row.EntryDate).After(day) {
				continue
			}
			totals.TotalDebit = totals.TotalDebit.Add(row.DebitAmount)
			totals.TotalCredit = totals.TotalCredit.Add(row.CreditAmount)
		}
		return nil
	})
	return totals, err
}

func (r *ledgerRepository) SumByAccount(ctx context.Context, organizationID string, asOf time.Time) ([]domain.AccountTotals, error) {
	byAccount := make(map[string]*domain.AccountTotals)
	day := domain.NormalizeDate(asOf)
	err := r.read(func(st *state) error {
		for _, row := range st.ledger {
			if row.OrganizationID != organizationID || domain.NormalizeDate(row.EntryDate).After(day) {
				continue
			}
			t, ok := byAccount[row.AccountID]
			if !ok {
				t = &domain.AccountTotals{AccountID: row.AccountID, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
				byAccount[row.AccountID] = t
			}
			t.TotalDebit = t.TotalDebit.Add(row.DebitAmount)
			t.TotalCredit = t.TotalCredit.Add(row.CreditAmount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	totals := make([]domain.AccountTotals, 0, len(byAccount))
	for _, t := range byAccount {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].AccountID < totals[j].AccountID })
	return totals, nil
}

func (r *ledgerRepository) SumByTransactionCurrency(ctx context.Context, organizationID string, accountIDs []string, asOf time.Time) ([]domain.CurrencyExposure, error) {
	wanted := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = true
	}
	type exposureKey struct{ account, currency string }
	byKey := make(map[exposureKey]*domain.CurrencyExposure)
	day := domain.NormalizeDate(asOf)

	err := r.read(func(st *state) error {
		for _, row := range st.ledger {
			if row.OrganizationID != organizationID || !wanted[row.AccountID] || row.TransactionCurrency == nil {
				continue
			}
			if domain.NormalizeDate(row.EntryDate).After(day) {
				continue
			}
			k := exposureKey{row.AccountID, *row.TransactionCurrency}
			e, ok := byKey[k]
			if !ok {
				e = &domain.CurrencyExposure{
					AccountID: row.AccountID, Currency: *row.TransactionCurrency,
					ForeignDebit: decimal.Zero, ForeignCredit: decimal.Zero, BaseDebit: decimal.Zero, BaseCredit: decimal.Zero,
				}
				byKey[k] = e
			}
			e.ForeignDebit = e.ForeignDebit.Add(row.TransactionDebit)
			e.ForeignCredit = e.ForeignCredit.Add(row.TransactionCredit)
			e.BaseDebit = e.BaseDebit.Add(row.DebitAmount)
			e.BaseCredit = e.BaseCredit.Add(row.CreditAmount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	exposures := make([]domain.CurrencyExposure, 0, len(byKey))
	for _, e := range byKey {
		exposures = append(exposures, *e)
	}
	sort.Slice(exposures, func(i, j int) bool {
		if exposures[i].AccountID != exposures[j].AccountID {
			return exposures[i].AccountID < exposures[j].AccountID
		}
		return exposures[i].Currency < exposures[j].Currency
	})
	return exposures, nil
}

func (r *ledgerRepository) ListAccountLedger(ctx context.Context, organizationID, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	var rows []domain.LedgerEntry
	err := r.read(func(st *state) error {
		rows = r.accountRows(st, organizationID, accountID, func(domain.LedgerEntry) bool { return true })
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if nextToken != nil && *nextToken != "" {
		cursorDate, seqStr, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursorSeq, err := strconv.ParseInt(seqStr, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token sequence", apperrors.ErrValidation)
		}
		cursor := domain.LedgerEntry{EntryDate: cursorDate, Sequence: cursorSeq}
		start := len(rows)
		for i, row := range rows {
			if domain.LedgerEntryLess(cursor, row) {
				start = i
				break
			}
		}
		rows = rows[start:]
	}

	var next *string
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[limit-1]
		token := pagination.EncodeCursor(last.EntryDate, strconv.FormatInt(last.Sequence, 10))
		next = &token
	}
	return rows, next, nil
}

func (r *ledgerRepository) InsertLedgerEntries(ctx context.Context, entries []domain.LedgerEntry) ([]domain.LedgerEntry, error) {
	inserted := make([]domain.LedgerEntry, len(entries))
	err := r.write(func(st *state) error {
		for i, entry := range entries {
			st.nextSequence++
			entry.Sequence = st.nextSequence
			st.ledger = append(st.ledger, entry)
			inserted[i] = entry
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inserted, nil
}

func (r *ledgerRepository) UpdateRunningBalances(ctx context.Context, organizationID string, balances map[string]decimal.Decimal) error {
	return r.write(func(st *state) error {
		updated := 0
		for i := range st.ledger {
			row := &st.ledger[i]
			if row.OrganizationID != organizationID {
				continue
			}
			if balance, ok := balances[row.LedgerEntryID]; ok {
				row.RunningBalance = balance
				updated++
			}
		}
		if updated != len(balances) {
			return fmt.Errorf("%w: %d of %d ledger entries", apperrors.ErrNotFound, len(balances)-updated, len(balances))
		}
		return nil
	})
}
