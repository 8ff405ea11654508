package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

type ledgerRepository struct {
	q querier
}

var _ portsrepo.LedgerRepositoryFacade = (*ledgerRepository)(nil)

const ledgerEntryColumns = `
	ledger_entry_id, organization_id, account_id, journal_entry_id, line_number, entry_date,
	description, reference, debit_amount, credit_amount, transaction_currency,
	transaction_debit, transaction_credit, running_balance, sequence, created_at`

func scanLedgerEntry(row pgx.Row) (domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := row.Scan(
		&e.LedgerEntryID,
		&e.OrganizationID,
		&e.AccountID,
		&e.JournalEntryID,
		&e.LineNumber,
		&e.EntryDate,
		&e.Description,
		&e.Reference,
		&e.DebitAmount,
		&e.CreditAmount,
		&e.TransactionCurrency,
		&e.TransactionDebit,
		&e.TransactionCredit,
		&e.RunningBalance,
		&e.Sequence,
		&e.CreatedAt,
	)
	return e, err
}

func (r *ledgerRepository) queryLedgerEntries(ctx context.Context, query string, args ...any) ([]domain.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, internalError("failed to query ledger entries", err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, internalError("failed to scan ledger entry row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, internalError("error iterating ledger entry rows", err)
	}
	return entries, nil
}

func (r *ledgerRepository) BalanceBefore(ctx context.Context, organizationID, accountID string, date time.Time) (decimal.Decimal, error) {
	query := `
		SELECT running_balance
		FROM ledger_entries
		WHERE organization_id = $1 AND account_id = $2 AND entry_date < $3
		ORDER BY entry_date DESC, sequence DESC
		LIMIT 1;
	`
	var balance decimal.Decimal
	err := r.q.QueryRow(ctx, query, organizationID, accountID, domain.NormalizeDate(date)).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, internalError("failed to read balance checkpoint of account "+accountID, err)
	}
	return balance, nil
}

func (r *ledgerRepository) ListLedgerEntriesFrom(ctx context.Context, organizationID, accountID string, from time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE organization_id = $1 AND account_id = $2 AND entry_date >= $3
		ORDER BY entry_date, sequence;
	`
	return r.queryLedgerEntries(ctx, query, organizationID, accountID, domain.NormalizeDate(from))
}

func (r *ledgerRepository) SumAccount(ctx context.Context, organizationID, accountID string, asOf time.Time) (domain.AccountTotals, error) {
	query := `
		SELECT COALESCE(SUM(debit_amount), 0), COALESCE(SUM(credit_amount), 0)
		FROM ledger_entries
		WHERE organization_id = $1 AND account_id = $2 AND entry_date <= $3;
	`
	totals := domain.AccountTotals{AccountID: accountID}
	err := r.q.QueryRow(ctx, query, organizationID, accountID, domain.NormalizeDate(asOf)).Scan(&totals.TotalDebit, &totals.TotalCredit)
	if err != nil {
		return domain.AccountTotals{}, internalError("failed to sum ledger of account "+accountID, err)
	}
	return totals, nil
}

func (r *ledgerRepository) SumByAccount(ctx context.Context, organizationID string, asOf time.Time) ([]domain.AccountTotals, error) {
	query := `
		SELECT account_id, SUM(debit_amount), SUM(credit_amount)
		FROM ledger_entries
		WHERE organization_id = $1 AND entry_date <= $2
		GROUP BY account_id
		ORDER BY account_id;
	`
	rows, err := r.q.Query(ctx, query, organizationID, domain.NormalizeDate(asOf))
	if err != nil {
		return nil, internalError("failed to aggregate ledger by account", err)
	}
	defer rows.Close()

	totals := []domain.AccountTotals{}
	for rows.Next() {
		var t domain.AccountTotals
		if err := rows.Scan(&t.AccountID, &t.TotalDebit, &t.TotalCredit); err != nil {
			return nil, internalError("failed to scan account totals row", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, internalError("error iterating account totals rows", err)
	}
	return totals, nil
}

func (r *ledgerRepository) SumByTransactionCurrency(ctx context.Context, organizationID string, accountIDs []string, asOf time.Time) ([]domain.CurrencyExposure, error) {
	query := `
		SELECT account_id, transaction_currency,
		       SUM(transaction_debit), SUM(transaction_credit), SUM(debit_amount), SUM(credit_amount)
		FROM ledger_entries
		WHERE organization_id = $1 AND account_id = ANY($2) AND transaction_currency IS NOT NULL AND entry_date <= $3
		GROUP BY account_id, transaction_currency
		ORDER BY account_id, transaction_currency;
	`
	rows, err := r.q.Query(ctx, query, organizationID, accountIDs, domain.NormalizeDate(asOf))
	if err != nil {
		return nil, internalError("failed to aggregate currency exposures", err)
	}
	defer rows.Close()

	exposures := []domain.CurrencyExposure{}
	for rows.Next() {
		var e domain.CurrencyExposure
		if err := rows.Scan(&e.AccountID, &e.Currency, &e.ForeignDebit, &e.ForeignCredit, &e.BaseDebit, &e.BaseCredit); err != nil {
			return nil, internalError("failed to scan currency exposure row", err)
		}
		exposures = append(exposures, e)
	}
	if err := rows.Err(); err != nil {
		return nil, internalError("error iterating currency exposure rows", err)
	}
	return exposures, nil
}

func (r *ledgerRepository) ListAccountLedger(ctx context.Context, organizationID, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := []any{organizationID, accountID}
	filter := `WHERE organization_id = $1 AND account_id = $2`
	if nextToken != nil && *nextToken != "" {
		cursorDate, seqStr, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursorSeq, err := strconv.ParseInt(seqStr, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token sequence", apperrors.ErrValidation)
		}
		args = append(args, cursorDate, cursorSeq)
		filter += ` AND (entry_date, sequence) > ($3, $4)`
	}
	args = append(args, limit+1)
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries ` + filter +
		` ORDER BY entry_date, sequence LIMIT $` + strconv.Itoa(len(args)) + `;`

	entries, err := r.queryLedgerEntries(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeCursor(last.EntryDate, strconv.FormatInt(last.Sequence, 10))
		next = &token
	}
	return entries, next, nil
}

// InsertLedgerEntries queues one insert per row; the database assigns each row's sequence.
func (r *ledgerRepository) InsertLedgerEntries(ctx context.Context, entries []domain.LedgerEntry) ([]domain.LedgerEntry, error) {
	query := `
		INSERT INTO ledger_entries (
			ledger_entry_id, organization_id, account_id, journal_entry_id, line_number, entry_date,
			description, reference, debit_amount, credit_amount, transaction_currency,
			transaction_debit, transaction_credit, running_balance, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING sequence;
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query,
			e.LedgerEntryID,
			e.OrganizationID,
			e.AccountID,
			e.JournalEntryID,
			e.LineNumber,
			e.EntryDate,
			e.Description,
			e.Reference,
			e.DebitAmount,
			e.CreditAmount,
			e.TransactionCurrency,
			e.TransactionDebit,
			e.TransactionCredit,
			e.RunningBalance,
			e.CreatedAt,
		)
	}

	results := r.q.SendBatch(ctx, batch)
	defer results.Close()

	inserted := make([]domain.LedgerEntry, len(entries))
	for i, e := range entries {
		if err := results.QueryRow().Scan(&e.Sequence); err != nil {
			return nil, internalError("failed to insert ledger entry for journal entry "+e.JournalEntryID, err)
		}
		inserted[i] = e
	}
	if err := results.Close(); err != nil {
		return nil, internalError("failed to close ledger entry batch", err)
	}
	return inserted, nil
}

func (r *ledgerRepository) UpdateRunningBalances(ctx context.Context, organizationID string, balances map[string]decimal.Decimal) error {
	if len(balances) == 0 {
		return nil
	}
	query := `UPDATE ledger_entries SET running_balance = $3 WHERE organization_id = $1 AND ledger_entry_id = $2;`
	batch := &pgx.Batch{}
	ids := make([]string, 0, len(balances))
	for id, balance := range balances {
		ids = append(ids, id)
		batch.Queue(query, organizationID, id, balance)
	}

	results := r.q.SendBatch(ctx, batch)
	defer results.Close()

	for _, id := range ids {
		tag, err := results.Exec()
		if err != nil {
			return internalError("failed to update running balance of ledger entry "+id, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, id)
		}
	}
	return results.Close()
}
