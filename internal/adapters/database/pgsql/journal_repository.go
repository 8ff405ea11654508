package pgsql

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

type journalRepository struct {
	q querier
}

var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

const journalEntryColumns = `
	organization_id, journal_entry_id, entry_number, entry_date, description, reference,
	currency, base_currency, exchange_rate, total_debit, total_credit, status,
	source_doc_type, source_doc_id, reversal_entry_id, is_reversal, posted_by, posted_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanJournalEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.OrganizationID,
		&e.JournalEntryID,
		&e.EntryNumber,
		&e.EntryDate,
		&e.Description,
		&e.Reference,
		&e.Currency,
		&e.BaseCurrency,
		&e.ExchangeRate,
		&e.TotalDebit,
		&e.TotalCredit,
		&e.Status,
		&e.SourceDocument.DocumentType,
		&e.SourceDocument.DocumentID,
		&e.ReversalEntryID,
		&e.IsReversal,
		&e.PostedBy,
		&e.PostedAt,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	return e, err
}

// queryEntries runs a header query and attaches every entry's lines.
func (r *journalRepository) queryEntries(ctx context.Context, organizationID, query string, args ...any) ([]domain.JournalEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, internalError("failed to query journal entries", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		e, err := scanJournalEntry(rows)
		if err != nil {
			return nil, internalError("failed to scan journal entry row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, internalError("error iterating journal entry rows", err)
	}
	rows.Close()

	if err := r.attachLines(ctx, organizationID, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *journalRepository) attachLines(ctx context.Context, organizationID string, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]string, len(entries))
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		ids[i] = e.JournalEntryID
		index[e.JournalEntryID] = i
		entries[i].Lines = []domain.JournalLine{}
	}

	query := `
		SELECT journal_entry_id, line_number, account_id, description, debit_amount, credit_amount,
		       transaction_currency, transaction_debit, transaction_credit
		FROM journal_lines
		WHERE organization_id = $1 AND journal_entry_id = ANY($2)
		ORDER BY journal_entry_id, line_number;
	`
	rows, err := r.q.Query(ctx, query, organizationID, ids)
	if err != nil {
		return internalError("failed to query journal lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entryID string
		var l domain.JournalLine
		if err := rows.Scan(
			&entryID,
			&l.LineNumber,
			&l.AccountID,
			&l.Description,
			&l.DebitAmount,
			&l.CreditAmount,
			&l.TransactionCurrency,
			&l.TransactionDebit,
			&l.TransactionCredit,
		); err != nil {
			return internalError("failed to scan journal line row", err)
		}
		i := index[entryID]
		entries[i].Lines = append(entries[i].Lines, l)
	}
	if err := rows.Err(); err != nil {
		return internalError("error iterating journal line rows", err)
	}
	return nil
}

func (r *journalRepository) FindJournalEntryByID(ctx context.Context, organizationID, journalEntryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE organization_id = $1 AND journal_entry_id = $2;`
	entries, err := r.queryEntries(ctx, organizationID, query, organizationID, journalEntryID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, journalEntryID)
	}
	return &entries[0], nil
}

func (r *journalRepository) FindJournalEntriesBySourceDocument(ctx context.Context, organizationID, documentType, documentID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + journalEntryColumns + `
		FROM journal_entries
		WHERE organization_id = $1 AND source_doc_type = $2 AND source_doc_id = $3
		ORDER BY entry_number;
	`
	return r.queryEntries(ctx, organizationID, query, organizationID, documentType, documentID)
}

// ListJournalEntries fetches one row past the limit to decide whether another page exists.
func (r *journalRepository) ListJournalEntries(ctx context.Context, organizationID string, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := []any{organizationID}
	filter := `WHERE organization_id = $1`
	if status != nil {
		args = append(args, *status)
		filter += ` AND status = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		cursorDate, cursorNumber, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursorDate, cursorNumber)
		// Tuple comparison keeps the cursor stable across equal entry dates
		filter += ` AND (entry_date, entry_number) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}
	args = append(args, limit+1)
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries ` + filter +
		` ORDER BY entry_date DESC, entry_number DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	entries, err := r.queryEntries(ctx, organizationID, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeCursor(last.EntryDate, last.EntryNumber)
		next = &token
	}
	return entries, next, nil
}

func (r *journalRepository) LastEntryNumber(ctx context.Context, organizationID, prefix string) (string, error) {
	query := `
		SELECT COALESCE(MAX(entry_number), '')
		FROM journal_entries
		WHERE organization_id = $1 AND entry_number LIKE $2 || '%';
	`
	var last string
	if err := r.q.QueryRow(ctx, query, organizationID, prefix).Scan(&last); err != nil {
		return "", internalError("failed to read last entry number", err)
	}
	return last, nil
}

func (r *journalRepository) InsertJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + journalEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err := r.q.Exec(ctx, query,
		entry.OrganizationID,
		entry.JournalEntryID,
		entry.EntryNumber,
		entry.EntryDate,
		entry.Description,
		entry.Reference,
		entry.Currency,
		entry.BaseCurrency,
		entry.ExchangeRate,
		entry.TotalDebit,
		entry.TotalCredit,
		entry.Status,
		entry.SourceDocument.DocumentType,
		entry.SourceDocument.DocumentID,
		entry.ReversalEntryID,
		entry.IsReversal,
		entry.PostedBy,
		entry.PostedAt,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		if constraint, ok := uniqueViolationOn(err); ok {
			if constraint == entryNumberConstraint {
				return apperrors.NewEntryNumberCollisionError(entry.EntryNumber)
			}
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.JournalEntryID)
		}
		return internalError("failed to insert journal entry "+entry.JournalEntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (
			organization_id, journal_entry_id, line_number, account_id, description,
			debit_amount, credit_amount, transaction_currency, transaction_debit, transaction_credit
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, l := range entry.Lines {
		batch.Queue(lineQuery,
			entry.OrganizationID,
			entry.JournalEntryID,
			l.LineNumber,
			l.AccountID,
			l.Description,
			l.DebitAmount,
			l.CreditAmount,
			l.TransactionCurrency,
			l.TransactionDebit,
			l.TransactionCredit,
		)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return internalError("failed to insert lines of journal entry "+entry.JournalEntryID, err)
	}
	return nil
}

func (r *journalRepository) UpdateJournalEntryStatus(ctx context.Context, entry domain.JournalEntry) error {
	query := `
		UPDATE journal_entries
		SET status = $3,
		    posted_by = $4,
		    posted_at = $5,
		    reversal_entry_id = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE organization_id = $1 AND journal_entry_id = $2;
	`
	tag, err := r.q.Exec(ctx, query,
		entry.OrganizationID,
		entry.JournalEntryID,
		entry.Status,
		entry.PostedBy,
		entry.PostedAt,
		entry.ReversalEntryID,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return internalError("failed to update status of journal entry "+entry.JournalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entry.JournalEntryID)
	}
	return nil
}
