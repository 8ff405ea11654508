package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// JournalReader defines read operations for journal entries. Returned entries include their lines.
type JournalReader interface {
	// FindJournalEntryByID returns apperrors.ErrNotFound when the entry does not exist in the organization.
	FindJournalEntryByID(ctx context.Context, organizationID, journalEntryID string) (*domain.JournalEntry, error)

	// FindJournalEntriesBySourceDocument returns entries tagged with the given provenance, oldest first.
	FindJournalEntriesBySourceDocument(ctx context.Context, organizationID, documentType, documentID string) ([]domain.JournalEntry, error)

	// ListJournalEntries pages entries newest first, by entry date then entry number.
	// A nil status lists every status.
	ListJournalEntries(ctx context.Context, organizationID string, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// LastEntryNumber returns the highest entry number starting with prefix, or "" when there is none.
	LastEntryNumber(ctx context.Context, organizationID, prefix string) (string, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// InsertJournalEntry persists an entry with its lines.
	// It returns an apperrors.ErrEntryNumberCollision error when (organization, entry number) is taken.
	InsertJournalEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateJournalEntryStatus persists status, posting stamps, reversal link and audit fields.
	UpdateJournalEntryStatus(ctx context.Context, entry domain.JournalEntry) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
