package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// JournalWriterSvc defines the journal entry engine's lifecycle operations.
type JournalWriterSvc interface {
	// CreateJournalEntry validates, numbers and stores an entry as Draft, or Posted when requested.
	CreateJournalEntry(ctx context.Context, organizationID string, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error)

	// PostJournalEntry moves a Draft entry to Posted and fans it out to the ledger.
	PostJournalEntry(ctx context.Context, organizationID, journalEntryID, actorID string) (*domain.JournalEntry, error)

	// ReverseJournalEntry posts a swapped copy of a Posted entry and marks the original Reversed.
	ReverseJournalEntry(ctx context.Context, organizationID, journalEntryID, actorID string, description *string) (*domain.ReversalResult, error)
}

// JournalReaderSvc defines journal entry lookups.
type JournalReaderSvc interface {
	GetJournalEntry(ctx context.Context, organizationID, journalEntryID string) (*domain.JournalEntry, error)
	ListJournalEntries(ctx context.Context, organizationID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
	FindBySourceDocument(ctx context.Context, organizationID, documentType, documentID string) ([]domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalWriterSvc
	JournalReaderSvc
}
