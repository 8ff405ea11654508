package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

type journalRepository struct {
	*store
}

var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

func copyEntry(e domain.JournalEntry) domain.JournalEntry {
	lines := make([]domain.JournalLine, len(e.Lines))
	copy(lines, e.Lines)
	e.Lines = lines
	return e
}

func (r *journalRepository) FindJournalEntryByID(ctx context.Context, organizationID, journalEntryID string) (*domain.JournalEntry, error) {
	var found *domain.JournalEntry
	err := r.read(func(st *state) error {
		entry, ok := st.journals[key{organizationID, journalEntryID}]
		if !ok {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, journalEntryID)
		}
		c := copyEntry(entry)
		found = &c
		return nil
	})
	return found, err
}

func (r *journalRepository) FindJournalEntriesBySourceDocument(ctx context.Context, organizationID, documentType, documentID string) ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	err := r.read(func(st *state) error {
		for k, entry := range st.journals {
			if k.org == organizationID && entry.SourceDocument.DocumentType == documentType && entry.SourceDocument.DocumentID == documentID {
				entries = append(entries, copyEntry(entry))
			}
		}
		return nil
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].EntryNumber < entries[j].EntryNumber })
	return entries, err
}

func (r *journalRepository) ListJournalEntries(ctx context.Context, organizationID string, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var entries []domain.JournalEntry
	err := r.read(func(st *state) error {
		for k, entry := range st.journals {
			if k.org != organizationID {
				continue
			}
			if status != nil && entry.Status != *status {
				continue
			}
			entries = append(entries, copyEntry(entry))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].EntryDate.Equal(entries[j].EntryDate) {
			return entries[i].EntryDate.After(entries[j].EntryDate)
		}
		return entries[i].EntryNumber > entries[j].EntryNumber
	})

	if nextToken != nil && *nextToken != "" {
		cursorDate, cursorNumber, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		start := len(entries)
		for i, e := range entries {
			if e.EntryDate.Before(cursorDate) || (e.EntryDate.Equal(cursorDate) && e.EntryNumber < cursorNumber) {
				start = i
				break
			}
		}
		entries = entries[start:]
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
	last := ""
	err := r.read(func(st *state) error {
		for k := range st.entryNumbers {
			if k.org == organizationID && strings.HasPrefix(k.id, prefix) && k.id > last {
				last = k.id
			}
		}
		return nil
	})
	return last, err
}

func (r *journalRepository) InsertJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	return r.write(func(st *state) error {
		numberKey := key{entry.OrganizationID, entry.EntryNumber}
		if _, taken := st.entryNumbers[numberKey]; taken {
			return apperrors.NewEntryNumberCollisionError(entry.EntryNumber)
		}
		idKey := key{entry.OrganizationID, entry.JournalEntryID}
		if _, exists := st.journals[idKey]; exists {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.JournalEntryID)
		}
		st.journals[idKey] = copyEntry(entry)
		st.entryNumbers[numberKey] = entry.JournalEntryID
		return nil
	})
}

func (r *journalRepository) UpdateJournalEntryStatus(ctx context.Context, entry domain.JournalEntry) error {
	return r.write(func(st *state) error {
		k := key{entry.OrganizationID, entry.JournalEntryID}
		stored, ok := st.journals[k]
		if !ok {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entry.JournalEntryID)
		}
		stored.Status = entry.Status
		stored.PostedBy = entry.PostedBy
		stored.PostedAt = entry.PostedAt
		stored.ReversalEntryID = entry.ReversalEntryID
		stored.LastUpdatedAt = entry.LastUpdatedAt
		stored.LastUpdatedBy = entry.LastUpdatedBy
		st.journals[k] = stored
		return nil
	})
}
