package dto

import "github.com/SscSPs/ledger_engine/internal/core/domain"

// AsOfQuery carries an optional YYYY-MM-DD reporting date; empty means today.
type AsOfQuery struct {
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// ListLedgerEntriesParams defines query parameters for an account's ledger listing.
type ListLedgerEntriesParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken *string `form:"nextToken"`
}

// ListLedgerEntriesResponse is a chronological page of an account's ledger rows.
type ListLedgerEntriesResponse struct {
	Entries   []domain.LedgerEntry `json:"entries"`
	NextToken *string              `json:"nextToken,omitempty"`
}
