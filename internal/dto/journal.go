package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one proposed debit or credit line. Amounts are in base currency.
type JournalLineRequest struct {
	AccountID           string           `json:"accountID" binding:"required"`
	Description         string           `json:"description"`
	DebitAmount         decimal.Decimal  `json:"debitAmount"`
	CreditAmount        decimal.Decimal  `json:"creditAmount"`
	TransactionCurrency *string          `json:"transactionCurrency,omitempty" binding:"omitempty,currency"`
	TransactionDebit    *decimal.Decimal `json:"transactionDebit,omitempty"`
	TransactionCredit   *decimal.Decimal `json:"transactionCredit,omitempty"`
}

// SourceDocumentRequest tags an entry with the business event that produced it.
type SourceDocumentRequest struct {
	DocumentType string `json:"documentType" binding:"required"`
	DocumentID   string `json:"documentID"`
}

// CreateJournalEntryRequest is the input of the journal entry engine.
// Currency and BaseCurrency default to the organization base currency; ExchangeRate is resolved when omitted.
type CreateJournalEntryRequest struct {
	EntryDate       time.Time              `json:"entryDate" binding:"required"`
	Description     string                 `json:"description"`
	Reference       string                 `json:"reference"`
	Currency        string                 `json:"currency" binding:"omitempty,currency"`
	BaseCurrency    string                 `json:"baseCurrency" binding:"omitempty,currency"`
	ExchangeRate    *decimal.Decimal       `json:"exchangeRate,omitempty"`
	Lines           []JournalLineRequest   `json:"lines" binding:"required,dive"`
	SourceDocument  *SourceDocumentRequest `json:"sourceDocument,omitempty"`
	PostImmediately bool                   `json:"postImmediately"`
}

// ReverseJournalEntryRequest optionally overrides the reversal's description.
type ReverseJournalEntryRequest struct {
	Description *string `json:"description,omitempty"`
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	Status    string  `form:"status" binding:"omitempty,oneof=DRAFT POSTED REVERSED"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken *string `form:"nextToken"`
}

// ListJournalEntriesResponse is a page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []domain.JournalEntry `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ReverseJournalEntryResponse pairs the reversed entry with its reversal.
type ReverseJournalEntryResponse struct {
	Original domain.JournalEntry `json:"original"`
	Reversal domain.JournalEntry `json:"reversal"`
}
