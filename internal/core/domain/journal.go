package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// Source document types recognised by the engine. Any other string is accepted as provenance.
const (
	DocumentManual                = "Manual"
	DocumentJournalEntry          = "JournalEntry"
	DocumentFXRevaluation         = "FXRevaluation"
	DocumentFXRevaluationReversal = "FXRevaluationReversal"
)

// SourceDocument links an entry to the business event that produced it.
type SourceDocument struct {
	DocumentType string `json:"documentType"`
	DocumentID   string `json:"documentID"`
}

// JournalLine is one side of a double-entry transaction. Amounts are in base currency.
type JournalLine struct {
	LineNumber          int             `json:"lineNumber"`
	AccountID           string          `json:"accountID"`
	Description         string          `json:"description"`
	DebitAmount         decimal.Decimal `json:"debitAmount"`
	CreditAmount        decimal.Decimal `json:"creditAmount"`
	TransactionCurrency *string         `json:"transactionCurrency,omitempty"`
	TransactionDebit    decimal.Decimal `json:"transactionDebit"`
	TransactionCredit   decimal.Decimal `json:"transactionCredit"`
}

// JournalEntry is a proposed or committed double-entry transaction.
type JournalEntry struct {
	JournalEntryID  string          `json:"journalEntryID"`
	OrganizationID  string          `json:"organizationID"`
	EntryNumber     string          `json:"entryNumber"`
	EntryDate       time.Time       `json:"entryDate"`
	Description     string          `json:"description"`
	Reference       string          `json:"reference"`
	Currency        string          `json:"currency"`
	BaseCurrency    string          `json:"baseCurrency"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
	Lines           []JournalLine   `json:"lines"`
	TotalDebit      decimal.Decimal `json:"totalDebit"`
	TotalCredit     decimal.Decimal `json:"totalCredit"`
	Status          EntryStatus     `json:"status"`
	SourceDocument  SourceDocument  `json:"sourceDocument"`
	ReversalEntryID *string         `json:"reversalEntryID,omitempty"`
	IsReversal      bool            `json:"isReversal"`
	PostedBy        *string         `json:"postedBy,omitempty"`
	PostedAt        *time.Time      `json:"postedAt,omitempty"`
	AuditFields
}

// AccountIDs returns the distinct accounts touched by the entry, sorted.
func (e *JournalEntry) AccountIDs() []string {
	seen := make(map[string]struct{}, len(e.Lines))
	ids := make([]string, 0, len(e.Lines))
	for _, line := range e.Lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		ids = append(ids, line.AccountID)
	}
	sort.Strings(ids)
	return ids
}

// IsForeignCurrency reports whether the entry was raised in a currency other than its base.
func (e *JournalEntry) IsForeignCurrency() bool {
	return e.Currency != "" && e.BaseCurrency != "" && e.Currency != e.BaseCurrency
}

// ReversalResult pairs a reversed entry with the entry that reverses it.
type ReversalResult struct {
	Original JournalEntry `json:"original"`
	Reversal JournalEntry `json:"reversal"`
}
