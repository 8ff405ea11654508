package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one posted line in an account's chronological history.
type LedgerEntry struct {
	LedgerEntryID       string          `json:"ledgerEntryID"`
	OrganizationID      string          `json:"organizationID"`
	AccountID           string          `json:"accountID"`
	JournalEntryID      string          `json:"journalEntryID"`
	LineNumber          int             `json:"lineNumber"`
	EntryDate           time.Time       `json:"entryDate"`
	Description         string          `json:"description"`
	Reference           string          `json:"reference"`
	DebitAmount         decimal.Decimal `json:"debitAmount"`
	CreditAmount        decimal.Decimal `json:"creditAmount"`
	TransactionCurrency *string         `json:"transactionCurrency,omitempty"`
	TransactionDebit    decimal.Decimal `json:"transactionDebit"`
	TransactionCredit   decimal.Decimal `json:"transactionCredit"`
	RunningBalance      decimal.Decimal `json:"runningBalance"`
	Sequence            int64           `json:"sequence"` // Insertion order, tie-breaker within an entry date
	CreatedAt           time.Time       `json:"createdAt"`
}

// LedgerEntryLess orders rows chronologically: by entry date, then by insertion sequence.
func LedgerEntryLess(a, b LedgerEntry) bool {
	if !a.EntryDate.Equal(b.EntryDate) {
		return a.EntryDate.Before(b.EntryDate)
	}
	return a.Sequence < b.Sequence
}

// AccountBalance is a point-in-time balance of a single account.
type AccountBalance struct {
	AccountID   string          `json:"accountID"`
	AsOfDate    time.Time       `json:"asOfDate"`
	Balance     decimal.Decimal `json:"balance"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// AccountTotals is the raw debit/credit aggregate of one account's ledger rows.
type AccountTotals struct {
	AccountID   string
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// CurrencyExposure aggregates the foreign and booked base amounts of one account in one transaction currency.
type CurrencyExposure struct {
	AccountID     string
	Currency      string
	ForeignDebit  decimal.Decimal
	ForeignCredit decimal.Decimal
	BaseDebit     decimal.Decimal
	BaseCredit    decimal.Decimal
}
