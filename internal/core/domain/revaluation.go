package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevaluationCategory is a monetary account class subject to FX revaluation.
type RevaluationCategory string

const (
	CategoryReceivable RevaluationCategory = "AR"
	CategoryPayable    RevaluationCategory = "AP"
	CategoryCash       RevaluationCategory = "CASH"
)

// IsAssetLike reports whether a positive delta increases the account on its debit side.
func (c RevaluationCategory) IsAssetLike() bool {
	return c == CategoryReceivable || c == CategoryCash
}

// RevaluationAccounts maps each category to its monetary accounts and names the unrealized gain/loss pair.
type RevaluationAccounts struct {
	Receivable     []string `json:"receivableAccountIDs"`
	Payable        []string `json:"payableAccountIDs"`
	Cash           []string `json:"cashAccountIDs"`
	UnrealizedGain string   `json:"unrealizedGainAccountID"`
	UnrealizedLoss string   `json:"unrealizedLossAccountID"`
}

// AccountsFor returns the configured accounts of a category, nil when none are configured.
func (a RevaluationAccounts) AccountsFor(c RevaluationCategory) []string {
	switch c {
	case CategoryReceivable:
		return a.Receivable
	case CategoryPayable:
		return a.Payable
	case CategoryCash:
		return a.Cash
	}
	return nil
}

// RevaluationAdjustment is a computed unrealized gain or loss for one category and currency.
type RevaluationAdjustment struct {
	Category     RevaluationCategory
	AccountID    string
	Currency     string
	ForeignNet   decimal.Decimal
	BookedBase   decimal.Decimal
	Rate         decimal.Decimal
	RevaluedBase decimal.Decimal
	Delta        decimal.Decimal
}

// RevaluationEntryRef identifies a journal entry produced by a revaluation run.
type RevaluationEntryRef struct {
	JournalEntryID string `json:"id"`
	EntryNumber    string `json:"entryNumber"`
	DocumentType   string `json:"documentType"`
}

// RevaluationResult summarises the entries a revaluation run created.
type RevaluationResult struct {
	RunID    string                `json:"runID"`
	AsOfDate time.Time             `json:"asOfDate"`
	Count    int                   `json:"count"`
	Entries  []RevaluationEntryRef `json:"entries"`
}
