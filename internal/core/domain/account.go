package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account's balance is conventionally positive.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// IsKnown reports whether t is one of the five chart-of-accounts types.
func (t AccountType) IsKnown() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// DefaultNormalBalance returns the conventional side for the account type.
// Asset and Expense accounts are debit-normal, everything else is credit-normal.
func (t AccountType) DefaultNormalBalance() NormalBalance {
	switch t {
	case Asset, Expense:
		return DebitNormal
	default:
		return CreditNormal
	}
}

// Account is a chart-of-accounts entry as seen by the ledger core.
type Account struct {
	AccountID      string          `json:"accountID"`
	OrganizationID string          `json:"organizationID"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	NormalBalance  NormalBalance   `json:"normalBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"` // Cached, refreshed after each running-balance recompute
	Version        int64           `json:"version"`        // Bumped on every CurrentBalance refresh
	AuditFields
}
