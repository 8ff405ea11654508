package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account in a trial balance report.
type TrialBalanceRow struct {
	AccountID     string          `json:"accountID"`
	AccountCode   string          `json:"accountCode"`
	AccountName   string          `json:"accountName"`
	AccountType   AccountType     `json:"accountType"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	TotalDebit    decimal.Decimal `json:"totalDebit"`
	TotalCredit   decimal.Decimal `json:"totalCredit"`
	Balance       decimal.Decimal `json:"balance"` // In the account's normal-balance sign convention
}

// TrialBalance is the ordered list of account balances at a date together with its control totals.
type TrialBalance struct {
	OrganizationID string            `json:"organizationID"`
	AsOfDate       time.Time         `json:"asOfDate"`
	Rows           []TrialBalanceRow `json:"rows"`
	TotalDebit     decimal.Decimal   `json:"totalDebit"`
	TotalCredit    decimal.Decimal   `json:"totalCredit"`
	NetDifference  decimal.Decimal   `json:"netDifference"` // TotalDebit - TotalCredit
	IsBalanced     bool              `json:"isBalanced"`
}
