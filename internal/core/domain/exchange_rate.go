package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate converts one unit of FromCurrency into Rate units of ToCurrency from EffectiveDate onwards.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"`
	OrganizationID string          `json:"organizationID"`
	FromCurrency   string          `json:"fromCurrency"`
	ToCurrency     string          `json:"toCurrency"`
	Rate           decimal.Decimal `json:"rate"`
	EffectiveDate  time.Time       `json:"effectiveDate"`
	AuditFields
}
