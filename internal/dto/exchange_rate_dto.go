package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the data needed to record an exchange rate.
type CreateExchangeRateRequest struct {
	FromCurrency  string          `json:"fromCurrency" binding:"required,currency"`
	ToCurrency    string          `json:"toCurrency" binding:"required,currency,nefield=FromCurrency"`
	Rate          decimal.Decimal `json:"rate" binding:"required"`
	EffectiveDate time.Time       `json:"effectiveDate" binding:"required"`
}
