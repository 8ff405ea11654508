package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// RunRevaluationRequest asks for unrealized FX gain/loss adjustments at AsOfDate.
type RunRevaluationRequest struct {
	AsOfDate       time.Time                  `json:"asOfDate" binding:"required"`
	Scope          []string                   `json:"scope" binding:"required,min=1,dive,oneof=AR AP CASH"`
	Accounts       domain.RevaluationAccounts `json:"accounts"`
	BaseCurrency   string                     `json:"baseCurrency" binding:"omitempty,currency"`
	CreateReversal bool                       `json:"createReversal"`
}
