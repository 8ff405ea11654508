package dto

import "time"

// LockPeriodRequest closes the inclusive date range for posting.
type LockPeriodRequest struct {
	PeriodStart time.Time `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time `json:"periodEnd" binding:"required"`
}
