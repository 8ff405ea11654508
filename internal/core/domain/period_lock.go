package domain

import "time"

// PeriodLockStatus is the state of an accounting period.
type PeriodLockStatus string

const (
	PeriodOpen   PeriodLockStatus = "open"
	PeriodLocked PeriodLockStatus = "locked"
)

// PeriodLock marks a closed date range in which no posting is allowed while locked.
type PeriodLock struct {
	PeriodLockID   string           `json:"periodLockID"`
	OrganizationID string           `json:"organizationID"`
	PeriodStart    time.Time        `json:"periodStart"`
	PeriodEnd      time.Time        `json:"periodEnd"`
	Status         PeriodLockStatus `json:"status"`
	AuditFields
}

// Covers reports whether date falls within the period, both bounds inclusive.
func (p PeriodLock) Covers(date time.Time) bool {
	d := NormalizeDate(date)
	return !d.Before(NormalizeDate(p.PeriodStart)) && !d.After(NormalizeDate(p.PeriodEnd))
}

// Blocks reports whether the period forbids posting on date.
func (p PeriodLock) Blocks(date time.Time) bool {
	return p.Status == PeriodLocked && p.Covers(date)
}
