package repositories

import "context"

// AccountLocker provides per-account exclusive sections.
// WithAccountLocks holds every listed account's lock while fn runs; keys are acquired in sorted order.
type AccountLocker interface {
	WithAccountLocks(ctx context.Context, organizationID string, accountIDs []string, fn func() error) error
}
