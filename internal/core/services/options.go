package services

import (
	"time"

	"github.com/google/uuid"
)

type serviceOptions struct {
	now                 func() time.Time
	newID               func() string
	defaultBaseCurrency string
	maxRetries          uint64
	retryInterval       time.Duration
	rebuildConcurrency  int
}

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		now:                 func() time.Time { return time.Now().UTC() },
		newID:               uuid.NewString,
		defaultBaseCurrency: "USD",
		maxRetries:          5,
		retryInterval:       10 * time.Millisecond,
		rebuildConcurrency:  4,
	}
}

// ServiceOption is a functional option for configuring the ledger services
type ServiceOption func(*serviceOptions)

// WithClock replaces the wall clock used for audit stamps, entry numbering and reversal dates.
func WithClock(now func() time.Time) ServiceOption {
	return func(o *serviceOptions) {
		o.now = now
	}
}

// WithIDGenerator replaces the uuid generator for new records.
func WithIDGenerator(newID func() string) ServiceOption {
	return func(o *serviceOptions) {
		o.newID = newID
	}
}

// WithDefaultBaseCurrency sets the base currency used when a request does not name one.
func WithDefaultBaseCurrency(code string) ServiceOption {
	return func(o *serviceOptions) {
		if code != "" {
			o.defaultBaseCurrency = code
		}
	}
}

// WithEntryNumberRetry bounds the retries after an entry number collision.
func WithEntryNumberRetry(maxRetries uint64, interval time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		o.maxRetries = maxRetries
		if interval > 0 {
			o.retryInterval = interval
		}
	}
}

// WithRebuildConcurrency caps how many accounts a running balance rebuild processes at once.
func WithRebuildConcurrency(n int) ServiceOption {
	return func(o *serviceOptions) {
		if n > 0 {
			o.rebuildConcurrency = n
		}
	}
}

func applyOptions(opts []ServiceOption) serviceOptions {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
