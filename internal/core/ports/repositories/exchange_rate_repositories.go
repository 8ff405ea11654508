package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ExchangeRateRepositoryFacade defines storage for exchange rates
type ExchangeRateRepositoryFacade interface {
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// FindEffectiveRate returns the from→to rate with the latest effective date on or before onDate.
	// It returns apperrors.ErrNotFound when no such rate exists.
	FindEffectiveRate(ctx context.Context, organizationID, fromCurrency, toCurrency string, onDate time.Time) (*domain.ExchangeRate, error)

	ListExchangeRates(ctx context.Context, organizationID string) ([]domain.ExchangeRate, error)
}
