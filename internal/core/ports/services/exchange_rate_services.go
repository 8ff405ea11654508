package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// ExchangeRateSvcFacade exposes rate maintenance alongside the resolver the engine uses.
type ExchangeRateSvcFacade interface {
	FxRateResolver
	CreateExchangeRate(ctx context.Context, organizationID string, req dto.CreateExchangeRateRequest, actorID string) (*domain.ExchangeRate, error)
	ListExchangeRates(ctx context.Context, organizationID string) ([]domain.ExchangeRate, error)
}
