package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// exchangeRateService provides business logic for exchange rates.
type exchangeRateService struct {
	BaseService
	rateRepo portsrepo.ExchangeRateRepositoryFacade
	opts     serviceOptions
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, options ...ServiceOption) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		rateRepo: rateRepo,
		opts:     applyOptions(options),
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// CreateExchangeRate handles the creation of a new exchange rate.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, organizationID string, req dto.CreateExchangeRateRequest, actorID string) (*domain.ExchangeRate, error) {
	from := strings.ToUpper(req.FromCurrency)
	to := strings.ToUpper(req.ToCurrency)

	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if from == to {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	rate := domain.ExchangeRate{
		ExchangeRateID: s.opts.newID(),
		OrganizationID: organizationID,
		FromCurrency:   from,
		ToCurrency:     to,
		Rate:           req.Rate,
		EffectiveDate:  domain.NormalizeDate(req.EffectiveDate),
		AuditFields:    domain.NewAuditFields(actorID, s.opts.now()),
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate",
			slog.String("from", from), slog.String("to", to))
		return nil, fmt.Errorf("failed to create exchange rate in service: %w", err)
	}

	return &rate, nil
}

func (s *exchangeRateService) ListExchangeRates(ctx context.Context, organizationID string) ([]domain.ExchangeRate, error) {
	rates, err := s.rateRepo.ListExchangeRates(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	if rates == nil {
		return []domain.ExchangeRate{}, nil
	}
	return rates, nil
}

// GetFxRate looks up the direct pair first, then the inverse of the reverse pair.
// An unknown pair converts at 1 and is logged.
func (s *exchangeRateService) GetFxRate(ctx context.Context, organizationID, fromCurrency, toCurrency string, onDate time.Time) (decimal.Decimal, error) {
	from := strings.ToUpper(fromCurrency)
	to := strings.ToUpper(toCurrency)
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	direct, err := s.rateRepo.FindEffectiveRate(ctx, organizationID, from, to, onDate)
	switch {
	case err == nil:
		return direct.Rate, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return decimal.Zero, fmt.Errorf("failed to look up exchange rate %s->%s: %w", from, to, err)
	}

	inverse, err := s.rateRepo.FindEffectiveRate(ctx, organizationID, to, from, onDate)
	switch {
	case err == nil:
		return decimal.NewFromInt(1).Div(inverse.Rate), nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return decimal.Zero, fmt.Errorf("failed to look up exchange rate %s->%s: %w", to, from, err)
	}

	s.LogWarn(ctx, "No exchange rate found, converting at 1",
		slog.String("from", from),
		slog.String("to", to),
		slog.String("on_date", onDate.Format(time.DateOnly)))
	return decimal.NewFromInt(1), nil
}
