package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type exchangeRateRepository struct {
	*store
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*exchangeRateRepository)(nil)

func (r *exchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	return r.write(func(st *state) error {
		st.rates = append(st.rates, rate)
		return nil
	})
}

func (r *exchangeRateRepository) FindEffectiveRate(ctx context.Context, organizationID, fromCurrency, toCurrency string, onDate time.Time) (*domain.ExchangeRate, error) {
	var found *domain.ExchangeRate
	day := domain.NormalizeDate(onDate)
	err := r.read(func(st *state) error {
		for _, rate := range st.rates {
			if rate.OrganizationID != organizationID || rate.FromCurrency != fromCurrency || rate.ToCurrency != toCurrency {
				continue
			}
			if domain.NormalizeDate(rate.EffectiveDate).After(day) {
				continue
			}
			// Later inserts win ties on the same effective date.
			if found == nil || !rate.EffectiveDate.Before(found.EffectiveDate) {
				match := rate
				found = &match
			}
		}
		if found == nil {
			return fmt.Errorf("%w: exchange rate %s->%s on %s", apperrors.ErrNotFound, fromCurrency, toCurrency, day.Format(time.DateOnly))
		}
		return nil
	})
	return found, err
}

func (r *exchangeRateRepository) ListExchangeRates(ctx context.Context, organizationID string) ([]domain.ExchangeRate, error) {
	var rates []domain.ExchangeRate
	err := r.read(func(st *state) error {
		for _, rate := range st.rates {
			if rate.OrganizationID == organizationID {
				rates = append(rates, rate)
			}
		}
		return nil
	})
	sort.SliceStable(rates, func(i, j int) bool { return rates[i].EffectiveDate.After(rates[j].EffectiveDate) })
	return rates, err
}
