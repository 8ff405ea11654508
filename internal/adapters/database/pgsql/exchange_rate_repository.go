package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type exchangeRateRepository struct {
	q querier
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*exchangeRateRepository)(nil)

const exchangeRateColumns = `
	organization_id, exchange_rate_id, from_currency, to_currency, rate, effective_date,
	created_at, created_by, last_updated_at, last_updated_by`

func scanExchangeRate(row pgx.Row) (domain.ExchangeRate, error) {
	var r domain.ExchangeRate
	err := row.Scan(
		&r.OrganizationID,
		&r.ExchangeRateID,
		&r.FromCurrency,
		&r.ToCurrency,
		&r.Rate,
		&r.EffectiveDate,
		&r.CreatedAt,
		&r.CreatedBy,
		&r.LastUpdatedAt,
		&r.LastUpdatedBy,
	)
	return r, err
}

func (r *exchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (` + exchangeRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.q.Exec(ctx, query,
		rate.OrganizationID,
		rate.ExchangeRateID,
		rate.FromCurrency,
		rate.ToCurrency,
		rate.Rate,
		rate.EffectiveDate,
		rate.CreatedAt,
		rate.CreatedBy,
		rate.LastUpdatedAt,
		rate.LastUpdatedBy,
	)
	if err != nil {
		return internalError("failed to save exchange rate "+rate.FromCurrency+"->"+rate.ToCurrency, err)
	}
	return nil
}

// FindEffectiveRate breaks ties on the same effective date in favour of the most recently recorded rate.
func (r *exchangeRateRepository) FindEffectiveRate(ctx context.Context, organizationID, fromCurrency, toCurrency string, onDate time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE organization_id = $1 AND from_currency = $2 AND to_currency = $3 AND effective_date <= $4
		ORDER BY effective_date DESC, created_at DESC
		LIMIT 1;
	`
	day := domain.NormalizeDate(onDate)
	rate, err := scanExchangeRate(r.q.QueryRow(ctx, query, organizationID, fromCurrency, toCurrency, day))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: exchange rate %s->%s on %s", apperrors.ErrNotFound, fromCurrency, toCurrency, day.Format(time.DateOnly))
		}
		return nil, internalError("failed to find exchange rate "+fromCurrency+"->"+toCurrency, err)
	}
	return &rate, nil
}

func (r *exchangeRateRepository) ListExchangeRates(ctx context.Context, organizationID string) ([]domain.ExchangeRate, error) {
	query := `SELECT ` + exchangeRateColumns + ` FROM exchange_rates WHERE organization_id = $1 ORDER BY effective_date DESC, created_at;`
	rows, err := r.q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, internalError("failed to list exchange rates", err)
	}
	defer rows.Close()

	rates := []domain.ExchangeRate{}
	for rows.Next() {
		rate, err := scanExchangeRate(rows)
		if err != nil {
			return nil, internalError("failed to scan exchange rate row", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, internalError("error iterating exchange rate rows", err)
	}
	return rates, nil
}
