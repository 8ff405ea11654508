package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// AccountSvcFacade exposes chart-of-accounts maintenance alongside the resolver the engine uses.
type AccountSvcFacade interface {
	AccountResolver
	CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)
	GetAccount(ctx context.Context, organizationID, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, organizationID string) ([]domain.Account, error)
}
