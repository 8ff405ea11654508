package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// LedgerSvcFacade answers balance queries over posted ledger rows.
type LedgerSvcFacade interface {
	GetAccountBalance(ctx context.Context, organizationID, accountID string, asOf time.Time) (*domain.AccountBalance, error)
	GetTrialBalance(ctx context.Context, organizationID string, asOf time.Time) (*domain.TrialBalance, error)
	ListAccountLedger(ctx context.Context, organizationID, accountID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error)

	// RebuildRunningBalances replays every account's history and refreshes cached balances.
	RebuildRunningBalances(ctx context.Context, organizationID string) error
}
