package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// RevaluationSvcFacade books unrealized FX gains and losses on monetary accounts.
type RevaluationSvcFacade interface {
	RunRevaluation(ctx context.Context, organizationID string, req dto.RunRevaluationRequest, actorID string) (*domain.RevaluationResult, error)
}
