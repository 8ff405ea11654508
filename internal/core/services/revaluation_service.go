package services

import (
	"context"
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
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// revaluationService books unrealized FX gains and losses through the journal engine.
type revaluationService struct {
	BaseService
	ledger   portsrepo.LedgerReader
	journals portssvc.JournalWriterSvc
	accounts portssvc.AccountResolver
	periods  portssvc.PeriodLockGuard
	fx       portssvc.FxRateResolver
	opts     serviceOptions
}

// NewRevaluationService creates a new revaluation service.
func NewRevaluationService(
	ledger portsrepo.LedgerReader,
	journals portssvc.JournalWriterSvc,
	accounts portssvc.AccountResolver,
	periods portssvc.PeriodLockGuard,
	fx portssvc.FxRateResolver,
	options ...ServiceOption,
) portssvc.RevaluationSvcFacade {
	return &revaluationService{
		ledger:   ledger,
		journals: journals,
		accounts: accounts,
		periods:  periods,
		fx:       fx,
		opts:     applyOptions(options),
	}
}

var _ portssvc.RevaluationSvcFacade = (*revaluationService)(nil)

// RunRevaluation creates one posted adjustment per (category, account, currency) whose revalued
// base amount differs materially from what is booked, optionally followed by a next-day reversal.
// Entries created before a failure stay posted.
func (s *revaluationService) RunRevaluation(ctx context.Context, organizationID string, req dto.RunRevaluationRequest, actorID string) (_ *domain.RevaluationResult, err error) {
	ctx, span := startSpan(ctx, "revaluationService.RunRevaluation", organizationID)
	defer func() { endSpan(span, err) }()

	asOf := domain.NormalizeDate(req.AsOfDate)
	baseCurrency := strings.ToUpper(req.BaseCurrency)
	if baseCurrency == "" {
		baseCurrency = s.opts.defaultBaseCurrency
	}

	scope, err := parseScope(req.Scope)
	if err != nil {
		return nil, err
	}
	if err := s.checkPreconditions(ctx, organizationID, asOf, scope, req); err != nil {
		return nil, err
	}

	adjustments, err := s.computeAdjustments(ctx, organizationID, asOf, baseCurrency, scope, req.Accounts)
	if err != nil {
		return nil, err
	}

	result := &domain.RevaluationResult{
		RunID:    s.opts.newID(),
		AsOfDate: asOf,
		Entries:  []domain.RevaluationEntryRef{},
	}

	for _, adj := range adjustments {
		entry, err := s.journals.CreateJournalEntry(ctx, organizationID, adjustmentRequest(adj, req.Accounts, asOf, baseCurrency, result.RunID), actorID)
		if err != nil {
			s.LogError(ctx, err, "Revaluation adjustment failed",
				slog.String("run_id", result.RunID),
				slog.Int("entries_created", len(result.Entries)))
			return nil, fmt.Errorf("revaluation run %s stopped after %d entries: %w", result.RunID, len(result.Entries), err)
		}
		result.Entries = append(result.Entries, entryRef(entry))

		if !req.CreateReversal {
			continue
		}
		reversal, err := s.journals.CreateJournalEntry(ctx, organizationID, reversalRequest(entry, asOf.AddDate(0, 0, 1)), actorID)
		if err != nil {
			s.LogError(ctx, err, "Revaluation reversal failed",
				slog.String("run_id", result.RunID),
				slog.String("adjustment_entry_number", entry.EntryNumber))
			return nil, fmt.Errorf("revaluation run %s stopped after %d entries: %w", result.RunID, len(result.Entries), err)
		}
		result.Entries = append(result.Entries, entryRef(reversal))
	}

	result.Count = len(result.Entries)
	s.LogInfo(ctx, "Revaluation completed",
		slog.String("run_id", result.RunID),
		slog.String("as_of", asOf.Format(time.DateOnly)),
		slog.Int("entries", result.Count))
	return result, nil
}

func parseScope(scope []string) ([]domain.RevaluationCategory, error) {
	categories := make([]domain.RevaluationCategory, 0, len(scope))
	seen := make(map[domain.RevaluationCategory]bool, len(scope))
	for _, raw := range scope {
		c := domain.RevaluationCategory(strings.ToUpper(raw))
		switch c {
		case domain.CategoryReceivable, domain.CategoryPayable, domain.CategoryCash:
		default:
			return nil, fmt.Errorf("%w: unknown revaluation scope %q", apperrors.ErrValidation, raw)
		}
		if !seen[c] {
			seen[c] = true
			categories = append(categories, c)
		}
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: revaluation scope is empty", apperrors.ErrValidation)
	}
	return categories, nil
}

// checkPreconditions fails the run before any write when accounts are missing or a target date is locked.
func (s *revaluationService) checkPreconditions(ctx context.Context, organizationID string, asOf time.Time, scope []domain.RevaluationCategory, req dto.RunRevaluationRequest) error {
	var missing []string
	if req.Accounts.UnrealizedGain == "" {
		missing = append(missing, "unrealized gain account")
	}
	if req.Accounts.UnrealizedLoss == "" {
		missing = append(missing, "unrealized loss account")
	}
	for _, c := range scope {
		if len(req.Accounts.AccountsFor(c)) == 0 {
			missing = append(missing, string(c)+" accounts")
		}
	}
	if len(missing) > 0 {
		return apperrors.NewMissingFxAccountsError(strings.Join(missing, ", "))
	}

	ids := []string{req.Accounts.UnrealizedGain, req.Accounts.UnrealizedLoss}
	for _, c := range scope {
		ids = append(ids, req.Accounts.AccountsFor(c)...)
	}
	if _, err := s.accounts.ResolveAccounts(ctx, organizationID, ids); err != nil {
		return err
	}

	dates := []time.Time{asOf}
	if req.CreateReversal {
		dates = append(dates, asOf.AddDate(0, 0, 1))
	}
	for _, d := range dates {
		locked, err := s.periods.IsPeriodLocked(ctx, organizationID, d)
		if err != nil {
			return err
		}
		if locked {
			return apperrors.NewPeriodLockedError(d)
		}
	}
	return nil
}

func (s *revaluationService) computeAdjustments(ctx context.Context, organizationID string, asOf time.Time, baseCurrency string, scope []domain.RevaluationCategory, accounts domain.RevaluationAccounts) ([]domain.RevaluationAdjustment, error) {
	var adjustments []domain.RevaluationAdjustment
	rates := make(map[string]decimal.Decimal)

	for _, category := range scope {
		exposures, err := s.ledger.SumByTransactionCurrency(ctx, organizationID, accounts.AccountsFor(category), asOf)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate %s exposures: %w", category, err)
		}

		for _, exp := range exposures {
			if exp.Currency == baseCurrency {
				continue
			}

			rate, ok := rates[exp.Currency]
			if !ok {
				rate, err = s.fx.GetFxRate(ctx, organizationID, exp.Currency, baseCurrency, asOf)
				if err != nil {
					return nil, err
				}
				rates[exp.Currency] = rate
			}

			foreignNet := exp.ForeignDebit.Sub(exp.ForeignCredit)
			booked := exp.BaseDebit.Sub(exp.BaseCredit)
			if !category.IsAssetLike() {
				foreignNet = foreignNet.Neg()
				booked = booked.Neg()
			}

			revalued := foreignNet.Mul(rate)
			delta := revalued.Sub(booked)
			// Rounding to cents leaves at most half a cent behind, so a residual at the
			// threshold is what a previous run already booked.
			if delta.Abs().LessThanOrEqual(accounting.MaterialityThreshold) {
				continue
			}

			adjustments = append(adjustments, domain.RevaluationAdjustment{
				Category:     category,
				AccountID:    exp.AccountID,
				Currency:     exp.Currency,
				ForeignNet:   foreignNet,
				BookedBase:   booked,
				Rate:         rate,
				RevaluedBase: revalued,
				Delta:        delta.Round(accounting.AmountPlaces),
			})
		}
	}
	return adjustments, nil
}

// adjustmentRequest lays out the two lines of an adjustment. Asset-like categories gain on a positive
// delta; payables lose on one. The monetary line is tagged with the foreign currency and zero foreign
// amounts so the next run sees the adjusted booked value against an unchanged foreign balance.
func adjustmentRequest(adj domain.RevaluationAdjustment, accounts domain.RevaluationAccounts, asOf time.Time, baseCurrency, runID string) dto.CreateJournalEntryRequest {
	amount := adj.Delta.Abs()
	currency := adj.Currency
	zero := decimal.Zero

	monetary := dto.JournalLineRequest{
		AccountID:           adj.AccountID,
		Description:         fmt.Sprintf("Unrealized FX revaluation of %s %s", adj.Category, adj.Currency),
		TransactionCurrency: &currency,
		TransactionDebit:    &zero,
		TransactionCredit:   &zero,
	}
	// Debiting the monetary account is always the gain side.
	monetaryDebit := adj.Category.IsAssetLike() == adj.Delta.IsPositive()

	var lines []dto.JournalLineRequest
	if monetaryDebit {
		monetary.DebitAmount = amount
		gain := dto.JournalLineRequest{AccountID: accounts.UnrealizedGain, Description: "Unrealized FX gain", CreditAmount: amount}
		lines = []dto.JournalLineRequest{monetary, gain}
	} else {
		monetary.CreditAmount = amount
		loss := dto.JournalLineRequest{AccountID: accounts.UnrealizedLoss, Description: "Unrealized FX loss", DebitAmount: amount}
		lines = []dto.JournalLineRequest{loss, monetary}
	}

	return dto.CreateJournalEntryRequest{
		EntryDate:    asOf,
		Description:  fmt.Sprintf("FX revaluation %s %s as of %s at %s", adj.Category, adj.Currency, asOf.Format(time.DateOnly), adj.Rate.String()),
		Reference:    runID,
		Currency:     baseCurrency,
		BaseCurrency: baseCurrency,
		Lines:        lines,
		SourceDocument: &dto.SourceDocumentRequest{
			DocumentType: domain.DocumentFXRevaluation,
			DocumentID:   runID,
		},
		PostImmediately: true,
	}
}

func reversalRequest(adjustment *domain.JournalEntry, date time.Time) dto.CreateJournalEntryRequest {
	swapped := accounting.SwapSides(adjustment.Lines)
	lines := make([]dto.JournalLineRequest, len(swapped))
	for i, l := range swapped {
		lines[i] = dto.JournalLineRequest{
			AccountID:    l.AccountID,
			Description:  l.Description,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
		}
		if l.TransactionCurrency != nil {
			debit, credit := l.TransactionDebit, l.TransactionCredit
			lines[i].TransactionCurrency = l.TransactionCurrency
			lines[i].TransactionDebit = &debit
			lines[i].TransactionCredit = &credit
		}
	}

	return dto.CreateJournalEntryRequest{
		EntryDate:    date,
		Description:  "Reversal of FX revaluation " + adjustment.EntryNumber,
		Reference:    adjustment.Reference,
		Currency:     adjustment.BaseCurrency,
		BaseCurrency: adjustment.BaseCurrency,
		Lines:        lines,
		SourceDocument: &dto.SourceDocumentRequest{
			DocumentType: domain.DocumentFXRevaluationReversal,
			DocumentID:   adjustment.JournalEntryID,
		},
		PostImmediately: true,
	}
}

func entryRef(entry *domain.JournalEntry) domain.RevaluationEntryRef {
	return domain.RevaluationEntryRef{
		JournalEntryID: entry.JournalEntryID,
		EntryNumber:    entry.EntryNumber,
		DocumentType:   entry.SourceDocument.DocumentType,
	}
}
