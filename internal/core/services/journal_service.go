package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/statemachine"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

// transactionAmountPlaces is the precision of derived foreign-currency amounts.
const transactionAmountPlaces = 8

// journalService provides journal entry construction and lifecycle operations.
type journalService struct {
	BaseService
	store     portsrepo.Store
	txManager portsrepo.TransactionManager
	locker    portsrepo.AccountLocker
	accounts  portssvc.AccountResolver
	periods   portssvc.PeriodLockGuard
	fx        portssvc.FxRateResolver
	opts      serviceOptions
}

// NewJournalService creates a new journal service.
func NewJournalService(
	repos *portsrepo.RepositoryProvider,
	locker portsrepo.AccountLocker,
	accounts portssvc.AccountResolver,
	periods portssvc.PeriodLockGuard,
	fx portssvc.FxRateResolver,
	options ...ServiceOption,
) portssvc.JournalSvcFacade {
	return &journalService{
		store:     repos.Store,
		txManager: repos.TxManager,
		locker:    locker,
		accounts:  accounts,
		periods:   periods,
		fx:        fx,
		opts:      applyOptions(options),
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) CreateJournalEntry(ctx context.Context, organizationID string, req dto.CreateJournalEntryRequest, actorID string) (_ *domain.JournalEntry, err error) {
	ctx, span := startSpan(ctx, "journalService.CreateJournalEntry", organizationID)
	defer func() { endSpan(span, err) }()

	entry, err := s.buildEntry(ctx, organizationID, req, actorID)
	if err != nil {
		s.LogDebug(ctx, "Journal entry rejected", slog.String("error", err.Error()))
		return nil, err
	}

	if req.PostImmediately {
		if err := s.markPosted(ctx, entry, actorID); err != nil {
			return nil, err
		}
	}

	save := func() error {
		return s.txManager.WithinTransaction(ctx, func(ctx context.Context, store portsrepo.Store) error {
			if err := s.assignEntryNumber(ctx, store, entry); err != nil {
				return err
			}
			if err := store.Journals().InsertJournalEntry(ctx, *entry); err != nil {
				return err
			}
			if entry.Status == domain.Posted {
				return postToLedger(ctx, store, entry, s.opts)
			}
			return nil
		})
	}

	op := save
	if req.PostImmediately {
		op = func() error {
			return s.locker.WithAccountLocks(ctx, organizationID, entry.AccountIDs(), save)
		}
	}

	if err := s.retryOnCollision(ctx, op); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry created",
		slog.String("journal_entry_id", entry.JournalEntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("status", string(entry.Status)))
	return entry, nil
}

func (s *journalService) PostJournalEntry(ctx context.Context, organizationID, journalEntryID, actorID string) (_ *domain.JournalEntry, err error) {
	ctx, span := startSpan(ctx, "journalService.PostJournalEntry", organizationID)
	defer func() { endSpan(span, err) }()

	entry, err := s.store.Journals().FindJournalEntryByID(ctx, organizationID, journalEntryID)
	if err != nil {
		return nil, err
	}
	if !statemachine.NewJournalFSM(entry).CanPost() {
		return nil, apperrors.NewAlreadyPostedError(entry.EntryNumber, string(entry.Status))
	}

	var posted *domain.JournalEntry
	err = s.locker.WithAccountLocks(ctx, organizationID, entry.AccountIDs(), func() error {
		return s.txManager.WithinTransaction(ctx, func(ctx context.Context, store portsrepo.Store) error {
			current, err := store.Journals().FindJournalEntryByID(ctx, organizationID, journalEntryID)
			if err != nil {
				return err
			}
			if !statemachine.NewJournalFSM(current).CanPost() {
				return apperrors.NewAlreadyPostedError(current.EntryNumber, string(current.Status))
			}
			if err := checkPeriodInTx(ctx, store, organizationID, current.EntryDate); err != nil {
				return err
			}
			if err := s.markPosted(ctx, current, actorID); err != nil {
				return err
			}
			if err := store.Journals().UpdateJournalEntryStatus(ctx, *current); err != nil {
				return fmt.Errorf("failed to update journal entry status: %w", err)
			}
			if err := postToLedger(ctx, store, current, s.opts); err != nil {
				return err
			}
			posted = current
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post journal entry", slog.String("journal_entry_id", journalEntryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("journal_entry_id", posted.JournalEntryID),
		slog.String("entry_number", posted.EntryNumber))
	return posted, nil
}

func (s *journalService) ReverseJournalEntry(ctx context.Context, organizationID, journalEntryID, actorID string, description *string) (_ *domain.ReversalResult, err error) {
	ctx, span := startSpan(ctx, "journalService.ReverseJournalEntry", organizationID)
	defer func() { endSpan(span, err) }()

	original, err := s.store.Journals().FindJournalEntryByID(ctx, organizationID, journalEntryID)
	if err != nil {
		return nil, err
	}
	if !statemachine.NewJournalFSM(original).CanReverse() {
		return nil, apperrors.NewNotPostedError(original.EntryNumber, string(original.Status))
	}

	now := s.opts.now()
	today := domain.NormalizeDate(now)
	if err := s.checkPeriod(ctx, organizationID, today); err != nil {
		return nil, err
	}

	reversalDescription := fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, original.Description)
	if description != nil && strings.TrimSpace(*description) != "" {
		reversalDescription = *description
	}

	reversal := &domain.JournalEntry{
		JournalEntryID: s.opts.newID(),
		OrganizationID: organizationID,
		EntryDate:      today,
		Description:    reversalDescription,
		Reference:      original.Reference,
		Currency:       original.Currency,
		BaseCurrency:   original.BaseCurrency,
		ExchangeRate:   original.ExchangeRate,
		Lines:          accounting.SwapSides(original.Lines),
		Status:         domain.Draft,
		SourceDocument: domain.SourceDocument{
			DocumentType: domain.DocumentJournalEntry,
			DocumentID:   original.JournalEntryID,
		},
		IsReversal:  true,
		AuditFields: domain.NewAuditFields(actorID, now),
	}
	accounting.ApplyTotals(reversal)
	if err := s.markPosted(ctx, reversal, actorID); err != nil {
		return nil, err
	}

	var result *domain.ReversalResult
	op := func() error {
		return s.locker.WithAccountLocks(ctx, organizationID, original.AccountIDs(), func() error {
			return s.txManager.WithinTransaction(ctx, func(ctx context.Context, store portsrepo.Store) error {
				current, err := store.Journals().FindJournalEntryByID(ctx, organizationID, journalEntryID)
				if err != nil {
					return err
				}
				machine := statemachine.NewJournalFSM(current)
				if !machine.CanReverse() {
					return apperrors.NewNotPostedError(current.EntryNumber, string(current.Status))
				}

				if err := s.assignEntryNumber(ctx, store, reversal); err != nil {
					return err
				}
				if err := store.Journals().InsertJournalEntry(ctx, *reversal); err != nil {
					return err
				}
				if err := postToLedger(ctx, store, reversal, s.opts); err != nil {
					return err
				}

				if err := machine.Reverse(ctx); err != nil {
					return err
				}
				current.ReversalEntryID = &reversal.JournalEntryID
				current.Touch(actorID, now)
				if err := store.Journals().UpdateJournalEntryStatus(ctx, *current); err != nil {
					return fmt.Errorf("failed to mark %s reversed: %w", current.EntryNumber, err)
				}

				result = &domain.ReversalResult{Original: *current, Reversal: *reversal}
				return nil
			})
		})
	}

	if err := s.retryOnCollision(ctx, op); err != nil {
		s.LogError(ctx, err, "Failed to reverse journal entry", slog.String("journal_entry_id", journalEntryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("original_entry_number", result.Original.EntryNumber),
		slog.String("reversal_entry_number", result.Reversal.EntryNumber))
	return result, nil
}

func (s *journalService) GetJournalEntry(ctx context.Context, organizationID, journalEntryID string) (*domain.JournalEntry, error) {
	entry, err := s.store.Journals().FindJournalEntryByID(ctx, organizationID, journalEntryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("journal_entry_id", journalEntryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *journalService) ListJournalEntries(ctx context.Context, organizationID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	var status *domain.EntryStatus
	if params.Status != "" {
		st := domain.EntryStatus(strings.ToUpper(params.Status))
		status = &st
	}

	entries, next, err := s.store.Journals().ListJournalEntries(ctx, organizationID, status, pagination.ClampLimit(params.Limit), params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return &dto.ListJournalEntriesResponse{Entries: entries, NextToken: next}, nil
}

func (s *journalService) FindBySourceDocument(ctx context.Context, organizationID, documentType, documentID string) ([]domain.JournalEntry, error) {
	if documentType == "" {
		return nil, fmt.Errorf("%w: document type is required", apperrors.ErrValidation)
	}
	entries, err := s.store.Journals().FindJournalEntriesBySourceDocument(ctx, organizationID, documentType, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entries by source document: %w", err)
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return entries, nil
}

// buildEntry validates a request and returns the unnumbered Draft it describes.
// Checks run in order: period lock, account existence, line shape, balance.
func (s *journalService) buildEntry(ctx context.Context, organizationID string, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	entryDate := domain.NormalizeDate(req.EntryDate)
	if err := s.checkPeriod(ctx, organizationID, entryDate); err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(req.Lines))
	seen := make(map[string]bool, len(req.Lines))
	for _, line := range req.Lines {
		if !seen[line.AccountID] {
			seen[line.AccountID] = true
			accountIDs = append(accountIDs, line.AccountID)
		}
	}
	if _, err := s.accounts.ResolveAccounts(ctx, organizationID, accountIDs); err != nil {
		return nil, err
	}

	lines := make([]domain.JournalLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = domain.JournalLine{
			LineNumber:        i + 1,
			AccountID:         l.AccountID,
			Description:       l.Description,
			DebitAmount:       l.DebitAmount,
			CreditAmount:      l.CreditAmount,
			TransactionDebit:  decimal.Zero,
			TransactionCredit: decimal.Zero,
		}
		if l.TransactionCurrency != nil && *l.TransactionCurrency != "" {
			currency := strings.ToUpper(*l.TransactionCurrency)
			lines[i].TransactionCurrency = &currency
			if l.TransactionDebit != nil {
				lines[i].TransactionDebit = *l.TransactionDebit
			}
			if l.TransactionCredit != nil {
				lines[i].TransactionCredit = *l.TransactionCredit
			}
		}
	}

	if err := accounting.ValidateLines(lines); err != nil {
		return nil, err
	}
	for _, line := range lines {
		if line.TransactionDebit.IsNegative() || line.TransactionCredit.IsNegative() {
			return nil, apperrors.NewMalformedLineError(line.LineNumber, "transaction amounts cannot be negative")
		}
	}
	if err := accounting.ValidateBalance(lines); err != nil {
		return nil, err
	}

	baseCurrency := strings.ToUpper(req.BaseCurrency)
	if baseCurrency == "" {
		baseCurrency = s.opts.defaultBaseCurrency
	}
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = baseCurrency
	}

	rate := decimal.NewFromInt(1)
	if currency != baseCurrency {
		if req.ExchangeRate != nil {
			if !req.ExchangeRate.IsPositive() {
				return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
			}
			rate = *req.ExchangeRate
		} else {
			resolved, err := s.fx.GetFxRate(ctx, organizationID, currency, baseCurrency, entryDate)
			if err != nil {
				return nil, err
			}
			rate = resolved
		}
		deriveTransactionAmounts(lines, currency, rate)
	}

	sourceDocument := domain.SourceDocument{DocumentType: domain.DocumentManual}
	if req.SourceDocument != nil {
		sourceDocument = domain.SourceDocument{
			DocumentType: req.SourceDocument.DocumentType,
			DocumentID:   req.SourceDocument.DocumentID,
		}
	}

	entry := &domain.JournalEntry{
		JournalEntryID: s.opts.newID(),
		OrganizationID: organizationID,
		EntryDate:      entryDate,
		Description:    req.Description,
		Reference:      req.Reference,
		Currency:       currency,
		BaseCurrency:   baseCurrency,
		ExchangeRate:   rate,
		Lines:          lines,
		Status:         domain.Draft,
		SourceDocument: sourceDocument,
		AuditFields:    domain.NewAuditFields(actorID, s.opts.now()),
	}
	accounting.ApplyTotals(entry)
	return entry, nil
}

// deriveTransactionAmounts fills the foreign-currency side of lines that did not state one.
// Base amounts are amount(foreign) * rate, so the foreign amount is base / rate.
func deriveTransactionAmounts(lines []domain.JournalLine, currency string, rate decimal.Decimal) {
	for i := range lines {
		if lines[i].TransactionCurrency != nil {
			continue
		}
		c := currency
		lines[i].TransactionCurrency = &c
		lines[i].TransactionDebit = lines[i].DebitAmount.DivRound(rate, transactionAmountPlaces)
		lines[i].TransactionCredit = lines[i].CreditAmount.DivRound(rate, transactionAmountPlaces)
	}
}

func (s *journalService) markPosted(ctx context.Context, entry *domain.JournalEntry, actorID string) error {
	if err := statemachine.NewJournalFSM(entry).Post(ctx); err != nil {
		return apperrors.NewAlreadyPostedError(entry.EntryNumber, string(entry.Status))
	}
	now := s.opts.now()
	entry.PostedBy = &actorID
	entry.PostedAt = &now
	entry.Touch(actorID, now)
	return nil
}

func (s *journalService) assignEntryNumber(ctx context.Context, store portsrepo.Store, entry *domain.JournalEntry) error {
	year := s.opts.now().Year()
	last, err := store.Journals().LastEntryNumber(ctx, entry.OrganizationID, domain.EntryNumberPrefix(year))
	if err != nil {
		return fmt.Errorf("failed to read last entry number: %w", err)
	}
	number, err := domain.NextEntryNumber(year, last)
	if err != nil {
		return fmt.Errorf("failed to generate entry number: %w", err)
	}
	entry.EntryNumber = number
	return nil
}

// retryOnCollision reruns op while it fails with an entry number collision.
func (s *journalService) retryOnCollision(ctx context.Context, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.opts.retryInterval
	retryPolicy := backoff.WithContext(backoff.WithMaxRetries(policy, s.opts.maxRetries), ctx)

	return backoff.RetryNotify(func() error {
		err := op()
		if err == nil || errors.Is(err, apperrors.ErrEntryNumberCollision) {
			return err
		}
		return backoff.Permanent(err)
	}, retryPolicy, func(err error, wait time.Duration) {
		s.LogWarn(ctx, "Entry number collision, retrying",
			slog.String("error", err.Error()),
			slog.Duration("wait", wait))
	})
}

func (s *journalService) checkPeriod(ctx context.Context, organizationID string, date time.Time) error {
	locked, err := s.periods.IsPeriodLocked(ctx, organizationID, date)
	if err != nil {
		return err
	}
	if locked {
		return apperrors.NewPeriodLockedError(date)
	}
	return nil
}

// checkPeriodInTx reads period locks through the transaction's store.
func checkPeriodInTx(ctx context.Context, store portsrepo.Store, organizationID string, date time.Time) error {
	lock, err := store.PeriodLocks().FindBlockingPeriodLock(ctx, organizationID, domain.NormalizeDate(date))
	if err != nil {
		return fmt.Errorf("failed to check period lock: %w", err)
	}
	if lock != nil {
		return apperrors.NewPeriodLockedError(date)
	}
	return nil
}
