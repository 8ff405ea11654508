package apperrors

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Ledger error kinds. Match them with errors.Is; the concrete *LedgerError carries the user-facing message.
var (
	ErrPeriodLocked         = errors.New("period locked")
	ErrUnknownAccount       = errors.New("unknown account")
	ErrMalformedLine        = errors.New("malformed journal line")
	ErrUnbalancedEntry      = errors.New("unbalanced journal entry")
	ErrAlreadyPosted        = errors.New("journal entry already posted")
	ErrNotPosted            = errors.New("journal entry not posted")
	ErrMissingFxAccounts    = errors.New("missing fx revaluation accounts")
	ErrEntryNumberCollision = errors.New("entry number collision")
	ErrStaleRead            = errors.New("stale read")
)

// LedgerError is a domain rejection with a specific message the caller is expected to act on.
type LedgerError struct {
	Kind    error
	Message string
}

func (e *LedgerError) Error() string {
	return e.Message
}

func (e *LedgerError) Unwrap() error {
	return e.Kind
}

func newLedgerError(kind error, format string, args ...any) *LedgerError {
	return &LedgerError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewPeriodLockedError reports that the given date falls inside a locked accounting period.
func NewPeriodLockedError(date time.Time) *LedgerError {
	return newLedgerError(ErrPeriodLocked, "Cannot post to a locked period. Entry date: %s", date.Format(time.DateOnly))
}

// NewUnknownAccountError reports a line referencing an account the registry cannot resolve.
func NewUnknownAccountError(accountID string) *LedgerError {
	return newLedgerError(ErrUnknownAccount, "Account not found: %s", accountID)
}

// NewMalformedLineError reports a line that does not carry exactly one non-negative side.
// lineNumber is 1-based; zero means the problem concerns the entry as a whole.
func NewMalformedLineError(lineNumber int, reason string) *LedgerError {
	if lineNumber <= 0 {
		return newLedgerError(ErrMalformedLine, "Invalid journal entry: %s", reason)
	}
	return newLedgerError(ErrMalformedLine, "Invalid journal line %d: %s", lineNumber, reason)
}

// NewUnbalancedEntryError reports totals that differ by more than the balance tolerance.
func NewUnbalancedEntryError(totalDebit, totalCredit decimal.Decimal) *LedgerError {
	return newLedgerError(ErrUnbalancedEntry, "Journal entry must be balanced. Debit: %s, Credit: %s",
		totalDebit.StringFixed(2), totalCredit.StringFixed(2))
}

// NewAlreadyPostedError reports a post attempt on an entry that is no longer a draft.
func NewAlreadyPostedError(entryNumber, status string) *LedgerError {
	return newLedgerError(ErrAlreadyPosted, "Only draft entries can be posted. Entry %s is %s", entryNumber, status)
}

// NewNotPostedError reports a reverse attempt on an entry that is not posted.
func NewNotPostedError(entryNumber, status string) *LedgerError {
	return newLedgerError(ErrNotPosted, "Only posted entries can be reversed. Entry %s is %s", entryNumber, status)
}

// NewMissingFxAccountsError reports incomplete revaluation account configuration.
func NewMissingFxAccountsError(missing string) *LedgerError {
	return newLedgerError(ErrMissingFxAccounts, "FX revaluation accounts not configured: %s", missing)
}

// NewEntryNumberCollisionError reports that another writer already holds the entry number.
func NewEntryNumberCollisionError(entryNumber string) *LedgerError {
	return newLedgerError(ErrEntryNumberCollision, "Entry number %s is already in use", entryNumber)
}

// NewStaleReadError reports that an account changed while its running balances were being recomputed.
func NewStaleReadError(accountID string) *LedgerError {
	return newLedgerError(ErrStaleRead, "Account %s was modified concurrently, please retry", accountID)
}

// AppError wraps an infrastructure failure with an HTTP-ish status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
