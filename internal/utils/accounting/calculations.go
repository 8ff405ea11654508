package accounting

import (
	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	// BalanceTolerance is the largest debit/credit difference still considered balanced.
	BalanceTolerance = decimal.RequireFromString("0.01")

	// MaterialityThreshold is the smallest revaluation delta, in base currency, worth booking.
	MaterialityThreshold = decimal.RequireFromString("0.005")
)

// AmountPlaces is the number of decimal places booked amounts are rounded to.
const AmountPlaces = 2

// SignedAmount returns the contribution of a debit/credit pair to an account's balance.
// Debit-normal accounts grow with debits, credit-normal accounts with credits.
func SignedAmount(normal domain.NormalBalance, debit, credit decimal.Decimal) decimal.Decimal {
	if normal == domain.CreditNormal {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

// ComputeTotals sums the debit and credit sides of lines.
func ComputeTotals(lines []domain.JournalLine) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit, totalCredit = decimal.Zero, decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.DebitAmount)
		totalCredit = totalCredit.Add(line.CreditAmount)
	}
	return totalDebit, totalCredit
}

// ApplyTotals recomputes the entry's derived totals from its lines.
func ApplyTotals(entry *domain.JournalEntry) {
	entry.TotalDebit, entry.TotalCredit = ComputeTotals(entry.Lines)
}

// IsBalanced reports whether |debit - credit| is within BalanceTolerance.
func IsBalanced(debit, credit decimal.Decimal) bool {
	return debit.Sub(credit).Abs().LessThanOrEqual(BalanceTolerance)
}

// ValidateLines checks that there are at least two lines and that every line carries
// exactly one strictly positive side.
func ValidateLines(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return apperrors.NewMalformedLineError(0, "a journal entry requires at least two lines")
	}
	for i, line := range lines {
		lineNo := i + 1
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			return apperrors.NewMalformedLineError(lineNo, "amounts cannot be negative")
		}
		hasDebit := line.DebitAmount.IsPositive()
		hasCredit := line.CreditAmount.IsPositive()
		switch {
		case hasDebit && hasCredit:
			return apperrors.NewMalformedLineError(lineNo, "a line cannot have both debit and credit amounts")
		case !hasDebit && !hasCredit:
			return apperrors.NewMalformedLineError(lineNo, "a line must have either a debit or a credit amount")
		}
	}
	return nil
}

// ValidateBalance returns an UnbalancedEntryError when the lines do not balance within tolerance.
func ValidateBalance(lines []domain.JournalLine) error {
	debit, credit := ComputeTotals(lines)
	if !IsBalanced(debit, credit) {
		return apperrors.NewUnbalancedEntryError(debit, credit)
	}
	return nil
}

// SwapSides returns copies of lines with every debit and credit exchanged, transaction amounts included.
func SwapSides(lines []domain.JournalLine) []domain.JournalLine {
	swapped := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		swapped[i] = line
		swapped[i].DebitAmount, swapped[i].CreditAmount = line.CreditAmount, line.DebitAmount
		swapped[i].TransactionDebit, swapped[i].TransactionCredit = line.TransactionCredit, line.TransactionDebit
	}
	return swapped
}

// TypePrecedence orders account types for reporting: Asset, Liability, Equity, Revenue, Expense, then unknown.
func TypePrecedence(t domain.AccountType) int {
	switch t {
	case domain.Asset:
		return 0
	case domain.Liability:
		return 1
	case domain.Equity:
		return 2
	case domain.Revenue:
		return 3
	case domain.Expense:
		return 4
	default:
		return 5
	}
}
