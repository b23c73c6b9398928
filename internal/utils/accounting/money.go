package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finacct/posting_engine/internal/apperrors"
	"github.com/finacct/posting_engine/internal/core/domain"
)

// MinorUnits is the display precision for all supported currencies.
const MinorUnits = 2

// DefaultTolerance absorbs rounding drift from per-line FX conversion, not
// genuine imbalance.
var DefaultTolerance = decimal.NewFromFloat(0.01)

// Convert multiplies amount by the exchange rate and rounds to the currency's
// minor-unit precision. The multiplication happens exactly once per conversion;
// callers must never compound converted values through a second Convert.
func Convert(amount, exchangeRate decimal.Decimal) (decimal.Decimal, error) {
	if exchangeRate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: exchange rate must be positive, got %s", apperrors.ErrValidation, exchangeRate)
	}
	return amount.Mul(exchangeRate).Round(MinorUnits), nil
}

// Round normalises a monetary amount to minor-unit precision.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MinorUnits)
}

// SumDebitsCredits totals both sides of a set of journal lines.
func SumDebitsCredits(lines []domain.JournalLine) (debits, credits decimal.Decimal) {
	for _, line := range lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	return debits, credits
}

// IsBalanced reports whether |sum(debit) - sum(credit)| <= tolerance.
func IsBalanced(lines []domain.JournalLine, tolerance decimal.Decimal) bool {
	debits, credits := SumDebitsCredits(lines)
	return debits.Sub(credits).Abs().LessThanOrEqual(tolerance)
}

// ValidateLineShape checks the debit-XOR-credit invariant for a single line:
// exactly one side set, never both, never neither, and no negative side.
func ValidateLineShape(line domain.JournalLine) error {
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fmt.Errorf("%w: line amounts must not be negative for account %s", apperrors.ErrValidation, line.AccountID)
	}
	debitSet := line.Debit.IsPositive()
	creditSet := line.Credit.IsPositive()
	if debitSet && creditSet {
		return fmt.Errorf("%w: line for account %s sets both debit and credit", apperrors.ErrValidation, line.AccountID)
	}
	if !debitSet && !creditSet {
		return fmt.Errorf("%w: line for account %s has zero debit and credit", apperrors.ErrValidation, line.AccountID)
	}
	return nil
}
