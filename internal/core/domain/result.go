package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrorCode is a stable machine-checkable identifier for a validation failure.
type ErrorCode string

const (
	// Input errors, caller-fixable.
	CodeMissingFields      ErrorCode = "MISSING_FIELDS"
	CodeInvalidAmounts     ErrorCode = "INVALID_AMOUNTS"
	CodeZeroAmounts        ErrorCode = "ZERO_AMOUNTS"
	CodeInvalidLineAmounts ErrorCode = "INVALID_LINE_AMOUNTS"

	// FX errors.
	CodeExchangeRateRequired ErrorCode = "EXCHANGE_RATE_REQUIRED"
	CodeInvalidExchangeRate  ErrorCode = "INVALID_EXCHANGE_RATE"
	CodeInvalidCurrency      ErrorCode = "INVALID_CURRENCY"
	CodeCurrencyMismatch     ErrorCode = "CURRENCY_MISMATCH"

	// Reference errors.
	CodeAccountNotFound     ErrorCode = "ACCOUNT_NOT_FOUND"
	CodeAccountInactive     ErrorCode = "ACCOUNT_INACTIVE"
	CodeAccountTypeMismatch ErrorCode = "ACCOUNT_TYPE_MISMATCH"

	// Business-rule errors.
	CodeUnbalancedJournal       ErrorCode = "UNBALANCED_JOURNAL"
	CodeAllocationMismatch      ErrorCode = "ALLOCATION_MISMATCH"
	CodeInvalidWithholdingRate  ErrorCode = "INVALID_WITHHOLDING_RATE"

	// Authorization errors.
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodePeriodLocked ErrorCode = "PERIOD_LOCKED"

	// Infrastructure errors; the retry decision belongs to the caller.
	CodeLookupFailed ErrorCode = "LOOKUP_FAILED"
)

// FXInfo records the conversion applied to a foreign-currency document.
type FXInfo struct {
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	Rate         decimal.Decimal `json:"rate"`
}

// ValidationResult is the discriminated outcome of a single validation call.
// Validated selects between the success fields (Journal onwards) and the
// failure fields (Error, Code). Produced once per call, never stored.
type ValidationResult struct {
	Validated bool `json:"validated"`

	// Success fields.
	Journal              *JournalInput   `json:"journal,omitempty"`
	TotalAmount          decimal.Decimal `json:"totalAmount"`
	RequiresApproval     bool            `json:"requiresApproval"`
	Warnings             []string        `json:"warnings,omitempty"`
	FXApplied            *FXInfo         `json:"fxApplied,omitempty"`
	AllocationsProcessed int             `json:"allocationsProcessed,omitempty"`
	BankCharges          decimal.Decimal `json:"bankCharges"`
	WithholdingTax       decimal.Decimal `json:"withholdingTax"`

	// Failure fields.
	Error string    `json:"error,omitempty"`
	Code  ErrorCode `json:"code,omitempty"`
}

// Accepted builds a success result around a validated journal.
func Accepted(journal *JournalInput, totalAmount decimal.Decimal) ValidationResult {
	return ValidationResult{
		Validated:   true,
		Journal:     journal,
		TotalAmount: totalAmount,
	}
}

// Rejected builds a failure result with a stable code and human-readable message.
func Rejected(code ErrorCode, message string) ValidationResult {
	return ValidationResult{Validated: false, Error: message, Code: code}
}

// Rejectedf builds a failure result with a formatted message.
func Rejectedf(code ErrorCode, format string, args ...any) ValidationResult {
	return Rejected(code, fmt.Sprintf(format, args...))
}
