package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is a single debit-or-credit entry against one account within a
// balanced journal. Exactly one of Debit/Credit must be positive; validators
// reject lines that set both or neither.
type JournalLine struct {
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// DebitLine builds a debit-side journal line.
func DebitLine(accountID string, amount decimal.Decimal, description string) JournalLine {
	return JournalLine{AccountID: accountID, Debit: amount, Description: description}
}

// CreditLine builds a credit-side journal line.
func CreditLine(accountID string, amount decimal.Decimal, description string) JournalLine {
	return JournalLine{AccountID: accountID, Credit: amount, Description: description}
}

// IsDebit reports whether the line posts on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the magnitude of the line regardless of side.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// JournalInput is the balanced journal produced by a successful validation,
// ready to be handed to the external persistence layer. It is never mutated
// after validation; a failed validation simply discards it.
type JournalInput struct {
	JournalNumber string          `json:"journalNumber"` // Generated (UUID) unless supplied
	Date          time.Time       `json:"date"`          // Date the event occurred
	Description   string          `json:"description"`   // Nullable user description
	CurrencyCode  string          `json:"currencyCode"`  // Document currency as submitted
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`  // Rate to base currency (1 when same)
	Lines         []JournalLine   `json:"lines"`         // Amounts in base currency
}
