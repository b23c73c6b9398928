package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalLineInput is one caller-supplied line of a generic journal entry.
// Exactly one of Debit/Credit must be positive.
type JournalLineInput struct {
	AccountID   string          `json:"accountID" validate:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalPostingRequest is the typed input for validating a generic journal
// entry. Lines are supplied directly by the caller; the engine checks balance,
// accounts, role and period but synthesises nothing.
type JournalPostingRequest struct {
	JournalNumber string             `json:"journalNumber"`
	Date          time.Time          `json:"date" validate:"required"`
	Description   string             `json:"description" validate:"required"`
	CurrencyCode  string             `json:"currencyCode" validate:"required,len=3"`
	ExchangeRate  decimal.Decimal    `json:"exchangeRate"`
	Lines         []JournalLineInput `json:"lines" validate:"required,min=2,dive"`
}
