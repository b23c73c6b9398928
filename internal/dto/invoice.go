package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLineItem is one revenue/expense recognition line on an invoice or
// bill. TaxRate is an optional fraction applied to Amount; when set, a
// TaxAccountID must accompany it.
type DocumentLineItem struct {
	AccountID    string          `json:"accountID" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	TaxAccountID string          `json:"taxAccountID"`
}

// InvoicePostingRequest is the typed input for validating an invoice posting.
type InvoicePostingRequest struct {
	InvoiceID    string             `json:"invoiceID" validate:"required"`
	Date         time.Time          `json:"date" validate:"required"`
	CustomerID   string             `json:"customerID"`
	ARAccountID  string             `json:"arAccountID" validate:"required"`
	CurrencyCode string             `json:"currencyCode" validate:"required,len=3"`
	ExchangeRate decimal.Decimal    `json:"exchangeRate"`
	Lines        []DocumentLineItem `json:"lines" validate:"required,min=1,dive"`
	Description  string             `json:"description"`
}
