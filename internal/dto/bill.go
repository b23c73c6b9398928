package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillPostingRequest is the typed input for validating a supplier bill posting.
type BillPostingRequest struct {
	BillID       string             `json:"billID" validate:"required"`
	Date         time.Time          `json:"date" validate:"required"`
	SupplierID   string             `json:"supplierID"`
	APAccountID  string             `json:"apAccountID" validate:"required"`
	CurrencyCode string             `json:"currencyCode" validate:"required,len=3"`
	ExchangeRate decimal.Decimal    `json:"exchangeRate"`
	Lines        []DocumentLineItem `json:"lines" validate:"required,min=1,dive"`
	Description  string             `json:"description"`
}
