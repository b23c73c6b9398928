package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentDirection distinguishes money received from money paid out.
type PaymentDirection string

const (
	DirectionReceipt      PaymentDirection = "RECEIPT"      // Customer pays us
	DirectionDisbursement PaymentDirection = "DISBURSEMENT" // We pay a supplier
)

// AllocationType names the open document kind an allocation settles.
type AllocationType string

const (
	AllocationInvoice AllocationType = "INVOICE"
	AllocationBill    AllocationType = "BILL"
)

// AllocationInput matches part of a payment against one open invoice or bill.
// GLAccountID is the AR/AP control account the document was posted against.
type AllocationInput struct {
	Type            AllocationType  `json:"type" validate:"required,oneof=INVOICE BILL"`
	DocumentID      string          `json:"documentID" validate:"required"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"`
	CounterpartyID  string          `json:"counterpartyID"`
	GLAccountID     string          `json:"glAccountID" validate:"required"`
}

// BankChargeInput is one explicit bank charge deducted alongside the payment.
type BankChargeInput struct {
	AccountID   string          `json:"accountID" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// WithholdingInput is one withholding-tax entry. Rate is a fraction in (0,1];
// the withheld amount is Rate x Amount (Rate x payment amount when Amount is
// left zero).
type WithholdingInput struct {
	AccountID   string          `json:"accountID" validate:"required"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// PaymentPostingRequest is the typed input for validating a payment posting.
// AdvanceGLAccountID names the ledger account that receives any unallocated
// residual; it is required only when the payment overpays its allocations.
type PaymentPostingRequest struct {
	PaymentID          string             `json:"paymentID" validate:"required"`
	Date               time.Time          `json:"date" validate:"required"`
	Direction          PaymentDirection   `json:"direction" validate:"required,oneof=RECEIPT DISBURSEMENT"`
	PartyID            string             `json:"partyID" validate:"required"`
	BankAccountID      string             `json:"bankAccountID" validate:"required"`
	Amount             decimal.Decimal    `json:"amount"`
	CurrencyCode       string             `json:"currencyCode" validate:"required,len=3"`
	ExchangeRate       decimal.Decimal    `json:"exchangeRate"`
	Allocations        []AllocationInput  `json:"allocations" validate:"required,min=1,dive"`
	BankCharges        []BankChargeInput  `json:"bankCharges" validate:"omitempty,dive"`
	WithholdingTax     []WithholdingInput `json:"withholdingTax" validate:"omitempty,dive"`
	UseConfiguredFees  bool               `json:"useConfiguredFees"`
	AdvanceGLAccountID string             `json:"advanceGLAccountID"`
	Description        string             `json:"description"`
}
