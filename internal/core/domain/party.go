package domain

import "github.com/shopspring/decimal"

// PartyType distinguishes the two counterparty kinds a payment can settle.
type PartyType string

const (
	PartyCustomer PartyType = "CUSTOMER"
	PartySupplier PartyType = "SUPPLIER"
)

// Party is the slice of a customer/supplier record the engine cares about.
// CurrencyCode may be empty when the record carries no explicit currency.
type Party struct {
	PartyID      string `json:"partyID"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"`
}

// BankAccount is the slice of a bank-account record the engine cares about.
type BankAccount struct {
	BankAccountID string `json:"bankAccountID"`
	GLAccountID   string `json:"glAccountID"` // Ledger account the bank posts to
	CurrencyCode  string `json:"currencyCode"`
}

// AdvanceAccount is a per-counterparty ledger balance holding unallocated
// payment residue, keyed by (partyType, partyID, currency).
type AdvanceAccount struct {
	AdvanceAccountID string          `json:"advanceAccountID"`
	PartyType        PartyType       `json:"partyType"`
	PartyID          string          `json:"partyID"`
	CurrencyCode     string          `json:"currencyCode"`
	GLAccountID      string          `json:"glAccountID"`
	Balance          decimal.Decimal `json:"balance"`
}
