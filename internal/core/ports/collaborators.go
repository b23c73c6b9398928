// Package ports declares the collaborator interfaces the posting engine
// consumes. The external system implements them; tests supply mocks. Every
// method takes a context and returns an error only for infrastructure faults;
// "not found" is expressed in the return shape where the engine must decide
// (missing ids are simply absent from the batch-lookup map).
package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finacct/posting_engine/internal/core/domain"
)

// AccountDirectory resolves chart-of-accounts entries.
type AccountDirectory interface {
	// GetAccountsInfo batch-resolves account ids; missing ids are absent from
	// the returned map, not an error.
	GetAccountsInfo(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// GetAllAccountsInfo returns the full chart-of-accounts snapshot, used for
	// type-consistency advisories.
	GetAllAccountsInfo(ctx context.Context, companyID string) ([]domain.Account, error)
}

// PartyDirectory resolves customer, supplier and bank-account records.
type PartyDirectory interface {
	GetCustomerByID(ctx context.Context, companyID, customerID string) (*domain.Party, error)
	GetSupplierByID(ctx context.Context, companyID, supplierID string) (*domain.Party, error)
	GetBankAccountByID(ctx context.Context, companyID, bankAccountID string) (*domain.BankAccount, error)
}

// AdvanceLedger maintains per-counterparty advance/prepayment balances for
// unallocated payment residue.
type AdvanceLedger interface {
	GetOrCreateAdvanceAccount(ctx context.Context, tenantID, companyID string, partyType domain.PartyType, partyID, currencyCode, glAccountID string) (*domain.AdvanceAccount, error)
	UpdateAdvanceAccountBalance(ctx context.Context, tenantID, companyID string, partyType domain.PartyType, partyID, currencyCode string, delta decimal.Decimal) error
}

// ChargeEntry is a configured bank charge returned by the fee schedule.
type ChargeEntry struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
}

// WithholdingEntry is a configured withholding-tax rule returned by the fee
// schedule. Rate is a fraction in (0,1]; the withheld amount is rate x base.
type WithholdingEntry struct {
	AccountID   string
	Rate        decimal.Decimal
	Description string
}

// FeeSchedule supplies optional automatic bank-charge and withholding-tax
// configuration for a payment.
type FeeSchedule interface {
	CalculateBankCharges(ctx context.Context, tenantID, companyID, bankAccountID string, amount decimal.Decimal) ([]ChargeEntry, error)
	CalculateWithholdingTax(ctx context.Context, tenantID, companyID string, amount decimal.Decimal, partyType domain.PartyType) ([]WithholdingEntry, error)
}

// PeriodValidator reports whether an accounting period accepts new postings.
type PeriodValidator interface {
	// ValidatePeriodOpen returns nil when the period containing date is open,
	// an apperrors.ErrForbidden-wrapped error when it is locked, and other
	// errors for infrastructure faults.
	ValidatePeriodOpen(ctx context.Context, companyID string, date time.Time) error
}
