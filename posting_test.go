package posting_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	posting "github.com/finacct/posting_engine"
	"github.com/finacct/posting_engine/internal/apperrors"
)

// memBackend is a minimal in-memory implementation of every collaborator
// interface, standing in for the host system.
type memBackend struct {
	accounts map[string]posting.Account
	parties  map[string]posting.Party
	banks    map[string]posting.BankAccount
	advances map[string]decimal.Decimal // keyed partyType/partyID/currency
	locked   map[string]bool            // keyed YYYY-MM
}

func newMemBackend() *memBackend {
	return &memBackend{
		accounts: map[string]posting.Account{},
		parties:  map[string]posting.Party{},
		banks:    map[string]posting.BankAccount{},
		advances: map[string]decimal.Decimal{},
		locked:   map[string]bool{},
	}
}

func (b *memBackend) GetAccountsInfo(_ context.Context, _ string, accountIDs []string) (map[string]posting.Account, error) {
	out := make(map[string]posting.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := b.accounts[id]; ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (b *memBackend) GetAllAccountsInfo(_ context.Context, _ string) ([]posting.Account, error) {
	out := make([]posting.Account, 0, len(b.accounts))
	for _, acc := range b.accounts {
		out = append(out, acc)
	}
	return out, nil
}

func (b *memBackend) GetCustomerByID(_ context.Context, _, customerID string) (*posting.Party, error) {
	if p, ok := b.parties[customerID]; ok {
		return &p, nil
	}
	return nil, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
}

func (b *memBackend) GetSupplierByID(_ context.Context, _, supplierID string) (*posting.Party, error) {
	if p, ok := b.parties[supplierID]; ok {
		return &p, nil
	}
	return nil, fmt.Errorf("%w: supplier %s", apperrors.ErrNotFound, supplierID)
}

func (b *memBackend) GetBankAccountByID(_ context.Context, _, bankAccountID string) (*posting.BankAccount, error) {
	if acc, ok := b.banks[bankAccountID]; ok {
		return &acc, nil
	}
	return nil, fmt.Errorf("%w: bank account %s", apperrors.ErrNotFound, bankAccountID)
}

func advanceKey(partyType posting.PartyType, partyID, currency string) string {
	return fmt.Sprintf("%s/%s/%s", partyType, partyID, currency)
}

func (b *memBackend) GetOrCreateAdvanceAccount(_ context.Context, _, _ string, partyType posting.PartyType, partyID, currencyCode, glAccountID string) (*posting.AdvanceAccount, error) {
	key := advanceKey(partyType, partyID, currencyCode)
	return &posting.AdvanceAccount{
		AdvanceAccountID: key,
		PartyType:        partyType,
		PartyID:          partyID,
		CurrencyCode:     currencyCode,
		GLAccountID:      glAccountID,
		Balance:          b.advances[key],
	}, nil
}

func (b *memBackend) UpdateAdvanceAccountBalance(_ context.Context, _, _ string, partyType posting.PartyType, partyID, currencyCode string, delta decimal.Decimal) error {
	key := advanceKey(partyType, partyID, currencyCode)
	b.advances[key] = b.advances[key].Add(delta)
	return nil
}

func (b *memBackend) ValidatePeriodOpen(_ context.Context, _ string, date time.Time) error {
	if b.locked[date.Format("2006-01")] {
		return fmt.Errorf("%w: period %s is locked", apperrors.ErrForbidden, date.Format("2006-01"))
	}
	return nil
}

var (
	_ posting.AccountDirectory = (*memBackend)(nil)
	_ posting.PartyDirectory   = (*memBackend)(nil)
	_ posting.AdvanceLedger    = (*memBackend)(nil)
	_ posting.PeriodValidator  = (*memBackend)(nil)
)

func seededBackend() *memBackend {
	b := newMemBackend()
	b.accounts["ar-1"] = posting.Account{AccountID: "ar-1", Code: "1200", Name: "Accounts Receivable", AccountType: "ASSET", CurrencyCode: "MYR", IsActive: true}
	b.accounts["bank-gl"] = posting.Account{AccountID: "bank-gl", Code: "1000", Name: "Main Bank", AccountType: "ASSET", CurrencyCode: "MYR", IsActive: true}
	b.accounts["rev-1"] = posting.Account{AccountID: "rev-1", Code: "4000", Name: "Sales", AccountType: "REVENUE", CurrencyCode: "MYR", IsActive: true}
	b.accounts["adv-1"] = posting.Account{AccountID: "adv-1", Code: "2300", Name: "Customer Advances", AccountType: "LIABILITY", CurrencyCode: "MYR", IsActive: true}
	b.parties["cust-1"] = posting.Party{PartyID: "cust-1", Name: "Acme Sdn Bhd", CurrencyCode: "MYR"}
	b.banks["bank-1"] = posting.BankAccount{BankAccountID: "bank-1", GLAccountID: "bank-gl", CurrencyCode: "MYR"}
	return b
}

func pctx() posting.PostingContext {
	return posting.PostingContext{
		TenantID:     "t-1",
		CompanyID:    "co-1",
		UserID:       "u-1",
		UserRole:     posting.RoleAccountant,
		BaseCurrency: "MYR",
	}
}

// Invoice then payment against it, end to end through the public surface.
func TestEngineEndToEnd(t *testing.T) {
	backend := seededBackend()
	engine := posting.NewEngine(backend, backend, backend, nil, backend, nil)
	ctx := context.Background()

	invoice, err := engine.ValidateInvoicePosting(ctx, pctx(), posting.InvoicePostingRequest{
		InvoiceID:    "INV-1",
		Date:         time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		CustomerID:   "cust-1",
		ARAccountID:  "ar-1",
		CurrencyCode: "MYR",
		Lines:        []posting.DocumentLineItem{{AccountID: "rev-1", Amount: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)
	require.True(t, invoice.Validated, invoice.Error)
	assert.Len(t, invoice.Journal.Lines, 2)

	payment, err := engine.ValidatePaymentPosting(ctx, pctx(), posting.PaymentPostingRequest{
		PaymentID:     "PAY-1",
		Date:          time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
		Direction:     posting.DirectionReceipt,
		PartyID:       "cust-1",
		BankAccountID: "bank-1",
		Amount:        decimal.NewFromInt(150),
		CurrencyCode:  "MYR",
		Allocations: []posting.AllocationInput{{
			Type:            posting.AllocationInvoice,
			DocumentID:      "INV-1",
			AllocatedAmount: decimal.NewFromInt(100),
			GLAccountID:     "ar-1",
		}},
		AdvanceGLAccountID: "adv-1",
	})
	require.NoError(t, err)
	require.True(t, payment.Validated, payment.Error)
	assert.Len(t, payment.Journal.Lines, 3)
	assert.Equal(t, 1, payment.AllocationsProcessed)

	// The 50 MYR overpayment landed on the customer's advance balance.
	balance := backend.advances[advanceKey(posting.PartyCustomer, "cust-1", "MYR")]
	assert.True(t, balance.Equal(decimal.NewFromInt(50)), "advance balance %s", balance)
}

func TestEngineRejectsLockedPeriod(t *testing.T) {
	backend := seededBackend()
	backend.locked["2025-07"] = true
	engine := posting.NewEngine(backend, backend, backend, nil, backend, nil)

	result, err := engine.ValidateInvoicePosting(context.Background(), pctx(), posting.InvoicePostingRequest{
		InvoiceID:    "INV-2",
		Date:         time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC),
		CustomerID:   "cust-1",
		ARAccountID:  "ar-1",
		CurrencyCode: "MYR",
		Lines:        []posting.DocumentLineItem{{AccountID: "rev-1", Amount: decimal.NewFromInt(100)}},
	})

	require.NoError(t, err)
	assert.False(t, result.Validated)
	assert.Equal(t, posting.ErrorCode("PERIOD_LOCKED"), result.Code)
}
