package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/finacct/posting_engine/internal/core/domain"
)

// Line builders construct the journal lines for each economic event a document
// produces. They take already validated and converted amounts, do no I/O, and
// are fully deterministic, so they carry the bulk of the unit-test surface.

// RevenueItem is one validated, base-currency revenue or expense recognition item.
type RevenueItem struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
}

// TaxItem is one validated, base-currency tax amount.
type TaxItem struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
}

// RevenueLines emits one credit line per revenue item (invoice recognition).
func RevenueLines(items []RevenueItem) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(items))
	for i, item := range items {
		lines[i] = domain.CreditLine(item.AccountID, item.Amount, item.Description)
	}
	return lines
}

// ExpenseLines emits one debit line per expense item (bill recognition).
func ExpenseLines(items []RevenueItem) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(items))
	for i, item := range items {
		lines[i] = domain.DebitLine(item.AccountID, item.Amount, item.Description)
	}
	return lines
}

// TaxLines emits one line per tax item; credit side for invoices (output tax
// owed), debit side for bills (input tax claimable).
func TaxLines(items []TaxItem, credit bool) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(items))
	for i, item := range items {
		if credit {
			lines[i] = domain.CreditLine(item.AccountID, item.Amount, item.Description)
		} else {
			lines[i] = domain.DebitLine(item.AccountID, item.Amount, item.Description)
		}
	}
	return lines
}

// CounterpartyLine emits the single AR/AP control line balancing a document.
// Debit side for AR (invoice), credit side for AP (bill).
func CounterpartyLine(accountID string, amount decimal.Decimal, debit bool, description string) domain.JournalLine {
	if debit {
		return domain.DebitLine(accountID, amount, description)
	}
	return domain.CreditLine(accountID, amount, description)
}

// BankLine emits the bank movement for a payment: debit for receipts, credit
// for disbursements.
func BankLine(accountID string, amount decimal.Decimal, receipt bool, description string) domain.JournalLine {
	if receipt {
		return domain.DebitLine(accountID, amount, description)
	}
	return domain.CreditLine(accountID, amount, description)
}

// AdvanceLine routes an unallocated payment residual to the counterparty
// advance account: credit for customer advances (a liability until earned),
// debit for supplier prepayments (an asset until billed).
func AdvanceLine(accountID string, amount decimal.Decimal, receipt bool, description string) domain.JournalLine {
	if receipt {
		return domain.CreditLine(accountID, amount, description)
	}
	return domain.DebitLine(accountID, amount, description)
}

// ChargeLines emits one expense debit per bank charge.
func ChargeLines(charges []TaxItem) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(charges))
	for i, charge := range charges {
		lines[i] = domain.DebitLine(charge.AccountID, charge.Amount, charge.Description)
	}
	return lines
}

// WithholdingLines emits the withheld-tax lines for a payment. The WHT line
// posts on the bank side of the journal (debit on receipts, where the customer
// withheld tax the company can reclaim; credit on disbursements, where the
// company owes the withheld tax to the authority).
func WithholdingLines(entries []TaxItem, receipt bool) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(entries))
	for i, entry := range entries {
		if receipt {
			lines[i] = domain.DebitLine(entry.AccountID, entry.Amount, entry.Description)
		} else {
			lines[i] = domain.CreditLine(entry.AccountID, entry.Amount, entry.Description)
		}
	}
	return lines
}
