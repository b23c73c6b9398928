package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finacct/posting_engine/internal/core/domain"
	"github.com/finacct/posting_engine/internal/dto"
	"github.com/finacct/posting_engine/internal/platform/logging"
	"github.com/finacct/posting_engine/internal/utils/accounting"
)

var one = decimal.NewFromInt(1)

// recognitionParams captures what differs between an invoice and a bill:
// which side the item and control lines post on, and which account types are
// expected where.
type recognitionParams struct {
	documentID       string
	date             time.Time
	description      string
	currencyCode     string
	exchangeRate     decimal.Decimal
	lines            []dto.DocumentLineItem
	controlAccountID string
	controlType      domain.AccountType // Hard rule: ASSET for AR, LIABILITY for AP
	controlDebit     bool               // Invoice: AR debit; Bill: AP credit
	itemExpected     domain.AccountType // Advisory: REVENUE / EXPENSE
	taxExpected      domain.AccountType // Advisory: LIABILITY (output) / ASSET (input)
	controlRole      string
}

// validateRecognition runs the shared invoice/bill state machine:
// FieldChecked (amount rules) -> AccountsResolved -> FXChecked ->
// BalanceChecked -> Authorized, then emits item + tax + control lines.
func (s *postingService) validateRecognition(ctx context.Context, pctx domain.PostingContext, p recognitionParams) (domain.ValidationResult, error) {
	logger := logging.FromCtx(ctx)

	if rej := s.authorizePosting(pctx); rej != nil {
		logger.Warn("Posting rejected: unauthorized role", slog.String("user_id", pctx.UserID), slog.String("role", string(pctx.UserRole)))
		return *rej, nil
	}

	rate, fx, rej := s.resolveExchangeRate(pctx, p.currencyCode, p.exchangeRate)
	if rej != nil {
		return *rej, nil
	}

	// Amount rules: strictly positive recognition lines, sane tax rates.
	for _, line := range p.lines {
		if line.Amount.IsNegative() {
			return domain.Rejectedf(domain.CodeInvalidAmounts, "line amount for account %s must be positive, got %s", line.AccountID, line.Amount), nil
		}
		if line.Amount.IsZero() {
			return domain.Rejectedf(domain.CodeZeroAmounts, "line amount for account %s must not be zero", line.AccountID), nil
		}
		if line.TaxRate.IsNegative() || line.TaxRate.GreaterThan(one) {
			return domain.Rejectedf(domain.CodeInvalidAmounts, "tax rate %s for account %s is outside [0,1]", line.TaxRate, line.AccountID), nil
		}
		if line.TaxRate.IsPositive() && line.TaxAccountID == "" {
			return domain.Rejectedf(domain.CodeMissingFields, "tax account is required when a tax rate is set (account %s)", line.AccountID), nil
		}
	}

	// Only consult collaborators once the input is locally valid.
	if rej, err := s.checkPeriodOpen(ctx, pctx, p.date); rej != nil {
		return *rej, err
	}

	accountIDs := []string{p.controlAccountID}
	expectedTypes := make(map[string]domain.AccountType, len(p.lines)+1)
	for _, line := range p.lines {
		accountIDs = append(accountIDs, line.AccountID)
		expectedTypes[line.AccountID] = p.itemExpected
		if line.TaxAccountID != "" {
			accountIDs = append(accountIDs, line.TaxAccountID)
			expectedTypes[line.TaxAccountID] = p.taxExpected
		}
	}

	accountsMap, rej, err := s.resolveAccounts(ctx, pctx, accountIDs)
	if rej != nil {
		return *rej, err
	}
	if rej := requireControlAccount(accountsMap[p.controlAccountID], p.controlType, p.controlRole); rej != nil {
		return *rej, nil
	}
	// The control account carries the hard type rule, not an advisory.
	delete(expectedTypes, p.controlAccountID)
	if rej := s.checkAccountCurrencies(accountsMap, fxFrom(fx, s.baseCurrency(pctx)), s.baseCurrency(pctx)); rej != nil {
		return *rej, nil
	}

	// Convert each amount exactly once; the control line is the sum of the
	// converted parts so the emitted journal balances exactly.
	items := make([]accounting.RevenueItem, 0, len(p.lines))
	taxes := make([]accounting.TaxItem, 0)
	controlTotal := decimal.Zero
	for _, line := range p.lines {
		amount, cerr := accounting.Convert(line.Amount, rate)
		if cerr != nil {
			return domain.Rejected(domain.CodeInvalidExchangeRate, cerr.Error()), nil
		}
		items = append(items, accounting.RevenueItem{AccountID: line.AccountID, Amount: amount, Description: line.Description})
		controlTotal = controlTotal.Add(amount)

		if line.TaxRate.IsPositive() {
			taxDoc := accounting.Round(line.Amount.Mul(line.TaxRate))
			taxAmount, terr := accounting.Convert(taxDoc, rate)
			if terr != nil {
				return domain.Rejected(domain.CodeInvalidExchangeRate, terr.Error()), nil
			}
			taxes = append(taxes, accounting.TaxItem{
				AccountID:   line.TaxAccountID,
				Amount:      taxAmount,
				Description: fmt.Sprintf("Tax on %s", p.documentID),
			})
			controlTotal = controlTotal.Add(taxAmount)
		}
	}

	var lines []domain.JournalLine
	if p.controlDebit {
		lines = append(lines, accounting.RevenueLines(items)...)
	} else {
		lines = append(lines, accounting.ExpenseLines(items)...)
	}
	lines = append(lines, accounting.TaxLines(taxes, p.controlDebit)...)
	lines = append(lines, accounting.CounterpartyLine(p.controlAccountID, controlTotal, p.controlDebit, p.description))

	journal := &domain.JournalInput{
		JournalNumber: uuid.NewString(),
		Date:          p.date,
		Description:   p.description,
		CurrencyCode:  p.currencyCode,
		ExchangeRate:  rate,
		Lines:         lines,
	}

	warnings := s.chartWarnings(ctx, pctx, accountsMap, expectedTypes)
	result := s.finalizeJournal(journal, controlTotal, fx, warnings)
	if result.Validated {
		logger.Info("Document posting validated",
			slog.String("document_id", p.documentID),
			slog.Int("lines", len(lines)),
			slog.String("total", controlTotal.String()))
	}
	return result, nil
}

// fxFrom returns the document currency recorded in fx, or base when the
// document already posts in base currency.
func fxFrom(fx *domain.FXInfo, base string) string {
	if fx != nil {
		return fx.FromCurrency
	}
	return base
}
