package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finacct/posting_engine/internal/apperrors"
	"github.com/finacct/posting_engine/internal/core/domain"
	"github.com/finacct/posting_engine/internal/dto"
	"github.com/finacct/posting_engine/internal/platform/logging"
	"github.com/finacct/posting_engine/internal/utils/accounting"
)

// ValidatePaymentPosting validates a payment and resolves its allocations into
// a balanced journal: one bank line, one AR/AP line per allocation, plus
// optional advance, bank-charge and withholding-tax lines. Overpayment routes
// the residual to the counterparty advance account; allocations claiming more
// than was paid are a hard failure.
func (s *postingService) ValidatePaymentPosting(ctx context.Context, pctx domain.PostingContext, req dto.PaymentPostingRequest) (domain.ValidationResult, error) {
	logger := logging.FromCtx(ctx)

	if rej := s.checkRequiredFields(req); rej != nil {
		return *rej, nil
	}
	if rej := s.authorizePosting(pctx); rej != nil {
		logger.Warn("Payment posting rejected: unauthorized role", slog.String("user_id", pctx.UserID), slog.String("role", string(pctx.UserRole)))
		return *rej, nil
	}
	if req.Amount.IsNegative() {
		return domain.Rejectedf(domain.CodeInvalidAmounts, "payment amount must be positive, got %s", req.Amount), nil
	}
	if req.Amount.IsZero() {
		return domain.Rejected(domain.CodeZeroAmounts, "payment amount must not be zero"), nil
	}

	rate, fx, rej := s.resolveExchangeRate(pctx, req.CurrencyCode, req.ExchangeRate)
	if rej != nil {
		return *rej, nil
	}
	currency := fxFrom(fx, s.baseCurrency(pctx))
	receipt := req.Direction == dto.DirectionReceipt
	partyType := domain.PartyCustomer
	if !receipt {
		partyType = domain.PartySupplier
	}

	// --- Allocations ---
	wantType := dto.AllocationInvoice
	if !receipt {
		wantType = dto.AllocationBill
	}
	allocatedTotal := decimal.Zero
	for _, alloc := range req.Allocations {
		if alloc.Type != wantType {
			return domain.Rejectedf(domain.CodeAllocationMismatch,
				"allocation against %s %s does not match payment direction %s", alloc.Type, alloc.DocumentID, req.Direction), nil
		}
		if alloc.AllocatedAmount.IsNegative() {
			return domain.Rejectedf(domain.CodeInvalidAmounts, "allocated amount for %s must be positive", alloc.DocumentID), nil
		}
		if alloc.AllocatedAmount.IsZero() {
			return domain.Rejectedf(domain.CodeZeroAmounts, "allocated amount for %s must not be zero", alloc.DocumentID), nil
		}
		allocatedTotal = allocatedTotal.Add(alloc.AllocatedAmount)
	}
	if allocatedTotal.GreaterThan(req.Amount) {
		return domain.Rejectedf(domain.CodeAllocationMismatch,
			"total allocated amount %s does not match payment amount %s", allocatedTotal, req.Amount), nil
	}
	residual := req.Amount.Sub(allocatedTotal)
	if residual.IsPositive() && req.AdvanceGLAccountID == "" {
		return domain.Rejectedf(domain.CodeMissingFields,
			"advance account is required to hold the unallocated residual %s", residual), nil
	}

	// Only consult collaborators once the input is locally valid.
	if rej, err := s.checkPeriodOpen(ctx, pctx, req.Date); rej != nil {
		return *rej, err
	}

	// --- Party & bank record consistency ---
	party, bank, rej, err := s.resolvePaymentParties(ctx, pctx, req, receipt)
	if rej != nil {
		return *rej, err
	}
	if s.cfg.StrictPartyCurrency {
		if party.CurrencyCode != "" && party.CurrencyCode != currency {
			return domain.Rejectedf(domain.CodeCurrencyMismatch,
				"%s %s currency %s does not match payment currency %s", partyType, party.PartyID, party.CurrencyCode, currency), nil
		}
		if bank.CurrencyCode != "" && bank.CurrencyCode != currency {
			return domain.Rejectedf(domain.CodeCurrencyMismatch,
				"bank account %s currency %s does not match payment currency %s", bank.BankAccountID, bank.CurrencyCode, currency), nil
		}
	}

	// --- Charges & withholding (explicit plus configured) ---
	charges, withholdings, rej, err := s.collectFees(ctx, pctx, req, rate, partyType)
	if rej != nil {
		return *rej, err
	}
	chargesTotal := decimal.Zero
	for _, charge := range charges {
		chargesTotal = chargesTotal.Add(charge.Amount)
	}
	whtTotal := decimal.Zero
	for _, wht := range withholdings {
		whtTotal = whtTotal.Add(wht.Amount)
	}

	// --- Account resolution ---
	accountIDs := []string{bank.GLAccountID}
	expectedTypes := map[string]domain.AccountType{}
	for _, alloc := range req.Allocations {
		accountIDs = append(accountIDs, alloc.GLAccountID)
	}
	for _, charge := range charges {
		accountIDs = append(accountIDs, charge.AccountID)
		expectedTypes[charge.AccountID] = domain.Expense
	}
	whtExpected := domain.Asset // tax withheld by the customer, reclaimable
	if !receipt {
		whtExpected = domain.Liability // tax we owe to the authority
	}
	for _, wht := range withholdings {
		accountIDs = append(accountIDs, wht.AccountID)
		expectedTypes[wht.AccountID] = whtExpected
	}
	advanceExpected := domain.Liability // customer advance is owed back until earned
	if !receipt {
		advanceExpected = domain.Asset // supplier prepayment is ours until billed
	}
	if residual.IsPositive() {
		accountIDs = append(accountIDs, req.AdvanceGLAccountID)
		expectedTypes[req.AdvanceGLAccountID] = advanceExpected
	}

	accountsMap, rej, err := s.resolveAccounts(ctx, pctx, accountIDs)
	if rej != nil {
		return *rej, err
	}
	if rej := requireControlAccount(accountsMap[bank.GLAccountID], domain.Asset, "bank"); rej != nil {
		return *rej, nil
	}
	controlType := domain.Asset // AR settled by receipts
	controlRole := "accounts receivable"
	if !receipt {
		controlType = domain.Liability
		controlRole = "accounts payable"
	}
	for _, alloc := range req.Allocations {
		if rej := requireControlAccount(accountsMap[alloc.GLAccountID], controlType, controlRole); rej != nil {
			return *rej, nil
		}
	}
	if rej := s.checkAccountCurrencies(accountsMap, currency, s.baseCurrency(pctx)); rej != nil {
		return *rej, nil
	}

	// --- Conversion & line construction ---
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Payment %s", req.PaymentID)
	}

	totalBase := decimal.Zero
	lines := make([]domain.JournalLine, 0, len(req.Allocations)+len(charges)+len(withholdings)+2)
	for _, alloc := range req.Allocations {
		amount, cerr := accounting.Convert(alloc.AllocatedAmount, rate)
		if cerr != nil {
			return domain.Rejected(domain.CodeInvalidExchangeRate, cerr.Error()), nil
		}
		totalBase = totalBase.Add(amount)
		// Receipts settle AR with credits; disbursements settle AP with debits.
		lines = append(lines, accounting.CounterpartyLine(alloc.GLAccountID, amount, !receipt,
			fmt.Sprintf("Settlement of %s %s", alloc.Type, alloc.DocumentID)))
	}

	var advanceBase decimal.Decimal
	var advance *domain.AdvanceAccount
	if residual.IsPositive() {
		converted, cerr := accounting.Convert(residual, rate)
		if cerr != nil {
			return domain.Rejected(domain.CodeInvalidExchangeRate, cerr.Error()), nil
		}
		advanceBase = converted
		totalBase = totalBase.Add(advanceBase)

		advance, err = s.advances.GetOrCreateAdvanceAccount(ctx, pctx.TenantID, pctx.CompanyID, partyType, req.PartyID, currency, req.AdvanceGLAccountID)
		if err != nil {
			logger.Error("Failed to resolve advance account", slog.String("party_id", req.PartyID), slog.String("error", err.Error()))
			return domain.Rejected(domain.CodeLookupFailed, err.Error()),
				fmt.Errorf("%w: advance ledger: %v", apperrors.ErrLookup, err)
		}
		glAccountID := advance.GLAccountID
		if glAccountID == "" {
			glAccountID = req.AdvanceGLAccountID
		}
		lines = append(lines, accounting.AdvanceLine(glAccountID, advanceBase, receipt,
			fmt.Sprintf("Unallocated residual from %s", req.PaymentID)))
	}

	lines = append(lines, accounting.ChargeLines(charges)...)
	lines = append(lines, accounting.WithholdingLines(withholdings, receipt)...)

	// The bank moves the payment net of charges and withheld tax; the expense
	// and WHT lines carry the difference so the journal stays balanced.
	bankAmount := totalBase.Sub(whtTotal)
	if receipt {
		bankAmount = bankAmount.Sub(chargesTotal)
	} else {
		bankAmount = bankAmount.Add(chargesTotal)
	}
	if !bankAmount.IsPositive() {
		return domain.Rejectedf(domain.CodeInvalidAmounts,
			"bank charges and withholding tax %s exceed the payment amount %s", chargesTotal.Add(whtTotal), totalBase), nil
	}
	lines = append(lines, accounting.BankLine(bank.GLAccountID, bankAmount, receipt, description))

	journal := &domain.JournalInput{
		JournalNumber: uuid.NewString(),
		Date:          req.Date,
		Description:   description,
		CurrencyCode:  req.CurrencyCode,
		ExchangeRate:  rate,
		Lines:         lines,
	}

	warnings := s.chartWarnings(ctx, pctx, accountsMap, expectedTypes)
	result := s.finalizeJournal(journal, totalBase, fx, warnings)
	if !result.Validated {
		return result, nil
	}

	// Validation passed; record the residual on the advance ledger, keyed in
	// the payment currency. This is the engine's only write.
	if advance != nil {
		if err := s.advances.UpdateAdvanceAccountBalance(ctx, pctx.TenantID, pctx.CompanyID, partyType, req.PartyID, currency, residual); err != nil {
			logger.Error("Failed to update advance balance", slog.String("party_id", req.PartyID), slog.String("error", err.Error()))
			return domain.Rejected(domain.CodeLookupFailed, err.Error()),
				fmt.Errorf("%w: advance ledger: %v", apperrors.ErrLookup, err)
		}
		logger.Info("Advance balance incremented",
			slog.String("party_id", req.PartyID),
			slog.String("currency", currency),
			slog.String("residual", residual.String()))
	}

	result.AllocationsProcessed = len(req.Allocations)
	result.BankCharges = chargesTotal
	result.WithholdingTax = whtTotal
	logger.Info("Payment posting validated",
		slog.String("payment_id", req.PaymentID),
		slog.Int("allocations", len(req.Allocations)),
		slog.String("total", totalBase.String()))
	return result, nil
}

// resolvePaymentParties fetches the counterparty and bank-account records for
// a payment. Missing records are reference errors; lookup faults surface both
// as a result and a wrapped error.
func (s *postingService) resolvePaymentParties(ctx context.Context, pctx domain.PostingContext, req dto.PaymentPostingRequest, receipt bool) (*domain.Party, *domain.BankAccount, *domain.ValidationResult, error) {
	logger := logging.FromCtx(ctx)

	var party *domain.Party
	var err error
	if receipt {
		party, err = s.parties.GetCustomerByID(ctx, pctx.CompanyID, req.PartyID)
	} else {
		party, err = s.parties.GetSupplierByID(ctx, pctx.CompanyID, req.PartyID)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			rej := domain.Rejectedf(domain.CodeAccountNotFound, "counterparty %s not found", req.PartyID)
			return nil, nil, &rej, nil
		}
		logger.Error("Failed to fetch counterparty", slog.String("party_id", req.PartyID), slog.String("error", err.Error()))
		rej := domain.Rejected(domain.CodeLookupFailed, err.Error())
		return nil, nil, &rej, fmt.Errorf("%w: party directory: %v", apperrors.ErrLookup, err)
	}

	bank, err := s.parties.GetBankAccountByID(ctx, pctx.CompanyID, req.BankAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			rej := domain.Rejectedf(domain.CodeAccountNotFound, "bank account %s not found", req.BankAccountID)
			return nil, nil, &rej, nil
		}
		logger.Error("Failed to fetch bank account", slog.String("bank_account_id", req.BankAccountID), slog.String("error", err.Error()))
		rej := domain.Rejected(domain.CodeLookupFailed, err.Error())
		return nil, nil, &rej, fmt.Errorf("%w: party directory: %v", apperrors.ErrLookup, err)
	}
	return party, bank, nil, nil
}

// collectFees merges explicit bank charges and withholding entries with the
// configured ones from the fee schedule, validating ranges and converting the
// amounts to base currency.
func (s *postingService) collectFees(ctx context.Context, pctx domain.PostingContext, req dto.PaymentPostingRequest, rate decimal.Decimal, partyType domain.PartyType) (charges []accounting.TaxItem, withholdings []accounting.TaxItem, rej *domain.ValidationResult, err error) {
	logger := logging.FromCtx(ctx)

	chargeInputs := make([]dto.BankChargeInput, 0, len(req.BankCharges))
	chargeInputs = append(chargeInputs, req.BankCharges...)
	whtInputs := make([]dto.WithholdingInput, 0, len(req.WithholdingTax))
	whtInputs = append(whtInputs, req.WithholdingTax...)

	if req.UseConfiguredFees && s.fees != nil {
		configured, ferr := s.fees.CalculateBankCharges(ctx, pctx.TenantID, pctx.CompanyID, req.BankAccountID, req.Amount)
		if ferr != nil {
			logger.Error("Fee schedule lookup failed", slog.String("error", ferr.Error()))
			r := domain.Rejected(domain.CodeLookupFailed, ferr.Error())
			return nil, nil, &r, fmt.Errorf("%w: fee schedule: %v", apperrors.ErrLookup, ferr)
		}
		for _, entry := range configured {
			chargeInputs = append(chargeInputs, dto.BankChargeInput{AccountID: entry.AccountID, Amount: entry.Amount, Description: entry.Description})
		}

		configuredWHT, ferr := s.fees.CalculateWithholdingTax(ctx, pctx.TenantID, pctx.CompanyID, req.Amount, partyType)
		if ferr != nil {
			logger.Error("Withholding schedule lookup failed", slog.String("error", ferr.Error()))
			r := domain.Rejected(domain.CodeLookupFailed, ferr.Error())
			return nil, nil, &r, fmt.Errorf("%w: fee schedule: %v", apperrors.ErrLookup, ferr)
		}
		for _, entry := range configuredWHT {
			whtInputs = append(whtInputs, dto.WithholdingInput{AccountID: entry.AccountID, Rate: entry.Rate, Description: entry.Description})
		}
	}

	for _, charge := range chargeInputs {
		if !charge.Amount.IsPositive() {
			r := domain.Rejectedf(domain.CodeInvalidAmounts, "bank charge for account %s must be positive, got %s", charge.AccountID, charge.Amount)
			return nil, nil, &r, nil
		}
		amount, cerr := accounting.Convert(charge.Amount, rate)
		if cerr != nil {
			r := domain.Rejected(domain.CodeInvalidExchangeRate, cerr.Error())
			return nil, nil, &r, nil
		}
		description := charge.Description
		if description == "" {
			description = "Bank charge"
		}
		charges = append(charges, accounting.TaxItem{AccountID: charge.AccountID, Amount: amount, Description: description})
	}

	for _, wht := range whtInputs {
		if !wht.Rate.IsPositive() || wht.Rate.GreaterThan(one) {
			r := domain.Rejectedf(domain.CodeInvalidWithholdingRate, "withholding rate %s for account %s is outside (0,1]", wht.Rate, wht.AccountID)
			return nil, nil, &r, nil
		}
		base := wht.Amount
		if !base.IsPositive() {
			base = req.Amount
		}
		withheld := accounting.Round(base.Mul(wht.Rate))
		amount, cerr := accounting.Convert(withheld, rate)
		if cerr != nil {
			r := domain.Rejected(domain.CodeInvalidExchangeRate, cerr.Error())
			return nil, nil, &r, nil
		}
		description := wht.Description
		if description == "" {
			description = "Withholding tax"
		}
		withholdings = append(withholdings, accounting.TaxItem{AccountID: wht.AccountID, Amount: amount, Description: description})
	}

	return charges, withholdings, nil, nil
}
