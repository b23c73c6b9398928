package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/finacct/posting_engine/internal/core/domain"
	"github.com/finacct/posting_engine/internal/dto"
)

type InvoicePostingTestSuite struct {
	postingSuite
}

func (s *InvoicePostingTestSuite) request(lines ...dto.DocumentLineItem) dto.InvoicePostingRequest {
	return dto.InvoicePostingRequest{
		InvoiceID:    "INV-100",
		Date:         time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CustomerID:   "cust-1",
		ARAccountID:  "ar-1",
		CurrencyCode: "MYR",
		Lines:        lines,
	}
}

func (s *InvoicePostingTestSuite) TestSimpleInvoice() {
	s.openPeriod()
	s.stubAccounts(acct("rev-1", domain.Revenue), acct("ar-1", domain.Asset))

	result, err := s.svc.ValidateInvoicePosting(s.ctx, s.pctx(domain.RoleAccountant),
		s.request(dto.DocumentLineItem{AccountID: "rev-1", Amount: dec("100")}))

	s.NoError(err)
	s.True(result.Validated)
	s.Require().NotNil(result.Journal)
	s.Len(result.Journal.Lines, 2)
	s.True(result.TotalAmount.Equal(dec("100")))

	var debits, credits int
	for _, line := range result.Journal.Lines {
		if line.IsDebit() {
			debits++
			s.Equal("ar-1", line.AccountID)
			s.True(line.Debit.Equal(dec("100")))
		} else {
			credits++
			s.Equal("rev-1", line.AccountID)
			s.True(line.Credit.Equal(dec("100")))
		}
	}
	s.Equal(1, debits)
	s.Equal(1, credits)
	s.False(result.RequiresApproval)
	s.Nil(result.FXApplied)
}

func (s *InvoicePostingTestSuite) TestInvoiceWithTenPercentTax() {
	s.openPeriod()
	s.stubAccounts(acct("rev-1", domain.Revenue), acct("tax-1", domain.Liability), acct("ar-1", domain.Asset))

	result, err := s.svc.ValidateInvoicePosting(s.ctx, s.pctx(domain.RoleAccountant),
		s.request(dto.DocumentLineItem{AccountID: "rev-1", Amount: dec("100"), TaxRate: dec("0.10"), TaxAccountID: "tax-1"}))

	s.NoError(err)
	s.True(result.Validated)
	s.Len(result.Journal.Lines, 3)
	s.True(result.TotalAmount.Equal(dec("110")), "total %s", result.TotalAmount)

	totalDebits := dec("0")
	totalCredits := dec("0")
	for _, line := range result.Journal.Lines {
		totalDebits = totalDebits.Add(line.Debit)
		totalCredits = totalCredits.Add(line.Credit)
	}
	s.True(totalDebits.Equal(totalCredits))
	s.True(totalDebits.Equal(dec("110")))
}

func (s *InvoicePostingTestSuite) TestForeignInvoiceWithoutRate() {
	req := s.request(dto.DocumentLineItem{AccountID: "rev-1", Amount: dec("100")})
	req.CurrencyCode = "USD"

	result, err := s.svc.ValidateInvoicePosting(s.ctx, s.pctx(domain.RoleAccountant), req)

	s.NoError(err)
	s.False(result.Validated)
	s.Equal(domain.CodeExchangeRateRequired, result.Code)
}

func (s *InvoicePostingTestSuite) TestForeignInvoiceConvertsOnce() {
	s.openPeriod()
	s.stubAccounts(acct("rev-1", domain.Revenue), acct("ar-1", domain.Asset))

	req := s.request(dto.DocumentLineItem{AccountID: "rev-1", Amount: dec("100")})
	req.CurrencyCode = "USD"
	req.ExchangeRate = dec("4.50")

	result, err := s.svc.ValidateInvoicePosting(s.ctx, s.pctx(domain.RoleAccountant), req)

	s.NoError(err)
	s.True(result.Validated)
	s.True(result.TotalAmount.Equal(dec("450")))
	s.Require().NotNil(result.FXApplied)
	s.Equal("USD", result.FXApplied.FromCurrency)
	s.Equal("MYR", result.FXApplied.ToCurrency)
	s.True(result.FXApplied.Rate.Equal(dec("4.50")))
}

func (s *InvoicePostingTestSuite) TestNegativeLineAmount() {
	result, err := s.svc.ValidateInvoicePosting(s.ctx, s.pctx(domain.RoleAccountant),
		s.request(dto.DocumentLineItem{AccountID: "rev-1", Amount: dec("-50")}))

	s.NoError(err)
	s.Equal(domain.CodeInvalidAmounts, result.Code)
	s.Contains(result.Error, "positive")
}

func (s *InvoicePostingTestSuite) TestZeroAmountInvoiceIsRejected() {
	result, err := s.svc.ValidateInvoicePosting(s.ctx, s.pctx(domain.RoleAccountant),
		s.request(dto.DocumentLineItem{AccountID: "rev-1", Amount: dec("0")}))

	s.NoError(err)
	s.Equal(domain.CodeZeroAmounts, result.Code)
}

func (s *InvoicePostingTestSuite) TestTaxRateWithoutTaxAccount() {
	result, err := s.svc.ValidateInvoicePosting(s.ctx, s.pctx(domain.RoleAccountant),
		s.request(dto.DocumentLineItem{AccountID: "rev-1", Amount: dec("100"), TaxRate: dec("0.06")}))

	s.NoError(err)
	s.Equal(domain.CodeMissingFields, result.Code)
}

func (s *InvoicePostingTestSuite) TestUnknownAccount() {
	s.openPeriod()
	s.stubAccounts(acct("ar-1", domain.Asset)) // rev-1 missing

	result, err := s.svc.ValidateInvoicePosting(s.ctx, s.pctx(domain.RoleAccountant),
		s.request(dto.DocumentLineItem{AccountID: "rev-1", Amount: dec("100")}))

	s.NoError(err)
	s.Equal(domain.CodeAccountNotFound, result.Code)
}

func (s *InvoicePostingTestSuite) TestInactiveAccount() {
	inactive := acct("rev-1", domain.Revenue)
	inactive.IsActive = false
	s.openPeriod()
	s.stubAccounts(inactive, acct("ar-1", domain.Asset))

	result, err := s.svc.ValidateInvoicePosting(s.ctx, s.pctx(domain.RoleAccountant),
		s.request(dto.DocumentLineItem{AccountID: "rev-1", Amount: dec("100")}))

	s.NoError(err)
	s.Equal(domain.CodeAccountInactive, result.Code)
}

func (s *InvoicePostingTestSuite) TestARAccountMustBeAsset() {
	s.openPeriod()
	s.stubAccounts(acct("rev-1", domain.Revenue), acct("ar-1", domain.Revenue))

	result, err := s.svc.ValidateInvoicePosting(s.ctx, s.pctx(domain.RoleAccountant),
		s.request(dto.DocumentLineItem{AccountID: "rev-1", Amount: dec("100")}))

	s.NoError(err)
	s.Equal(domain.CodeAccountTypeMismatch, result.Code)
}

func (s *InvoicePostingTestSuite) TestAtypicalRevenueAccountWarns() {
	s.openPeriod()
	s.stubAccounts(acct("rev-1", domain.Expense), acct("ar-1", domain.Asset))

	result, err := s.svc.ValidateInvoicePosting(s.ctx, s.pctx(domain.RoleAccountant),
		s.request(dto.DocumentLineItem{AccountID: "rev-1", Amount: dec("100")}))

	s.NoError(err)
	s.True(result.Validated, "atypical line account type is advisory, not fatal")
	s.NotEmpty(result.Warnings)
}

func TestInvoicePostingTestSuite(t *testing.T) {
	suite.Run(t, new(InvoicePostingTestSuite))
}
