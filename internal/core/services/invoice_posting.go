package services

import (
	"context"
	"fmt"

	"github.com/finacct/posting_engine/internal/core/domain"
	"github.com/finacct/posting_engine/internal/dto"
)

// ValidateInvoicePosting validates an invoice and constructs its journal:
// one credit per revenue line, one credit per derived tax amount, and a single
// accounts-receivable debit equal to their sum.
func (s *postingService) ValidateInvoicePosting(ctx context.Context, pctx domain.PostingContext, req dto.InvoicePostingRequest) (domain.ValidationResult, error) {
	if rej := s.checkRequiredFields(req); rej != nil {
		return *rej, nil
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Invoice %s", req.InvoiceID)
	}

	return s.validateRecognition(ctx, pctx, recognitionParams{
		documentID:       req.InvoiceID,
		date:             req.Date,
		description:      description,
		currencyCode:     req.CurrencyCode,
		exchangeRate:     req.ExchangeRate,
		lines:            req.Lines,
		controlAccountID: req.ARAccountID,
		controlType:      domain.Asset,
		controlDebit:     true,
		itemExpected:     domain.Revenue,
		taxExpected:      domain.Liability, // output tax is owed until remitted
		controlRole:      "accounts receivable",
	})
}
