package services

import (
	"context"
	"fmt"

	"github.com/finacct/posting_engine/internal/core/domain"
	"github.com/finacct/posting_engine/internal/dto"
)

// ValidateBillPosting validates a supplier bill and constructs its journal:
// one debit per expense line, one debit per derived tax amount, and a single
// accounts-payable credit equal to their sum.
func (s *postingService) ValidateBillPosting(ctx context.Context, pctx domain.PostingContext, req dto.BillPostingRequest) (domain.ValidationResult, error) {
	if rej := s.checkRequiredFields(req); rej != nil {
		return *rej, nil
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Bill %s", req.BillID)
	}

	return s.validateRecognition(ctx, pctx, recognitionParams{
		documentID:       req.BillID,
		date:             req.Date,
		description:      description,
		currencyCode:     req.CurrencyCode,
		exchangeRate:     req.ExchangeRate,
		lines:            req.Lines,
		controlAccountID: req.APAccountID,
		controlType:      domain.Liability,
		controlDebit:     false,
		itemExpected:     domain.Expense,
		taxExpected:      domain.Asset, // input tax is claimable
		controlRole:      "accounts payable",
	})
}
