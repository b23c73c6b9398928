package services

import (
	"context"

	"github.com/finacct/posting_engine/internal/core/domain"
	"github.com/finacct/posting_engine/internal/dto"
)

// InvoicePostingSvc validates invoice postings.
type InvoicePostingSvc interface {
	// ValidateInvoicePosting turns an invoice into a balanced journal or a
	// coded rejection. The error return is reserved for infrastructure faults.
	ValidateInvoicePosting(ctx context.Context, pctx domain.PostingContext, req dto.InvoicePostingRequest) (domain.ValidationResult, error)
}

// BillPostingSvc validates supplier bill postings.
type BillPostingSvc interface {
	ValidateBillPosting(ctx context.Context, pctx domain.PostingContext, req dto.BillPostingRequest) (domain.ValidationResult, error)
}

// PaymentPostingSvc validates payment postings, including allocation
// resolution, overpayment routing, bank charges and withholding tax.
type PaymentPostingSvc interface {
	ValidatePaymentPosting(ctx context.Context, pctx domain.PostingContext, req dto.PaymentPostingRequest) (domain.ValidationResult, error)
}

// JournalPostingSvc validates caller-supplied generic journal entries.
type JournalPostingSvc interface {
	ValidateJournalPosting(ctx context.Context, pctx domain.PostingContext, req dto.JournalPostingRequest) (domain.ValidationResult, error)
}

// PostingSvcFacade combines the per-document-type validators.
// This is the surface consumed by the external persistence/API layer.
type PostingSvcFacade interface {
	InvoicePostingSvc
	BillPostingSvc
	PaymentPostingSvc
	JournalPostingSvc
}
