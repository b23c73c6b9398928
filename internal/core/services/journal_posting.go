package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finacct/posting_engine/internal/core/domain"
	"github.com/finacct/posting_engine/internal/dto"
	"github.com/finacct/posting_engine/internal/platform/logging"
	"github.com/finacct/posting_engine/internal/utils/accounting"
)

// ValidateJournalPosting validates a caller-supplied generic journal entry.
// Lines come from the caller verbatim; the engine checks shape, balance,
// accounts, role and period but synthesises nothing.
func (s *postingService) ValidateJournalPosting(ctx context.Context, pctx domain.PostingContext, req dto.JournalPostingRequest) (domain.ValidationResult, error) {
	logger := logging.FromCtx(ctx)

	if rej := s.checkRequiredFields(req); rej != nil {
		return *rej, nil
	}
	if rej := s.authorizePosting(pctx); rej != nil {
		logger.Warn("Journal posting rejected: unauthorized role", slog.String("user_id", pctx.UserID), slog.String("role", string(pctx.UserRole)))
		return *rej, nil
	}
	rate, fx, rej := s.resolveExchangeRate(pctx, req.CurrencyCode, req.ExchangeRate)
	if rej != nil {
		return *rej, nil
	}

	// Per-line shape rules carry their own codes: both sides set, neither
	// side set, and negative amounts are distinct caller mistakes.
	accountIDs := make([]string, 0, len(req.Lines))
	lines := make([]domain.JournalLine, 0, len(req.Lines))
	totalDebits := decimal.Zero
	for _, lineReq := range req.Lines {
		if lineReq.Debit.IsNegative() || lineReq.Credit.IsNegative() {
			return domain.Rejectedf(domain.CodeInvalidAmounts, "line amounts for account %s must be positive", lineReq.AccountID), nil
		}
		debitSet := lineReq.Debit.IsPositive()
		creditSet := lineReq.Credit.IsPositive()
		if debitSet && creditSet {
			return domain.Rejectedf(domain.CodeInvalidLineAmounts, "line for account %s sets both debit and credit", lineReq.AccountID), nil
		}
		if !debitSet && !creditSet {
			return domain.Rejectedf(domain.CodeZeroAmounts, "line for account %s has neither debit nor credit", lineReq.AccountID), nil
		}

		var line domain.JournalLine
		if debitSet {
			amount, cerr := accounting.Convert(lineReq.Debit, rate)
			if cerr != nil {
				return domain.Rejected(domain.CodeInvalidExchangeRate, cerr.Error()), nil
			}
			line = domain.DebitLine(lineReq.AccountID, amount, lineReq.Description)
			totalDebits = totalDebits.Add(amount)
		} else {
			amount, cerr := accounting.Convert(lineReq.Credit, rate)
			if cerr != nil {
				return domain.Rejected(domain.CodeInvalidExchangeRate, cerr.Error()), nil
			}
			line = domain.CreditLine(lineReq.AccountID, amount, lineReq.Description)
		}
		lines = append(lines, line)
		accountIDs = append(accountIDs, lineReq.AccountID)
	}

	// A journal moving value within a single account is meaningless.
	if len(uniqueStrings(accountIDs)) < 2 {
		return domain.Rejected(domain.CodeInvalidLineAmounts, "journal must affect at least two different accounts"), nil
	}

	// Only consult collaborators once the input is locally valid.
	if rej, err := s.checkPeriodOpen(ctx, pctx, req.Date); rej != nil {
		return *rej, err
	}

	accountsMap, rej, err := s.resolveAccounts(ctx, pctx, accountIDs)
	if rej != nil {
		return *rej, err
	}
	if rej := s.checkAccountCurrencies(accountsMap, fxFrom(fx, s.baseCurrency(pctx)), s.baseCurrency(pctx)); rej != nil {
		return *rej, nil
	}

	journalNumber := req.JournalNumber
	if journalNumber == "" {
		journalNumber = uuid.NewString()
	}
	journal := &domain.JournalInput{
		JournalNumber: journalNumber,
		Date:          req.Date,
		Description:   req.Description,
		CurrencyCode:  req.CurrencyCode,
		ExchangeRate:  rate,
		Lines:         lines,
	}

	warnings := s.chartWarnings(ctx, pctx, accountsMap, nil)
	result := s.finalizeJournal(journal, totalDebits, fx, warnings)
	if result.Validated {
		logger.Info("Journal posting validated", slog.String("journal_number", journalNumber), slog.Int("lines", len(lines)))
	}
	return result, nil
}
