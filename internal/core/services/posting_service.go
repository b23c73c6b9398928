package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/finacct/posting_engine/internal/apperrors"
	"github.com/finacct/posting_engine/internal/core/domain"
	"github.com/finacct/posting_engine/internal/core/ports"
	portssvc "github.com/finacct/posting_engine/internal/core/ports/services"
	"github.com/finacct/posting_engine/internal/platform/config"
	"github.com/finacct/posting_engine/internal/platform/logging"
	"github.com/finacct/posting_engine/internal/utils/accounting"
)

// postingService is the validation engine. It is stateless across calls: every
// validation is a pure computation over its inputs plus bounded read-only
// collaborator lookups.
type postingService struct {
	accounts ports.AccountDirectory
	parties  ports.PartyDirectory
	advances ports.AdvanceLedger
	fees     ports.FeeSchedule
	periods  ports.PeriodValidator
	cfg      *config.Config
	validate *validator.Validate
}

// NewPostingService creates the posting validation engine. All collaborators
// are injected; tests supply mocks. fees may be nil when no automatic fee
// configuration exists.
func NewPostingService(
	accounts ports.AccountDirectory,
	parties ports.PartyDirectory,
	advances ports.AdvanceLedger,
	fees ports.FeeSchedule,
	periods ports.PeriodValidator,
	cfg *config.Config,
) portssvc.PostingSvcFacade {
	if cfg == nil {
		cfg = config.Default()
	}
	return &postingService{
		accounts: accounts,
		parties:  parties,
		advances: advances,
		fees:     fees,
		periods:  periods,
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Ensure postingService implements the portssvc.PostingSvcFacade interface
var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// checkRequiredFields runs the struct-tag layer of field validation.
func (s *postingService) checkRequiredFields(req any) *domain.ValidationResult {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		rej := domain.Rejectedf(domain.CodeMissingFields, "missing or invalid field: %s", verrs[0].Namespace())
		return &rej
	}
	rej := domain.Rejected(domain.CodeMissingFields, err.Error())
	return &rej
}

// authorizePosting checks the caller's role against the posting allow-list.
// Admin is always permitted; viewer never is.
func (s *postingService) authorizePosting(pctx domain.PostingContext) *domain.ValidationResult {
	if pctx.UserRole == domain.RoleAdmin {
		return nil
	}
	for _, role := range s.cfg.PostingRoles {
		if pctx.UserRole == role && role != domain.RoleViewer {
			return nil
		}
	}
	rej := domain.Rejectedf(domain.CodeForbidden, "role %s is not permitted to post documents", pctx.UserRole)
	return &rej
}

// checkPeriodOpen rejects postings dated within a locked accounting period.
func (s *postingService) checkPeriodOpen(ctx context.Context, pctx domain.PostingContext, date time.Time) (*domain.ValidationResult, error) {
	if s.periods == nil {
		return nil, nil
	}
	err := s.periods.ValidatePeriodOpen(ctx, pctx.CompanyID, date)
	if err == nil {
		return nil, nil
	}
	if errors.Is(err, apperrors.ErrForbidden) {
		rej := domain.Rejectedf(domain.CodePeriodLocked, "accounting period for %s is locked", date.Format("2006-01-02"))
		return &rej, nil
	}
	logging.FromCtx(ctx).Error("Period lookup failed", slog.String("company_id", pctx.CompanyID), slog.String("error", err.Error()))
	rej := domain.Rejected(domain.CodeLookupFailed, err.Error())
	return &rej, fmt.Errorf("%w: period check: %v", apperrors.ErrLookup, err)
}

// baseCurrency resolves the comparison currency for FX decisions.
func (s *postingService) baseCurrency(pctx domain.PostingContext) string {
	if pctx.BaseCurrency != "" {
		return strings.ToUpper(pctx.BaseCurrency)
	}
	return s.cfg.DefaultBaseCurrency
}

// resolveExchangeRate validates the currency/rate pair of a document and
// returns the effective rate (1 for base-currency documents) plus FX info for
// foreign ones.
func (s *postingService) resolveExchangeRate(pctx domain.PostingContext, currencyCode string, exchangeRate decimal.Decimal) (decimal.Decimal, *domain.FXInfo, *domain.ValidationResult) {
	currency := strings.ToUpper(strings.TrimSpace(currencyCode))
	if len(currency) != 3 {
		rej := domain.Rejectedf(domain.CodeInvalidCurrency, "currency code %q must be 3 letters", currencyCode)
		return decimal.Zero, nil, &rej
	}
	base := s.baseCurrency(pctx)
	if currency == base {
		return decimal.NewFromInt(1), nil, nil
	}
	if exchangeRate.IsZero() {
		rej := domain.Rejectedf(domain.CodeExchangeRateRequired, "exchange rate is required to convert %s to %s", currency, base)
		return decimal.Zero, nil, &rej
	}
	if exchangeRate.IsNegative() {
		rej := domain.Rejectedf(domain.CodeInvalidExchangeRate, "exchange rate must be positive, got %s", exchangeRate)
		return decimal.Zero, nil, &rej
	}
	fx := &domain.FXInfo{FromCurrency: currency, ToCurrency: base, Rate: exchangeRate}
	return exchangeRate, fx, nil
}

// resolveAccounts batch-resolves the referenced accounts and enforces
// existence and active status. Missing ids are a reference error; a failed
// lookup is an infrastructure fault surfaced both ways.
func (s *postingService) resolveAccounts(ctx context.Context, pctx domain.PostingContext, accountIDs []string) (map[string]domain.Account, *domain.ValidationResult, error) {
	logger := logging.FromCtx(ctx)

	unique := uniqueStrings(accountIDs)
	accountsMap, err := s.accounts.GetAccountsInfo(ctx, pctx.CompanyID, unique)
	if err != nil {
		logger.Error("Failed to fetch accounts", slog.String("company_id", pctx.CompanyID), slog.String("error", err.Error()))
		rej := domain.Rejected(domain.CodeLookupFailed, err.Error())
		return nil, &rej, fmt.Errorf("%w: account directory: %v", apperrors.ErrLookup, err)
	}

	for _, id := range unique {
		acc, found := accountsMap[id]
		if !found {
			rej := domain.Rejectedf(domain.CodeAccountNotFound, "account %s not found", id)
			return nil, &rej, nil
		}
		if !acc.IsActive {
			rej := domain.Rejectedf(domain.CodeAccountInactive, "account %s (%s) is inactive", id, acc.Name)
			return nil, &rej, nil
		}
	}
	return accountsMap, nil, nil
}

// checkAccountCurrencies enforces that every referenced account posts in the
// document currency or the base currency (the converted side).
func (s *postingService) checkAccountCurrencies(accountsMap map[string]domain.Account, documentCurrency, base string) *domain.ValidationResult {
	for _, id := range sortedKeys(accountsMap) {
		acc := accountsMap[id]
		if acc.CurrencyCode == "" {
			continue
		}
		if acc.CurrencyCode != documentCurrency && acc.CurrencyCode != base {
			rej := domain.Rejectedf(domain.CodeCurrencyMismatch,
				"account %s currency %s matches neither document currency %s nor base currency %s",
				acc.AccountID, acc.CurrencyCode, documentCurrency, base)
			return &rej
		}
	}
	return nil
}

// requireControlAccount enforces the hard type rule on a control account
// (AR/bank must be ASSET, AP must be LIABILITY).
func requireControlAccount(acc domain.Account, want domain.AccountType, role string) *domain.ValidationResult {
	if acc.AccountType != want {
		rej := domain.Rejectedf(domain.CodeAccountTypeMismatch,
			"%s account %s must be %s, got %s", role, acc.AccountID, want, acc.AccountType)
		return &rej
	}
	return nil
}

// chartWarnings produces non-fatal chart-of-accounts advisories: accounts used
// in a role atypical for their type, and duplicate account codes in the chart.
// Advisory only; a failed snapshot lookup degrades to a logged warning.
func (s *postingService) chartWarnings(ctx context.Context, pctx domain.PostingContext, accountsMap map[string]domain.Account, expectedTypes map[string]domain.AccountType) []string {
	var warnings []string
	for _, accountID := range sortedKeys(expectedTypes) {
		want := expectedTypes[accountID]
		acc, ok := accountsMap[accountID]
		if !ok {
			continue
		}
		if acc.AccountType != want {
			warnings = append(warnings, fmt.Sprintf("account %s (%s) is %s; %s is typical for this line", acc.AccountID, acc.Name, acc.AccountType, want))
		}
	}

	chart, err := s.accounts.GetAllAccountsInfo(ctx, pctx.CompanyID)
	if err != nil {
		logging.FromCtx(ctx).Warn("Chart-of-accounts snapshot unavailable, skipping advisories", slog.String("error", err.Error()))
		return warnings
	}
	seen := make(map[string]string, len(chart))
	for _, acc := range chart {
		if acc.Code == "" {
			continue
		}
		if otherID, dup := seen[acc.Code]; dup {
			warnings = append(warnings, fmt.Sprintf("duplicate account code %s shared by %s and %s", acc.Code, otherID, acc.AccountID))
			continue
		}
		seen[acc.Code] = acc.AccountID
	}
	return warnings
}

// finalizeJournal runs the terminal BalanceChecked transition: per-line shape
// checks, the balance invariant, and assembly of the success result.
func (s *postingService) finalizeJournal(journal *domain.JournalInput, totalAmount decimal.Decimal, fx *domain.FXInfo, warnings []string) domain.ValidationResult {
	for _, line := range journal.Lines {
		if err := accounting.ValidateLineShape(line); err != nil {
			return domain.Rejected(domain.CodeInvalidLineAmounts, err.Error())
		}
	}
	if !accounting.IsBalanced(journal.Lines, s.cfg.BalanceTolerance) {
		debits, credits := accounting.SumDebitsCredits(journal.Lines)
		return domain.Rejectedf(domain.CodeUnbalancedJournal,
			"journal does not balance: debits %s, credits %s", debits, credits)
	}

	result := domain.Accepted(journal, totalAmount)
	result.FXApplied = fx
	result.Warnings = warnings
	if s.cfg.ApprovalThreshold.IsPositive() && totalAmount.GreaterThan(s.cfg.ApprovalThreshold) {
		result.RequiresApproval = true
	}
	return result
}

// sortedKeys returns the map's keys in ascending order. Validation output must
// not depend on map iteration order; identical inputs produce identical results.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
