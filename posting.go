// Package posting is the public surface of the posting validation engine.
//
// The engine validates accounting documents (customer invoices, supplier
// bills, payments and generic journals) and, when a document passes, emits the
// balanced double-entry journal lines it implies. It persists nothing itself:
// the host system implements the collaborator interfaces (account directory,
// party directory, advance ledger, fee schedule, period validator) and decides
// what to do with a validated journal.
//
//	engine := posting.NewEngine(accounts, parties, advances, fees, periods, nil)
//	result, err := engine.ValidateInvoicePosting(ctx, pctx, req)
//
// A non-nil err signals an infrastructure fault (a collaborator lookup
// failed). Business rejections never produce an err; they come back as a
// result with Validated=false and a machine-checkable Code.
package posting

import (
	"github.com/finacct/posting_engine/internal/core/domain"
	"github.com/finacct/posting_engine/internal/core/ports"
	portssvc "github.com/finacct/posting_engine/internal/core/ports/services"
	"github.com/finacct/posting_engine/internal/core/services"
	"github.com/finacct/posting_engine/internal/dto"
	"github.com/finacct/posting_engine/internal/platform/config"
	"github.com/finacct/posting_engine/internal/platform/logging"
)

// Engine validates documents and synthesises their journal lines.
type Engine = portssvc.PostingSvcFacade

// Collaborator interfaces the host system implements.
type (
	AccountDirectory = ports.AccountDirectory
	PartyDirectory   = ports.PartyDirectory
	AdvanceLedger    = ports.AdvanceLedger
	FeeSchedule      = ports.FeeSchedule
	PeriodValidator  = ports.PeriodValidator
	ChargeEntry      = ports.ChargeEntry
	WithholdingEntry = ports.WithholdingEntry
)

// Domain types shared between requests and results.
type (
	Account          = domain.Account
	AccountType      = domain.AccountType
	AdvanceAccount   = domain.AdvanceAccount
	BankAccount      = domain.BankAccount
	ErrorCode        = domain.ErrorCode
	FXInfo           = domain.FXInfo
	JournalInput     = domain.JournalInput
	JournalLine      = domain.JournalLine
	Party            = domain.Party
	PartyType        = domain.PartyType
	PostingContext   = domain.PostingContext
	UserRole         = domain.UserRole
	ValidationResult = domain.ValidationResult
)

// Request shapes, one per document type.
type (
	AllocationInput       = dto.AllocationInput
	AllocationType        = dto.AllocationType
	BankChargeInput       = dto.BankChargeInput
	BillPostingRequest    = dto.BillPostingRequest
	DocumentLineItem      = dto.DocumentLineItem
	InvoicePostingRequest = dto.InvoicePostingRequest
	JournalLineInput      = dto.JournalLineInput
	JournalPostingRequest = dto.JournalPostingRequest
	PaymentDirection      = dto.PaymentDirection
	PaymentPostingRequest = dto.PaymentPostingRequest
	WithholdingInput      = dto.WithholdingInput
)

// Config tunes balance tolerance, approval threshold, base currency and the
// posting role allow-list.
type Config = config.Config

const (
	RoleAdmin      = domain.RoleAdmin
	RoleAccountant = domain.RoleAccountant
	RoleMember     = domain.RoleMember
	RoleViewer     = domain.RoleViewer

	PartyCustomer = domain.PartyCustomer
	PartySupplier = domain.PartySupplier

	DirectionReceipt      = dto.DirectionReceipt
	DirectionDisbursement = dto.DirectionDisbursement

	AllocationInvoice = dto.AllocationInvoice
	AllocationBill    = dto.AllocationBill
)

var (
	// NewEngine wires a posting engine from its collaborators. fees may be
	// nil when no automatic fee configuration exists; a nil cfg falls back to
	// DefaultConfig.
	NewEngine = services.NewPostingService

	// DefaultConfig returns the engine defaults; LoadConfig reads overrides
	// from the environment (and a .env file when present).
	DefaultConfig = config.Default
	LoadConfig    = config.LoadConfig

	// WithLogger attaches a *slog.Logger to a context; the engine logs
	// through it for the duration of that call.
	WithLogger = logging.WithLogger
)
