package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"core-banking-ledger/internal/core/domain"
)

// --- Money movement (Transaction Journal) ---

// JournalService is the caller-facing money-movement API. Every operation is
// all-or-nothing: on failure no balance changes and no transaction record
// survives.
type JournalService interface {
	Deposit(ctx context.Context, req DepositRequest) (domain.Transaction, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (domain.Transaction, error)
	ServicePayment(ctx context.Context, req ServicePaymentRequest) (domain.Transaction, error)
	// Transfer returns the SENT_TRANSFER record; the RECEIVED_TRANSFER
	// record is created alongside it and independently queryable.
	Transfer(ctx context.Context, req TransferRequest) (domain.Transaction, error)
	// Reverse creates a new transaction of opposite economic effect. The
	// original record is never mutated or removed.
	Reverse(ctx context.Context, req ReverseRequest) (domain.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error)
}

// DepositRequest credits an account. ReferenceID is an optional client
// idempotency key; Actor is the opaque acting user stamped onto audit records.
type DepositRequest struct {
	AccountID   int64
	Amount      decimal.Decimal
	Description string
	Actor       string
	ReferenceID string
}

// WithdrawRequest debits an account.
type WithdrawRequest struct {
	AccountID   int64
	Amount      decimal.Decimal
	Description string
	Actor       string
	ReferenceID string
}

// ServicePaymentRequest debits an account for an external service bill.
type ServicePaymentRequest struct {
	AccountID   int64
	Amount      decimal.Decimal
	Description string
	Actor       string
	ReferenceID string
}

// TransferRequest moves money between two distinct accounts.
type TransferRequest struct {
	SourceAccountID      int64
	DestinationAccountID int64
	Amount               decimal.Decimal
	Description          string
	Actor                string
	ReferenceID          string
}

// ReverseRequest compensates a previously recorded transaction.
type ReverseRequest struct {
	TransactionID int64
	Actor         string
}

// --- Clients ---

type ClientService interface {
	Create(ctx context.Context, req CreateClientRequest) (domain.Client, error)
	Update(ctx context.Context, req UpdateClientRequest) (domain.Client, error)
	Get(ctx context.Context, id int64) (domain.Client, error)
	List(ctx context.Context) []domain.Client
	ListDeleted(ctx context.Context) []domain.Client
	Deactivate(ctx context.Context, id int64, actor string) (domain.Client, error)
	Restore(ctx context.Context, id int64, actor string) (domain.Client, error)
	Count(ctx context.Context) int
}

type CreateClientRequest struct {
	Name           string
	DocumentNumber string
	Email          string
	Actor          string
}

type UpdateClientRequest struct {
	ID    int64
	Name  string
	Email string
	Actor string
}

// --- Accounts ---

type AccountService interface {
	Open(ctx context.Context, req OpenAccountRequest) (domain.Account, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	List(ctx context.Context) []domain.Account
	ListByClient(ctx context.Context, clientID int64) []domain.Account
	ListDeleted(ctx context.Context) []domain.Account
	// Suspend flips the active flag without removing the account; a
	// suspended account rejects all money movement until reactivated.
	Suspend(ctx context.Context, id int64, actor string) (domain.Account, error)
	Reactivate(ctx context.Context, id int64, actor string) (domain.Account, error)
	// Close soft-deletes a zero-balance account. The record survives in the
	// deleted set because transactions keep referencing it.
	Close(ctx context.Context, id int64, actor string) (domain.Account, error)
	Restore(ctx context.Context, id int64, actor string) (domain.Account, error)
	Count(ctx context.Context) int
}

type OpenAccountRequest struct {
	ClientID       int64
	Type           domain.AccountType
	InitialBalance decimal.Decimal
	Actor          string
}

// --- Cards ---

type CardService interface {
	Issue(ctx context.Context, req IssueCardRequest) (domain.Card, error)
	Get(ctx context.Context, id int64) (domain.Card, error)
	ListByAccount(ctx context.Context, accountID int64) []domain.Card
	Block(ctx context.Context, id int64, actor string) (domain.Card, error)
	Activate(ctx context.Context, id int64, actor string) (domain.Card, error)
	Delete(ctx context.Context, id int64, actor string) (domain.Card, error)
	Restore(ctx context.Context, id int64, actor string) (domain.Card, error)
}

type IssueCardRequest struct {
	AccountID int64
	Type      domain.CardType
	Actor     string
}

// --- Audit queries ---

// AuditEntry is the kind-erased view of an audit record, used to query
// across the per-entity trails.
type AuditEntry struct {
	ID         uuid.UUID        `json:"id"`
	EntityKind string           `json:"entity_kind"`
	EntityID   int64            `json:"entity_id"`
	Operation  string           `json:"operation"`
	Actor      string           `json:"actor"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Details    string           `json:"details,omitempty"`
	Entity     any              `json:"entity"`
	CreatedAt  time.Time        `json:"created_at"`
}

// AuditQueryService aggregates the per-entity audit trails. Queries never
// mutate state; unknown kinds or malformed filters yield empty results.
type AuditQueryService interface {
	FindByID(ctx context.Context, id uuid.UUID) (AuditEntry, bool)
	History(ctx context.Context, entityKind string, entityID int64) []AuditEntry
	FindByActor(ctx context.Context, actor string) []AuditEntry
	FindByDateRange(ctx context.Context, from, to time.Time) []AuditEntry
	FindByOperation(ctx context.Context, op string) []AuditEntry
}
