package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"core-banking-ledger/internal/core/domain"
	"core-banking-ledger/internal/core/ports"
)

// CreateClientRequest is the request body for client registration.
type CreateClientRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=100"`
	DocumentNumber string `json:"document_number" binding:"required,safe_id,max=50"`
	Email          string `json:"email" binding:"omitempty,email"`
}

// UpdateClientRequest is the request body for client updates. Empty fields
// keep their current value.
type UpdateClientRequest struct {
	Name  string `json:"name" binding:"omitempty,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
}

// OpenAccountRequest is the request body for opening an account.
type OpenAccountRequest struct {
	ClientID       int64           `json:"client_id" binding:"required,gt=0"`
	Type           string          `json:"type" binding:"required"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// IssueCardRequest is the request body for issuing a card.
type IssueCardRequest struct {
	AccountID int64  `json:"account_id" binding:"required,gt=0"`
	Type      string `json:"type" binding:"required"`
}

// MoneyRequest is the request body for deposit, withdrawal and service
// payment. ReferenceID is an optional idempotency key.
type MoneyRequest struct {
	AccountID   int64           `json:"account_id" binding:"required,gt=0"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"omitempty,max=255"`
	ReferenceID string          `json:"reference_id" binding:"omitempty,safe_id,max=100"`
}

// TransferRequest is the request body for transfers between accounts.
type TransferRequest struct {
	SourceAccountID      int64           `json:"source_account_id" binding:"required,gt=0"`
	DestinationAccountID int64           `json:"destination_account_id" binding:"required,gt=0"`
	Amount               decimal.Decimal `json:"amount" binding:"required"`
	Description          string          `json:"description" binding:"omitempty,max=255"`
	ReferenceID          string          `json:"reference_id" binding:"omitempty,safe_id,max=100"`
}

// ClientResponse is the response body for client resources.
type ClientResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	DocumentNumber string `json:"document_number"`
	Email          string `json:"email,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// AccountResponse is the response body for account resources.
type AccountResponse struct {
	ID             int64           `json:"id"`
	ClientID       int64           `json:"client_id"`
	Type           string          `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Balance        decimal.Decimal `json:"balance"`
	Active         bool            `json:"active"`
	CreatedAt      string          `json:"created_at"`
}

// CardResponse is the response body for card resources.
type CardResponse struct {
	ID           int64  `json:"id"`
	AccountID    int64  `json:"account_id"`
	MaskedNumber string `json:"masked_number"`
	Type         string `json:"type"`
	Blocked      bool   `json:"blocked"`
	ExpiresAt    string `json:"expires_at"`
	CreatedAt    string `json:"created_at"`
}

// TransactionResponse is the response body for journal records.
type TransactionResponse struct {
	ID                   int64           `json:"id"`
	SourceAccountID      int64           `json:"source_account_id"`
	DestinationAccountID *int64          `json:"destination_account_id,omitempty"`
	Kind                 string          `json:"kind"`
	Amount               decimal.Decimal `json:"amount"`
	Description          string          `json:"description,omitempty"`
	CreatedAt            string          `json:"created_at"`
}

// AuditEntryResponse is the response body for audit records.
type AuditEntryResponse struct {
	ID         string           `json:"id"`
	EntityKind string           `json:"entity_kind"`
	EntityID   int64            `json:"entity_id"`
	Operation  string           `json:"operation"`
	Actor      string           `json:"actor"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Details    string           `json:"details,omitempty"`
	Entity     any              `json:"entity"`
	CreatedAt  string           `json:"created_at"`
}

func FromClient(c domain.Client) ClientResponse {
	return ClientResponse{
		ID:             c.ID,
		Name:           c.Name,
		DocumentNumber: c.DocumentNumber,
		Email:          c.Email,
		CreatedAt:      c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func FromClients(clients []domain.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, FromClient(c))
	}
	return out
}

func FromAccount(a domain.Account) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		ClientID:       a.ClientID,
		Type:           string(a.Type),
		InitialBalance: a.InitialBalance,
		Balance:        a.Balance,
		Active:         a.Active,
		CreatedAt:      a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func FromAccounts(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, FromAccount(a))
	}
	return out
}

func FromCard(c domain.Card) CardResponse {
	return CardResponse{
		ID:           c.ID,
		AccountID:    c.AccountID,
		MaskedNumber: c.MaskedNumber,
		Type:         string(c.Type),
		Blocked:      c.Blocked,
		ExpiresAt:    c.ExpiresAt.UTC().Format(time.RFC3339),
		CreatedAt:    c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func FromCards(cards []domain.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, FromCard(c))
	}
	return out
}

func FromTransaction(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                   t.ID,
		SourceAccountID:      t.SourceAccountID,
		DestinationAccountID: t.DestinationAccountID,
		Kind:                 string(t.Kind),
		Amount:               t.Amount,
		Description:          t.Description,
		CreatedAt:            t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func FromTransactions(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, FromTransaction(t))
	}
	return out
}

func FromAuditEntry(e ports.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         e.ID.String(),
		EntityKind: e.EntityKind,
		EntityID:   e.EntityID,
		Operation:  e.Operation,
		Actor:      e.Actor,
		Amount:     e.Amount,
		Details:    e.Details,
		Entity:     e.Entity,
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func FromAuditEntries(entries []ports.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromAuditEntry(e))
	}
	return out
}
