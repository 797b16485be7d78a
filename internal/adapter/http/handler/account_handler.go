package handler

import (
	"core-banking-ledger/internal/adapter/http/dto"
	"core-banking-ledger/internal/adapter/http/middleware"
	"core-banking-ledger/internal/core/domain"
	"core-banking-ledger/internal/core/ports"
	"core-banking-ledger/pkg/apperror"
	"core-banking-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles account lifecycle endpoints.
type AccountHandler struct {
	accountSvc ports.AccountService
	cardSvc    ports.CardService
	journalSvc ports.JournalService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc ports.AccountService, cardSvc ports.CardService, journalSvc ports.JournalService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc, cardSvc: cardSvc, journalSvc: journalSvc}
}

// Open handles POST /api/v1/accounts.
func (h *AccountHandler) Open(c *gin.Context) {
	var req dto.OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	account, err := h.accountSvc.Open(c.Request.Context(), ports.OpenAccountRequest{
		ClientID:       req.ClientID,
		Type:           domain.AccountType(req.Type),
		InitialBalance: req.InitialBalance,
		Actor:          middleware.Actor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromAccount(account))
}

// Get handles GET /api/v1/accounts/:id.
func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	account, err := h.accountSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromAccount(account))
}

// List handles GET /api/v1/accounts. With ?deleted=true it lists closed
// accounts instead.
func (h *AccountHandler) List(c *gin.Context) {
	if c.Query("deleted") == "true" {
		response.OK(c, dto.FromAccounts(h.accountSvc.ListDeleted(c.Request.Context())))
		return
	}
	response.OK(c, dto.FromAccounts(h.accountSvc.List(c.Request.Context())))
}

// Suspend handles POST /api/v1/accounts/:id/suspend.
func (h *AccountHandler) Suspend(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	account, err := h.accountSvc.Suspend(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromAccount(account))
}

// Reactivate handles POST /api/v1/accounts/:id/reactivate.
func (h *AccountHandler) Reactivate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	account, err := h.accountSvc.Reactivate(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromAccount(account))
}

// Close handles DELETE /api/v1/accounts/:id (soft delete, zero balance only).
func (h *AccountHandler) Close(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	account, err := h.accountSvc.Close(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromAccount(account))
}

// Restore handles POST /api/v1/accounts/:id/restore.
func (h *AccountHandler) Restore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	account, err := h.accountSvc.Restore(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromAccount(account))
}

// Transactions handles GET /api/v1/accounts/:id/transactions.
func (h *AccountHandler) Transactions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	txns, err := h.journalSvc.ListByAccount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromTransactions(txns))
}

// Cards handles GET /api/v1/accounts/:id/cards.
func (h *AccountHandler) Cards(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	response.OK(c, dto.FromCards(h.cardSvc.ListByAccount(c.Request.Context(), id)))
}
