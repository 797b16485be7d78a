package handler

import (
	"core-banking-ledger/internal/adapter/http/dto"
	"core-banking-ledger/internal/adapter/http/middleware"
	"core-banking-ledger/internal/core/ports"
	"core-banking-ledger/pkg/apperror"
	"core-banking-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler handles money movement endpoints.
type LedgerHandler struct {
	journalSvc ports.JournalService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(journalSvc ports.JournalService) *LedgerHandler {
	return &LedgerHandler{journalSvc: journalSvc}
}

// Deposit handles POST /api/v1/operations/deposit.
func (h *LedgerHandler) Deposit(c *gin.Context) {
	req, ok := bindMoney(c)
	if !ok {
		return
	}
	txn, err := h.journalSvc.Deposit(c.Request.Context(), ports.DepositRequest{
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Description: req.Description,
		Actor:       middleware.Actor(c),
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromTransaction(txn))
}

// Withdraw handles POST /api/v1/operations/withdraw.
func (h *LedgerHandler) Withdraw(c *gin.Context) {
	req, ok := bindMoney(c)
	if !ok {
		return
	}
	txn, err := h.journalSvc.Withdraw(c.Request.Context(), ports.WithdrawRequest{
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Description: req.Description,
		Actor:       middleware.Actor(c),
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromTransaction(txn))
}

// ServicePayment handles POST /api/v1/operations/service-payment.
func (h *LedgerHandler) ServicePayment(c *gin.Context) {
	req, ok := bindMoney(c)
	if !ok {
		return
	}
	txn, err := h.journalSvc.ServicePayment(c.Request.Context(), ports.ServicePaymentRequest{
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Description: req.Description,
		Actor:       middleware.Actor(c),
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromTransaction(txn))
}

// Transfer handles POST /api/v1/operations/transfer.
func (h *LedgerHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	txn, err := h.journalSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Amount:               req.Amount,
		Description:          req.Description,
		Actor:                middleware.Actor(c),
		ReferenceID:          req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromTransaction(txn))
}

// Reverse handles POST /api/v1/transactions/:id/reverse.
func (h *LedgerHandler) Reverse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	txn, err := h.journalSvc.Reverse(c.Request.Context(), ports.ReverseRequest{
		TransactionID: id,
		Actor:         middleware.Actor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromTransaction(txn))
}

// GetTransaction handles GET /api/v1/transactions/:id.
func (h *LedgerHandler) GetTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	txn, err := h.journalSvc.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromTransaction(txn))
}

func bindMoney(c *gin.Context) (dto.MoneyRequest, bool) {
	var req dto.MoneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return dto.MoneyRequest{}, false
	}
	dto.SanitizeStruct(&req)
	return req, true
}
