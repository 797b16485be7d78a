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

// CardHandler handles card lifecycle endpoints.
type CardHandler struct {
	cardSvc ports.CardService
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardSvc ports.CardService) *CardHandler {
	return &CardHandler{cardSvc: cardSvc}
}

// Issue handles POST /api/v1/cards.
func (h *CardHandler) Issue(c *gin.Context) {
	var req dto.IssueCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	card, err := h.cardSvc.Issue(c.Request.Context(), ports.IssueCardRequest{
		AccountID: req.AccountID,
		Type:      domain.CardType(req.Type),
		Actor:     middleware.Actor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromCard(card))
}

// Get handles GET /api/v1/cards/:id.
func (h *CardHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	card, err := h.cardSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromCard(card))
}

// Block handles POST /api/v1/cards/:id/block.
func (h *CardHandler) Block(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	card, err := h.cardSvc.Block(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromCard(card))
}

// Activate handles POST /api/v1/cards/:id/activate.
func (h *CardHandler) Activate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	card, err := h.cardSvc.Activate(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromCard(card))
}

// Delete handles DELETE /api/v1/cards/:id (soft delete).
func (h *CardHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	card, err := h.cardSvc.Delete(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromCard(card))
}

// Restore handles POST /api/v1/cards/:id/restore.
func (h *CardHandler) Restore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	card, err := h.cardSvc.Restore(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromCard(card))
}
