package handler

import (
	"strconv"

	"core-banking-ledger/internal/adapter/http/dto"
	"core-banking-ledger/internal/adapter/http/middleware"
	"core-banking-ledger/internal/core/ports"
	"core-banking-ledger/pkg/apperror"
	"core-banking-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// ClientHandler handles client lifecycle endpoints.
type ClientHandler struct {
	clientSvc  ports.ClientService
	accountSvc ports.AccountService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientSvc ports.ClientService, accountSvc ports.AccountService) *ClientHandler {
	return &ClientHandler{clientSvc: clientSvc, accountSvc: accountSvc}
}

// Create handles POST /api/v1/clients.
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	client, err := h.clientSvc.Create(c.Request.Context(), ports.CreateClientRequest{
		Name:           req.Name,
		DocumentNumber: req.DocumentNumber,
		Email:          req.Email,
		Actor:          middleware.Actor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromClient(client))
}

// Get handles GET /api/v1/clients/:id.
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	client, err := h.clientSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromClient(client))
}

// List handles GET /api/v1/clients. With ?deleted=true it lists the
// soft-deleted set instead.
func (h *ClientHandler) List(c *gin.Context) {
	if c.Query("deleted") == "true" {
		response.OK(c, dto.FromClients(h.clientSvc.ListDeleted(c.Request.Context())))
		return
	}
	response.OK(c, dto.FromClients(h.clientSvc.List(c.Request.Context())))
}

// Update handles PUT /api/v1/clients/:id.
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	client, err := h.clientSvc.Update(c.Request.Context(), ports.UpdateClientRequest{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
		Actor: middleware.Actor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromClient(client))
}

// Deactivate handles DELETE /api/v1/clients/:id (soft delete).
func (h *ClientHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	client, err := h.clientSvc.Deactivate(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromClient(client))
}

// Restore handles POST /api/v1/clients/:id/restore.
func (h *ClientHandler) Restore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	client, err := h.clientSvc.Restore(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromClient(client))
}

// Accounts handles GET /api/v1/clients/:id/accounts.
func (h *ClientHandler) Accounts(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	response.OK(c, dto.FromAccounts(h.accountSvc.ListByClient(c.Request.Context(), id)))
}

// pathID parses the :id path parameter and writes a validation error on
// malformed input.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, apperror.Validation("id must be a positive integer"))
		return 0, false
	}
	return id, true
}
