package handler

import (
	"time"

	"core-banking-ledger/internal/adapter/http/dto"
	"core-banking-ledger/internal/core/ports"
	"core-banking-ledger/pkg/apperror"
	"core-banking-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditHandler handles audit trail query endpoints.
type AuditHandler struct {
	auditSvc ports.AuditQueryService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditSvc ports.AuditQueryService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// Get handles GET /api/v1/audit/records/:id.
func (h *AuditHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("audit record id must be a UUID"))
		return
	}
	entry, ok := h.auditSvc.FindByID(c.Request.Context(), id)
	if !ok {
		response.Error(c, apperror.ErrEntityNotFound("audit record"))
		return
	}
	response.OK(c, dto.FromAuditEntry(entry))
}

// History handles GET /api/v1/audit/history/:kind/:id.
func (h *AuditHandler) History(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	entries := h.auditSvc.History(c.Request.Context(), c.Param("kind"), id)
	response.OK(c, dto.FromAuditEntries(entries))
}

// Search handles GET /api/v1/audit. Exactly one filter is applied, checked
// in order: actor, operation, from+to date range.
func (h *AuditHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	if actor := c.Query("actor"); actor != "" {
		response.OK(c, dto.FromAuditEntries(h.auditSvc.FindByActor(ctx, actor)))
		return
	}
	if op := c.Query("operation"); op != "" {
		response.OK(c, dto.FromAuditEntries(h.auditSvc.FindByOperation(ctx, op)))
		return
	}

	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr == "" || toStr == "" {
		response.Error(c, apperror.Validation("provide actor, operation, or from+to filters"))
		return
	}
	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		response.Error(c, apperror.Validation("from must be RFC3339"))
		return
	}
	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		response.Error(c, apperror.Validation("to must be RFC3339"))
		return
	}
	response.OK(c, dto.FromAuditEntries(h.auditSvc.FindByDateRange(ctx, from, to)))
}
