package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"core-banking-ledger/internal/core/domain"
	"core-banking-ledger/internal/core/ports"
	"core-banking-ledger/internal/ledger"
)

// auditQueryService aggregates the four per-entity audit trails behind the
// kind-erased query API. It holds no state of its own and never mutates the
// trails.
type auditQueryService struct {
	clients      *ledger.AuditTrail[domain.Client, domain.ClientOperation]
	accounts     *ledger.AuditTrail[domain.Account, domain.AccountOperation]
	cards        *ledger.AuditTrail[domain.Card, domain.CardOperation]
	transactions *ledger.AuditTrail[domain.Transaction, domain.TransactionOperation]
}

// NewAuditQueryService creates the cross-entity audit query facade.
func NewAuditQueryService(
	clients *ledger.AuditTrail[domain.Client, domain.ClientOperation],
	accounts *ledger.AuditTrail[domain.Account, domain.AccountOperation],
	cards *ledger.AuditTrail[domain.Card, domain.CardOperation],
	transactions *ledger.AuditTrail[domain.Transaction, domain.TransactionOperation],
) ports.AuditQueryService {
	return &auditQueryService{
		clients:      clients,
		accounts:     accounts,
		cards:        cards,
		transactions: transactions,
	}
}

func (s *auditQueryService) FindByID(ctx context.Context, id uuid.UUID) (ports.AuditEntry, bool) {
	if rec, ok := s.clients.FindByID(id); ok {
		return toEntry(domain.KindClient, rec), true
	}
	if rec, ok := s.accounts.FindByID(id); ok {
		return toEntry(domain.KindAccount, rec), true
	}
	if rec, ok := s.cards.FindByID(id); ok {
		return toEntry(domain.KindCard, rec), true
	}
	if rec, ok := s.transactions.FindByID(id); ok {
		return toEntry(domain.KindTransaction, rec), true
	}
	return ports.AuditEntry{}, false
}

func (s *auditQueryService) History(ctx context.Context, entityKind string, entityID int64) []ports.AuditEntry {
	switch entityKind {
	case domain.KindClient:
		return toEntries(domain.KindClient, s.clients.History(entityID))
	case domain.KindAccount:
		return toEntries(domain.KindAccount, s.accounts.History(entityID))
	case domain.KindCard:
		return toEntries(domain.KindCard, s.cards.History(entityID))
	case domain.KindTransaction:
		return toEntries(domain.KindTransaction, s.transactions.History(entityID))
	}
	// Unknown kind is a malformed filter: empty result, never an error.
	return nil
}

func (s *auditQueryService) FindByActor(ctx context.Context, actor string) []ports.AuditEntry {
	return s.gather(
		toEntries(domain.KindClient, s.clients.FindByActor(actor)),
		toEntries(domain.KindAccount, s.accounts.FindByActor(actor)),
		toEntries(domain.KindCard, s.cards.FindByActor(actor)),
		toEntries(domain.KindTransaction, s.transactions.FindByActor(actor)),
	)
}

func (s *auditQueryService) FindByDateRange(ctx context.Context, from, to time.Time) []ports.AuditEntry {
	return s.gather(
		toEntries(domain.KindClient, s.clients.FindByDateRange(from, to)),
		toEntries(domain.KindAccount, s.accounts.FindByDateRange(from, to)),
		toEntries(domain.KindCard, s.cards.FindByDateRange(from, to)),
		toEntries(domain.KindTransaction, s.transactions.FindByDateRange(from, to)),
	)
}

func (s *auditQueryService) FindByOperation(ctx context.Context, op string) []ports.AuditEntry {
	return s.gather(
		toEntries(domain.KindClient, s.clients.FindByOperation(domain.ClientOperation(op))),
		toEntries(domain.KindAccount, s.accounts.FindByOperation(domain.AccountOperation(op))),
		toEntries(domain.KindCard, s.cards.FindByOperation(domain.CardOperation(op))),
		toEntries(domain.KindTransaction, s.transactions.FindByOperation(domain.TransactionOperation(op))),
	)
}

func (s *auditQueryService) gather(groups ...[]ports.AuditEntry) []ports.AuditEntry {
	var out []ports.AuditEntry
	for _, group := range groups {
		out = append(out, group...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func toEntry[E ledger.Entity[E], K ~string](kind string, rec ledger.AuditRecord[E, K]) ports.AuditEntry {
	return ports.AuditEntry{
		ID:         rec.ID,
		EntityKind: kind,
		EntityID:   rec.EntityID,
		Operation:  string(rec.Operation),
		Actor:      rec.Actor,
		Amount:     rec.Amount,
		Details:    rec.Details,
		Entity:     rec.Entity,
		CreatedAt:  rec.CreatedAt,
	}
}

func toEntries[E ledger.Entity[E], K ~string](kind string, recs []ledger.AuditRecord[E, K]) []ports.AuditEntry {
	out := make([]ports.AuditEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toEntry(kind, rec))
	}
	return out
}
