package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuditRecord captures who did what to which entity snapshot, when. Records
// are immutable: they are never updated or deleted once written.
type AuditRecord[E any, K ~string] struct {
	ID        uuid.UUID        `json:"id"`
	Operation K                `json:"operation"`
	EntityID  int64            `json:"entity_id"`
	Entity    E                `json:"entity"` // snapshot at operation time, not a live reference
	Actor     string           `json:"actor"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Details   string           `json:"details,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// AuditTrail is an append-only log of operations performed on one entity
// kind. Recording always succeeds; queries never mutate state and a
// malformed or absent filter yields an empty result rather than an error,
// so the trail can never block a business operation.
type AuditTrail[E Entity[E], K ~string] struct {
	mu      sync.RWMutex
	records []AuditRecord[E, K]
}

func NewAuditTrail[E Entity[E], K ~string]() *AuditTrail[E, K] {
	return &AuditTrail[E, K]{}
}

// Record appends one audit record. The entity is deep-copied so later
// mutation of the source cannot retroactively alter history. The timestamp
// is set here and never backdated.
func (t *AuditTrail[E, K]) Record(op K, entity E, actor string, amount *decimal.Decimal, details string) AuditRecord[E, K] {
	rec := AuditRecord[E, K]{
		ID:        uuid.New(),
		Operation: op,
		EntityID:  entity.EntityID(),
		Entity:    entity.Clone(),
		Actor:     actor,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
	if amount != nil {
		a := *amount
		rec.Amount = &a
	}

	t.mu.Lock()
	t.records = append(t.records, rec)
	t.mu.Unlock()
	return rec
}

// FindByID returns the record with the given id.
func (t *AuditTrail[E, K]) FindByID(id uuid.UUID) (AuditRecord[E, K], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, rec := range t.records {
		if rec.ID == id {
			return rec, true
		}
	}
	var zero AuditRecord[E, K]
	return zero, false
}

// History returns all records for one entity, ordered by timestamp ascending.
func (t *AuditTrail[E, K]) History(entityID int64) []AuditRecord[E, K] {
	return t.filter(func(rec AuditRecord[E, K]) bool {
		return rec.EntityID == entityID
	})
}

// FindByActor returns all records stamped with the given acting user.
// An empty actor matches nothing.
func (t *AuditTrail[E, K]) FindByActor(actor string) []AuditRecord[E, K] {
	if actor == "" {
		return nil
	}
	return t.filter(func(rec AuditRecord[E, K]) bool {
		return rec.Actor == actor
	})
}

// FindByDateRange returns all records with from <= CreatedAt <= to.
// An inverted range matches nothing.
func (t *AuditTrail[E, K]) FindByDateRange(from, to time.Time) []AuditRecord[E, K] {
	if from.After(to) {
		return nil
	}
	return t.filter(func(rec AuditRecord[E, K]) bool {
		return !rec.CreatedAt.Before(from) && !rec.CreatedAt.After(to)
	})
}

// FindByOperation returns all records with the given operation kind.
func (t *AuditTrail[E, K]) FindByOperation(op K) []AuditRecord[E, K] {
	if op == "" {
		return nil
	}
	return t.filter(func(rec AuditRecord[E, K]) bool {
		return rec.Operation == op
	})
}

// All returns every record, ordered by timestamp ascending.
func (t *AuditTrail[E, K]) All() []AuditRecord[E, K] {
	return t.filter(func(AuditRecord[E, K]) bool { return true })
}

// Len returns the number of records in the trail.
func (t *AuditTrail[E, K]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

func (t *AuditTrail[E, K]) filter(keep func(AuditRecord[E, K]) bool) []AuditRecord[E, K] {
	t.mu.RLock()
	var out []AuditRecord[E, K]
	for _, rec := range t.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	t.mu.RUnlock()

	// Records are appended with a fresh timestamp under the lock, but sort
	// anyway so the ascending-order contract holds even for equal stamps.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
