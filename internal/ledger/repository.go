package ledger

import (
	"sync"

	"github.com/shopspring/decimal"

	"core-banking-ledger/pkg/apperror"
)

// AuditedRepository is a generic CRUD store layered on IdentityAllocator and
// AuditTrail. Entities live in exactly one of two disjoint partitions, active
// or deleted, keyed by id. Every mutating call emits exactly one audit
// record; reads emit none. All mutation goes through this type, so the
// partition invariant cannot be bypassed.
type AuditedRepository[E Entity[E], K ~string] struct {
	kind  string
	ids   *IdentityAllocator
	trail *AuditTrail[E, K]

	mu      sync.RWMutex
	active  map[int64]E
	deleted map[int64]E
}

// NewAuditedRepository creates an empty repository for one entity kind.
func NewAuditedRepository[E Entity[E], K ~string](kind string, ids *IdentityAllocator, trail *AuditTrail[E, K]) *AuditedRepository[E, K] {
	return &AuditedRepository[E, K]{
		kind:    kind,
		ids:     ids,
		trail:   trail,
		active:  make(map[int64]E),
		deleted: make(map[int64]E),
	}
}

// Kind returns the entity kind this repository stores.
func (r *AuditedRepository[E, K]) Kind() string { return r.kind }

// Trail exposes the repository's audit trail for queries.
func (r *AuditedRepository[E, K]) Trail() *AuditTrail[E, K] { return r.trail }

// Create inserts entity into the active set. A zero id is replaced with a
// freshly allocated one; a caller-supplied id must not collide with any
// entity, active or deleted. On success exactly one audit record is emitted.
func (r *AuditedRepository[E, K]) Create(entity E, op K, actor string) (E, error) {
	return r.CreateAnnotated(entity, op, actor, nil, "")
}

// CreateAnnotated is Create with an optional monetary amount and free-text
// details stamped onto the audit record.
func (r *AuditedRepository[E, K]) CreateAnnotated(entity E, op K, actor string, amount *decimal.Decimal, details string) (E, error) {
	var zero E

	r.mu.Lock()
	defer r.mu.Unlock()

	if entity.EntityID() == 0 {
		entity = entity.WithID(r.ids.Next(r.kind))
	} else {
		id := entity.EntityID()
		if _, ok := r.active[id]; ok {
			return zero, apperror.ErrDuplicateEntity(r.kind)
		}
		if _, ok := r.deleted[id]; ok {
			return zero, apperror.ErrDuplicateEntity(r.kind)
		}
		r.ids.Advance(r.kind, id)
	}

	stored := entity.Clone()
	r.active[stored.EntityID()] = stored
	r.trail.Record(op, stored, actor, amount, details)
	return stored.Clone(), nil
}

// Update replaces an entity that already exists in the active set. A
// soft-deleted entity cannot be updated; it must be restored first.
func (r *AuditedRepository[E, K]) Update(entity E, op K, actor string) (E, error) {
	return r.UpdateAnnotated(entity, op, actor, nil, "")
}

// UpdateAnnotated is Update with an optional monetary amount and free-text
// details stamped onto the audit record.
func (r *AuditedRepository[E, K]) UpdateAnnotated(entity E, op K, actor string, amount *decimal.Decimal, details string) (E, error) {
	var zero E

	r.mu.Lock()
	defer r.mu.Unlock()

	id := entity.EntityID()
	if _, ok := r.active[id]; !ok {
		return zero, apperror.ErrEntityNotFound(r.kind)
	}

	stored := entity.Clone()
	r.active[id] = stored
	r.trail.Record(op, stored, actor, amount, details)
	return stored.Clone(), nil
}

// FindByID searches the active set only.
func (r *AuditedRepository[E, K]) FindByID(id int64) (E, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entity, ok := r.active[id]
	if !ok {
		var zero E
		return zero, false
	}
	return entity.Clone(), true
}

// FindAll returns every active entity. Order is not meaningful; callers
// needing order must sort.
func (r *AuditedRepository[E, K]) FindAll() []E {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]E, 0, len(r.active))
	for _, entity := range r.active {
		out = append(out, entity.Clone())
	}
	return out
}

// FindByPredicate returns the first active entity matching pred. Used for
// uniqueness checks such as "no duplicate document number".
func (r *AuditedRepository[E, K]) FindByPredicate(pred func(E) bool) (E, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entity := range r.active {
		if pred(entity) {
			return entity.Clone(), true
		}
	}
	var zero E
	return zero, false
}

// SoftDelete atomically moves an entity from the active to the deleted set
// and returns it. The id keeps its history and is never reused.
func (r *AuditedRepository[E, K]) SoftDelete(id int64, op K, actor string) (E, error) {
	var zero E

	r.mu.Lock()
	defer r.mu.Unlock()

	entity, ok := r.active[id]
	if !ok {
		return zero, apperror.ErrEntityNotFound(r.kind)
	}
	delete(r.active, id)
	r.deleted[id] = entity
	r.trail.Record(op, entity, actor, nil, "")
	return entity.Clone(), nil
}

// Restore atomically moves an entity from the deleted set back to the active
// set without changing its id or history.
func (r *AuditedRepository[E, K]) Restore(id int64, op K, actor string) (E, error) {
	var zero E

	r.mu.Lock()
	defer r.mu.Unlock()

	entity, ok := r.deleted[id]
	if !ok {
		return zero, apperror.ErrEntityNotFound(r.kind)
	}
	delete(r.deleted, id)
	r.active[id] = entity
	r.trail.Record(op, entity, actor, nil, "")
	return entity.Clone(), nil
}

// ListDeleted returns every soft-deleted entity.
func (r *AuditedRepository[E, K]) ListDeleted() []E {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]E, 0, len(r.deleted))
	for _, entity := range r.deleted {
		out = append(out, entity.Clone())
	}
	return out
}

// Count returns the size of the active set.
func (r *AuditedRepository[E, K]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}

// Hydrate seeds both partitions from persisted state without emitting audit
// records, and advances the identity allocator past every seen id. It fails
// on id collisions between or within the partitions.
func (r *AuditedRepository[E, K]) Hydrate(active, deleted []E) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entity := range active {
		id := entity.EntityID()
		if _, ok := r.active[id]; ok {
			return apperror.ErrDuplicateEntity(r.kind)
		}
		r.active[id] = entity.Clone()
		r.ids.Advance(r.kind, id)
	}
	for _, entity := range deleted {
		id := entity.EntityID()
		if _, ok := r.active[id]; ok {
			return apperror.ErrDuplicateEntity(r.kind)
		}
		if _, ok := r.deleted[id]; ok {
			return apperror.ErrDuplicateEntity(r.kind)
		}
		r.deleted[id] = entity.Clone()
		r.ids.Advance(r.kind, id)
	}
	return nil
}

// Export returns copies of both partitions for persistence.
func (r *AuditedRepository[E, K]) Export() (active, deleted []E) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	active = make([]E, 0, len(r.active))
	for _, entity := range r.active {
		active = append(active, entity.Clone())
	}
	deleted = make([]E, 0, len(r.deleted))
	for _, entity := range r.deleted {
		deleted = append(deleted, entity.Clone())
	}
	return active, deleted
}
