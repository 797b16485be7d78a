package ports

import (
	"context"
	"time"
)

// StoredEntity is one persisted snapshot row. The durable store treats the
// payload as opaque bytes; the ledger core is unaware of the backing format.
type StoredEntity struct {
	ID      int64
	Deleted bool
	Payload []byte
}

// DurableStore is the persistence backend invoked at process start and stop.
// The ledger core runs entirely in memory between those two points.
type DurableStore interface {
	LoadAll(ctx context.Context, kind string) ([]StoredEntity, error)
	SaveAll(ctx context.Context, kind string, entities []StoredEntity) error
}

// IdempotencyCache is the fast-path replay store for money movement
// requests carrying a client reference id.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
