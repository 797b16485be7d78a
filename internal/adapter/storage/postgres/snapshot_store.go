package postgres

import (
	"context"
	"fmt"

	"core-banking-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Pool is the subset of pgxpool.Pool the adapters need. pgxmock satisfies
// it, which keeps the repositories testable without a live database.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// SnapshotStore implements ports.DurableStore on the entity_snapshots
// table. One row per entity per kind; the payload is its JSON encoding.
//
//	CREATE TABLE entity_snapshots (
//	    kind    TEXT    NOT NULL,
//	    id      BIGINT  NOT NULL,
//	    deleted BOOLEAN NOT NULL DEFAULT FALSE,
//	    payload JSONB   NOT NULL,
//	    PRIMARY KEY (kind, id)
//	);
type SnapshotStore struct {
	pool Pool
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// LoadAll fetches every snapshot row of one kind.
func (s *SnapshotStore) LoadAll(ctx context.Context, kind string) ([]ports.StoredEntity, error) {
	query := `SELECT id, deleted, payload FROM entity_snapshots WHERE kind = $1 ORDER BY id`

	rows, err := s.pool.Query(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("query %s snapshots: %w", kind, err)
	}
	defer rows.Close()

	var out []ports.StoredEntity
	for rows.Next() {
		var row ports.StoredEntity
		if err := rows.Scan(&row.ID, &row.Deleted, &row.Payload); err != nil {
			return nil, fmt.Errorf("scan %s snapshot: %w", kind, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s snapshots: %w", kind, err)
	}
	return out, nil
}

// SaveAll replaces every snapshot row of one kind in a single database
// transaction. A failed write leaves the previous snapshot intact.
func (s *SnapshotStore) SaveAll(ctx context.Context, kind string, entities []ports.StoredEntity) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM entity_snapshots WHERE kind = $1`, kind); err != nil {
		return fmt.Errorf("clear %s snapshots: %w", kind, err)
	}

	query := `INSERT INTO entity_snapshots (kind, id, deleted, payload) VALUES ($1, $2, $3, $4)`
	for _, entity := range entities {
		if _, err := tx.Exec(ctx, query, kind, entity.ID, entity.Deleted, entity.Payload); err != nil {
			return fmt.Errorf("insert %s snapshot %d: %w", kind, entity.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s snapshots: %w", kind, err)
	}
	return nil
}
