package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"core-banking-ledger/internal/core/domain"
	"core-banking-ledger/internal/core/ports"
	"core-banking-ledger/internal/ledger"
	"core-banking-ledger/pkg/apperror"
)

// PersistenceService bridges the in-memory repositories and the durable
// store. Hydrate runs once at process start, Save once at shutdown; in
// between the ledger core owns all state.
type PersistenceService struct {
	store        ports.DurableStore
	clients      *ClientRepository
	accounts     *AccountRepository
	cards        *CardRepository
	transactions *TransactionRepository
	log          zerolog.Logger
}

func NewPersistenceService(
	store ports.DurableStore,
	clients *ClientRepository,
	accounts *AccountRepository,
	cards *CardRepository,
	transactions *TransactionRepository,
	log zerolog.Logger,
) *PersistenceService {
	return &PersistenceService{
		store:        store,
		clients:      clients,
		accounts:     accounts,
		cards:        cards,
		transactions: transactions,
		log:          log,
	}
}

// Hydrate loads every entity kind from the durable store into the
// repositories. Hydration bypasses the audit trail and advances the
// identity allocators, so persisted ids are never reissued.
func (s *PersistenceService) Hydrate(ctx context.Context) error {
	if err := hydrateRepo(ctx, s.store, domain.KindClient, s.clients); err != nil {
		return err
	}
	if err := hydrateRepo(ctx, s.store, domain.KindAccount, s.accounts); err != nil {
		return err
	}
	if err := hydrateRepo(ctx, s.store, domain.KindCard, s.cards); err != nil {
		return err
	}
	if err := hydrateRepo(ctx, s.store, domain.KindTransaction, s.transactions); err != nil {
		return err
	}

	s.log.Info().
		Int("clients", s.clients.Count()).
		Int("accounts", s.accounts.Count()).
		Int("cards", s.cards.Count()).
		Int("transactions", s.transactions.Count()).
		Msg("ledger state hydrated from durable store")
	return nil
}

// Save writes every entity kind, both partitions, to the durable store.
func (s *PersistenceService) Save(ctx context.Context) error {
	if err := saveRepo(ctx, s.store, domain.KindClient, s.clients); err != nil {
		return err
	}
	if err := saveRepo(ctx, s.store, domain.KindAccount, s.accounts); err != nil {
		return err
	}
	if err := saveRepo(ctx, s.store, domain.KindCard, s.cards); err != nil {
		return err
	}
	if err := saveRepo(ctx, s.store, domain.KindTransaction, s.transactions); err != nil {
		return err
	}

	s.log.Info().Msg("ledger state saved to durable store")
	return nil
}

func hydrateRepo[E ledger.Entity[E], K ~string](ctx context.Context, store ports.DurableStore, kind string, repo *ledger.AuditedRepository[E, K]) error {
	rows, err := store.LoadAll(ctx, kind)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load %s snapshots: %w", kind, err))
	}

	var active, deleted []E
	for _, row := range rows {
		var entity E
		if err := json.Unmarshal(row.Payload, &entity); err != nil {
			return apperror.InternalError(fmt.Errorf("decode %s snapshot %d: %w", kind, row.ID, err))
		}
		if row.Deleted {
			deleted = append(deleted, entity)
		} else {
			active = append(active, entity)
		}
	}
	return repo.Hydrate(active, deleted)
}

func saveRepo[E ledger.Entity[E], K ~string](ctx context.Context, store ports.DurableStore, kind string, repo *ledger.AuditedRepository[E, K]) error {
	active, deleted := repo.Export()

	rows := make([]ports.StoredEntity, 0, len(active)+len(deleted))
	for _, entity := range active {
		row, err := toStoredEntity(entity, false)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("encode %s snapshot: %w", kind, err))
		}
		rows = append(rows, row)
	}
	for _, entity := range deleted {
		row, err := toStoredEntity(entity, true)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("encode %s snapshot: %w", kind, err))
		}
		rows = append(rows, row)
	}

	if err := store.SaveAll(ctx, kind, rows); err != nil {
		return apperror.InternalError(fmt.Errorf("save %s snapshots: %w", kind, err))
	}
	return nil
}

func toStoredEntity[E ledger.Entity[E]](entity E, deleted bool) (ports.StoredEntity, error) {
	payload, err := json.Marshal(entity)
	if err != nil {
		return ports.StoredEntity{}, err
	}
	return ports.StoredEntity{
		ID:      entity.EntityID(),
		Deleted: deleted,
		Payload: payload,
	}, nil
}
