package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"core-banking-ledger/internal/core/domain"
	"core-banking-ledger/internal/core/ports"
	"core-banking-ledger/internal/ledger"
	"core-banking-ledger/pkg/apperror"
)

// ClientRepository is the concrete audited store for clients.
type ClientRepository = ledger.AuditedRepository[domain.Client, domain.ClientOperation]

type clientService struct {
	clients *ClientRepository
	log     zerolog.Logger
}

// NewClientService creates the client CRUD service.
func NewClientService(clients *ClientRepository, log zerolog.Logger) ports.ClientService {
	return &clientService{clients: clients, log: log}
}

func (s *clientService) Create(ctx context.Context, req ports.CreateClientRequest) (domain.Client, error) {
	name := strings.TrimSpace(req.Name)
	document := strings.TrimSpace(req.DocumentNumber)
	if name == "" {
		return domain.Client{}, apperror.Validation("client name is required")
	}
	if document == "" {
		return domain.Client{}, apperror.Validation("document number is required")
	}

	// Document numbers are unique across active clients.
	if _, ok := s.clients.FindByPredicate(func(c domain.Client) bool {
		return c.DocumentNumber == document
	}); ok {
		return domain.Client{}, apperror.ErrDuplicateEntity("client")
	}

	created, err := s.clients.Create(domain.Client{
		Name:           name,
		DocumentNumber: document,
		Email:          strings.TrimSpace(req.Email),
		CreatedAt:      time.Now().UTC(),
	}, domain.ClientCreate, req.Actor)
	if err != nil {
		return domain.Client{}, err
	}

	s.log.Info().Int64("client_id", created.ID).Str("actor", req.Actor).Msg("client created")
	return created, nil
}

func (s *clientService) Update(ctx context.Context, req ports.UpdateClientRequest) (domain.Client, error) {
	client, ok := s.clients.FindByID(req.ID)
	if !ok {
		return domain.Client{}, apperror.ErrEntityNotFound("client")
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		client.Name = name
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		client.Email = email
	}
	return s.clients.Update(client, domain.ClientUpdate, req.Actor)
}

func (s *clientService) Get(ctx context.Context, id int64) (domain.Client, error) {
	client, ok := s.clients.FindByID(id)
	if !ok {
		return domain.Client{}, apperror.ErrEntityNotFound("client")
	}
	return client, nil
}

func (s *clientService) List(ctx context.Context) []domain.Client {
	return sortClients(s.clients.FindAll())
}

func (s *clientService) ListDeleted(ctx context.Context) []domain.Client {
	return sortClients(s.clients.ListDeleted())
}

func (s *clientService) Deactivate(ctx context.Context, id int64, actor string) (domain.Client, error) {
	client, err := s.clients.SoftDelete(id, domain.ClientDelete, actor)
	if err != nil {
		return domain.Client{}, err
	}
	s.log.Info().Int64("client_id", id).Str("actor", actor).Msg("client deactivated")
	return client, nil
}

func (s *clientService) Restore(ctx context.Context, id int64, actor string) (domain.Client, error) {
	client, err := s.clients.Restore(id, domain.ClientRestore, actor)
	if err != nil {
		return domain.Client{}, err
	}
	s.log.Info().Int64("client_id", id).Str("actor", actor).Msg("client restored")
	return client, nil
}

func (s *clientService) Count(ctx context.Context) int {
	return s.clients.Count()
}

func sortClients(clients []domain.Client) []domain.Client {
	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })
	return clients
}
