package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"core-banking-ledger/internal/core/domain"
	"core-banking-ledger/internal/core/ports"
	"core-banking-ledger/internal/ledger"
	"core-banking-ledger/pkg/apperror"
)

// CardRepository is the concrete audited store for cards.
type CardRepository = ledger.AuditedRepository[domain.Card, domain.CardOperation]

const cardValidity = 4 * 365 * 24 * time.Hour

type cardService struct {
	cards    *CardRepository
	accounts *AccountRepository
	log      zerolog.Logger
}

// NewCardService creates the card lifecycle service.
func NewCardService(cards *CardRepository, accounts *AccountRepository, log zerolog.Logger) ports.CardService {
	return &cardService{cards: cards, accounts: accounts, log: log}
}

func (s *cardService) Issue(ctx context.Context, req ports.IssueCardRequest) (domain.Card, error) {
	if !domain.ValidCardType(req.Type) {
		return domain.Card{}, apperror.Validation("unknown card type")
	}
	account, ok := s.accounts.FindByID(req.AccountID)
	if !ok {
		return domain.Card{}, apperror.ErrAccountNotFound()
	}
	if !account.Active {
		return domain.Card{}, apperror.ErrAccountInactive()
	}

	now := time.Now().UTC()
	card := domain.Card{
		AccountID:    req.AccountID,
		MaskedNumber: fmt.Sprintf("**** **** **** %04d", rand.IntN(10000)),
		Type:         req.Type,
		ExpiresAt:    now.Add(cardValidity),
		CreatedAt:    now,
	}
	created, err := s.cards.Create(card, domain.CardCreate, req.Actor)
	if err != nil {
		return domain.Card{}, err
	}

	s.log.Info().
		Int64("card_id", created.ID).
		Int64("account_id", created.AccountID).
		Str("type", string(created.Type)).
		Str("actor", req.Actor).
		Msg("card issued")
	return created, nil
}

func (s *cardService) Get(ctx context.Context, id int64) (domain.Card, error) {
	card, ok := s.cards.FindByID(id)
	if !ok {
		return domain.Card{}, apperror.ErrEntityNotFound("card")
	}
	return card, nil
}

func (s *cardService) ListByAccount(ctx context.Context, accountID int64) []domain.Card {
	all := s.cards.FindAll()
	out := make([]domain.Card, 0, len(all))
	for _, card := range all {
		if card.AccountID == accountID {
			out = append(out, card)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *cardService) Block(ctx context.Context, id int64, actor string) (domain.Card, error) {
	card, ok := s.cards.FindByID(id)
	if !ok {
		return domain.Card{}, apperror.ErrEntityNotFound("card")
	}
	if card.Blocked {
		return card, nil
	}

	card.Blocked = true
	updated, err := s.cards.Update(card, domain.CardBlock, actor)
	if err != nil {
		return domain.Card{}, err
	}
	s.log.Info().Int64("card_id", id).Str("actor", actor).Msg("card blocked")
	return updated, nil
}

func (s *cardService) Activate(ctx context.Context, id int64, actor string) (domain.Card, error) {
	card, ok := s.cards.FindByID(id)
	if !ok {
		return domain.Card{}, apperror.ErrEntityNotFound("card")
	}
	if !card.Blocked {
		return card, nil
	}

	card.Blocked = false
	updated, err := s.cards.Update(card, domain.CardActivate, actor)
	if err != nil {
		return domain.Card{}, err
	}
	s.log.Info().Int64("card_id", id).Str("actor", actor).Msg("card activated")
	return updated, nil
}

func (s *cardService) Delete(ctx context.Context, id int64, actor string) (domain.Card, error) {
	return s.cards.SoftDelete(id, domain.CardDelete, actor)
}

func (s *cardService) Restore(ctx context.Context, id int64, actor string) (domain.Card, error) {
	return s.cards.Restore(id, domain.CardRestore, actor)
}
