package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"core-banking-ledger/internal/core/domain"
	"core-banking-ledger/internal/core/ports"
	"core-banking-ledger/pkg/apperror"
)

type accountService struct {
	accounts *AccountRepository
	clients  *ClientRepository
	ledger   *AccountLedger
	log      zerolog.Logger
}

// NewAccountService creates the account lifecycle service. Balance mutation
// is not done here; that belongs to AccountLedger alone. The ledger is still
// required: suspend, reactivate and close write the whole account struct back,
// so they take the same per-account lock the ledger uses for balance deltas.
func NewAccountService(accounts *AccountRepository, clients *ClientRepository, accountLedger *AccountLedger, log zerolog.Logger) ports.AccountService {
	return &accountService{accounts: accounts, clients: clients, ledger: accountLedger, log: log}
}

func (s *accountService) Open(ctx context.Context, req ports.OpenAccountRequest) (domain.Account, error) {
	if !domain.ValidAccountType(req.Type) {
		return domain.Account{}, apperror.Validation("unknown account type")
	}
	if req.InitialBalance.IsNegative() {
		return domain.Account{}, apperror.ErrInvalidAmount()
	}
	if _, ok := s.clients.FindByID(req.ClientID); !ok {
		return domain.Account{}, apperror.ErrEntityNotFound("client")
	}

	account := domain.Account{
		ClientID:       req.ClientID,
		Type:           req.Type,
		InitialBalance: req.InitialBalance,
		Balance:        req.InitialBalance,
		Active:         true,
		CreatedAt:      time.Now().UTC(),
	}
	created, err := s.accounts.CreateAnnotated(account, domain.AccountCreate, req.Actor, &req.InitialBalance, "account opened")
	if err != nil {
		return domain.Account{}, err
	}

	s.log.Info().
		Int64("account_id", created.ID).
		Int64("client_id", created.ClientID).
		Str("type", string(created.Type)).
		Str("actor", req.Actor).
		Msg("account opened")
	return created, nil
}

func (s *accountService) Get(ctx context.Context, id int64) (domain.Account, error) {
	account, ok := s.accounts.FindByID(id)
	if !ok {
		return domain.Account{}, apperror.ErrAccountNotFound()
	}
	return account, nil
}

func (s *accountService) List(ctx context.Context) []domain.Account {
	return sortAccounts(s.accounts.FindAll())
}

func (s *accountService) ListByClient(ctx context.Context, clientID int64) []domain.Account {
	all := s.accounts.FindAll()
	out := make([]domain.Account, 0, len(all))
	for _, account := range all {
		if account.ClientID == clientID {
			out = append(out, account)
		}
	}
	return sortAccounts(out)
}

func (s *accountService) ListDeleted(ctx context.Context) []domain.Account {
	return sortAccounts(s.accounts.ListDeleted())
}

func (s *accountService) Suspend(ctx context.Context, id int64, actor string) (domain.Account, error) {
	var updated domain.Account
	err := s.ledger.WithLock(id, func() error {
		account, ok := s.accounts.FindByID(id)
		if !ok {
			return apperror.ErrAccountNotFound()
		}
		if !account.Active {
			return apperror.ErrAccountInactive()
		}

		account.Active = false
		var err error
		updated, err = s.accounts.Update(account, domain.AccountSuspend, actor)
		return err
	})
	if err != nil {
		return domain.Account{}, err
	}
	s.log.Info().Int64("account_id", id).Str("actor", actor).Msg("account suspended")
	return updated, nil
}

func (s *accountService) Reactivate(ctx context.Context, id int64, actor string) (domain.Account, error) {
	var updated domain.Account
	err := s.ledger.WithLock(id, func() error {
		account, ok := s.accounts.FindByID(id)
		if !ok {
			return apperror.ErrAccountNotFound()
		}
		if account.Active {
			updated = account
			return nil
		}

		account.Active = true
		var err error
		updated, err = s.accounts.Update(account, domain.AccountReactivate, actor)
		return err
	})
	if err != nil {
		return domain.Account{}, err
	}
	s.log.Info().Int64("account_id", id).Str("actor", actor).Msg("account reactivated")
	return updated, nil
}

func (s *accountService) Close(ctx context.Context, id int64, actor string) (domain.Account, error) {
	var closed domain.Account
	err := s.ledger.WithLock(id, func() error {
		account, ok := s.accounts.FindByID(id)
		if !ok {
			return apperror.ErrAccountNotFound()
		}
		if !account.Balance.IsZero() {
			return apperror.Validation("account balance must be zero to close")
		}

		var err error
		closed, err = s.accounts.SoftDelete(id, domain.AccountDelete, actor)
		return err
	})
	if err != nil {
		return domain.Account{}, err
	}
	s.log.Info().Int64("account_id", id).Str("actor", actor).Msg("account closed")
	return closed, nil
}

func (s *accountService) Restore(ctx context.Context, id int64, actor string) (domain.Account, error) {
	restored, err := s.accounts.Restore(id, domain.AccountRestore, actor)
	if err != nil {
		return domain.Account{}, err
	}
	s.log.Info().Int64("account_id", id).Str("actor", actor).Msg("account restored")
	return restored, nil
}

func (s *accountService) Count(ctx context.Context) int {
	return s.accounts.Count()
}

func sortAccounts(accounts []domain.Account) []domain.Account {
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts
}
