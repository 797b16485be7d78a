package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"core-banking-ledger/internal/core/domain"
	"core-banking-ledger/internal/core/ports"
	"core-banking-ledger/internal/ledger"
	"core-banking-ledger/pkg/apperror"
)

// fixture wires a complete in-memory ledger core the same way cmd/api does,
// minus the adapters.
type fixture struct {
	ids *ledger.IdentityAllocator

	clientTrail      *ledger.AuditTrail[domain.Client, domain.ClientOperation]
	accountTrail     *ledger.AuditTrail[domain.Account, domain.AccountOperation]
	cardTrail        *ledger.AuditTrail[domain.Card, domain.CardOperation]
	transactionTrail *ledger.AuditTrail[domain.Transaction, domain.TransactionOperation]

	clients      *ClientRepository
	accounts     *AccountRepository
	cards        *CardRepository
	transactions *TransactionRepository

	ledger  *AccountLedger
	journal *TransactionJournal

	clientSvc  ports.ClientService
	accountSvc ports.AccountService
	cardSvc    ports.CardService
	auditSvc   ports.AuditQueryService
}

func newFixture() *fixture {
	f := &fixture{
		ids:              ledger.NewIdentityAllocator(),
		clientTrail:      ledger.NewAuditTrail[domain.Client, domain.ClientOperation](),
		accountTrail:     ledger.NewAuditTrail[domain.Account, domain.AccountOperation](),
		cardTrail:        ledger.NewAuditTrail[domain.Card, domain.CardOperation](),
		transactionTrail: ledger.NewAuditTrail[domain.Transaction, domain.TransactionOperation](),
	}
	f.clients = ledger.NewAuditedRepository[domain.Client, domain.ClientOperation](domain.KindClient, f.ids, f.clientTrail)
	f.accounts = ledger.NewAuditedRepository[domain.Account, domain.AccountOperation](domain.KindAccount, f.ids, f.accountTrail)
	f.cards = ledger.NewAuditedRepository[domain.Card, domain.CardOperation](domain.KindCard, f.ids, f.cardTrail)
	f.transactions = ledger.NewAuditedRepository[domain.Transaction, domain.TransactionOperation](domain.KindTransaction, f.ids, f.transactionTrail)

	f.ledger = NewAccountLedger(f.accounts)
	f.journal = NewTransactionJournal(f.ledger, f.transactions, nil, zerolog.Nop())

	f.clientSvc = NewClientService(f.clients, zerolog.Nop())
	f.accountSvc = NewAccountService(f.accounts, f.clients, f.ledger, zerolog.Nop())
	f.cardSvc = NewCardService(f.cards, f.accounts, zerolog.Nop())
	f.auditSvc = NewAuditQueryService(f.clientTrail, f.accountTrail, f.cardTrail, f.transactionTrail)
	return f
}

// openAccount creates a client and an active account holding balance.
func (f *fixture) openAccount(t *testing.T, balance string) domain.Account {
	t.Helper()
	client, err := f.clients.Create(domain.Client{
		Name:           "Test Holder",
		DocumentNumber: "DOC-" + time.Now().Format("150405.000000000"),
		CreatedAt:      time.Now().UTC(),
	}, domain.ClientCreate, "test")
	require.NoError(t, err)

	initial := decimal.RequireFromString(balance)
	account, err := f.accounts.Create(domain.Account{
		ClientID:       client.ID,
		Type:           domain.AccountTypeChecking,
		InitialBalance: initial,
		Balance:        initial,
		Active:         true,
		CreatedAt:      time.Now().UTC(),
	}, domain.AccountCreate, "test")
	require.NoError(t, err)
	return account
}

func (f *fixture) balance(t *testing.T, accountID int64) decimal.Decimal {
	t.Helper()
	account, ok := f.accounts.FindByID(accountID)
	require.True(t, ok, "account %d not found", accountID)
	return account.Balance
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError with code %s, got %v", code, err)
	require.Equal(t, code, appErr.Code)
}

func ctxb() context.Context { return context.Background() }
