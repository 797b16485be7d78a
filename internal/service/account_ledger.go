package service

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"core-banking-ledger/internal/core/domain"
	"core-banking-ledger/internal/ledger"
	"core-banking-ledger/pkg/apperror"
)

// AccountRepository is the concrete audited store for accounts.
type AccountRepository = ledger.AuditedRepository[domain.Account, domain.AccountOperation]

// AccountLedger is the sole gateway for balance mutation. Every money
// movement funnels through ApplyDelta, which enforces the non-negative
// balance invariant and the no-mutation-of-inactive-accounts rule.
//
// Mutations on the same account id are serialized through a lazily built
// per-account lock table; mutations on different accounts never contend.
type AccountLedger struct {
	accounts *AccountRepository
	locks    sync.Map // account id -> *sync.Mutex
}

func NewAccountLedger(accounts *AccountRepository) *AccountLedger {
	return &AccountLedger{accounts: accounts}
}

// ApplyDelta adds signed delta to the account's balance after validating
// that the account exists, is active, and would not go negative. The
// read-check-write is atomic with respect to other mutations on the same
// account id.
func (l *AccountLedger) ApplyDelta(ctx context.Context, accountID int64, delta decimal.Decimal, actor, detail string) (domain.Account, error) {
	mu := l.lockOf(accountID)
	mu.Lock()
	defer mu.Unlock()
	return l.applyDelta(accountID, delta, actor, detail)
}

// applyDelta is ApplyDelta without lock acquisition. The caller must hold
// the account's lock.
func (l *AccountLedger) applyDelta(accountID int64, delta decimal.Decimal, actor, detail string) (domain.Account, error) {
	acct, ok := l.accounts.FindByID(accountID)
	if !ok {
		return domain.Account{}, apperror.ErrAccountNotFound()
	}
	if !acct.Active {
		return domain.Account{}, apperror.ErrAccountInactive()
	}

	newBalance := acct.Balance.Add(delta)
	if newBalance.IsNegative() {
		return domain.Account{}, apperror.ErrInsufficientFunds()
	}

	acct.Balance = newBalance
	return l.accounts.UpdateAnnotated(acct, domain.AccountUpdate, actor, &delta, detail)
}

// WithLock runs fn while holding the account's mutation lock. Lifecycle
// changes that read-check-write the whole account struct go through here
// so a stale snapshot can never overwrite a concurrent balance mutation.
func (l *AccountLedger) WithLock(accountID int64, fn func() error) error {
	mu := l.lockOf(accountID)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

func (l *AccountLedger) lockOf(accountID int64) *sync.Mutex {
	mu, _ := l.locks.LoadOrStore(accountID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// lockPair acquires both account locks in ascending id order regardless of
// which side is source and which is destination, so two opposing transfers
// on the same pair cannot deadlock. The returned func releases both.
func (l *AccountLedger) lockPair(a, b int64) func() {
	if b < a {
		a, b = b, a
	}
	first, second := l.lockOf(a), l.lockOf(b)
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}
