package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account product.
type AccountType string

const (
	AccountTypeSavings   AccountType = "SAVINGS"
	AccountTypeChecking  AccountType = "CHECKING"
	AccountTypeFixedTerm AccountType = "FIXED_TERM"
)

// ValidAccountType reports whether t is one of the known account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypeSavings, AccountTypeChecking, AccountTypeFixedTerm:
		return true
	}
	return false
}

// Account holds a client's balance. Balance is mutated only through the
// account ledger and never goes negative. InitialBalance is immutable after
// creation. An inactive account rejects every mutation except reactivation.
type Account struct {
	ID             int64           `json:"id"`
	ClientID       int64           `json:"client_id"`
	Type           AccountType     `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Balance        decimal.Decimal `json:"balance"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (a Account) EntityID() int64 { return a.ID }

func (a Account) WithID(id int64) Account {
	a.ID = id
	return a
}

// Clone returns an independent copy. decimal.Decimal values are immutable,
// so a value copy is a deep copy.
func (a Account) Clone() Account { return a }
