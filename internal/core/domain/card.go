package domain

import "time"

// CardType classifies a card product.
type CardType string

const (
	CardTypeDebit  CardType = "DEBIT"
	CardTypeCredit CardType = "CREDIT"
)

// ValidCardType reports whether t is one of the known card types.
func ValidCardType(t CardType) bool {
	return t == CardTypeDebit || t == CardTypeCredit
}

// Card is a payment card attached to an account. Only the masked number is
// ever stored. A blocked card stays on file until explicitly reactivated.
type Card struct {
	ID           int64     `json:"id"`
	AccountID    int64     `json:"account_id"`
	MaskedNumber string    `json:"masked_number"`
	Type         CardType  `json:"type"`
	Blocked      bool      `json:"blocked"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c Card) EntityID() int64 { return c.ID }

func (c Card) WithID(id int64) Card {
	c.ID = id
	return c
}

func (c Card) Clone() Card { return c }
