package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind represents the kind of money movement.
type TransactionKind string

const (
	TransactionKindDeposit          TransactionKind = "DEPOSIT"
	TransactionKindWithdrawal       TransactionKind = "WITHDRAWAL"
	TransactionKindSentTransfer     TransactionKind = "SENT_TRANSFER"
	TransactionKindReceivedTransfer TransactionKind = "RECEIVED_TRANSFER"
	TransactionKindServicePayment   TransactionKind = "SERVICE_PAYMENT"
)

// Transaction is an immutable record of a single money movement on
// SourceAccountID. Amount is always positive; the kind carries the sign.
// Corrections are made by creating a compensating transaction, never by
// editing an existing record.
//
// A transfer produces two records sharing amount and timestamp: a
// SENT_TRANSFER on the source account and a RECEIVED_TRANSFER on the
// destination account, each holding the other side's account id in
// DestinationAccountID.
type Transaction struct {
	ID                   int64           `json:"id"`
	SourceAccountID      int64           `json:"source_account_id"`
	DestinationAccountID *int64          `json:"destination_account_id,omitempty"`
	Kind                 TransactionKind `json:"kind"`
	Amount               decimal.Decimal `json:"amount"`
	Description          string          `json:"description"`
	CreatedAt            time.Time       `json:"created_at"`
}

// IsTransfer reports whether this record is one leg of a transfer.
func (t Transaction) IsTransfer() bool {
	return t.Kind == TransactionKindSentTransfer || t.Kind == TransactionKindReceivedTransfer
}

func (t Transaction) EntityID() int64 { return t.ID }

func (t Transaction) WithID(id int64) Transaction {
	t.ID = id
	return t
}

// Clone returns an independent copy, including the counterparty pointer.
func (t Transaction) Clone() Transaction {
	if t.DestinationAccountID != nil {
		dst := *t.DestinationAccountID
		t.DestinationAccountID = &dst
	}
	return t
}
