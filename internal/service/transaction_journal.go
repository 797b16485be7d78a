package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"core-banking-ledger/internal/core/domain"
	"core-banking-ledger/internal/core/ports"
	"core-banking-ledger/internal/ledger"
	"core-banking-ledger/pkg/apperror"
)

const idempotencyTTL = 24 * time.Hour

// TransactionRepository is the concrete audited store for transactions.
type TransactionRepository = ledger.AuditedRepository[domain.Transaction, domain.TransactionOperation]

// TransactionJournal implements ports.JournalService. It builds immutable
// transaction records on top of the account ledger: the balance leg(s) run
// first, and only on full success are the record(s) persisted. On any
// ledger failure nothing is written and the error propagates unchanged.
type TransactionJournal struct {
	ledger       *AccountLedger
	transactions *TransactionRepository
	idemCache    ports.IdempotencyCache // nil disables idempotent replay
	log          zerolog.Logger
}

func NewTransactionJournal(
	ledger *AccountLedger,
	transactions *TransactionRepository,
	idemCache ports.IdempotencyCache,
	log zerolog.Logger,
) *TransactionJournal {
	return &TransactionJournal{
		ledger:       ledger,
		transactions: transactions,
		idemCache:    idemCache,
		log:          log,
	}
}

// Deposit credits the account and records a DEPOSIT transaction.
func (j *TransactionJournal) Deposit(ctx context.Context, req ports.DepositRequest) (domain.Transaction, error) {
	return j.singleLeg(ctx, "deposit", req.AccountID, req.Amount, req.Amount,
		domain.TransactionKindDeposit, req.Description, req.Actor, req.ReferenceID)
}

// Withdraw debits the account and records a WITHDRAWAL transaction.
// InsufficientFunds from the ledger is surfaced verbatim.
func (j *TransactionJournal) Withdraw(ctx context.Context, req ports.WithdrawRequest) (domain.Transaction, error) {
	return j.singleLeg(ctx, "withdraw", req.AccountID, req.Amount, req.Amount.Neg(),
		domain.TransactionKindWithdrawal, req.Description, req.Actor, req.ReferenceID)
}

// ServicePayment debits the account and records a SERVICE_PAYMENT transaction.
func (j *TransactionJournal) ServicePayment(ctx context.Context, req ports.ServicePaymentRequest) (domain.Transaction, error) {
	return j.singleLeg(ctx, "service-payment", req.AccountID, req.Amount, req.Amount.Neg(),
		domain.TransactionKindServicePayment, req.Description, req.Actor, req.ReferenceID)
}

func (j *TransactionJournal) singleLeg(
	ctx context.Context,
	op string,
	accountID int64,
	amount, delta decimal.Decimal,
	kind domain.TransactionKind,
	description, actor, referenceID string,
) (domain.Transaction, error) {
	if !amount.IsPositive() {
		return domain.Transaction{}, apperror.ErrInvalidAmount()
	}

	idemKey := idempotencyKey(op, accountID, referenceID)
	if cached, ok := j.cachedTransaction(ctx, idemKey); ok {
		return cached, nil
	}

	if _, err := j.ledger.ApplyDelta(ctx, accountID, delta, actor, description); err != nil {
		return domain.Transaction{}, err
	}

	txn := domain.Transaction{
		SourceAccountID: accountID,
		Kind:            kind,
		Amount:          amount,
		Description:     description,
		CreatedAt:       time.Now().UTC(),
	}
	created, err := j.transactions.CreateAnnotated(txn, domain.TransactionCreate, actor, &amount, description)
	if err != nil {
		return domain.Transaction{}, err
	}

	j.cacheTransaction(ctx, idemKey, created)
	return created, nil
}

// Transfer debits the source and credits the destination, then records the
// SENT_TRANSFER / RECEIVED_TRANSFER pair sharing amount and timestamp. If
// the credit leg fails the source debit is compensated before the
// destination-side error is surfaced: money debited from the source is
// never left without a matching credit somewhere.
func (j *TransactionJournal) Transfer(ctx context.Context, req ports.TransferRequest) (domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return domain.Transaction{}, apperror.ErrInvalidAmount()
	}
	if req.SourceAccountID == req.DestinationAccountID {
		return domain.Transaction{}, apperror.Validation("source and destination accounts must differ")
	}

	idemKey := idempotencyKey("transfer", req.SourceAccountID, req.ReferenceID)
	if cached, ok := j.cachedTransaction(ctx, idemKey); ok {
		return cached, nil
	}

	if err := j.moveBetween(req); err != nil {
		return domain.Transaction{}, err
	}

	now := time.Now().UTC()
	src, dst := req.SourceAccountID, req.DestinationAccountID

	sent := domain.Transaction{
		SourceAccountID:      src,
		DestinationAccountID: &dst,
		Kind:                 domain.TransactionKindSentTransfer,
		Amount:               req.Amount,
		Description:          req.Description,
		CreatedAt:            now,
	}
	received := domain.Transaction{
		SourceAccountID:      dst,
		DestinationAccountID: &src,
		Kind:                 domain.TransactionKindReceivedTransfer,
		Amount:               req.Amount,
		Description:          req.Description,
		CreatedAt:            now,
	}

	sentRec, err := j.transactions.CreateAnnotated(sent, domain.TransactionCreate, req.Actor, &req.Amount, req.Description)
	if err != nil {
		return domain.Transaction{}, err
	}
	if _, err := j.transactions.CreateAnnotated(received, domain.TransactionCreate, req.Actor, &req.Amount, req.Description); err != nil {
		return domain.Transaction{}, err
	}

	j.cacheTransaction(ctx, idemKey, sentRec)
	return sentRec, nil
}

// moveBetween runs the two balance legs while holding both account locks,
// acquired in canonical ascending-id order.
func (j *TransactionJournal) moveBetween(req ports.TransferRequest) error {
	unlock := j.ledger.lockPair(req.SourceAccountID, req.DestinationAccountID)
	defer unlock()

	debitDetail := fmt.Sprintf("transfer to account %d", req.DestinationAccountID)
	if _, err := j.ledger.applyDelta(req.SourceAccountID, req.Amount.Neg(), req.Actor, debitDetail); err != nil {
		return err
	}

	creditDetail := fmt.Sprintf("transfer from account %d", req.SourceAccountID)
	if _, err := j.ledger.applyDelta(req.DestinationAccountID, req.Amount, req.Actor, creditDetail); err != nil {
		// Compensate the debit so the source is left untouched. The
		// source was active and funded a moment ago and is still
		// locked, so re-crediting cannot fail for a business reason.
		compDetail := fmt.Sprintf("compensation for failed transfer to account %d", req.DestinationAccountID)
		if _, compErr := j.ledger.applyDelta(req.SourceAccountID, req.Amount, req.Actor, compDetail); compErr != nil {
			j.log.Error().Err(compErr).
				Int64("source_account_id", req.SourceAccountID).
				Int64("destination_account_id", req.DestinationAccountID).
				Msg("transfer compensation failed, source debit not restored")
		}
		return err
	}
	return nil
}

// Reverse creates a new transaction of opposite economic effect. The
// original record stays in the journal untouched: reversal is additive
// history, not correction-in-place.
func (j *TransactionJournal) Reverse(ctx context.Context, req ports.ReverseRequest) (domain.Transaction, error) {
	original, ok := j.transactions.FindByID(req.TransactionID)
	if !ok {
		return domain.Transaction{}, apperror.ErrTransactionNotFound()
	}

	description := fmt.Sprintf("reversal of transaction %d", original.ID)

	switch original.Kind {
	case domain.TransactionKindDeposit:
		return j.Withdraw(ctx, ports.WithdrawRequest{
			AccountID:   original.SourceAccountID,
			Amount:      original.Amount,
			Description: description,
			Actor:       req.Actor,
		})
	case domain.TransactionKindWithdrawal, domain.TransactionKindServicePayment:
		return j.Deposit(ctx, ports.DepositRequest{
			AccountID:   original.SourceAccountID,
			Amount:      original.Amount,
			Description: description,
			Actor:       req.Actor,
		})
	case domain.TransactionKindSentTransfer, domain.TransactionKindReceivedTransfer:
		if original.DestinationAccountID == nil {
			return domain.Transaction{}, apperror.InternalError(
				fmt.Errorf("transfer transaction %d has no counterparty", original.ID))
		}
		// Either leg reverses as a transfer from the record's own account
		// back to its counterparty for a SENT leg, and the other way
		// around for a RECEIVED leg.
		source, destination := *original.DestinationAccountID, original.SourceAccountID
		if original.Kind == domain.TransactionKindReceivedTransfer {
			source, destination = original.SourceAccountID, *original.DestinationAccountID
		}
		return j.Transfer(ctx, ports.TransferRequest{
			SourceAccountID:      source,
			DestinationAccountID: destination,
			Amount:               original.Amount,
			Description:          description,
			Actor:                req.Actor,
		})
	default:
		return domain.Transaction{}, apperror.InternalError(
			fmt.Errorf("unknown transaction kind %q", original.Kind))
	}
}

// GetTransaction returns a single journal record.
func (j *TransactionJournal) GetTransaction(ctx context.Context, id int64) (domain.Transaction, error) {
	txn, ok := j.transactions.FindByID(id)
	if !ok {
		return domain.Transaction{}, apperror.ErrTransactionNotFound()
	}
	return txn, nil
}

// ListByAccount returns the account's journal entries, oldest first.
func (j *TransactionJournal) ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	all := j.transactions.FindAll()
	out := make([]domain.Transaction, 0, len(all))
	for _, txn := range all {
		if txn.SourceAccountID == accountID {
			out = append(out, txn)
		}
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].CreatedAt.Equal(out[k].CreatedAt) {
			return out[i].ID < out[k].ID
		}
		return out[i].CreatedAt.Before(out[k].CreatedAt)
	})
	return out, nil
}

func idempotencyKey(op string, accountID int64, referenceID string) string {
	if referenceID == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d:%s", op, accountID, referenceID)
}

func (j *TransactionJournal) cachedTransaction(ctx context.Context, key string) (domain.Transaction, bool) {
	if j.idemCache == nil || key == "" {
		return domain.Transaction{}, false
	}
	cached, err := j.idemCache.Get(ctx, key)
	if err != nil {
		j.log.Warn().Err(err).Str("key", key).Msg("idempotency cache read failed, processing as new request")
		return domain.Transaction{}, false
	}
	if cached == nil {
		return domain.Transaction{}, false
	}
	var txn domain.Transaction
	if err := json.Unmarshal(cached, &txn); err != nil {
		j.log.Warn().Err(err).Str("key", key).Msg("cached transaction unmarshal failed, processing as new request")
		return domain.Transaction{}, false
	}
	return txn, true
}

func (j *TransactionJournal) cacheTransaction(ctx context.Context, key string, txn domain.Transaction) {
	if j.idemCache == nil || key == "" {
		return
	}
	payload, err := json.Marshal(txn)
	if err != nil {
		j.log.Warn().Err(err).Str("key", key).Msg("transaction marshal failed, response not cached")
		return
	}
	if err := j.idemCache.Set(ctx, key, payload, idempotencyTTL); err != nil {
		j.log.Warn().Err(err).Str("key", key).Msg("idempotency cache write failed")
	}
}
