package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction.
type TransactionType string

const (
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypePayment    TransactionType = "payment"
)

// ValidTransactionType reports whether t is a known transaction type.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionTypeTransfer, TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypePayment:
		return true
	}
	return false
}

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusFailed     TransactionStatus = "failed"
	TransactionStatusCancelled  TransactionStatus = "cancelled"
)

// StatusChange records one transition in a transaction's status history.
type StatusChange struct {
	From TransactionStatus `json:"from"`
	To   TransactionStatus `json:"to"`
	At   int64             `json:"at"`
}

// Transaction represents a money movement submitted through the transfer
// service. Timestamp is unix seconds, matching the cache key space.
type Transaction struct {
	ID            string            `json:"transaction_id"`
	UserID        string            `json:"user_id"`
	Type          TransactionType   `json:"transaction_type"`
	Amount        decimal.Decimal   `json:"amount"`
	Currency      string            `json:"currency"`
	FromAccount   string            `json:"from_account,omitempty"`
	ToAccount     string            `json:"to_account,omitempty"`
	Description   string            `json:"description"`
	Status        TransactionStatus `json:"status"`
	Timestamp     int64             `json:"timestamp"`
	CoreReference string            `json:"core_reference,omitempty"`
	Metadata      map[string]any    `json:"metadata,omitempty"`
	StatusHistory []StatusChange    `json:"status_history,omitempty"`
}

// Validate checks structural invariants: positive amount, required accounts
// per type, distinct accounts for transfers.
func (t *Transaction) Validate() error {
	if !ValidTransactionType(t.Type) {
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidRequest, t.Type)
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	switch t.Type {
	case TransactionTypeTransfer:
		if t.FromAccount == "" || t.ToAccount == "" {
			return fmt.Errorf("%w: transfer requires source and destination accounts", ErrInvalidRequest)
		}
		if t.FromAccount == t.ToAccount {
			return ErrSameAccount
		}
	case TransactionTypeWithdrawal:
		if t.FromAccount == "" {
			return fmt.Errorf("%w: withdrawal requires a source account", ErrInvalidRequest)
		}
	case TransactionTypeDeposit:
		if t.ToAccount == "" {
			return fmt.Errorf("%w: deposit requires a destination account", ErrInvalidRequest)
		}
	}

	return nil
}

// SetStatus transitions the transaction status and appends to the history.
func (t *Transaction) SetStatus(status TransactionStatus, at time.Time) {
	t.StatusHistory = append(t.StatusHistory, StatusChange{
		From: t.Status,
		To:   status,
		At:   at.Unix(),
	})
	t.Status = status
}

// TransactionFilter narrows transaction history queries. The same filter is
// applied to the cache and to the core banking fallback, so results are
// filter-consistent regardless of source.
type TransactionFilter struct {
	Limit     int
	Offset    int
	StartDate *time.Time
	EndDate   *time.Time
	Type      TransactionType
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Normalize clamps pagination to the allowed range.
func (f TransactionFilter) Normalize() TransactionFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Matches reports whether a transaction satisfies the non-pagination parts of
// the filter.
func (f TransactionFilter) Matches(tx *Transaction) bool {
	if f.StartDate != nil && tx.Timestamp < f.StartDate.Unix() {
		return false
	}
	if f.EndDate != nil && tx.Timestamp > f.EndDate.Unix() {
		return false
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.MinAmount != nil && tx.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && tx.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}
