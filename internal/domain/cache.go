package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordType discriminates the two kinds of cache entries.
type RecordType string

const (
	RecordTypeBalance     RecordType = "balance"
	RecordTypeTransaction RecordType = "transaction"
)

const (
	// BalanceFreshness is the maximum age at which a cached balance is
	// served without re-querying the core banking system.
	BalanceFreshness = 5 * time.Minute

	// BalanceTTL is the store-level expiry hint for balance snapshots.
	BalanceTTL = 5 * time.Minute

	// TransactionTTL is the store-level expiry for transaction records.
	// Transaction entries are historical and are never invalidated for
	// staleness before this expiry.
	TransactionTTL = 30 * 24 * time.Hour
)

// CacheEntry is a document in the cache store, keyed by account identifier
// and unix-second timestamp. A balance entry is a point-in-time snapshot;
// a transaction entry is an immutable history record scoped to one account
// side of a transaction.
type CacheEntry struct {
	AccountID  string     `json:"account_id"`
	Timestamp  int64      `json:"timestamp"`
	RecordType RecordType `json:"record_type"`

	// Balance fields
	Balance          decimal.Decimal `json:"balance,omitempty"`
	AvailableBalance decimal.Decimal `json:"available_balance,omitempty"`
	AccountType      AccountType     `json:"account_type,omitempty"`

	// Transaction fields
	TransactionID   string            `json:"transaction_id,omitempty"`
	TransactionType TransactionType   `json:"transaction_type,omitempty"`
	Role            string            `json:"role,omitempty"`
	Amount          decimal.Decimal   `json:"amount,omitempty"`
	Description     string            `json:"description,omitempty"`
	Status          TransactionStatus `json:"status,omitempty"`
	CoreReference   string            `json:"core_reference,omitempty"`
	FromAccount     string            `json:"from_account,omitempty"`
	ToAccount       string            `json:"to_account,omitempty"`

	Currency  string `json:"currency,omitempty"`
	ExpiresAt int64  `json:"expires_at"`
}

// Fresh reports whether a balance entry is still within the freshness window
// at now.
func (e *CacheEntry) Fresh(now time.Time, window time.Duration) bool {
	return now.Unix()-e.Timestamp < int64(window.Seconds())
}

// NewBalanceEntry builds a balance snapshot entry from an authoritative read.
func NewBalanceEntry(info *BalanceInfo, now time.Time) *CacheEntry {
	return &CacheEntry{
		AccountID:        info.AccountID,
		Timestamp:        now.Unix(),
		RecordType:       RecordTypeBalance,
		Balance:          info.Balance,
		AvailableBalance: info.AvailableBalance,
		AccountType:      info.AccountType,
		Currency:         info.Currency,
		ExpiresAt:        now.Add(BalanceTTL).Unix(),
	}
}

// NewTransactionEntry builds a transaction record entry scoped to one
// account, tagged with the account's role in the transaction (for example
// outgoing_transfer for the debited side).
func NewTransactionEntry(accountID, role string, tx *Transaction, result *ProcessingResult) *CacheEntry {
	ts := tx.Timestamp
	status := tx.Status
	reference := tx.CoreReference
	if result != nil {
		ts = result.Timestamp
		reference = result.Reference
		status = TransactionStatusCompleted
	}

	return &CacheEntry{
		AccountID:       accountID,
		Timestamp:       ts,
		RecordType:      RecordTypeTransaction,
		TransactionID:   tx.ID,
		TransactionType: tx.Type,
		Role:            role,
		Amount:          tx.Amount,
		Description:     tx.Description,
		Status:          status,
		CoreReference:   reference,
		FromAccount:     tx.FromAccount,
		ToAccount:       tx.ToAccount,
		Currency:        tx.Currency,
		ExpiresAt:       ts + int64(TransactionTTL.Seconds()),
	}
}

// ToTransaction converts a transaction-type entry back into a Transaction
// for query responses.
func (e *CacheEntry) ToTransaction() *Transaction {
	return &Transaction{
		ID:            e.TransactionID,
		Type:          e.TransactionType,
		Amount:        e.Amount,
		Currency:      e.Currency,
		FromAccount:   e.FromAccount,
		ToAccount:     e.ToAccount,
		Description:   e.Description,
		Status:        e.Status,
		Timestamp:     e.Timestamp,
		CoreReference: e.CoreReference,
	}
}

// ToBalanceInfo converts a balance-type entry into the balance view.
func (e *CacheEntry) ToBalanceInfo() *BalanceInfo {
	return &BalanceInfo{
		AccountID:        e.AccountID,
		Balance:          e.Balance,
		AvailableBalance: e.AvailableBalance,
		Currency:         e.Currency,
		AccountType:      e.AccountType,
		UpdatedAt:        time.Unix(e.Timestamp, 0).UTC(),
	}
}
