package usecase

import (
	"context"
	"time"

	"github.com/iho/gobank/internal/domain"
)

// CoreBankingGateway is the opaque authoritative banking system. Production
// implementations call the on-premises core over a private link; tests use a
// deterministic double.
type CoreBankingGateway interface {
	GetBalance(ctx context.Context, accountID string) (*domain.BalanceInfo, error)
	ListTransactions(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	SubmitTransfer(ctx context.Context, tx *domain.Transaction) (*domain.ProcessingResult, error)
}

// CacheStore is the key-value document store for balance snapshots and
// transaction records, keyed by (account identifier, unix timestamp).
// Implementations honor per-entry expiry hints; the caller still applies its
// own freshness check on balance entries.
type CacheStore interface {
	Put(ctx context.Context, entry *domain.CacheEntry) error
	PutBatch(ctx context.Context, entries []*domain.CacheEntry) error
	GetLatest(ctx context.Context, accountID string, recordType domain.RecordType) (*domain.CacheEntry, error)
	Query(ctx context.Context, accountID string, recordType domain.RecordType, filter domain.TransactionFilter) ([]*domain.CacheEntry, error)
	Delete(ctx context.Context, accountID string, timestamp int64) error
	// DeleteBalances removes every balance snapshot for the account,
	// forcing the next balance read through to the gateway.
	DeleteBalances(ctx context.Context, accountID string) error
}

// Queue publishes transaction work items for the asynchronous processor.
// Publishing is best effort; failures must not fail an already-accepted
// transfer.
type Queue interface {
	PublishTransaction(ctx context.Context, msg *domain.QueueMessage) error
}

// NotificationPublisher emits notification events for the dispatcher.
// Best effort, non-blocking from the caller's perspective.
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, event *domain.NotificationEvent) error
}

// AuditSink appends audit records. Best effort.
type AuditSink interface {
	Append(ctx context.Context, record *domain.AuditRecord) error
}

// ProfileRepository defines data access for user profiles.
type ProfileRepository interface {
	GetByID(ctx context.Context, userID string) (*domain.UserProfile, error)
	Update(ctx context.Context, profile *domain.UserProfile) error
}

// BalanceReader reads an account balance on behalf of a user, applying the
// same authorization as the balance endpoint.
type BalanceReader interface {
	GetBalance(ctx context.Context, accountID, userID string) (*BalanceResult, error)
}

// ChannelSender delivers one notification on one channel (push, email or
// SMS).
type ChannelSender interface {
	Send(ctx context.Context, userID, title, message string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore caches API responses so replayed requests with the same
// idempotency key return the original result.
type IdempotencyStore interface {
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
