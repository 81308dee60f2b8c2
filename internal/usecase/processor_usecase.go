package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
)

// TransactionProcessor is the consumer-side use case: it turns accepted
// transaction messages into cache entries, balance invalidations, audit
// records and follow-up notifications. Processing is idempotent; redelivered
// messages overwrite the cache entries they already wrote.
type TransactionProcessor struct {
	cache         CacheStore
	audit         AuditSink
	notifications NotificationPublisher
	logger        *slog.Logger
	now           func() time.Time
}

// NewTransactionProcessor creates a new TransactionProcessor.
func NewTransactionProcessor(cache CacheStore, audit AuditSink, notifications NotificationPublisher, logger *slog.Logger) *TransactionProcessor {
	return &TransactionProcessor{
		cache:         cache,
		audit:         audit,
		notifications: notifications,
		logger:        logger,
		now:           time.Now,
	}
}

// ProcessMessage handles a single queue message. Unknown transaction types
// are logged and dropped without error so they are not redelivered forever.
func (p *TransactionProcessor) ProcessMessage(ctx context.Context, msg *domain.QueueMessage) error {
	if msg.Transaction == nil {
		return fmt.Errorf("%w: message has no transaction payload", domain.ErrInvalidRequest)
	}

	var err error
	switch msg.TransactionType {
	case domain.TransactionTypeTransfer:
		err = p.processTransfer(ctx, msg)
	case domain.TransactionTypeDeposit:
		err = p.processDeposit(ctx, msg)
	case domain.TransactionTypeWithdrawal:
		err = p.processWithdrawal(ctx, msg)
	default:
		p.logger.Warn("unknown transaction type, dropping message",
			"transaction_type", string(msg.TransactionType),
			"transaction_id", msg.Transaction.ID)
		return nil
	}

	if err != nil {
		metrics.ProcessingFailures.Inc()
		return err
	}

	metrics.TransactionsProcessed.WithLabelValues(string(msg.TransactionType)).Inc()
	return nil
}

// processTransfer records the transaction on both sides of the transfer,
// invalidates both balances, and audits the completion.
func (p *TransactionProcessor) processTransfer(ctx context.Context, msg *domain.QueueMessage) error {
	tx := msg.Transaction

	entries := []*domain.CacheEntry{
		domain.NewTransactionEntry(tx.FromAccount, domain.RoleOutgoingTransfer, tx, msg.Result),
		domain.NewTransactionEntry(tx.ToAccount, domain.RoleIncomingTransfer, tx, msg.Result),
	}
	if err := p.cache.PutBatch(ctx, entries); err != nil {
		return fmt.Errorf("cache transaction records: %w", err)
	}

	p.invalidateBalance(ctx, tx.FromAccount)
	p.invalidateBalance(ctx, tx.ToAccount)

	p.appendAudit(ctx, domain.AuditTransferProcessed, tx, msg.Result)
	p.maybeSecurityAlert(ctx, tx)

	p.logger.Info("transfer processed",
		"transaction_id", tx.ID,
		"from_account", domain.MaskAccountNumber(tx.FromAccount),
		"to_account", domain.MaskAccountNumber(tx.ToAccount),
		"amount", tx.Amount.String())
	return nil
}

func (p *TransactionProcessor) processDeposit(ctx context.Context, msg *domain.QueueMessage) error {
	tx := msg.Transaction

	entry := domain.NewTransactionEntry(tx.ToAccount, domain.RoleDeposit, tx, msg.Result)
	if err := p.cache.Put(ctx, entry); err != nil {
		return fmt.Errorf("cache deposit record: %w", err)
	}

	p.invalidateBalance(ctx, tx.ToAccount)
	p.appendAudit(ctx, domain.AuditDepositProcessed, tx, msg.Result)
	p.maybeSecurityAlert(ctx, tx)

	p.logger.Info("deposit processed",
		"transaction_id", tx.ID,
		"to_account", domain.MaskAccountNumber(tx.ToAccount),
		"amount", tx.Amount.String())
	return nil
}

func (p *TransactionProcessor) processWithdrawal(ctx context.Context, msg *domain.QueueMessage) error {
	tx := msg.Transaction

	entry := domain.NewTransactionEntry(tx.FromAccount, domain.RoleWithdrawal, tx, msg.Result)
	if err := p.cache.Put(ctx, entry); err != nil {
		return fmt.Errorf("cache withdrawal record: %w", err)
	}

	p.invalidateBalance(ctx, tx.FromAccount)
	p.appendAudit(ctx, domain.AuditWithdrawalProcessed, tx, msg.Result)
	p.maybeSecurityAlert(ctx, tx)

	p.logger.Info("withdrawal processed",
		"transaction_id", tx.ID,
		"from_account", domain.MaskAccountNumber(tx.FromAccount),
		"amount", tx.Amount.String())
	return nil
}

// invalidateBalance drops cached balance snapshots so the next read goes to
// the core banking system. Failure is tolerable: the snapshot still ages out
// of the freshness window on its own.
func (p *TransactionProcessor) invalidateBalance(ctx context.Context, accountID string) {
	if accountID == "" {
		return
	}
	if err := p.cache.DeleteBalances(ctx, accountID); err != nil {
		p.logger.Warn("balance invalidation failed",
			"account_id", domain.MaskAccountNumber(accountID),
			"error", err)
	}
}

func (p *TransactionProcessor) appendAudit(ctx context.Context, eventType string, tx *domain.Transaction, result *domain.ProcessingResult) {
	if err := p.audit.Append(ctx, domain.NewAuditRecord(eventType, tx, result, p.now())); err != nil {
		p.logger.Error("audit append failed",
			"event_type", eventType,
			"transaction_id", tx.ID,
			"error", err)
	}
}

// maybeSecurityAlert emits a security alert for large transactions. The
// check is strictly greater than the threshold.
func (p *TransactionProcessor) maybeSecurityAlert(ctx context.Context, tx *domain.Transaction) {
	if !tx.Amount.GreaterThan(LargeTransactionThreshold) {
		return
	}
	event := &domain.NotificationEvent{
		Type:          domain.NotificationSecurityAlert,
		UserID:        tx.UserID,
		TransactionID: tx.ID,
		Amount:        tx.Amount,
		AlertType:     "large_transaction",
		Title:         "Security Alert",
		Content:       fmt.Sprintf("A large transaction of %s %s was processed on your account.", tx.Amount, tx.Currency),
		Timestamp:     p.now().Unix(),
	}
	if err := p.notifications.PublishNotification(ctx, event); err != nil {
		p.logger.Error("security alert publish failed",
			"transaction_id", tx.ID,
			"error", err)
	}
}
