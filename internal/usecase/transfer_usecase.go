package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
)

// SubmitTransferInput carries a transfer request from the API layer.
type SubmitTransferInput struct {
	UserID      string
	FromAccount string
	ToAccount   string
	Amount      decimal.Decimal
	Currency    string
	Description string
}

// TransferResult is the synchronous outcome of an accepted transfer.
type TransferResult struct {
	Transaction *domain.Transaction
	Fraud       domain.FraudAssessment
}

// TransferUseCase runs the transfer pipeline: validation, authorization,
// balance check, fraud scoring, submission to the core banking system, and
// post-acceptance fan-out. Stages before submission fail the request;
// everything after acceptance is best effort.
type TransferUseCase struct {
	profileRepo   ProfileRepository
	cache         CacheStore
	gateway       CoreBankingGateway
	balances      BalanceReader
	queue         Queue
	notifications NotificationPublisher
	audit         AuditSink
	idGen         IDGenerator
	logger        zerolog.Logger

	gatewayTimeout time.Duration
	now            func() time.Time
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	profileRepo ProfileRepository,
	cache CacheStore,
	gateway CoreBankingGateway,
	balances BalanceReader,
	queue Queue,
	notifications NotificationPublisher,
	audit AuditSink,
	idGen IDGenerator,
	logger zerolog.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		profileRepo:    profileRepo,
		cache:          cache,
		gateway:        gateway,
		balances:       balances,
		queue:          queue,
		notifications:  notifications,
		audit:          audit,
		idGen:          idGen,
		logger:         logger,
		gatewayTimeout: DefaultGatewayTimeout,
		now:            time.Now,
	}
}

// SubmitTransfer validates and submits a transfer on behalf of input.UserID.
// On success the transaction is completed and its fan-out (queue message,
// completion notification) has been attempted. Fan-out failures are logged,
// never surfaced: the transfer is already accepted upstream.
func (uc *TransferUseCase) SubmitTransfer(ctx context.Context, input SubmitTransferInput) (*TransferResult, error) {
	now := uc.now()

	tx, err := uc.buildTransaction(input, now)
	if err != nil {
		return nil, err
	}

	profile, err := uc.authorize(ctx, tx)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateTierLimit(profile.Tier, tx.Type, tx.Amount); err != nil {
		return nil, err
	}

	if err := uc.checkFunds(ctx, tx); err != nil {
		return nil, err
	}

	fraud := uc.assessFraud(ctx, tx)
	metrics.FraudAssessments.WithLabelValues(string(fraud.RiskLevel)).Inc()
	if fraud.RiskLevel == domain.RiskHigh {
		uc.publishSecurityAlert(ctx, tx, fraud)
	}

	uc.appendAudit(ctx, domain.AuditTransactionAttempt, tx, nil, now)

	result, err := uc.submit(ctx, tx)
	if err != nil {
		metrics.TransfersSubmitted.WithLabelValues("rejected").Inc()
		return nil, err
	}
	metrics.TransfersSubmitted.WithLabelValues("completed").Inc()

	tx.SetStatus(domain.TransactionStatusCompleted, uc.now())
	tx.CoreReference = result.Reference

	uc.fanOut(ctx, tx, result)

	return &TransferResult{Transaction: tx, Fraud: fraud}, nil
}

func (uc *TransferUseCase) buildTransaction(input SubmitTransferInput, now time.Time) (*domain.Transaction, error) {
	if err := domain.ValidateAccountNumber(input.FromAccount); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	if err := domain.ValidateAccountNumber(input.ToAccount); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	if err := domain.ValidateTransferAmount(input.Amount); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	tx := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		UserID:      input.UserID,
		Type:        domain.TransactionTypeTransfer,
		Amount:      input.Amount,
		Currency:    currency,
		FromAccount: input.FromAccount,
		ToAccount:   input.ToAccount,
		Description: domain.TruncateDescription(input.Description),
		Status:      domain.TransactionStatusPending,
		Timestamp:   now.Unix(),
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}

// authorize checks that the user owns the source account. Destination
// accounts are format-checked only; existence is the core banking system's
// call to make.
func (uc *TransferUseCase) authorize(ctx context.Context, tx *domain.Transaction) (*domain.UserProfile, error) {
	profile, err := uc.profileRepo.GetByID(ctx, tx.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if !profile.OwnsAccount(tx.FromAccount) {
		return nil, domain.ErrForbidden
	}
	return profile, nil
}

func (uc *TransferUseCase) checkFunds(ctx context.Context, tx *domain.Transaction) error {
	balance, err := uc.balances.GetBalance(ctx, tx.FromAccount, tx.UserID)
	if err != nil {
		return err
	}
	if balance.AvailableBalance.LessThan(tx.Amount) {
		return domain.ErrInsufficientFunds
	}
	return nil
}

// assessFraud scores the transfer against the user's cached history. The
// score is advisory: a degraded cache yields an empty history and a low score,
// never a rejected transfer.
func (uc *TransferUseCase) assessFraud(ctx context.Context, tx *domain.Transaction) domain.FraudAssessment {
	filter := domain.TransactionFilter{Limit: FraudHistoryLimit}.Normalize()
	entries, err := uc.cache.Query(ctx, tx.FromAccount, domain.RecordTypeTransaction, filter)
	if err != nil {
		uc.logger.Warn().Err(err).Str("transaction_id", tx.ID).
			Msg("fraud history query failed, scoring with empty history")
		entries = nil
	}
	history := make([]*domain.Transaction, len(entries))
	for i, e := range entries {
		history[i] = e.ToTransaction()
	}
	return domain.AssessTransaction(tx, history)
}

func (uc *TransferUseCase) publishSecurityAlert(ctx context.Context, tx *domain.Transaction, fraud domain.FraudAssessment) {
	event := &domain.NotificationEvent{
		Type:          domain.NotificationSecurityAlert,
		UserID:        tx.UserID,
		TransactionID: tx.ID,
		Amount:        tx.Amount,
		AlertType:     "suspicious_transfer",
		Title:         "Security Alert",
		Content:       fmt.Sprintf("A transfer of %s %s was flagged for review.", tx.Amount, tx.Currency),
		Timestamp:     uc.now().Unix(),
	}
	if err := uc.notifications.PublishNotification(ctx, event); err != nil {
		uc.logger.Error().Err(err).Str("transaction_id", tx.ID).
			Int("suspicion_score", fraud.Score).
			Msg("failed to publish security alert")
	}
}

func (uc *TransferUseCase) appendAudit(ctx context.Context, eventType string, tx *domain.Transaction, result *domain.ProcessingResult, now time.Time) {
	if err := uc.audit.Append(ctx, domain.NewAuditRecord(eventType, tx, result, now)); err != nil {
		uc.logger.Error().Err(err).Str("transaction_id", tx.ID).
			Str("event_type", eventType).
			Msg("failed to append audit record")
	}
}

func (uc *TransferUseCase) submit(ctx context.Context, tx *domain.Transaction) (*domain.ProcessingResult, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.gatewayTimeout)
	defer cancel()

	result, err := uc.gateway.SubmitTransfer(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	if !result.Success {
		tx.SetStatus(domain.TransactionStatusFailed, uc.now())
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstreamRejected, result.Reason)
	}
	return result, nil
}

// fanOut publishes the queue work item and the completion notification.
// Exactly one queue message per accepted transfer; a publish failure here is
// an operational gap to reconcile, not a request failure.
func (uc *TransferUseCase) fanOut(ctx context.Context, tx *domain.Transaction, result *domain.ProcessingResult) {
	msg := &domain.QueueMessage{
		TransactionType: tx.Type,
		Transaction:     tx,
		Result:          result,
		Timestamp:       uc.now().Unix(),
	}
	if err := uc.queue.PublishTransaction(ctx, msg); err != nil {
		uc.logger.Error().Err(err).Str("transaction_id", tx.ID).
			Msg("failed to publish transaction to queue")
	}

	event := &domain.NotificationEvent{
		Type:          domain.NotificationTransferCompleted,
		UserID:        tx.UserID,
		TransactionID: tx.ID,
		Amount:        tx.Amount,
		FromAccount:   domain.MaskAccountNumber(tx.FromAccount),
		ToAccount:     domain.MaskAccountNumber(tx.ToAccount),
		Title:         "Transfer Completed",
		Content:       fmt.Sprintf("Your transfer of %s %s has been completed.", tx.Amount, tx.Currency),
		Timestamp:     uc.now().Unix(),
	}
	if err := uc.notifications.PublishNotification(ctx, event); err != nil {
		uc.logger.Error().Err(err).Str("transaction_id", tx.ID).
			Msg("failed to publish transfer notification")
	}
}
