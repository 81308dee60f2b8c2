package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
)

// TransactionList is a page of transaction history tagged with its source.
type TransactionList struct {
	AccountID    string
	Transactions []*domain.Transaction
	Source       string
}

// TransactionsUseCase serves paginated, filtered transaction history through
// the cache store, falling back to the core banking system only when the
// cache has no matching rows at all. A non-empty cache result is returned
// as-is: it is "what has been cached so far", not a complete history.
type TransactionsUseCase struct {
	profileRepo ProfileRepository
	cache       CacheStore
	gateway     CoreBankingGateway
	logger      zerolog.Logger
	now         func() time.Time
}

// NewTransactionsUseCase creates a new TransactionsUseCase.
func NewTransactionsUseCase(profileRepo ProfileRepository, cache CacheStore, gateway CoreBankingGateway, logger zerolog.Logger) *TransactionsUseCase {
	return &TransactionsUseCase{
		profileRepo: profileRepo,
		cache:       cache,
		gateway:     gateway,
		logger:      logger,
		now:         time.Now,
	}
}

// ListTransactions returns the transaction history of accountID on behalf of
// userID, newest first. The identical filter is applied on both paths.
func (uc *TransactionsUseCase) ListTransactions(ctx context.Context, accountID, userID string, filter domain.TransactionFilter) (*TransactionList, error) {
	profile, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if !profile.OwnsAccount(accountID) {
		return nil, domain.ErrForbidden
	}

	filter = filter.Normalize()

	entries, err := uc.cache.Query(ctx, accountID, domain.RecordTypeTransaction, filter)
	if err != nil {
		uc.logger.Warn().Err(err).Str("account_id", domain.MaskAccountNumber(accountID)).
			Msg("transaction cache query failed, falling through to core banking")
		entries = nil
	}

	if len(entries) > 0 {
		metrics.CacheHits.WithLabelValues("transaction").Inc()
		txs := make([]*domain.Transaction, len(entries))
		for i, e := range entries {
			txs[i] = e.ToTransaction()
		}
		return &TransactionList{AccountID: accountID, Transactions: txs, Source: SourceCache}, nil
	}

	metrics.CacheMisses.WithLabelValues("transaction").Inc()

	txs, err := uc.gateway.ListTransactions(ctx, accountID, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	if len(txs) > 0 {
		refill := make([]*domain.CacheEntry, len(txs))
		for i, tx := range txs {
			role := string(tx.Type)
			refill[i] = domain.NewTransactionEntry(accountID, role, tx, nil)
		}
		if err := uc.cache.PutBatch(ctx, refill); err != nil {
			uc.logger.Warn().Err(err).Str("account_id", domain.MaskAccountNumber(accountID)).
				Msg("transaction cache refill failed")
		}
	}

	return &TransactionList{AccountID: accountID, Transactions: txs, Source: SourceCoreBanking}, nil
}
