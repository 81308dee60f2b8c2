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

// Balance sources reported to the caller.
const (
	SourceCache       = "cache"
	SourceCoreBanking = "core_banking"
)

// BalanceResult is a balance read tagged with where it came from.
type BalanceResult struct {
	*domain.BalanceInfo
	Source string
}

// BalanceUseCase serves account balances through a read-through cache with a
// bounded freshness window.
type BalanceUseCase struct {
	profileRepo ProfileRepository
	cache       CacheStore
	gateway     CoreBankingGateway
	logger      zerolog.Logger
	now         func() time.Time
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(profileRepo ProfileRepository, cache CacheStore, gateway CoreBankingGateway, logger zerolog.Logger) *BalanceUseCase {
	return &BalanceUseCase{
		profileRepo: profileRepo,
		cache:       cache,
		gateway:     gateway,
		logger:      logger,
		now:         time.Now,
	}
}

// GetBalance returns the balance of accountID on behalf of userID. A cached
// snapshot younger than the freshness window is served directly; anything
// else goes to the core banking system and refills the cache. Cache errors
// are never surfaced; they degrade to a miss.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, accountID, userID string) (*BalanceResult, error) {
	if err := uc.authorize(ctx, accountID, userID); err != nil {
		return nil, err
	}

	now := uc.now()

	entry, err := uc.cache.GetLatest(ctx, accountID, domain.RecordTypeBalance)
	switch {
	case err == nil:
		if entry.Fresh(now, domain.BalanceFreshness) {
			metrics.CacheHits.WithLabelValues("balance").Inc()
			return &BalanceResult{BalanceInfo: entry.ToBalanceInfo(), Source: SourceCache}, nil
		}
	case !errors.Is(err, domain.ErrCacheMiss):
		uc.logger.Warn().Err(err).Str("account_id", domain.MaskAccountNumber(accountID)).
			Msg("balance cache read failed, falling through to core banking")
	}

	metrics.CacheMisses.WithLabelValues("balance").Inc()

	info, err := uc.gateway.GetBalance(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	// Replace, don't append: the snapshot is a point in time, not a
	// version history. Concurrent identical refills may race; the
	// overwrite is idempotent.
	if err := uc.cache.Put(ctx, domain.NewBalanceEntry(info, now)); err != nil {
		uc.logger.Warn().Err(err).Str("account_id", domain.MaskAccountNumber(accountID)).
			Msg("balance cache refill failed")
	}

	return &BalanceResult{BalanceInfo: info, Source: SourceCoreBanking}, nil
}

func (uc *BalanceUseCase) authorize(ctx context.Context, accountID, userID string) error {
	profile, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return domain.ErrForbidden
		}
		return err
	}
	if !profile.OwnsAccount(accountID) {
		return domain.ErrForbidden
	}
	return nil
}
