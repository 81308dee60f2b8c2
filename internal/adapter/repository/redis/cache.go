package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gobank/internal/domain"
)

// CacheStore implements usecase.CacheStore using Redis.
//
// Balance snapshots live under one plain key per account with a server-side
// TTL, so a refill replaces the previous snapshot instead of appending to
// it. Transaction records live in a sorted set per account scored by their
// unix timestamp: writing the same (account, timestamp) key again overwrites
// the member, which is what makes redelivered queue messages idempotent.
type CacheStore struct {
	client *redis.Client
	prefix string
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{
		client: client,
		prefix: "cache:",
	}
}

func (s *CacheStore) balanceKey(accountID string) string {
	return s.prefix + "balance:" + accountID
}

func (s *CacheStore) txKey(accountID string) string {
	return s.prefix + "tx:" + accountID
}

// Put stores one cache entry.
func (s *CacheStore) Put(ctx context.Context, entry *domain.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	switch entry.RecordType {
	case domain.RecordTypeBalance:
		return s.client.Set(ctx, s.balanceKey(entry.AccountID), data, domain.BalanceTTL).Err()

	case domain.RecordTypeTransaction:
		key := s.txKey(entry.AccountID)
		score := float64(entry.Timestamp)
		pipe := s.client.TxPipeline()
		// Same (account, timestamp) key overwrites the existing member.
		pipe.ZRemRangeByScore(ctx, key, fmt.Sprintf("%d", entry.Timestamp), fmt.Sprintf("%d", entry.Timestamp))
		pipe.ZAdd(ctx, key, redis.Z{Score: score, Member: string(data)})
		pipe.Expire(ctx, key, domain.TransactionTTL)
		_, err := pipe.Exec(ctx)
		return err

	default:
		return fmt.Errorf("unknown record type %q", entry.RecordType)
	}
}

// PutBatch stores several entries, grouping transaction records for the same
// account into one pipeline round trip.
func (s *CacheStore) PutBatch(ctx context.Context, entries []*domain.CacheEntry) error {
	if len(entries) == 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal cache entry: %w", err)
		}
		switch entry.RecordType {
		case domain.RecordTypeBalance:
			pipe.Set(ctx, s.balanceKey(entry.AccountID), data, domain.BalanceTTL)
		case domain.RecordTypeTransaction:
			key := s.txKey(entry.AccountID)
			pipe.ZRemRangeByScore(ctx, key, fmt.Sprintf("%d", entry.Timestamp), fmt.Sprintf("%d", entry.Timestamp))
			pipe.ZAdd(ctx, key, redis.Z{Score: float64(entry.Timestamp), Member: string(data)})
			pipe.Expire(ctx, key, domain.TransactionTTL)
		default:
			return fmt.Errorf("unknown record type %q", entry.RecordType)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

// GetLatest returns the most recent entry of the given type for the account,
// or domain.ErrCacheMiss.
func (s *CacheStore) GetLatest(ctx context.Context, accountID string, recordType domain.RecordType) (*domain.CacheEntry, error) {
	switch recordType {
	case domain.RecordTypeBalance:
		data, err := s.client.Get(ctx, s.balanceKey(accountID)).Bytes()
		if err == redis.Nil {
			return nil, domain.ErrCacheMiss
		}
		if err != nil {
			return nil, err
		}
		return unmarshalEntry(data)

	case domain.RecordTypeTransaction:
		members, err := s.client.ZRevRange(ctx, s.txKey(accountID), 0, 0).Result()
		if err != nil {
			return nil, err
		}
		if len(members) == 0 {
			return nil, domain.ErrCacheMiss
		}
		return unmarshalEntry([]byte(members[0]))

	default:
		return nil, fmt.Errorf("unknown record type %q", recordType)
	}
}

// Query returns transaction entries for the account matching the filter,
// newest first. Date bounds are pushed down to the sorted set; the remaining
// predicates and pagination are applied on the decoded entries.
func (s *CacheStore) Query(ctx context.Context, accountID string, recordType domain.RecordType, filter domain.TransactionFilter) ([]*domain.CacheEntry, error) {
	if recordType != domain.RecordTypeTransaction {
		return nil, fmt.Errorf("query supports transaction records only, got %q", recordType)
	}

	filter = filter.Normalize()

	min, max := "-inf", "+inf"
	if filter.StartDate != nil {
		min = fmt.Sprintf("%d", filter.StartDate.Unix())
	}
	if filter.EndDate != nil {
		max = fmt.Sprintf("%d", filter.EndDate.Unix())
	}

	members, err := s.client.ZRevRangeByScore(ctx, s.txKey(accountID), &redis.ZRangeBy{
		Min: min,
		Max: max,
	}).Result()
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	matched := make([]*domain.CacheEntry, 0, len(members))
	for _, m := range members {
		entry, err := unmarshalEntry([]byte(m))
		if err != nil {
			return nil, err
		}
		if entry.ExpiresAt > 0 && entry.ExpiresAt <= now {
			continue
		}
		if !filter.Matches(entry.ToTransaction()) {
			continue
		}
		matched = append(matched, entry)
	}

	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// Delete removes the transaction entry at (accountID, timestamp).
func (s *CacheStore) Delete(ctx context.Context, accountID string, timestamp int64) error {
	ts := fmt.Sprintf("%d", timestamp)
	return s.client.ZRemRangeByScore(ctx, s.txKey(accountID), ts, ts).Err()
}

// DeleteBalances removes the balance snapshot for the account.
func (s *CacheStore) DeleteBalances(ctx context.Context, accountID string) error {
	return s.client.Del(ctx, s.balanceKey(accountID)).Err()
}

func unmarshalEntry(data []byte) (*domain.CacheEntry, error) {
	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal cache entry: %w", err)
	}
	return &entry, nil
}
