package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// MockProfileRepository is a mock implementation of ProfileRepository backed
// by an in-memory map. Set the Func fields to override behavior per test.
type MockProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*domain.UserProfile

	GetByIDFunc func(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateFunc  func(ctx context.Context, profile *domain.UserProfile) error
}

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		profiles: make(map[string]*domain.UserProfile),
	}
}

// Seed stores a profile directly, bypassing any Func override.
func (m *MockProfileRepository) Seed(profile *domain.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UserID] = profile
}

func (m *MockProfileRepository) GetByID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	profile, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, profile)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UserID] = profile
	return nil
}

// MockCacheStore is an in-memory CacheStore keyed exactly like the real one:
// one balance slot per account, transaction records keyed by (account,
// timestamp) so overwrites are idempotent.
type MockCacheStore struct {
	mu       sync.RWMutex
	balances map[string]*domain.CacheEntry
	txs      map[string]map[int64]*domain.CacheEntry

	PutFunc            func(ctx context.Context, entry *domain.CacheEntry) error
	PutBatchFunc       func(ctx context.Context, entries []*domain.CacheEntry) error
	GetLatestFunc      func(ctx context.Context, accountID string, recordType domain.RecordType) (*domain.CacheEntry, error)
	QueryFunc          func(ctx context.Context, accountID string, recordType domain.RecordType, filter domain.TransactionFilter) ([]*domain.CacheEntry, error)
	DeleteFunc         func(ctx context.Context, accountID string, timestamp int64) error
	DeleteBalancesFunc func(ctx context.Context, accountID string) error
}

func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		balances: make(map[string]*domain.CacheEntry),
		txs:      make(map[string]map[int64]*domain.CacheEntry),
	}
}

func (m *MockCacheStore) Put(ctx context.Context, entry *domain.CacheEntry) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store(entry)
	return nil
}

func (m *MockCacheStore) PutBatch(ctx context.Context, entries []*domain.CacheEntry) error {
	if m.PutBatchFunc != nil {
		return m.PutBatchFunc(ctx, entries)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.store(e)
	}
	return nil
}

func (m *MockCacheStore) store(entry *domain.CacheEntry) {
	switch entry.RecordType {
	case domain.RecordTypeBalance:
		m.balances[entry.AccountID] = entry
	case domain.RecordTypeTransaction:
		byTS, ok := m.txs[entry.AccountID]
		if !ok {
			byTS = make(map[int64]*domain.CacheEntry)
			m.txs[entry.AccountID] = byTS
		}
		byTS[entry.Timestamp] = entry
	}
}

func (m *MockCacheStore) GetLatest(ctx context.Context, accountID string, recordType domain.RecordType) (*domain.CacheEntry, error) {
	if m.GetLatestFunc != nil {
		return m.GetLatestFunc(ctx, accountID, recordType)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if recordType == domain.RecordTypeBalance {
		entry, ok := m.balances[accountID]
		if !ok {
			return nil, domain.ErrCacheMiss
		}
		return entry, nil
	}
	var latest *domain.CacheEntry
	for _, e := range m.txs[accountID] {
		if latest == nil || e.Timestamp > latest.Timestamp {
			latest = e
		}
	}
	if latest == nil {
		return nil, domain.ErrCacheMiss
	}
	return latest, nil
}

func (m *MockCacheStore) Query(ctx context.Context, accountID string, recordType domain.RecordType, filter domain.TransactionFilter) ([]*domain.CacheEntry, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, accountID, recordType, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if recordType != domain.RecordTypeTransaction {
		return nil, fmt.Errorf("query supports transaction records only")
	}

	filter = filter.Normalize()

	entries := make([]*domain.CacheEntry, 0, len(m.txs[accountID]))
	for _, e := range m.txs[accountID] {
		entries = append(entries, e)
	}
	// Newest first, like the real store.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})

	matched := make([]*domain.CacheEntry, 0, len(entries))
	for _, e := range entries {
		if filter.Matches(e.ToTransaction()) {
			matched = append(matched, e)
		}
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

func (m *MockCacheStore) Delete(ctx context.Context, accountID string, timestamp int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, accountID, timestamp)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.txs[accountID], timestamp)
	return nil
}

func (m *MockCacheStore) DeleteBalances(ctx context.Context, accountID string) error {
	if m.DeleteBalancesFunc != nil {
		return m.DeleteBalancesFunc(ctx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.balances, accountID)
	return nil
}

// Balance returns the stored balance entry for assertions, or nil.
func (m *MockCacheStore) Balance(accountID string) *domain.CacheEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[accountID]
}

// Transactions returns all stored transaction entries for an account.
func (m *MockCacheStore) Transactions(accountID string) []*domain.CacheEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]*domain.CacheEntry, 0, len(m.txs[accountID]))
	for _, e := range m.txs[accountID] {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
	return entries
}

// MockGateway is a mock implementation of CoreBankingGateway.
type MockGateway struct {
	GetBalanceFunc       func(ctx context.Context, accountID string) (*domain.BalanceInfo, error)
	ListTransactionsFunc func(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	SubmitTransferFunc   func(ctx context.Context, tx *domain.Transaction) (*domain.ProcessingResult, error)
}

func (m *MockGateway) GetBalance(ctx context.Context, accountID string) (*domain.BalanceInfo, error) {
	if m.GetBalanceFunc != nil {
		return m.GetBalanceFunc(ctx, accountID)
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockGateway) ListTransactions(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if m.ListTransactionsFunc != nil {
		return m.ListTransactionsFunc(ctx, accountID, filter)
	}
	return nil, nil
}

func (m *MockGateway) SubmitTransfer(ctx context.Context, tx *domain.Transaction) (*domain.ProcessingResult, error) {
	if m.SubmitTransferFunc != nil {
		return m.SubmitTransferFunc(ctx, tx)
	}
	return &domain.ProcessingResult{Success: true, Reference: "CORE-" + tx.ID, Timestamp: tx.Timestamp}, nil
}

// MockQueue records published transaction messages.
type MockQueue struct {
	mu       sync.Mutex
	messages []*domain.QueueMessage

	PublishTransactionFunc func(ctx context.Context, msg *domain.QueueMessage) error
}

func (m *MockQueue) PublishTransaction(ctx context.Context, msg *domain.QueueMessage) error {
	if m.PublishTransactionFunc != nil {
		return m.PublishTransactionFunc(ctx, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *MockQueue) Messages() []*domain.QueueMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.QueueMessage(nil), m.messages...)
}

// MockNotificationPublisher records published notification events.
type MockNotificationPublisher struct {
	mu     sync.Mutex
	events []*domain.NotificationEvent

	PublishNotificationFunc func(ctx context.Context, event *domain.NotificationEvent) error
}

func (m *MockNotificationPublisher) PublishNotification(ctx context.Context, event *domain.NotificationEvent) error {
	if m.PublishNotificationFunc != nil {
		return m.PublishNotificationFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockNotificationPublisher) Events() []*domain.NotificationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.NotificationEvent(nil), m.events...)
}

// MockAuditSink records appended audit records.
type MockAuditSink struct {
	mu      sync.Mutex
	records []*domain.AuditRecord

	AppendFunc func(ctx context.Context, record *domain.AuditRecord) error
}

func (m *MockAuditSink) Append(ctx context.Context, record *domain.AuditRecord) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *MockAuditSink) Records() []*domain.AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.AuditRecord(nil), m.records...)
}

// MockBalanceReader is a mock implementation of BalanceReader.
type MockBalanceReader struct {
	GetBalanceFunc func(ctx context.Context, accountID, userID string) (*usecase.BalanceResult, error)
}

func (m *MockBalanceReader) GetBalance(ctx context.Context, accountID, userID string) (*usecase.BalanceResult, error) {
	if m.GetBalanceFunc != nil {
		return m.GetBalanceFunc(ctx, accountID, userID)
	}
	return nil, domain.ErrAccountNotFound
}

// MockChannelSender records notification deliveries on one channel.
type MockChannelSender struct {
	mu    sync.Mutex
	sends []MockSend

	SendFunc func(ctx context.Context, userID, title, message string) error
}

// MockSend is one recorded delivery.
type MockSend struct {
	UserID  string
	Title   string
	Message string
}

func (m *MockChannelSender) Send(ctx context.Context, userID, title, message string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, userID, title, message)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, MockSend{UserID: userID, Title: title, Message: message})
	return nil
}

func (m *MockChannelSender) Sends() []MockSend {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockSend(nil), m.sends...)
}

// MockIDGenerator returns sequential deterministic IDs.
type MockIDGenerator struct {
	mu sync.Mutex
	n  int

	GenerateFunc func() string
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	return fmt.Sprintf("txn-%08d", m.n)
}
