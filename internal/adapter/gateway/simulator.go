package gateway

import (
	"context"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// Simulator is an in-process stand-in for the core banking system, used for
// local development and the CLI's demo mode. Balances and histories are
// derived deterministically from the account number, so restarts and
// separate processes agree on the same data. Submitted transfers are applied
// on top of the derived state for the lifetime of the process.
type Simulator struct {
	mu       sync.Mutex
	deltas   map[string]decimal.Decimal
	accepted []*domain.Transaction

	// FailureRate in [0,1] makes SubmitTransfer reject that fraction of
	// requests, for exercising error paths.
	FailureRate float64

	now func() time.Time
}

// NewSimulator creates a new Simulator.
func NewSimulator() *Simulator {
	return &Simulator{
		deltas: make(map[string]decimal.Decimal),
		now:    time.Now,
	}
}

func accountSeed(accountID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(accountID))
	return int64(h.Sum64())
}

// GetBalance derives a stable balance for the account, adjusted by any
// transfers accepted during this process's lifetime.
func (s *Simulator) GetBalance(ctx context.Context, accountID string) (*domain.BalanceInfo, error) {
	if err := domain.ValidateAccountNumber(accountID); err != nil {
		return nil, domain.ErrAccountNotFound
	}

	rng := rand.New(rand.NewSource(accountSeed(accountID)))
	base := decimal.NewFromInt(int64(rng.Intn(50_000) + 500))

	s.mu.Lock()
	delta, ok := s.deltas[accountID]
	s.mu.Unlock()
	if !ok {
		delta = decimal.Zero
	}

	balance := base.Add(delta)
	hold := balance.Mul(decimal.RequireFromString("0.02")).Round(2)

	return &domain.BalanceInfo{
		AccountID:        accountID,
		Balance:          balance,
		AvailableBalance: balance.Sub(hold),
		Currency:         "USD",
		AccountType:      domain.AccountTypeChecking,
		UpdatedAt:        s.now().UTC(),
	}, nil
}

// ListTransactions derives a stable history for the account and applies the
// filter the same way the real core does.
func (s *Simulator) ListTransactions(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if err := domain.ValidateAccountNumber(accountID); err != nil {
		return nil, domain.ErrAccountNotFound
	}

	filter = filter.Normalize()
	rng := rand.New(rand.NewSource(accountSeed(accountID)))
	now := s.now().Unix()

	types := []domain.TransactionType{
		domain.TransactionTypeTransfer,
		domain.TransactionTypeDeposit,
		domain.TransactionTypeWithdrawal,
		domain.TransactionTypePayment,
	}

	history := make([]*domain.Transaction, 0, 30)
	for i := 0; i < 30; i++ {
		txType := types[rng.Intn(len(types))]
		tx := &domain.Transaction{
			ID:        ulidLike(rng),
			Type:      txType,
			Amount:    decimal.NewFromInt(int64(rng.Intn(2000) + 1)),
			Currency:  "USD",
			Status:    domain.TransactionStatusCompleted,
			Timestamp: now - int64(i+1)*3600 - int64(rng.Intn(3600)),
		}
		switch txType {
		case domain.TransactionTypeDeposit:
			tx.ToAccount = accountID
		case domain.TransactionTypeWithdrawal:
			tx.FromAccount = accountID
		default:
			tx.FromAccount = accountID
			tx.ToAccount = syntheticAccount(rng)
		}
		history = append(history, tx)
	}

	s.mu.Lock()
	for _, tx := range s.accepted {
		if tx.FromAccount == accountID || tx.ToAccount == accountID {
			history = append([]*domain.Transaction{tx}, history...)
		}
	}
	s.mu.Unlock()

	matched := make([]*domain.Transaction, 0, len(history))
	for _, tx := range history {
		if filter.Matches(tx) {
			matched = append(matched, tx)
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

// SubmitTransfer accepts the transfer unless the failure rate says
// otherwise, and records it so later balance and history reads reflect it.
func (s *Simulator) SubmitTransfer(ctx context.Context, tx *domain.Transaction) (*domain.ProcessingResult, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailureRate > 0 && rand.Float64() < s.FailureRate {
		return &domain.ProcessingResult{
			Success:   false,
			Reason:    "core banking declined the transfer",
			Timestamp: now.Unix(),
		}, nil
	}

	if tx.FromAccount != "" {
		s.deltas[tx.FromAccount] = s.delta(tx.FromAccount).Sub(tx.Amount)
	}
	if tx.ToAccount != "" {
		s.deltas[tx.ToAccount] = s.delta(tx.ToAccount).Add(tx.Amount)
	}

	accepted := *tx
	accepted.Status = domain.TransactionStatusCompleted
	s.accepted = append(s.accepted, &accepted)

	return &domain.ProcessingResult{
		Success:   true,
		Reference: "SIM-" + tx.ID,
		Timestamp: now.Unix(),
	}, nil
}

func (s *Simulator) delta(accountID string) decimal.Decimal {
	if d, ok := s.deltas[accountID]; ok {
		return d
	}
	return decimal.Zero
}

func syntheticAccount(rng *rand.Rand) string {
	digits := make([]byte, 10)
	for i := range digits {
		digits[i] = byte('0' + rng.Intn(10))
	}
	return string(digits)
}

func ulidLike(rng *rand.Rand) string {
	const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
	b := make([]byte, 26)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(b)
}
