package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

func TestCacheEntryFresh(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	fresh := domain.NewBalanceEntry(&domain.BalanceInfo{AccountID: "1234567890"}, now.Add(-4*time.Minute))
	if !fresh.Fresh(now, domain.BalanceFreshness) {
		t.Error("4-minute-old entry must be fresh")
	}

	stale := domain.NewBalanceEntry(&domain.BalanceInfo{AccountID: "1234567890"}, now.Add(-6*time.Minute))
	if stale.Fresh(now, domain.BalanceFreshness) {
		t.Error("6-minute-old entry must be stale")
	}

	boundary := domain.NewBalanceEntry(&domain.BalanceInfo{AccountID: "1234567890"}, now.Add(-domain.BalanceFreshness))
	if boundary.Fresh(now, domain.BalanceFreshness) {
		t.Error("entry exactly at the window edge is stale")
	}
}

func TestNewTransactionEntry(t *testing.T) {
	tx := &domain.Transaction{
		ID:          "tx-1",
		Type:        domain.TransactionTypeTransfer,
		Amount:      decimal.NewFromInt(100),
		Currency:    "USD",
		FromAccount: "1234567890",
		ToAccount:   "2222222222",
		Description: "rent",
		Status:      domain.TransactionStatusPending,
		Timestamp:   1_700_000_000,
	}
	result := &domain.ProcessingResult{
		Success:   true,
		Reference: "CORE-1",
		Timestamp: 1_700_000_100,
	}

	entry := domain.NewTransactionEntry("1234567890", domain.RoleOutgoingTransfer, tx, result)

	if entry.AccountID != "1234567890" {
		t.Errorf("unexpected account: %q", entry.AccountID)
	}
	if entry.Timestamp != result.Timestamp {
		t.Errorf("expected processing timestamp %d, got %d", result.Timestamp, entry.Timestamp)
	}
	if entry.Status != domain.TransactionStatusCompleted {
		t.Errorf("processed entry must be completed, got %q", entry.Status)
	}
	if entry.CoreReference != "CORE-1" {
		t.Errorf("expected core reference, got %q", entry.CoreReference)
	}
	if entry.Role != domain.RoleOutgoingTransfer {
		t.Errorf("unexpected role: %q", entry.Role)
	}

	back := entry.ToTransaction()
	if back.ID != tx.ID || !back.Amount.Equal(tx.Amount) || back.ToAccount != tx.ToAccount {
		t.Errorf("round trip lost fields: %+v", back)
	}

	// Without a processing result the transaction's own fields stand.
	bare := domain.NewTransactionEntry("1234567890", domain.RoleOutgoingTransfer, tx, nil)
	if bare.Timestamp != tx.Timestamp {
		t.Errorf("expected transaction timestamp, got %d", bare.Timestamp)
	}
	if bare.Status != domain.TransactionStatusPending {
		t.Errorf("expected pending status preserved, got %q", bare.Status)
	}
}

func TestBalanceEntryRoundTrip(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	info := &domain.BalanceInfo{
		AccountID:        "1234567890",
		Balance:          decimal.RequireFromString("1250.50"),
		AvailableBalance: decimal.RequireFromString("1200.00"),
		Currency:         "USD",
		AccountType:      domain.AccountTypeChecking,
	}

	entry := domain.NewBalanceEntry(info, now)
	if entry.ExpiresAt != now.Add(domain.BalanceTTL).Unix() {
		t.Errorf("unexpected expiry: %d", entry.ExpiresAt)
	}

	back := entry.ToBalanceInfo()
	if back.AccountID != info.AccountID || !back.Balance.Equal(info.Balance) {
		t.Errorf("round trip lost fields: %+v", back)
	}
	if !back.UpdatedAt.Equal(now) {
		t.Errorf("expected UpdatedAt %v, got %v", now, back.UpdatedAt)
	}
}
