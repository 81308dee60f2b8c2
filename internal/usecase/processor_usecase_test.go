package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
	"github.com/iho/gobank/internal/usecase/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func transferMessage(txID string, amount int64, ts int64) *domain.QueueMessage {
	return &domain.QueueMessage{
		TransactionType: domain.TransactionTypeTransfer,
		Transaction: &domain.Transaction{
			ID:          txID,
			UserID:      "user-1",
			Type:        domain.TransactionTypeTransfer,
			Amount:      decimal.NewFromInt(amount),
			Currency:    "USD",
			FromAccount: "1234567890",
			ToAccount:   "2222222222",
			Status:      domain.TransactionStatusCompleted,
			Timestamp:   ts,
		},
		Result: &domain.ProcessingResult{
			Success:   true,
			Reference: "CORE-" + txID,
			Timestamp: ts,
		},
		Timestamp: ts,
	}
}

func TestTransactionProcessor_ProcessTransfer(t *testing.T) {
	ts := int64(1_700_000_000)
	cache := mocks.NewMockCacheStore()
	audit := &mocks.MockAuditSink{}
	notifications := &mocks.MockNotificationPublisher{}

	// Pre-cache balances on both sides to prove invalidation.
	now := time.Unix(ts, 0)
	cache.Put(context.Background(), domain.NewBalanceEntry(&domain.BalanceInfo{AccountID: "1234567890", Balance: decimal.NewFromInt(500)}, now))
	cache.Put(context.Background(), domain.NewBalanceEntry(&domain.BalanceInfo{AccountID: "2222222222", Balance: decimal.NewFromInt(100)}, now))

	p := usecase.NewTransactionProcessor(cache, audit, notifications, discardLogger())
	usecase.SetProcessorClock(p, func() time.Time { return now })

	if err := p.ProcessMessage(context.Background(), transferMessage("tx-1", 100, ts)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	from := cache.Transactions("1234567890")
	if len(from) != 1 {
		t.Fatalf("expected 1 entry for the debited account, got %d", len(from))
	}
	if from[0].Role != domain.RoleOutgoingTransfer {
		t.Errorf("expected outgoing_transfer role, got %q", from[0].Role)
	}

	to := cache.Transactions("2222222222")
	if len(to) != 1 {
		t.Fatalf("expected 1 entry for the credited account, got %d", len(to))
	}
	if to[0].Role != domain.RoleIncomingTransfer {
		t.Errorf("expected incoming_transfer role, got %q", to[0].Role)
	}
	if to[0].CoreReference != "CORE-tx-1" {
		t.Errorf("expected core reference propagated, got %q", to[0].CoreReference)
	}

	if cache.Balance("1234567890") != nil || cache.Balance("2222222222") != nil {
		t.Error("expected both balance snapshots invalidated")
	}

	records := audit.Records()
	if len(records) != 1 || records[0].EventType != domain.AuditTransferProcessed {
		t.Fatalf("expected one transfer_processed audit record, got %+v", records)
	}
	if records[0].FromAccount != "****7890" {
		t.Errorf("audit record must mask the account, got %q", records[0].FromAccount)
	}

	if len(notifications.Events()) != 0 {
		t.Error("no security alert expected for a small transfer")
	}
}

func TestTransactionProcessor_Idempotent(t *testing.T) {
	ts := int64(1_700_000_000)
	cache := mocks.NewMockCacheStore()
	p := usecase.NewTransactionProcessor(cache, &mocks.MockAuditSink{}, &mocks.MockNotificationPublisher{}, discardLogger())

	msg := transferMessage("tx-1", 100, ts)
	for i := 0; i < 2; i++ {
		if err := p.ProcessMessage(context.Background(), msg); err != nil {
			t.Fatalf("unexpected error on delivery %d: %v", i+1, err)
		}
	}

	if got := cache.Transactions("1234567890"); len(got) != 1 {
		t.Errorf("redelivery must overwrite, not duplicate: got %d entries", len(got))
	}
	if got := cache.Transactions("2222222222"); len(got) != 1 {
		t.Errorf("redelivery must overwrite, not duplicate: got %d entries", len(got))
	}
}

func TestTransactionProcessor_DepositAndWithdrawal(t *testing.T) {
	ts := int64(1_700_000_000)

	t.Run("deposit", func(t *testing.T) {
		cache := mocks.NewMockCacheStore()
		p := usecase.NewTransactionProcessor(cache, &mocks.MockAuditSink{}, &mocks.MockNotificationPublisher{}, discardLogger())

		msg := &domain.QueueMessage{
			TransactionType: domain.TransactionTypeDeposit,
			Transaction: &domain.Transaction{
				ID:        "dep-1",
				UserID:    "user-1",
				Type:      domain.TransactionTypeDeposit,
				Amount:    decimal.NewFromInt(200),
				ToAccount: "2222222222",
				Timestamp: ts,
			},
			Result: &domain.ProcessingResult{Success: true, Reference: "CORE-dep-1", Timestamp: ts},
		}
		if err := p.ProcessMessage(context.Background(), msg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		entries := cache.Transactions("2222222222")
		if len(entries) != 1 || entries[0].Role != domain.RoleDeposit {
			t.Fatalf("expected one deposit entry, got %+v", entries)
		}
	})

	t.Run("withdrawal", func(t *testing.T) {
		cache := mocks.NewMockCacheStore()
		audit := &mocks.MockAuditSink{}
		p := usecase.NewTransactionProcessor(cache, audit, &mocks.MockNotificationPublisher{}, discardLogger())

		msg := &domain.QueueMessage{
			TransactionType: domain.TransactionTypeWithdrawal,
			Transaction: &domain.Transaction{
				ID:          "wd-1",
				UserID:      "user-1",
				Type:        domain.TransactionTypeWithdrawal,
				Amount:      decimal.NewFromInt(80),
				FromAccount: "1234567890",
				Timestamp:   ts,
			},
			Result: &domain.ProcessingResult{Success: true, Reference: "CORE-wd-1", Timestamp: ts},
		}
		if err := p.ProcessMessage(context.Background(), msg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		entries := cache.Transactions("1234567890")
		if len(entries) != 1 || entries[0].Role != domain.RoleWithdrawal {
			t.Fatalf("expected one withdrawal entry, got %+v", entries)
		}
		records := audit.Records()
		if len(records) != 1 || records[0].EventType != domain.AuditWithdrawalProcessed {
			t.Fatalf("expected withdrawal_processed audit record, got %+v", records)
		}
	})
}

func TestTransactionProcessor_LargeTransactionAlert(t *testing.T) {
	ts := int64(1_700_000_000)

	tests := []struct {
		name      string
		amount    int64
		wantAlert bool
	}{
		{name: "at threshold no alert", amount: 10000, wantAlert: false},
		{name: "above threshold alerts", amount: 10001, wantAlert: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifications := &mocks.MockNotificationPublisher{}
			p := usecase.NewTransactionProcessor(mocks.NewMockCacheStore(), &mocks.MockAuditSink{}, notifications, discardLogger())

			if err := p.ProcessMessage(context.Background(), transferMessage("tx-1", tt.amount, ts)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var alerts int
			for _, e := range notifications.Events() {
				if e.Type == domain.NotificationSecurityAlert {
					alerts++
				}
			}
			if tt.wantAlert && alerts != 1 {
				t.Errorf("expected one security alert, got %d", alerts)
			}
			if !tt.wantAlert && alerts != 0 {
				t.Errorf("expected no security alert, got %d", alerts)
			}
		})
	}
}
