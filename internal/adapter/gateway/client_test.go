package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/iho/gobank/internal/domain"
)

func TestClient_GetBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/1234567890/balance" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(domain.BalanceInfo{
			AccountID:        "1234567890",
			Balance:          decimal.NewFromInt(500),
			AvailableBalance: decimal.NewFromInt(480),
			Currency:         "USD",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zerolog.Nop())
	info, err := c.GetBalance(context.Background(), "1234567890")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Balance.String() != "500" {
		t.Errorf("expected balance 500, got %s", info.Balance)
	}
}

func TestClient_GetBalanceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zerolog.Nop())
	if _, err := c.GetBalance(context.Background(), "9999999999"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestClient_ListTransactionsPassesFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("limit") != "10" || q.Get("transaction_type") != "transfer" {
			t.Errorf("filter not passed through: %v", q)
		}
		json.NewEncoder(w).Encode([]*domain.Transaction{
			{ID: "tx-1", Type: domain.TransactionTypeTransfer, Amount: decimal.NewFromInt(5), Timestamp: 1_700_000_000},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zerolog.Nop())
	txs, err := c.ListTransactions(context.Background(), "1234567890", domain.TransactionFilter{
		Limit: 10,
		Type:  domain.TransactionTypeTransfer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != "tx-1" {
		t.Fatalf("unexpected result: %+v", txs)
	}
}

func TestClient_SubmitTransfer(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tx domain.Transaction
			if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
				t.Errorf("bad body: %v", err)
			}
			json.NewEncoder(w).Encode(domain.ProcessingResult{
				Success:   true,
				Reference: "CORE-" + tx.ID,
				Timestamp: 1_700_000_000,
			})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second, zerolog.Nop())
		result, err := c.SubmitTransfer(context.Background(), &domain.Transaction{ID: "tx-1", Amount: decimal.NewFromInt(10)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Success || result.Reference != "CORE-tx-1" {
			t.Fatalf("unexpected result: %+v", result)
		}
	})

	t.Run("business rejection is not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(domain.ProcessingResult{
				Success: false,
				Reason:  "account frozen",
			})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second, zerolog.Nop())
		result, err := c.SubmitTransfer(context.Background(), &domain.Transaction{ID: "tx-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Success || result.Reason != "account frozen" {
			t.Fatalf("unexpected result: %+v", result)
		}
	})
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := c.GetBalance(ctx, "1234567890"); err == nil {
			t.Fatal("expected error from failing upstream")
		}
	}

	_, err := c.GetBalance(ctx, "1234567890")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
}
