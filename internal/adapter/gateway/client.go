package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/iho/gobank/internal/domain"
)

// Client calls the core banking system over HTTP. All calls go through a
// circuit breaker: once the core starts failing consecutively the breaker
// opens and callers fail fast instead of piling up on a dead upstream.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
	logger  zerolog.Logger
}

// NewClient creates a new core banking client.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	settings := gobreaker.Settings{
		Name:    "core-banking",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A missing account is an answer from a healthy core, not a
		// failure worth tripping on.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrAccountNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cb:      gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// GetBalance fetches the authoritative balance for an account.
func (c *Client) GetBalance(ctx context.Context, accountID string) (*domain.BalanceInfo, error) {
	var info domain.BalanceInfo
	path := fmt.Sprintf("/accounts/%s/balance", url.PathEscape(accountID))
	if err := c.get(ctx, path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ListTransactions fetches transaction history, passing the filter through
// as query parameters.
func (c *Client) ListTransactions(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	filter = filter.Normalize()

	q := url.Values{}
	q.Set("limit", strconv.Itoa(filter.Limit))
	q.Set("offset", strconv.Itoa(filter.Offset))
	if filter.StartDate != nil {
		q.Set("start_date", strconv.FormatInt(filter.StartDate.Unix(), 10))
	}
	if filter.EndDate != nil {
		q.Set("end_date", strconv.FormatInt(filter.EndDate.Unix(), 10))
	}
	if filter.Type != "" {
		q.Set("transaction_type", string(filter.Type))
	}
	if filter.MinAmount != nil {
		q.Set("min_amount", filter.MinAmount.String())
	}
	if filter.MaxAmount != nil {
		q.Set("max_amount", filter.MaxAmount.String())
	}

	var txs []*domain.Transaction
	path := fmt.Sprintf("/accounts/%s/transactions?%s", url.PathEscape(accountID), q.Encode())
	if err := c.get(ctx, path, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// SubmitTransfer submits a transfer for processing. A reachable core that
// rejects the transfer is a successful call with Success=false, not an
// error; the breaker only counts transport failures.
func (c *Client) SubmitTransfer(ctx context.Context, tx *domain.Transaction) (*domain.ProcessingResult, error) {
	body, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("marshal transaction: %w", err)
	}

	out, err := c.cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transfers", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated ||
			resp.StatusCode == http.StatusUnprocessableEntity:
			var result domain.ProcessingResult
			if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
				return nil, fmt.Errorf("decode processing result: %w", err)
			}
			return &result, nil
		default:
			return nil, unexpectedStatus(resp)
		}
	})
	if err != nil {
		return nil, err
	}
	return out.(*domain.ProcessingResult), nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	out, err := c.cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, err
			}
			return data, nil
		case http.StatusNotFound:
			return nil, domain.ErrAccountNotFound
		default:
			return nil, unexpectedStatus(resp)
		}
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(out.([]byte), v)
}

func unexpectedStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("core banking returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
}
