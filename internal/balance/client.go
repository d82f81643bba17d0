// Package balance provides the HTTP client for the remote balance store.
//
// The store exposes exactly two operations:
//
//	GET  /api/balance?username=U          -> {"balance": 500.00}
//	POST /api/balance {username, amount}  -> {"balance": 510.00}
//
// The POST amount is a signed delta; the response carries the
// server-computed authoritative balance. Callers treat any failure as
// "use the local value"; the client only reports errors, it never blocks
// gameplay.
package balance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
)

// Config holds configuration for the balance store client.
type Config struct {
	// BaseURL is the store's base URL, e.g. "http://localhost:8888".
	BaseURL string

	// MaxRetries is the number of retry attempts for retryable failures.
	// Defaults to 2 if zero.
	MaxRetries int

	// BaseRetryDelay is the initial backoff delay. Defaults to 250ms.
	BaseRetryDelay time.Duration

	// MaxRetryDelay caps the exponential backoff. Defaults to 2s.
	MaxRetryDelay time.Duration

	// HTTPClient allows injecting a custom client (useful for testing).
	// Defaults to a client with a 10s timeout.
	HTTPClient *http.Client
}

// Client is a balance store client.
type Client struct {
	config Config
	http   *http.Client
}

// NewClient creates a client with the given configuration.
func NewClient(cfg Config) *Client {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.BaseRetryDelay == 0 {
		cfg.BaseRetryDelay = 250 * time.Millisecond
	}
	if cfg.MaxRetryDelay == 0 {
		cfg.MaxRetryDelay = 2 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{config: cfg, http: httpClient}
}

// balanceResponse is the store's single response shape.
type balanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// Fetch returns the authoritative balance for a user.
func (c *Client) Fetch(ctx context.Context, username string) (decimal.Decimal, error) {
	endpoint := c.endpoint() + "?username=" + url.QueryEscape(username)

	var out decimal.Decimal
	err := c.withRetry(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := c.do(req)
		if err != nil {
			return err
		}
		out = resp.Balance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return out, nil
}

// ApplyDelta applies a signed delta to a user's balance and returns the
// server-computed new balance.
func (c *Client) ApplyDelta(ctx context.Context, username string, delta decimal.Decimal) (decimal.Decimal, error) {
	body, err := json.Marshal(map[string]any{
		"username": username,
		"amount":   delta,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance: marshal request: %w", err)
	}

	var out decimal.Decimal
	err = c.withRetry(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.do(req)
		if err != nil {
			return err
		}
		out = resp.Balance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return out, nil
}

// do executes one request and decodes the response envelope.
func (c *Client) do(req *http.Request) (*balanceResponse, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("balance: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("balance: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed balanceResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("balance: invalid response JSON: %w", err)
	}
	return &parsed, nil
}

// withRetry runs fn with bounded exponential backoff. Only transport
// failures and retryable HTTP statuses are retried; everything else fails
// immediately so the ledger can fall back to its local value.
func (c *Client) withRetry(ctx context.Context, fn func(context.Context) error) error {
	backoff := retry.WithCappedDuration(c.config.MaxRetryDelay,
		retry.WithMaxRetries(uint64(c.config.MaxRetries),
			retry.NewExponential(c.config.BaseRetryDelay)))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if httpErr, ok := err.(*HTTPError); ok {
			if httpErr.IsRetryable() {
				return retry.RetryableError(err)
			}
			return err
		}
		// Transport-level failures (refused connection, timeout) retry.
		return retry.RetryableError(err)
	})
}

func (c *Client) endpoint() string {
	base := c.config.BaseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return strings.TrimRight(base, "/") + "/api/balance"
}
