package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gatewise/escrowd/internal/domain"
)

// HTTPClient implements domain.Ledger against the ledger's HTTP API
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a ledger client for the given base URL
// A nil client falls back to http.DefaultClient
func NewHTTPClient(baseURL string, client *http.Client) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

// BalanceOf returns the principal's balance of the given denomination
func (c *HTTPClient) BalanceOf(ctx context.Context, principal, denom string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/v1/balances/%s/%s", c.baseURL, url.PathEscape(principal), url.PathEscape(denom))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build ledger request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, domain.WrapError(domain.KindInternal, "ledger unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decimal.Zero, readFailure(resp, fmt.Sprintf("balance query for %s/%s", principal, denom))
	}

	var body struct {
		Denom  string          `json:"denom"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, domain.WrapError(domain.KindInternal, "failed to decode ledger response", err)
	}
	return body.Amount, nil
}

// Transfer executes a privileged custody transfer of amount denom between
// principals
func (c *HTTPClient) Transfer(ctx context.Context, amount decimal.Decimal, denom, from, to string) error {
	payload, err := json.Marshal(map[string]any{
		"amount": amount,
		"denom":  denom,
		"from":   from,
		"to":     to,
	})
	if err != nil {
		return fmt.Errorf("failed to encode ledger transfer: %w", err)
	}

	endpoint := c.baseURL + "/v1/transfers"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build ledger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.WrapError(domain.KindInternal, "ledger unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readFailure(resp, fmt.Sprintf("custody transfer of %s %s", amount, denom))
	}
	return nil
}

func readFailure(resp *http.Response, operation string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return domain.NewError(domain.KindInternal,
		fmt.Sprintf("ledger returned %d for %s: %s", resp.StatusCode, operation, strings.TrimSpace(string(body))))
}
