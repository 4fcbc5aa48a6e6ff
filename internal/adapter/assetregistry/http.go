package assetregistry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gatewise/escrowd/internal/domain"
)

// HTTPClient implements domain.AssetRegistry against the registry's HTTP API
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a registry client for the given base URL
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

type assetResponse struct {
	Denom  string `json:"denom"`
	Class  string `json:"class"`
	Grants []struct {
		Address     string   `json:"address"`
		Permissions []string `json:"permissions"`
	} `json:"grants"`
}

// Classify reports the asset class of a denomination
func (c *HTTPClient) Classify(ctx context.Context, denom string) (domain.AssetClass, error) {
	asset, err := c.getAsset(ctx, denom)
	if err != nil {
		return "", err
	}
	return domain.AssetClass(asset.Class), nil
}

// PermissionsOf returns the access grants held on a denomination
func (c *HTTPClient) PermissionsOf(ctx context.Context, denom string) ([]domain.AccessGrant, error) {
	asset, err := c.getAsset(ctx, denom)
	if err != nil {
		return nil, err
	}

	grants := make([]domain.AccessGrant, 0, len(asset.Grants))
	for _, grant := range asset.Grants {
		permissions := make([]domain.Capability, 0, len(grant.Permissions))
		for _, permission := range grant.Permissions {
			permissions = append(permissions, domain.Capability(permission))
		}
		grants = append(grants, domain.AccessGrant{Address: grant.Address, Permissions: permissions})
	}
	return grants, nil
}

func (c *HTTPClient) getAsset(ctx context.Context, denom string) (*assetResponse, error) {
	endpoint := fmt.Sprintf("%s/v1/assets/%s", c.baseURL, url.PathEscape(denom))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build registry request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.KindInternal, "asset registry unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("denomination %s: %w", denom, domain.ErrDenomNotKnown)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, domain.NewError(domain.KindInternal,
			fmt.Sprintf("asset registry returned %d for %s: %s", resp.StatusCode, denom, strings.TrimSpace(string(body))))
	}

	var asset assetResponse
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return nil, domain.WrapError(domain.KindInternal, "failed to decode registry response", err)
	}
	return &asset, nil
}
