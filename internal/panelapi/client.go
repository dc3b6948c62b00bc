// Package panelapi is the fetch layer for the fleet panel's metrics API. It
// owns the wire format: everything past DecodeStats speaks core types only.
package panelapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tunneldash/tunneldash/internal/core"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// FetchUsage implements core.UsageFetcher.
func (c *Client) FetchUsage(ctx context.Context, scope core.Scope, qr core.QueryRange) (core.Stats, error) {
	endpoint := "/api/nodes/usage"
	if scope == core.ScopeAdmins {
		endpoint = "/api/admins/usage"
	}

	query := url.Values{}
	// A zero start means "all time" and surfaces as an omitted filter.
	if !qr.StartInstant.IsZero() {
		query.Set("start", qr.StartInstant.UTC().Format(time.RFC3339))
	}
	query.Set("end", qr.EndInstant.UTC().Format(time.RFC3339))
	query.Set("period", string(qr.Granularity))

	var raw map[string][]wirePoint
	if err := c.get(ctx, endpoint, query, &raw); err != nil {
		return nil, fmt.Errorf("fetching %s usage: %w", scope, err)
	}
	return DecodeStats(raw), nil
}

// ListEntities implements core.UsageFetcher.
func (c *Client) ListEntities(ctx context.Context, scope core.Scope) ([]core.KnownEntity, error) {
	endpoint := "/api/nodes"
	if scope == core.ScopeAdmins {
		endpoint = "/api/admins"
	}

	var entries []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := c.get(ctx, endpoint, nil, &entries); err != nil {
		return nil, fmt.Errorf("listing %s: %w", scope, err)
	}

	entities := make([]core.KnownEntity, 0, len(entries))
	for i, e := range entries {
		entities = append(entities, core.KnownEntity{
			ID:         fmt.Sprintf("%d", e.ID),
			Name:       e.Name,
			ColorIndex: i,
		})
	}
	return entities, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("HTTP %d – check panel token", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
