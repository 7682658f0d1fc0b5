// Package cms talks to the editorial source: a Directus-style REST API
// holding human-authored report text and financial/impact fields.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/openvillage/reportd/internal/model"
	"github.com/openvillage/reportd/internal/util"
	"github.com/openvillage/reportd/internal/worker"
)

// reportFields limits the editorial list payload to the fields merged into
// reports.
const reportFields = "id,title,status,date_created,date_updated,slug,story,bc_ratio,villages_impacted,people_impacted,verified_by,byline,total_cost"

// excerptLength caps the derived plain-text story excerpt.
const excerptLength = 280

// defaultMaxBodyBytes caps response bodies when the configuration leaves
// the limit unset.
const defaultMaxBodyBytes = 10_000_000

// Client is the editorial source client. Construct it explicitly and
// inject it; there is no package-level instance.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxBytes   int64
	limiter    *worker.Limiter
}

// NewClient creates a new CMS client. limiter may be nil to disable
// outbound rate limiting.
func NewClient(cfg model.CMSConfig, proxy model.ProxyConfig, l *worker.Limiter) *Client {
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: util.NewTransport(proxy.HTTP, proxy.HTTPS, proxy.No, false),
		},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		token:    cfg.Token,
		maxBytes: maxBytes,
		limiter:  l,
	}
}

type listResponse struct {
	Data []model.CMSReport `json:"data"`
}

// ListReports returns the full editorial list. Each record gets a derived
// plain-text excerpt of its story body.
func (c *Client) ListReports(ctx context.Context) ([]model.CMSReport, error) {
	u := c.baseURL + "/items/reports?fields=" + url.QueryEscape(reportFields)

	data, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	var resp listResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("list reports: decode response: %w", err)
	}

	for i := range resp.Data {
		resp.Data[i].Excerpt = Excerpt(resp.Data[i].Story, excerptLength)
	}

	return resp.Data, nil
}

type contributionsResponse struct {
	Data []struct {
		Amount float64 `json:"amount"`
	} `json:"data"`
}

// FundedAmount sums the recorded contributions for a claim. A claim with
// no contributions yet funds to zero.
func (c *Client) FundedAmount(ctx context.Context, hypercertID string) (float64, error) {
	u := c.baseURL + "/items/contributions?fields=amount&filter[hypercert_id][_eq]=" + url.QueryEscape(hypercertID)

	data, err := c.get(ctx, u)
	if err != nil {
		return 0, fmt.Errorf("funded amount for %s: %w", hypercertID, err)
	}

	var resp contributionsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, fmt.Errorf("funded amount for %s: decode response: %w", hypercertID, err)
	}

	var total float64
	for _, c := range resp.Data {
		total += c.Amount
	}

	return total, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, url); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return data, nil
}
