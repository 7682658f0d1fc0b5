// Package hypercerts talks to the two on-chain collaborators: the claim
// indexer (GraphQL) and the metadata gateway (IPFS).
package hypercerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openvillage/reportd/internal/cache"
	"github.com/openvillage/reportd/internal/model"
	"github.com/openvillage/reportd/internal/util"
	"github.com/openvillage/reportd/internal/worker"
)

// claimsQuery fetches the claims owned by an address, oldest first so the
// merged report order is stable across populations.
const claimsQuery = `query ClaimsByOwner($owner: String!) {
  claims(where: { owner: $owner }, orderBy: creation, orderDirection: asc) {
    id
    uri
    owner
    creation
    totalUnits
  }
}`

// Client resolves claims and metadata documents. Construct it explicitly
// and inject it; there is no package-level instance.
type Client struct {
	httpClient *http.Client
	graphURL   string
	gatewayURL string
	userAgent  string
	maxBytes   int64
	cache      cache.Cache
	limiter    *worker.Limiter
}

// NewClient creates a new hypercerts client. cache may be nil to disable
// metadata caching; limiter may be nil to disable outbound rate limiting.
func NewClient(cfg model.HypercertsConfig, proxy model.ProxyConfig, c cache.Cache, l *worker.Limiter) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: util.NewTransport(proxy.HTTP, proxy.HTTPS, proxy.No, cfg.InsecureTLS),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		graphURL:   cfg.GraphURL,
		gatewayURL: cfg.GatewayURL,
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		cache:      c,
		limiter:    l,
	}
}

type graphRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphResponse struct {
	Data struct {
		Claims []model.Claim `json:"claims"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// ClaimsByOwner returns all claims owned by the given address, in indexer
// response order.
func (c *Client) ClaimsByOwner(ctx context.Context, owner string) ([]model.Claim, error) {
	body, err := json.Marshal(graphRequest{
		Query:     claimsQuery,
		Variables: map[string]any{"owner": owner},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal claims query: %w", err)
	}

	data, err := c.post(ctx, c.graphURL, body)
	if err != nil {
		return nil, fmt.Errorf("claims by owner %s: %w", owner, err)
	}

	var resp graphResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("claims by owner %s: decode response: %w", owner, err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("claims by owner %s: indexer error: %s", owner, resp.Errors[0].Message)
	}

	return resp.Data.Claims, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, url); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
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

// metadataTTL pins resolved documents for a long time; they are
// content-addressed and never change under a given URI.
const metadataTTL = 30 * 24 * time.Hour
