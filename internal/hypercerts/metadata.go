package hypercerts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openvillage/reportd/internal/cache"
	"github.com/openvillage/reportd/internal/model"
)

// Metadata resolves a claim's metadata pointer to its descriptive document.
// ipfs:// URIs and bare CIDs go through the configured gateway; http(s)
// URIs are fetched as-is. Resolved documents are cached by URI.
func (c *Client) Metadata(ctx context.Context, uri string) (*model.Metadata, error) {
	if uri == "" {
		return nil, fmt.Errorf("resolve metadata: empty uri")
	}

	key := cache.Key(uri)
	if c.cache != nil {
		if data, found := c.cache.Get(key); found {
			return decodeMetadata(uri, data)
		}
	}

	data, err := c.get(ctx, c.resolveURL(uri))
	if err != nil {
		return nil, fmt.Errorf("resolve metadata %s: %w", uri, err)
	}

	md, err := decodeMetadata(uri, data)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(key, data, metadataTTL); err != nil {
			// A failed cache write is not a failed resolution.
			return md, nil
		}
	}

	return md, nil
}

// resolveURL maps a metadata pointer to a fetchable URL
func (c *Client) resolveURL(uri string) string {
	switch {
	case strings.HasPrefix(uri, "ipfs://"):
		return c.gatewayURL + "/ipfs/" + strings.TrimPrefix(uri, "ipfs://")
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return uri
	default:
		// Bare CID
		return c.gatewayURL + "/ipfs/" + uri
	}
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
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

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

func decodeMetadata(uri string, data []byte) (*model.Metadata, error) {
	var md model.Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("resolve metadata %s: decode document: %w", uri, err)
	}
	return &md, nil
}
