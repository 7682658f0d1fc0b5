package hypercerts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openvillage/reportd/internal/cache"
	"github.com/openvillage/reportd/internal/model"
)

func testConfig(graphURL, gatewayURL string) model.HypercertsConfig {
	return model.HypercertsConfig{
		GraphURL:     graphURL,
		GatewayURL:   gatewayURL,
		Timeout:      5 * time.Second,
		UserAgent:    "test-agent",
		MaxBodyBytes: 1 << 20,
	}
}

func TestClaimsByOwner_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var req graphRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Variables["owner"] != "0xabc" {
			t.Errorf("expected owner variable 0xabc, got %v", req.Variables["owner"])
		}
		if !strings.Contains(req.Query, "claims") {
			t.Errorf("unexpected query: %s", req.Query)
		}

		fmt.Fprint(w, `{"data":{"claims":[
			{"id":"0xC-1","uri":"ipfs://QmOne","owner":"0xabc","creation":100},
			{"id":"0xC-2","uri":"ipfs://QmTwo","owner":"0xabc","creation":200}
		]}}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""), model.ProxyConfig{}, nil, nil)

	claims, err := client.ClaimsByOwner(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("ClaimsByOwner failed: %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(claims))
	}
	if claims[0].ID != "0xC-1" || claims[1].ID != "0xC-2" {
		t.Errorf("claim order not preserved: %v", claims)
	}
	if claims[0].URI != "ipfs://QmOne" {
		t.Errorf("unexpected uri: %s", claims[0].URI)
	}
}

func TestClaimsByOwner_IndexerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors":[{"message":"field 'claims' not found"}]}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""), model.ProxyConfig{}, nil, nil)

	_, err := client.ClaimsByOwner(context.Background(), "0xabc")
	if err == nil {
		t.Fatal("expected error from indexer errors array")
	}
	if !strings.Contains(err.Error(), "0xabc") {
		t.Errorf("error should name the owner address: %v", err)
	}
}

func TestClaimsByOwner_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""), model.ProxyConfig{}, nil, nil)

	_, err := client.ClaimsByOwner(context.Background(), "0xabc")
	if err == nil {
		t.Fatal("expected error for 502")
	}
}

func TestMetadata_GatewayResolution(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/ipfs/QmOne" {
			t.Errorf("expected path /ipfs/QmOne, got %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"name": "Clean Water for Odisha",
			"description": "Deep borewells for three villages.",
			"properties": [{"trait_type": "state", "value": "Odisha"}],
			"hypercert": {
				"work_scope": {"value": ["water"], "display_value": "water"},
				"work_timeframe": {"value": [1672531200, 1675209600]},
				"impact_scope": {"value": ["all"]},
				"impact_timeframe": {"value": [1672531200, 0]},
				"contributors": {"value": ["0xabc"]}
			}
		}`)
	}))
	defer server.Close()

	client := NewClient(testConfig("", server.URL), model.ProxyConfig{}, nil, nil)

	md, err := client.Metadata(context.Background(), "ipfs://QmOne")
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if md.Name != "Clean Water for Odisha" {
		t.Errorf("unexpected name: %s", md.Name)
	}
	if md.State() != "Odisha" {
		t.Errorf("unexpected state: %s", md.State())
	}
	if got := md.Hypercert.WorkScope.Value; len(got) != 1 || got[0] != "water" {
		t.Errorf("unexpected work scope: %v", got)
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 gateway hit, got %d", hits.Load())
	}
}

func TestMetadata_CacheHit(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"name": "Cached Doc", "hypercert": {}}`)
	}))
	defer server.Close()

	c := cache.NewMemoryCache(time.Minute, time.Minute)
	client := NewClient(testConfig("", server.URL), model.ProxyConfig{}, c, nil)

	for i := 0; i < 3; i++ {
		md, err := client.Metadata(context.Background(), "QmCached")
		if err != nil {
			t.Fatalf("Metadata call %d failed: %v", i, err)
		}
		if md.Name != "Cached Doc" {
			t.Errorf("unexpected name: %s", md.Name)
		}
	}

	if hits.Load() != 1 {
		t.Errorf("expected 1 gateway hit with cache, got %d", hits.Load())
	}
}

func TestMetadata_Unresolvable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testConfig("", server.URL), model.ProxyConfig{}, nil, nil)

	_, err := client.Metadata(context.Background(), "ipfs://QmMissing")
	if err == nil {
		t.Fatal("expected error for unresolvable uri")
	}
	if !strings.Contains(err.Error(), "ipfs://QmMissing") {
		t.Errorf("error should name the uri: %v", err)
	}
}

func TestResolveURL(t *testing.T) {
	client := NewClient(testConfig("", "https://gw.example.org"), model.ProxyConfig{}, nil, nil)

	tests := []struct {
		uri  string
		want string
	}{
		{"ipfs://QmFoo", "https://gw.example.org/ipfs/QmFoo"},
		{"QmBare", "https://gw.example.org/ipfs/QmBare"},
		{"https://meta.example.org/doc.json", "https://meta.example.org/doc.json"},
	}

	for _, tt := range tests {
		if got := client.resolveURL(tt.uri); got != tt.want {
			t.Errorf("resolveURL(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
