package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openvillage/reportd/internal/model"
	"github.com/openvillage/reportd/internal/reports"
)

// stubSources backs a real store with in-memory collaborators
type stubSources struct {
	claims     []model.Claim
	claimsErr  error
	metadata   map[string]*model.Metadata
	cmsReports []model.CMSReport
	funded     map[string]float64
}

func (s *stubSources) ClaimsByOwner(ctx context.Context, owner string) ([]model.Claim, error) {
	if s.claimsErr != nil {
		return nil, s.claimsErr
	}
	return s.claims, nil
}

func (s *stubSources) Metadata(ctx context.Context, uri string) (*model.Metadata, error) {
	md, ok := s.metadata[uri]
	if !ok {
		return nil, fmt.Errorf("resolve metadata %s: not found", uri)
	}
	return md, nil
}

func (s *stubSources) ListReports(ctx context.Context) ([]model.CMSReport, error) {
	return s.cmsReports, nil
}

func (s *stubSources) FundedAmount(ctx context.Context, hypercertID string) (float64, error) {
	return s.funded[hypercertID], nil
}

func newTestServer(src *stubSources) *httptest.Server {
	store := reports.NewStore("0xowner", src, src, src, 2)
	srv := New(model.ServerConfig{Addr: ":0"}, store)
	return httptest.NewServer(srv.Handler())
}

func defaultSources() *stubSources {
	return &stubSources{
		claims: []model.Claim{{ID: "0xC-1", URI: "ipfs://QmOne"}},
		metadata: map[string]*model.Metadata{
			"ipfs://QmOne": {Name: "Clean Water for Odisha", Description: "Borewells."},
		},
		cmsReports: []model.CMSReport{
			{ID: "cms-1", Title: "Clean Water for Odisha", Slug: "clean-water-odisha", TotalCost: "100"},
		},
		funded: map[string]float64{"0xC-1": 50},
	}
}

func TestListReports(t *testing.T) {
	ts := newTestServer(defaultSources())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/reports")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}

	var list []model.Report
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 report, got %d", len(list))
	}
	if list[0].TotalCost != 100 || list[0].FundedSoFar != 50 {
		t.Errorf("unexpected report: %+v", list[0])
	}
}

func TestReportBySlug(t *testing.T) {
	ts := newTestServer(defaultSources())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/reports/clean-water-odisha")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var report model.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if report.HypercertID != "0xC-1" {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestReportBySlug_NotFound(t *testing.T) {
	ts := newTestServer(defaultSources())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/reports/nonexistent")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !strings.Contains(body.Error, "nonexistent") {
		t.Errorf("error body should name the slug: %q", body.Error)
	}
}

func TestReportByHypercertID(t *testing.T) {
	ts := newTestServer(defaultSources())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/hypercerts/0xC-1")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRemoteFailureMapsToBadGateway(t *testing.T) {
	src := defaultSources()
	src.claimsErr = errors.New("indexer unreachable")
	ts := newTestServer(src)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/reports")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestFundingUpdate(t *testing.T) {
	src := defaultSources()
	store := reports.NewStore("0xowner", src, src, src, 2)
	ts := httptest.NewServer(New(model.ServerConfig{}, store).Handler())
	defer ts.Close()

	// Populate first so the update has a target.
	if _, err := store.FetchReports(context.Background()); err != nil {
		t.Fatalf("populate failed: %v", err)
	}

	resp, err := http.Post(ts.URL+"/api/hypercerts/0xC-1/funding", "application/json",
		strings.NewReader(`{"amount": 25}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	report, err := store.ReportByHypercertID(context.Background(), "0xC-1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if report.FundedSoFar != 75 {
		t.Errorf("expected 75 after update, got %v", report.FundedSoFar)
	}
}

func TestFundingUpdate_UnknownTargetAccepted(t *testing.T) {
	ts := newTestServer(defaultSources())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/hypercerts/0xNOPE/funding", "application/json",
		strings.NewReader(`{"amount": 10}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for unknown target, got %d", resp.StatusCode)
	}
}

func TestFundingUpdate_InvalidBody(t *testing.T) {
	ts := newTestServer(defaultSources())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/hypercerts/0xC-1/funding", "application/json",
		strings.NewReader(`not json`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(defaultSources())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["cache"] != "uninitialized" {
		t.Errorf("expected uninitialized cache state, got %q", body["cache"])
	}
}
