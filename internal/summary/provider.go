// Package summary generates optional plain-language funding-impact digests
// of reports. It is never on the report population path and never mutates
// the cache.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/openvillage/reportd/internal/model"
)

// Provider defines the interface for summary backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a digest of the report
	Summarize(ctx context.Context, req Request) (*Response, error)
}

// Request contains the input for a summary
type Request struct {
	// Report is the merged report to digest
	Report model.Report

	// Prompt overrides the default prompt when set
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Response contains the generated digest
type Response struct {
	Summary    string
	Model      string
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	Provider  string // "openai" or "" (disabled)
	Model     string
	APIKey    string
	BaseURL   string // Custom endpoint; any chat-completions compatible server works
	Timeout   int    // seconds
	MaxTokens int
}

// NewProvider creates a provider from configuration. An empty provider
// name disables summaries and returns nil without error.
func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown summary provider: %s (supported: openai)", cfg.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to summary.Config
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
	}
}

// BuildPrompt constructs the default digest prompt
func BuildPrompt(report model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Write a 3-4 sentence plain-language digest of this funding report for donors.
Stick to the facts below; do not invent figures or outcomes.

Report:
- Title: %s
- Region: %s
- Category: %s
- Total cost: %.2f
- Funded so far: %.2f
`, report.Title, report.State, report.Category, report.TotalCost, report.FundedSoFar)

	if report.VillagesImpacted > 0 {
		fmt.Fprintf(&b, "- Villages impacted: %d\n", report.VillagesImpacted)
	}
	if report.PeopleImpacted > 0 {
		fmt.Fprintf(&b, "- People impacted: %d\n", report.PeopleImpacted)
	}
	if report.VerifiedBy != "" {
		fmt.Fprintf(&b, "- Verified by: %s\n", report.VerifiedBy)
	}
	if report.Excerpt != "" {
		fmt.Fprintf(&b, "\nStory excerpt:\n%s\n", report.Excerpt)
	}

	return b.String()
}
