package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openvillage/reportd/internal/summary"
)

var (
	summarizeProvider string
	summarizeModel    string
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize <slug>",
	Short: "Generate a plain-language digest of one report",
	Long: `Summarize fetches the report with the given slug and generates a short
donor-facing digest with the configured LLM provider.

Example:
  reportd summarize clean-water-odisha --provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().StringVar(&summarizeProvider, "provider", "", "summary provider (overrides config)")
	summarizeCmd.Flags().StringVar(&summarizeModel, "model", "", "model name (overrides config)")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	slug := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if summarizeProvider != "" {
		cfg.LLM.Provider = summarizeProvider
	}
	if summarizeModel != "" {
		cfg.LLM.Model = summarizeModel
	}

	provider, err := summary.NewProvider(summary.ConfigFromModel(cfg.LLM))
	if err != nil {
		return err
	}
	if provider == nil {
		return fmt.Errorf("no summary provider configured (set llm.provider or --provider)")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
	defer cancel()

	store := buildStore(cfg)
	report, err := store.ReportBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("fetch report: %w", err)
	}

	resp, err := provider.Summarize(ctx, summary.Request{Report: report})
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	fmt.Println(resp.Summary)
	return nil
}
