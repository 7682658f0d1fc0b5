package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	fetchFormat  string
	fetchTimeout time.Duration
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and print the merged report list once",
	Long: `Fetch populates the report list from the remote collaborators and prints
it to stdout, then exits. Useful for verifying configuration and upstream
health without running the server.

Example:
  reportd fetch
  reportd fetch --format yaml`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchFormat, "format", "json", "output format (json, yaml)")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 2*time.Minute, "overall fetch timeout")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
	defer cancel()

	store := buildStore(cfg)
	list, err := store.FetchReports(ctx)
	if err != nil {
		return fmt.Errorf("fetch reports: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Fetched %d reports\n", len(list))
	}

	switch fetchFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	case "yaml":
		data, err := yaml.Marshal(list)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format: %s (supported: json, yaml)", fetchFormat)
	}
}
