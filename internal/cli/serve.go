package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/openvillage/reportd/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the report HTTP API server",
	Long: `Serve exposes the merged report list over HTTP:

  GET  /healthz                      liveness and cache state
  GET  /api/reports                  full report list (populates on first call)
  GET  /api/reports/{slug}           one report by slug
  GET  /api/hypercerts/{id}          one report by hypercert id
  POST /api/hypercerts/{id}/funding  add a funding amount

Example:
  reportd serve --addr :8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if cfg.Owner == "" {
		return fmt.Errorf("owner address not configured (set REPORTD_OWNER or owner in the config file)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := buildStore(cfg)
	srv := server.New(cfg.Server, store)

	log.WithFields(log.Fields{
		"owner": cfg.Owner,
		"addr":  cfg.Server.Addr,
	}).Info("starting reportd")

	return srv.Run(ctx)
}
