package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve extraction over HTTP",
	Long: `Serve exposes the extractor as a JSON API:

  POST /v1/extract   {"text": "..."} -> {"family": {...} | null}
  GET  /healthz
  GET  /metrics      Prometheus metrics

Example:
  obituary serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "listen address")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	srv := server.New(a.extractor, logger, a.metrics, a.registry)
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
