package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/huangsam/insight/internal/api"
)

// defaultRequestTimeout bounds each API request.
const defaultRequestTimeout = 30 * time.Second

// serveCmd starts the JSON HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis entry points as a JSON HTTP API",
	Long: `Start an HTTP server exposing the analysis entry points as JSON endpoints:

  GET  /health
  GET  /api/v1/types
  POST /api/v1/analyze                    analysis request body
  POST /api/v1/reports/{type}             optional parameters body
  POST /api/v1/query                      {"query": "..."}
  GET  /api/v1/risk/{id}
  GET  /api/v1/risk/{id}/trend?months=6
  GET  /api/v1/risk/{id}/recommendations

The server stops gracefully on SIGINT or SIGTERM.

Examples:
  insight serve --addr :8080
  insight serve --cors-origins https://dash.example.com --history-backend sqlite`,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		origins, _ := cmd.Flags().GetStringSlice("cors-origins")
		timeout, _ := cmd.Flags().GetDuration("request-timeout")

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		handler := api.NewRouter(services, api.Options{AllowedOrigins: origins, RequestTimeout: timeout})
		return api.Serve(ctx, addr, handler)
	},
}
