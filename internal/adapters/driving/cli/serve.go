package cli

import (
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pulse-labs/productdna/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serves the Product DNA REST API:

  POST /api/v1/product-dna/collect         run the pipeline
  GET  /api/v1/product-dna                 list stored records
  GET  /api/v1/product-dna/stats           collection aggregates
  POST /api/v1/product-dna/ensure-indexes  create store indexes
  GET  /health                             liveness check`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides configuration)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	if serveHandler == nil {
		return errors.New("http server not configured")
	}

	addr := serveAddr
	if addr == "" {
		addr = serveDefaultAddr
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           serveHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("serving HTTP API on %s", addr)
	return server.ListenAndServe()
}
