// Package cli wires the cobra command tree that drives the pipeline.
// The binary's main constructs the services and injects them through
// the Set* functions before calling Execute.
package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pulse-labs/productdna/internal/core/ports/driving"
	"github.com/pulse-labs/productdna/internal/logger"
)

var (
	collectionService driving.CollectionService
	serveHandler      http.Handler
	serveDefaultAddr  string
	version           = "dev"

	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "productdna",
	Short: "Collect and enrich Product DNA from social posts",
	Long: `productdna runs the Product DNA pipeline: it collects posts from
Reddit, enriches each with AI-derived sentiment and a summary, and
stores the results for retrieval and aggregation.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}

// SetCollectionService injects the pipeline service used by the
// commands.
func SetCollectionService(svc driving.CollectionService) {
	collectionService = svc
}

// SetServeConfig injects the HTTP handler and default listen address
// for the serve command.
func SetServeConfig(handler http.Handler, addr string) {
	serveHandler = handler
	serveDefaultAddr = addr
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
