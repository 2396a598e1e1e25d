// Command productdna runs the Product DNA pipeline: collecting posts,
// enriching them with sentiment and summaries, and serving the results
// over CLI and HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/pulse-labs/productdna/internal/adapters/driven/llm/openai"
	"github.com/pulse-labs/productdna/internal/adapters/driven/storage/sqlite"
	"github.com/pulse-labs/productdna/internal/adapters/driving/cli"
	"github.com/pulse-labs/productdna/internal/adapters/driving/httpapi"
	"github.com/pulse-labs/productdna/internal/config"
	"github.com/pulse-labs/productdna/internal/connectors/reddit"
	"github.com/pulse-labs/productdna/internal/core/ports/driven"
	"github.com/pulse-labs/productdna/internal/core/services"
	"github.com/pulse-labs/productdna/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("PRODUCTDNA_CONFIG"))
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.Database.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	source := reddit.New(reddit.Config{
		BaseURL:   cfg.Reddit.BaseURL,
		UserAgent: cfg.Reddit.UserAgent,
	})

	// The pipeline degrades rather than fails when no completion key
	// is configured: posts are collected with neutral sentiment and
	// title-derived summaries.
	var completer driven.TextCompleter
	if cfg.LLM.APIKey != "" {
		llm, err := openai.New(openai.Config{
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			BaseURL: cfg.LLM.BaseURL,
		})
		if err != nil {
			return fmt.Errorf("configuring completion client: %w", err)
		}
		logger.Debug("completion model: %s", llm.ModelName())
		completer = llm
	} else {
		logger.Warn("no completion API key configured; enrichment will degrade to defaults")
	}

	svc := services.NewDNAService(source, services.NewLLMEnricher(completer), store)

	router := httpapi.NewRouter(svc, httpapi.Options{
		CORSOrigins: cfg.CORS.Origins,
	})

	cli.SetCollectionService(svc)
	cli.SetServeConfig(router, cfg.Addr())
	cli.SetVersion(version)

	return cli.Execute()
}
