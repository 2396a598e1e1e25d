package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulse-labs/productdna/internal/core/domain"
)

var (
	collectKeywords   []string
	collectSubreddits []string
	collectLimit      int
	collectWindow     string
	collectJSON       bool
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run the collection pipeline once",
	Long: `Collects posts matching the given keywords, enriches each with
sentiment and a summary, and stores the results. Re-running the same
collection is safe: storage is idempotent by post ID.`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().StringArrayVarP(&collectKeywords, "keyword", "k", nil, "search keyword (repeatable, at least one required)")
	collectCmd.Flags().StringArrayVarP(&collectSubreddits, "subreddit", "s", nil, "subreddit to search (repeatable)")
	collectCmd.Flags().IntVarP(&collectLimit, "limit", "n", 0, "maximum posts to collect (1-100, default 10)")
	collectCmd.Flags().StringVarP(&collectWindow, "window", "w", "", "time window: hour, day, week, month, year or all (default week)")
	collectCmd.Flags().BoolVar(&collectJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, _ []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	req := domain.CollectionRequest{
		Keywords:   collectKeywords,
		Subreddits: collectSubreddits,
		Limit:      collectLimit,
		Window:     domain.TimeWindow(collectWindow),
	}

	result, err := collectionService.Collect(context.Background(), req)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	if collectJSON {
		return outputJSON(cmd, result)
	}

	return outputCollectResult(cmd, result)
}

func outputCollectResult(cmd *cobra.Command, result domain.CollectionResult) error {
	status := "ok"
	if !result.Success {
		status = "completed with errors"
	}
	cmd.Printf("Collection %s: %d collected, %d enriched, %d stored\n",
		status, result.PostsCollected, result.PostsEnriched, result.PostsStored)

	for _, msg := range result.Errors {
		cmd.Printf("  error: %s\n", msg)
	}

	if len(result.Sample) > 0 {
		cmd.Println()
		cmd.Println("Sample:")
		for i, post := range result.Sample {
			cmd.Printf("  [%d] %s (%s)\n", i+1, post.Title, post.Sentiment)
			cmd.Printf("      %s\n", post.Summary)
		}
	}

	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
