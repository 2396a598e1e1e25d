package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pulse-labs/productdna/internal/core/domain"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregates over the stored collection",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output stats as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	stats, err := collectionService.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	if statsJSON {
		return outputJSON(cmd, stats)
	}

	return outputStats(cmd, stats)
}

func outputStats(cmd *cobra.Command, stats domain.DNAStats) error {
	cmd.Printf("Total posts: %d\n", stats.TotalPosts)

	cmd.Println("By sentiment:")
	printCounts(cmd, stats.BySentiment)

	cmd.Println("By subreddit:")
	printCounts(cmd, stats.BySubreddit)

	if stats.LastEnrichedAt != nil {
		cmd.Printf("Last enrichment: %s\n", stats.LastEnrichedAt.Format("2006-01-02 15:04:05"))
	} else {
		cmd.Println("Last enrichment: never")
	}

	return nil
}

func printCounts(cmd *cobra.Command, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		cmd.Printf("  %-16s %d\n", key, counts[key])
	}
	if len(keys) == 0 {
		cmd.Println("  (none)")
	}
}
