package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulse-labs/productdna/internal/core/domain"
)

var (
	postsSentiment string
	postsSubreddit string
	postsLimit     int
	postsSkip      int
	postsJSON      bool
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List stored Product DNA records",
	Long:  `Lists stored records, newest enrichment first, with optional sentiment and subreddit filters.`,
	RunE:  runPosts,
}

func init() {
	postsCmd.Flags().StringVar(&postsSentiment, "sentiment", "", "filter by sentiment: positive, neutral or negative")
	postsCmd.Flags().StringVar(&postsSubreddit, "subreddit", "", "filter by subreddit")
	postsCmd.Flags().IntVarP(&postsLimit, "limit", "n", 0, "maximum records to return (1-500, default 50)")
	postsCmd.Flags().IntVar(&postsSkip, "skip", 0, "records to skip for pagination")
	postsCmd.Flags().BoolVar(&postsJSON, "json", false, "output records as JSON")
	rootCmd.AddCommand(postsCmd)
}

func runPosts(cmd *cobra.Command, _ []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	filter := domain.QueryFilter{
		Sentiment: domain.Sentiment(postsSentiment),
		Subreddit: postsSubreddit,
		Limit:     postsLimit,
		Skip:      postsSkip,
	}

	posts, err := collectionService.Posts(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if postsJSON {
		return outputJSON(cmd, posts)
	}

	return outputPostsTable(cmd, posts)
}

func outputPostsTable(cmd *cobra.Command, posts []domain.EnrichedPost) error {
	if len(posts) == 0 {
		cmd.Println("No records found.")
		return nil
	}

	for i, post := range posts {
		cmd.Printf("[%d] %s (%s, r/%s)\n", i+1, post.Title, post.Sentiment, post.Metadata.Subreddit)
		cmd.Printf("    %s\n", post.Summary)
		cmd.Printf("    enriched %s\n", post.EnrichedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	return nil
}
