package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the store's secondary indexes",
	Long:  `Creates the sentiment, subreddit and enrichment-time indexes. Safe to run repeatedly.`,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	if err := collectionService.EnsureIndexes(context.Background()); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	cmd.Println("Indexes created.")
	return nil
}
