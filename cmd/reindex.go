package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"hrchat/internal/hr"
	"hrchat/internal/indexer"
	"hrchat/internal/progress"
	"hrchat/internal/vectordb"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the semantic index from the HR database",
	Long:  `Re-embeds employees, attendance records and shift allocations into the vector store. Without flags everything is reindexed; use --type, --ids or a date range to narrow the run.`,
	RunE:  runReindex,
}

func init() {
	reindexCmd.Flags().String("org", "default", "organization to reindex")
	reindexCmd.Flags().String("type", "", "restrict to one document type: EMPLOYEE, ATTENDANCE, SHIFT")
	reindexCmd.Flags().StringSlice("ids", nil, "specific entity ids (requires --type)")
	reindexCmd.Flags().String("start", "", "start date (YYYY-MM-DD, inclusive)")
	reindexCmd.Flags().String("end", "", "end date (YYYY-MM-DD, exclusive)")
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	org, _ := cmd.Flags().GetString("org")
	typeFlag, _ := cmd.Flags().GetString("type")
	ids, _ := cmd.Flags().GetStringSlice("ids")
	startFlag, _ := cmd.Flags().GetString("start")
	endFlag, _ := cmd.Flags().GetString("end")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder := createEmbedder(cfg)

	database, store, err := openStores(cfg, embedder)
	if err != nil {
		return err
	}
	defer database.Close()

	req := indexer.ReindexRequest{
		Type:       vectordb.DocumentType(typeFlag),
		EntityIDs:  ids,
		ReindexAll: typeFlag == "" && len(ids) == 0 && startFlag == "" && endFlag == "",
	}
	if startFlag != "" {
		start, err := time.Parse("2006-01-02", startFlag)
		if err != nil {
			return fmt.Errorf("invalid --start date: %w", err)
		}
		req.StartDate = &start
	}
	if endFlag != "" {
		end, err := time.Parse("2006-01-02", endFlag)
		if err != nil {
			return fmt.Errorf("invalid --end date: %w", err)
		}
		req.EndDate = &end
	}
	if typeFlag != "" && len(ids) == 0 && req.StartDate == nil && req.EndDate == nil {
		req.ReindexAll = true
	}

	hrStore := hr.NewStore(database)
	ix := indexer.New(hrStore, embedder, store, indexer.KeywordExpansions(cfg.KeywordExpansions))

	// Each document type runs as its own batch, so restart the bar
	// whenever a batch begins.
	reporter := progress.NewReporter("Embedding records")
	onProgress := func(current, total int, entityID string) {
		if current == 1 {
			reporter.Start(total)
		}
		reporter.Update(current, entityID)
	}

	result, err := ix.Reindex(ctx, org, req, onProgress)
	if err != nil {
		return err
	}
	reporter.Finish()

	vectorDir := filepath.Join(cfg.DataDir, "vectordb")
	if err := store.Persist(ctx, vectorDir); err != nil {
		return fmt.Errorf("persisting vector store: %w", err)
	}

	fmt.Printf("Reindex complete: %d embedded, %d failed (of %d)\n", result.Success, result.Failed, result.Total)
	if verbose {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
	}
	return nil
}
