package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hrchat/internal/chat"
	"hrchat/internal/hr"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the HR assistant a question from the command line",
	Long:  `Runs one question through the full pipeline: statistics, similarity search and answer generation. The exchange is saved to chat history.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().String("org", "default", "organization to query")
	askCmd.Flags().Int("limit", 10, "maximum number of retrieved documents")
	askCmd.Flags().Bool("json", false, "output the full response as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := args[0]

	org, _ := cmd.Flags().GetString("org")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

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

	llmProvider, err := createLLMProvider(cfg)
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}

	hrStore := hr.NewStore(database)
	engine := chat.NewEngine(
		chat.NewStatsBuilder(hrStore),
		chat.NewRetriever(embedder, store),
		llmProvider,
		cfg.Model,
		chat.NewHistoryStore(database),
	)

	resp, err := engine.Query(ctx, chat.QueryRequest{
		OrgID:    org,
		UserID:   "cli",
		Question: question,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Println(resp.Answer)
	if verbose && len(resp.Sources) > 0 {
		fmt.Fprintf(os.Stderr, "\nSources (%d, search %dms, total %dms):\n",
			resp.Meta.TotalSources, resp.Meta.SearchTimeMs, resp.Meta.TotalTimeMs)
		for _, src := range resp.Sources {
			fmt.Fprintf(os.Stderr, "  [%s] %s (%d%%) %s\n", src.Type, src.Name, src.Similarity, src.Preview)
		}
	}
	return nil
}
