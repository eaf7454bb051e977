package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"hrchat/internal/chat"
	"hrchat/internal/hr"
	"hrchat/internal/indexer"
	"hrchat/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HR assistant server",
	Long:  `Starts the hrchat server with the chat API, history management, embedding administration and a WebSocket chat channel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Port = servePort
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

		ix := indexer.New(hrStore, embedder, store, indexer.KeywordExpansions(cfg.KeywordExpansions))
		queue := indexer.NewQueue(ix, cfg.IndexQueueLen)
		defer queue.Close()
		hrStore.OnChange = queue.ChangeFunc()

		engine := chat.NewEngine(
			chat.NewStatsBuilder(hrStore),
			chat.NewRetriever(embedder, store),
			llmProvider,
			cfg.Model,
			chat.NewHistoryStore(database),
		)

		srv := server.New(server.Config{
			Port:         cfg.Port,
			AllowAll:     cfg.AllowAll,
			AdminToken:   cfg.AdminToken,
			DefaultOrgID: cfg.DefaultOrgID,
		}, engine, ix, store, embedder, hrStore)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")

			vectorDir := filepath.Join(cfg.DataDir, "vectordb")
			if err := store.Persist(context.Background(), vectorDir); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: persisting vector store: %v\n", err)
			}
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "hrchat server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Data: %s\n", cfg.DataDir)
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", cfg.Provider, cfg.Model)
		fmt.Fprintf(os.Stderr, "  Documents indexed: %d\n", store.Count())

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
