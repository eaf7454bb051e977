package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"hrchat/internal/config"
	"hrchat/internal/db"
	"hrchat/internal/embeddings"
	"hrchat/internal/llm"
	"hrchat/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `hrchat init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedder builds a lazily initialized embedder from config. The API
// key is only required once the first embedding is actually requested.
func createEmbedder(cfg *config.Config) embeddings.Embedder {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}

	construct := func() (embeddings.Embedder, error) {
		switch provider {
		case config.ProviderOllama:
			return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, cfg.EmbeddingDims, cfg.OllamaBaseURL), nil
		default:
			apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
			if apiKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
			}
			return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
		}
	}
	return embeddings.NewLazy(cfg.EmbeddingModel, cfg.EmbeddingDims, construct)
}

// createLLMProvider builds an LLM provider from config.
func createLLMProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return llm.NewOllamaProvider(cfg.OllamaBaseURL, cfg.Model), nil
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
		}
		return llm.NewOpenAIProvider(apiKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// openStores opens the SQLite database and the vector store, loading any
// previously persisted vectors from the data directory.
func openStores(cfg *config.Config, embedder embeddings.Embedder) (*db.DB, *vectordb.ChromemStore, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}

	database, err := db.Open(filepath.Join(cfg.DataDir, "hrchat.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	store, err := vectordb.NewChromemStore(embedder, database)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("creating vector store: %w", err)
	}

	vectorDir := filepath.Join(cfg.DataDir, "vectordb")
	if err := store.Load(context.Background(), vectorDir); err != nil {
		// The store may simply be empty on first run.
		fmt.Fprintf(os.Stderr, "Warning: could not load vector store from %s: %v\n", vectorDir, err)
	}

	return database, store, nil
}
