package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o-mini",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		EmbeddingDims:     1536,
		OllamaBaseURL:     "http://localhost:11434",
		Port:              8080,
		DataDir:           ".hrchat",
		DefaultOrgID:      "default",
		ContextLimit:      10,
		IndexQueueLen:     256,
	}
}
