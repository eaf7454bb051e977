package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level hrchat configuration, corresponding to .hrchat.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDims     int          `yaml:"embedding_dims" koanf:"embedding_dims"`
	OllamaBaseURL     string       `yaml:"ollama_base_url" koanf:"ollama_base_url"`

	Port       int    `yaml:"port" koanf:"port"`
	DataDir    string `yaml:"data_dir" koanf:"data_dir"`
	AdminToken string `yaml:"admin_token" koanf:"admin_token"`
	AllowAll   bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`

	DefaultOrgID  string `yaml:"default_org_id" koanf:"default_org_id"`
	ContextLimit  int    `yaml:"context_limit" koanf:"context_limit"`
	IndexQueueLen int    `yaml:"index_queue_len" koanf:"index_queue_len"`

	// KeywordExpansions overrides the built-in synonym table for
	// non-presence attendance types, keyed by type-name fragment.
	KeywordExpansions map[string][]string `yaml:"keyword_expansions" koanf:"keyword_expansions"`
}
