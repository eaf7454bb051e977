package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to hrchat! Let's configure your deployment.")
	fmt.Println()

	cfg := DefaultConfig()

	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)
	cfg.EmbeddingProvider = cfg.Provider

	switch cfg.Provider {
	case ProviderOpenAI:
		cfg.Model = "gpt-4o-mini"
		cfg.EmbeddingModel = "text-embedding-3-small"
		cfg.EmbeddingDims = 1536
	case ProviderOllama:
		cfg.Model = "llama3"
		cfg.EmbeddingModel = "nomic-embed-text"
		cfg.EmbeddingDims = 768

		urlPrompt := promptui.Prompt{
			Label:   "Ollama base URL",
			Default: cfg.OllamaBaseURL,
		}
		if url, err := urlPrompt.Run(); err == nil && url != "" {
			cfg.OllamaBaseURL = url
		}
	}

	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port prompt: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	dataDirPrompt := promptui.Prompt{
		Label:   "Data directory",
		Default: cfg.DataDir,
	}
	if dir, err := dataDirPrompt.Run(); err == nil && dir != "" {
		cfg.DataDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration written to %s\n", path)
	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" {
		fmt.Printf("Remember to set %s before starting the server.\n", envVar)
	}
	return cfg, nil
}
