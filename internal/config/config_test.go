package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.DefaultOrgID != "default" {
		t.Errorf("DefaultOrgID = %q", cfg.DefaultOrgID)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".hrchat.yml")
	content := []byte(`provider: ollama
model: llama3
embedding_provider: ollama
embedding_model: nomic-embed-text
embedding_dims: 768
port: 9090
default_org_id: acme
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOllama || cfg.Model != "llama3" {
		t.Errorf("provider/model = %q/%q", cfg.Provider, cfg.Model)
	}
	if cfg.Port != 9090 || cfg.DefaultOrgID != "acme" {
		t.Errorf("port=%d org=%q", cfg.Port, cfg.DefaultOrgID)
	}
	// Values absent from the file keep their defaults.
	if cfg.DataDir != ".hrchat" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HRCHAT_MODEL", "gpt-4o")
	t.Setenv("HRCHAT_ADMIN_TOKEN", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q, want env override", cfg.Model)
	}
	if cfg.AdminToken != "s3cret" {
		t.Errorf("AdminToken = %q, want env override", cfg.AdminToken)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".hrchat.yml")

	cfg := DefaultConfig()
	cfg.Provider = ProviderOllama
	cfg.Model = "llama3"
	cfg.KeywordExpansions = map[string][]string{"cuti": {"liburan", "day off"}}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Provider != ProviderOllama || loaded.Model != "llama3" {
		t.Errorf("round trip lost provider/model: %q/%q", loaded.Provider, loaded.Model)
	}
	if len(loaded.KeywordExpansions["cuti"]) != 2 {
		t.Errorf("round trip lost expansions: %v", loaded.KeywordExpansions)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty provider", func(c *Config) { c.Provider = "" }, true},
		{"unknown provider", func(c *Config) { c.Provider = "bard" }, true},
		{"empty model", func(c *Config) { c.Model = "" }, true},
		{"bad port", func(c *Config) { c.Port = 70000 }, true},
		{"zero dims", func(c *Config) { c.EmbeddingDims = 0 }, true},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	if got := APIKeyEnvVar(ProviderOpenAI); got != "OPENAI_API_KEY" {
		t.Errorf("openai env var = %q", got)
	}
	if got := APIKeyEnvVar(ProviderOllama); got != "" {
		t.Errorf("ollama needs no key, got %q", got)
	}
}
