package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LLM.Provider != "openai" {
		t.Errorf("expected default provider openai, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.AgentModel != "gpt-4o-mini" {
		t.Errorf("expected default agent model gpt-4o-mini, got %s", cfg.LLM.AgentModel)
	}
	if cfg.Debate.DefaultRounds != 2 {
		t.Errorf("expected default rounds 2, got %d", cfg.Debate.DefaultRounds)
	}
	if cfg.Debate.ContextWindow != 8 {
		t.Errorf("expected context window 8, got %d", cfg.Debate.ContextWindow)
	}
	if cfg.NATS.URL != "" {
		t.Error("expected NATS mirror disabled by default")
	}
}

func TestResolveModeratorModel(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.LLM.ResolveModeratorModel(); got != "gpt-4o" {
		t.Errorf("expected gpt-4o, got %s", got)
	}

	cfg.LLM.ModeratorModel = ""
	if got := cfg.LLM.ResolveModeratorModel(); got != "gpt-4o-mini" {
		t.Errorf("expected fallback to agent model, got %s", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing provider",
			modify:  func(c *Config) { c.LLM.Provider = "" },
			wantErr: true,
		},
		{
			name:    "unknown provider",
			modify:  func(c *Config) { c.LLM.Provider = "cohere" },
			wantErr: true,
		},
		{
			name:    "missing agent model",
			modify:  func(c *Config) { c.LLM.AgentModel = "" },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.LLM.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "rounds too low",
			modify:  func(c *Config) { c.Debate.DefaultRounds = 0 },
			wantErr: true,
		},
		{
			name:    "rounds too high",
			modify:  func(c *Config) { c.Debate.DefaultRounds = 6 },
			wantErr: true,
		},
		{
			name:    "missing server addr",
			modify:  func(c *Config) { c.Server.Addr = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
llm:
  provider: "ollama"
  endpoint: "http://test:11434/v1"
  agent_model: "test-model"
  timeout: 10m
debate:
  default_rounds: 3
  context_window: 4
nats:
  url: "nats://test:4222"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected provider ollama, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.Endpoint != "http://test:11434/v1" {
		t.Errorf("expected endpoint http://test:11434/v1, got %s", cfg.LLM.Endpoint)
	}
	if cfg.LLM.AgentModel != "test-model" {
		t.Errorf("expected agent model test-model, got %s", cfg.LLM.AgentModel)
	}
	if cfg.LLM.Timeout != 10*time.Minute {
		t.Errorf("expected timeout 10m, got %v", cfg.LLM.Timeout)
	}
	if cfg.Debate.DefaultRounds != 3 {
		t.Errorf("expected 3 rounds, got %d", cfg.Debate.DefaultRounds)
	}
	if cfg.Debate.ContextWindow != 4 {
		t.Errorf("expected context window 4, got %d", cfg.Debate.ContextWindow)
	}
	if cfg.NATS.URL != "nats://test:4222" {
		t.Errorf("expected NATS URL nats://test:4222, got %s", cfg.NATS.URL)
	}
	// Defaults survive for fields the file doesn't set
	if cfg.Mockup.HuggingFace.Model != "stabilityai/stable-diffusion-xl-base-1.0" {
		t.Errorf("expected default HF model, got %s", cfg.Mockup.HuggingFace.Model)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		LLM: LLMConfig{
			AgentModel: "override-model",
		},
		Mockup: MockupConfig{
			Replicate: ReplicateConfig{Token: "r8_test"},
		},
	}

	base.Merge(override)

	if base.LLM.AgentModel != "override-model" {
		t.Errorf("expected agent model override-model, got %s", base.LLM.AgentModel)
	}
	// Provider should remain from base since override didn't set it
	if base.LLM.Provider != "openai" {
		t.Errorf("expected provider to remain default, got %s", base.LLM.Provider)
	}
	if base.Mockup.Replicate.Token != "r8_test" {
		t.Errorf("expected replicate token r8_test, got %s", base.Mockup.Replicate.Token)
	}
}

func TestApplyEnvCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("REPLICATE_API_TOKEN", "r8_env")
	t.Setenv("HUGGINGFACE_API_TOKEN", "hf_env")

	cfg := DefaultConfig()
	cfg.applyEnvCredentials()

	if cfg.LLM.APIKey != "sk-env" {
		t.Errorf("expected env API key, got %s", cfg.LLM.APIKey)
	}
	if cfg.Mockup.Replicate.Token != "r8_env" {
		t.Errorf("expected env replicate token, got %s", cfg.Mockup.Replicate.Token)
	}
	if cfg.Mockup.HuggingFace.Token != "hf_env" {
		t.Errorf("expected env HF token, got %s", cfg.Mockup.HuggingFace.Token)
	}

	// Explicit config wins over the environment
	cfg2 := DefaultConfig()
	cfg2.LLM.APIKey = "sk-file"
	cfg2.applyEnvCredentials()
	if cfg2.LLM.APIKey != "sk-file" {
		t.Errorf("expected file API key to win, got %s", cfg2.LLM.APIKey)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.LLM.AgentModel = "saved-model"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.LLM.AgentModel != "saved-model" {
		t.Errorf("expected agent model saved-model, got %s", loaded.LLM.AgentModel)
	}
}
