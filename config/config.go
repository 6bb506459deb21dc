// Package config provides configuration loading and management for Moot.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete Moot configuration
type Config struct {
	LLM    LLMConfig    `yaml:"llm"`
	Debate DebateConfig `yaml:"debate"`
	Mockup MockupConfig `yaml:"mockup"`
	Server ServerConfig `yaml:"server"`
	NATS   NATSConfig   `yaml:"nats"`
}

// LLMConfig configures the chat-completion provider. The provider is selected
// once at process start; everything downstream receives it by injection.
type LLMConfig struct {
	// Provider is the wire adapter to use ("openai", "anthropic", "ollama")
	Provider string `yaml:"provider"`
	// Endpoint is the provider base URL (empty = provider default)
	Endpoint string `yaml:"endpoint"`
	// APIKey authenticates against the provider. If empty, the loader falls
	// back to the provider's conventional environment variable.
	APIKey string `yaml:"api_key"`
	// AgentModel is the model used for agent turns
	AgentModel string `yaml:"agent_model"`
	// ModeratorModel is the model used for the moderator synthesis step
	// (empty = same as AgentModel)
	ModeratorModel string `yaml:"moderator_model"`
	// Timeout is the maximum time to wait for a completion
	Timeout time.Duration `yaml:"timeout"`
}

// ResolveModeratorModel returns the moderator model, falling back to the
// agent model when none is configured.
func (c *LLMConfig) ResolveModeratorModel() string {
	if c.ModeratorModel != "" {
		return c.ModeratorModel
	}
	return c.AgentModel
}

// DebateConfig configures the orchestration engine
type DebateConfig struct {
	// DefaultRounds is used when a request omits the round count (1-5)
	DefaultRounds int `yaml:"default_rounds"`
	// ContextWindow is how many trailing utterances an agent turn sees.
	// The moderator always sees the full transcript.
	ContextWindow int `yaml:"context_window"`
}

// MockupConfig configures the image-provider fallback chain
type MockupConfig struct {
	Replicate   ReplicateConfig   `yaml:"replicate"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
}

// ReplicateConfig configures the primary image provider
type ReplicateConfig struct {
	// Token is the API token. If empty, REPLICATE_API_TOKEN is consulted at
	// load time; still empty means the provider is skipped.
	Token string `yaml:"token"`
	// Version is the text-to-image model version identifier
	Version string `yaml:"version"`
	// Endpoint overrides the API base URL
	Endpoint string `yaml:"endpoint"`
}

// HuggingFaceConfig configures the secondary image provider
type HuggingFaceConfig struct {
	// Token is the API token. If empty, HUGGINGFACE_API_TOKEN is consulted
	// at load time; still empty means the provider is skipped.
	Token string `yaml:"token"`
	// Model is the inference model path
	Model string `yaml:"model"`
	// Endpoint overrides the inference API base URL
	Endpoint string `yaml:"endpoint"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	// Addr is the listen address
	Addr string `yaml:"addr"`
}

// NATSConfig configures the optional event mirror
type NATSConfig struct {
	// URL is the NATS server URL (empty = mirror disabled)
	URL string `yaml:"url"`
	// SubjectPrefix is prepended to per-run event subjects
	SubjectPrefix string `yaml:"subject_prefix"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:       "openai",
			AgentModel:     "gpt-4o-mini",
			ModeratorModel: "gpt-4o",
			Timeout:        3 * time.Minute,
		},
		Debate: DebateConfig{
			DefaultRounds: 2,
			ContextWindow: 8,
		},
		Mockup: MockupConfig{
			Replicate: ReplicateConfig{
				Version: "stability-ai/sdxl:39ed52f2a78e934b3ba6e2a89f5b1c712de7dfea535525255b1aa35c5565e08b",
			},
			HuggingFace: HuggingFaceConfig{
				Model: "stabilityai/stable-diffusion-xl-base-1.0",
			},
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		NATS: NATSConfig{
			SubjectPrefix: "moot.debate",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "anthropic", "ollama":
	case "":
		return fmt.Errorf("llm.provider is required")
	default:
		return fmt.Errorf("llm.provider must be openai, anthropic, or ollama, got %q", c.LLM.Provider)
	}
	if c.LLM.AgentModel == "" {
		return fmt.Errorf("llm.agent_model is required")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive")
	}
	if c.Debate.DefaultRounds < 1 || c.Debate.DefaultRounds > 5 {
		return fmt.Errorf("debate.default_rounds must be between 1 and 5")
	}
	if c.Debate.ContextWindow < 1 {
		return fmt.Errorf("debate.context_window must be at least 1")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// LLM
	if other.LLM.Provider != "" {
		c.LLM.Provider = other.LLM.Provider
	}
	if other.LLM.Endpoint != "" {
		c.LLM.Endpoint = other.LLM.Endpoint
	}
	if other.LLM.APIKey != "" {
		c.LLM.APIKey = other.LLM.APIKey
	}
	if other.LLM.AgentModel != "" {
		c.LLM.AgentModel = other.LLM.AgentModel
	}
	if other.LLM.ModeratorModel != "" {
		c.LLM.ModeratorModel = other.LLM.ModeratorModel
	}
	if other.LLM.Timeout != 0 {
		c.LLM.Timeout = other.LLM.Timeout
	}

	// Debate
	if other.Debate.DefaultRounds != 0 {
		c.Debate.DefaultRounds = other.Debate.DefaultRounds
	}
	if other.Debate.ContextWindow != 0 {
		c.Debate.ContextWindow = other.Debate.ContextWindow
	}

	// Mockup
	if other.Mockup.Replicate.Token != "" {
		c.Mockup.Replicate.Token = other.Mockup.Replicate.Token
	}
	if other.Mockup.Replicate.Version != "" {
		c.Mockup.Replicate.Version = other.Mockup.Replicate.Version
	}
	if other.Mockup.Replicate.Endpoint != "" {
		c.Mockup.Replicate.Endpoint = other.Mockup.Replicate.Endpoint
	}
	if other.Mockup.HuggingFace.Token != "" {
		c.Mockup.HuggingFace.Token = other.Mockup.HuggingFace.Token
	}
	if other.Mockup.HuggingFace.Model != "" {
		c.Mockup.HuggingFace.Model = other.Mockup.HuggingFace.Model
	}
	if other.Mockup.HuggingFace.Endpoint != "" {
		c.Mockup.HuggingFace.Endpoint = other.Mockup.HuggingFace.Endpoint
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.SubjectPrefix != "" {
		c.NATS.SubjectPrefix = other.NATS.SubjectPrefix
	}
}
