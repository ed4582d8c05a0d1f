package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	EnvEmbedderProvider = "EMBEDDER_PROVIDER"
	EnvEmbedderModel    = "EMBEDDER_MODEL"
	EnvEmbedderBaseURL  = "EMBEDDER_BASE_URL"
	EnvEmbedderTimeout  = "EMBEDDER_TIMEOUT"
	EnvEmbedderDims     = "EMBEDDER_DIMENSIONS"
)

// DefaultDimensions is the vector length produced by the hash provider.
const DefaultDimensions = 128

// Embedding providers.
const (
	ProviderHash   = "hash"
	ProviderOllama = "ollama"
	ProviderAgent  = "agent"
)

// EmbedderConfig selects and configures the function that turns file bytes into vectors.
type EmbedderConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	Timeout  string `toml:"timeout"`

	// Dimensions is the vector length every embedding must have.
	Dimensions int `toml:"dimensions"`

	// Agent is a go-agents agent configuration used by the agent provider.
	// It is merged over the library defaults, so only the fields that differ
	// need to be set.
	Agent map[string]any `toml:"agent"`
}

// TimeoutDuration parses and returns the request timeout as a time.Duration.
func (c *EmbedderConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the embedder configuration.
func (c *EmbedderConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *EmbedderConfig) Merge(overlay *EmbedderConfig) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Dimensions != 0 {
		c.Dimensions = overlay.Dimensions
	}
	if overlay.Agent != nil {
		c.Agent = overlay.Agent
	}
}

func (c *EmbedderConfig) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderHash
	}
	if c.Timeout == "" {
		c.Timeout = "120s"
	}
	if c.Dimensions == 0 {
		c.Dimensions = DefaultDimensions
	}
}

func (c *EmbedderConfig) loadEnv() {
	if v := os.Getenv(EnvEmbedderProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvEmbedderModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvEmbedderBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvEmbedderTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvEmbedderDims); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Dimensions = n
		}
	}
}

func (c *EmbedderConfig) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	if c.Dimensions < 1 {
		return fmt.Errorf("dimensions must be positive")
	}

	switch c.Provider {
	case ProviderHash:
		return nil
	case ProviderOllama:
		if c.Model == "" {
			return fmt.Errorf("model required for provider %s", c.Provider)
		}
		// The provider may be selected by env after defaults ran.
		if c.BaseURL == "" {
			c.BaseURL = "http://localhost:11434"
		}
		if _, err := url.Parse(c.BaseURL); err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
		return nil
	case ProviderAgent:
		if len(c.Agent) == 0 {
			return fmt.Errorf("agent configuration required for provider %s", c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unsupported provider: %s (must be %s, %s or %s)", c.Provider, ProviderHash, ProviderOllama, ProviderAgent)
	}
}
