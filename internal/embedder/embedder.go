// Package embedder provides the embedding functions available to the file
// embedding store.
package embedder

import (
	"fmt"

	"github.com/JaimeStill/agent-studio/internal/config"
	"github.com/JaimeStill/agent-studio/internal/embeddings"
)

// New creates the embedder selected by cfg.Provider.
func New(cfg *config.EmbedderConfig) (embeddings.Embedder, error) {
	switch cfg.Provider {
	case config.ProviderHash:
		return NewHash(cfg.Dimensions), nil
	case config.ProviderOllama:
		return NewOllama(cfg.Model, cfg.BaseURL, cfg.Dimensions, cfg.TimeoutDuration())
	case config.ProviderAgent:
		return NewAgent(cfg.Agent, cfg.Dimensions, cfg.TimeoutDuration())
	default:
		return nil, fmt.Errorf("unsupported embedder provider: %s", cfg.Provider)
	}
}
