package main

import (
	"github.com/JaimeStill/agent-studio/internal/agents"
	"github.com/JaimeStill/agent-studio/internal/config"
	"github.com/JaimeStill/agent-studio/internal/embeddings"
	"github.com/JaimeStill/agent-studio/pkg/bridge"
)

// registerCommands binds every domain handler to the bridge router.
func registerCommands(r *bridge.Router, runtime *Runtime, domain *Domain, cfg *config.Config) {
	agentHandler := agents.NewHandler(domain.Agents, runtime.Logger)
	r.Register(agentHandler.Commands())

	embeddingHandler := embeddings.NewHandler(
		domain.Embeddings,
		runtime.Logger,
		cfg.Storage.MaxUploadSizeBytes(),
		cfg.Index,
	)
	r.Register(embeddingHandler.Commands())
}
