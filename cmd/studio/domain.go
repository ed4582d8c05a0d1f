package main

import (
	"fmt"

	"github.com/JaimeStill/agent-studio/internal/agents"
	"github.com/JaimeStill/agent-studio/internal/embeddings"
)

// Domain holds the core systems exposed through the bridge.
type Domain struct {
	Agents     agents.System
	Embeddings embeddings.System
}

// NewDomain creates the domain systems on top of runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	embeddingSys, err := embeddings.New(runtime.Storage, runtime.Embedder, runtime.Index, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("embeddings init failed: %w", err)
	}

	return &Domain{
		Agents:     agents.New(runtime.Logger, agents.WithPagination(runtime.Pagination)),
		Embeddings: embeddingSys,
	}, nil
}
