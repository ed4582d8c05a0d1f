package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/JaimeStill/agent-studio/internal/config"
	"github.com/JaimeStill/agent-studio/internal/embedder"
	"github.com/JaimeStill/agent-studio/internal/embeddings"
	"github.com/JaimeStill/agent-studio/internal/index"
	"github.com/JaimeStill/agent-studio/internal/storage"
	"github.com/JaimeStill/agent-studio/pkg/logging"
	"github.com/JaimeStill/agent-studio/pkg/pagination"
)

// Runtime holds the infrastructure shared by the domain systems.
type Runtime struct {
	Logger     *slog.Logger
	Storage    storage.System
	Embedder   embeddings.Embedder
	Index      index.System
	Pagination pagination.Config
}

// NewRuntime builds the infrastructure from cfg. Logs are written to logOut.
func NewRuntime(cfg *config.Config, logOut io.Writer) (*Runtime, error) {
	logger := logging.New(&cfg.Logging, logOut)

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	emb, err := embedder.New(&cfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("embedder init failed: %w", err)
	}

	logger.Info("embedder configured",
		"provider", cfg.Embedder.Provider,
		"dimensions", emb.Dimensions(),
	)

	return &Runtime{
		Logger:     logger,
		Storage:    store,
		Embedder:   emb,
		Index:      index.New(logger),
		Pagination: cfg.Pagination,
	}, nil
}
