package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/agent-studio/internal/agents"
	"github.com/JaimeStill/agent-studio/internal/config"
)

// seedAgents registers the configured catalog. Agents whose name is already
// taken are skipped.
func seedAgents(ctx context.Context, sys agents.System, cfg config.SeedConfig, logger *slog.Logger) error {
	created := 0
	for _, s := range cfg.Agents {
		_, err := sys.Create(ctx, agents.CreateCommand{
			ID:           s.ID,
			Name:         s.Name,
			Description:  s.Description,
			Capabilities: s.Capabilities,
		})
		if errors.Is(err, agents.ErrDuplicate) || errors.Is(err, agents.ErrDuplicateID) {
			logger.Warn("seed agent skipped", "name", s.Name, "error", err)
			continue
		}
		if err != nil {
			return fmt.Errorf("seed agent %q: %w", s.Name, err)
		}
		created++
	}

	if len(cfg.Agents) > 0 {
		logger.Info("seed agents registered", "count", created)
	}
	return nil
}
