package embeddings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/JaimeStill/agent-studio/internal/index"
	"github.com/JaimeStill/agent-studio/internal/storage"
	"github.com/JaimeStill/agent-studio/pkg/guard"
)

type store struct {
	blobs    storage.System
	embedder Embedder
	index    index.System
	logger   *slog.Logger

	mu      guard.Mutex
	records []FileEmbedding
}

// New creates the file embedding store. Files are written through blobs,
// embedded with embedder and made searchable through idx.
func New(blobs storage.System, embedder Embedder, idx index.System, logger *slog.Logger) (System, error) {
	if blobs == nil || embedder == nil || idx == nil {
		return nil, fmt.Errorf("embedding store requires storage, embedder and index")
	}
	if embedder.Dimensions() < 1 {
		return nil, fmt.Errorf("embedder dimensions must be positive, got %d", embedder.Dimensions())
	}

	return &store{
		blobs:    blobs,
		embedder: embedder,
		index:    idx,
		logger:   logger.With("system", "embeddings"),
		records:  []FileEmbedding{},
	}, nil
}

func (s *store) UploadAndEmbed(ctx context.Context, agentID, fileName string, data []byte) (*FileEmbedding, error) {
	if err := validateComponent("agent_id", agentID); err != nil {
		return nil, err
	}
	if err := validateComponent("file_name", fileName); err != nil {
		return nil, err
	}

	key := path.Join(agentID, fileName)

	return locked(s, func() (*FileEmbedding, error) {
		if err := s.blobs.Store(ctx, key, data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}

		filePath, err := s.blobs.Path(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}

		vector, err := s.embed(ctx, data)
		if err != nil {
			return nil, err
		}

		rec := FileEmbedding{
			AgentID:  agentID,
			FileName: fileName,
			FilePath: filePath,
			Vector:   vector,
		}

		if err := s.index.Add(ctx, index.Entry{
			AgentID:  agentID,
			FileName: fileName,
			FilePath: filePath,
			Vector:   vector,
		}); err != nil {
			return nil, fmt.Errorf("index file: %w", err)
		}

		s.records = append(s.records, rec)

		s.logger.Info("file embedded",
			"agent_id", agentID,
			"file_name", fileName,
			"bytes", len(data),
		)

		return clone(rec), nil
	})
}

func (s *store) ListForAgent(ctx context.Context, agentID string) ([]FileEmbedding, error) {
	return locked(s, func() ([]FileEmbedding, error) {
		result := []FileEmbedding{}
		for _, rec := range s.records {
			if rec.AgentID == agentID {
				result = append(result, *clone(rec))
			}
		}
		return result, nil
	})
}

func (s *store) Search(ctx context.Context, agentID string, query []byte, topK int) ([]Match, error) {
	return locked(s, func() ([]Match, error) {
		if topK < 1 || s.index.Count(agentID) == 0 {
			return []Match{}, nil
		}

		vector, err := s.embed(ctx, query)
		if err != nil {
			return nil, err
		}

		hits, err := s.index.Query(ctx, agentID, vector, topK)
		if err != nil {
			return nil, fmt.Errorf("search index: %w", err)
		}

		matches := make([]Match, len(hits))
		for i, h := range hits {
			matches[i] = Match{
				FileName:   h.FileName,
				FilePath:   h.FilePath,
				Similarity: h.Similarity,
			}
		}
		return matches, nil
	})
}

func (s *store) embed(ctx context.Context, data []byte) ([]float32, error) {
	vector, err := s.embedder.Embed(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	if want := s.embedder.Dimensions(); len(vector) != want {
		return nil, fmt.Errorf("%w: vector has %d dimensions, want %d", ErrEmbedding, len(vector), want)
	}
	return vector, nil
}

func locked[T any](s *store, fn func() (T, error)) (T, error) {
	result, err := guard.Value(&s.mu, fn)
	if errors.Is(err, guard.ErrPoisoned) {
		return result, fmt.Errorf("%w: %w", ErrLockFailure, err)
	}
	return result, err
}

func validateComponent(field, value string) error {
	if value == "" || value == "." || value == ".." ||
		strings.ContainsAny(value, "/\\\x00") {
		return fmt.Errorf("%w: %s %q must be a single path component", ErrInvalidInput, field, value)
	}
	return nil
}

func clone(rec FileEmbedding) *FileEmbedding {
	rec.Vector = slices.Clone(rec.Vector)
	return &rec
}
