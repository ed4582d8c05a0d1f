package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/philippgille/chromem-go"
)

const (
	metaAgentID  = "agent_id"
	metaFileName = "file_name"
	metaFilePath = "file_path"
)

type chromemIndex struct {
	db          *chromem.DB
	collections map[string]*chromem.Collection
	mu          sync.RWMutex
	logger      *slog.Logger
}

// New creates an in-memory chromem-go backed index.
func New(logger *slog.Logger) System {
	return &chromemIndex{
		db:          chromem.NewDB(),
		collections: make(map[string]*chromem.Collection),
		logger:      logger.With("system", "index"),
	}
}

// CollectionName returns the name of the collection holding an agent's files.
func CollectionName(agentID string) string {
	return "agent_" + agentID
}

func (x *chromemIndex) Add(ctx context.Context, e Entry) error {
	if e.AgentID == "" || e.FileName == "" || len(e.Vector) == 0 {
		return ErrInvalidEntry
	}

	col, err := x.collection(e.AgentID)
	if err != nil {
		return err
	}

	doc := chromem.Document{
		ID:        e.FileName,
		Content:   e.FileName,
		Embedding: e.Vector,
		Metadata: map[string]string{
			metaAgentID:  e.AgentID,
			metaFileName: e.FileName,
			metaFilePath: e.FilePath,
		},
	}

	if err := col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add document: %w", err)
	}

	x.logger.Debug("file indexed", "agent_id", e.AgentID, "file_name", e.FileName)
	return nil
}

func (x *chromemIndex) Query(ctx context.Context, agentID string, vector []float32, topK int) ([]Hit, error) {
	x.mu.RLock()
	col, ok := x.collections[agentID]
	x.mu.RUnlock()

	if !ok {
		return []Hit{}, nil
	}

	n := min(topK, col.Count())
	if n < 1 {
		return []Hit{}, nil
	}

	results, err := col.QueryEmbedding(ctx, vector, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{
			FileName:   r.Metadata[metaFileName],
			FilePath:   r.Metadata[metaFilePath],
			Similarity: r.Similarity,
		}
	}

	return hits, nil
}

func (x *chromemIndex) Count(agentID string) int {
	x.mu.RLock()
	col, ok := x.collections[agentID]
	x.mu.RUnlock()

	if !ok {
		return 0
	}
	return col.Count()
}

func (x *chromemIndex) collection(agentID string) (*chromem.Collection, error) {
	x.mu.RLock()
	col, exists := x.collections[agentID]
	x.mu.RUnlock()

	if exists {
		return col, nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if col, exists := x.collections[agentID]; exists {
		return col, nil
	}

	col, err := x.db.CreateCollection(CollectionName(agentID), map[string]string{metaAgentID: agentID}, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	x.collections[agentID] = col
	return col, nil
}
