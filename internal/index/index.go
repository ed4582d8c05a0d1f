// Package index keeps an in-memory vector index of embedded files, one
// collection per agent, for similarity search.
package index

import (
	"context"
	"errors"
)

// ErrInvalidEntry is returned when an entry lacks the fields needed to index it.
var ErrInvalidEntry = errors.New("index: invalid entry")

// Entry is a file vector to index under its agent.
type Entry struct {
	AgentID  string
	FileName string
	FilePath string
	Vector   []float32
}

// Hit is a single similarity search result.
type Hit struct {
	FileName   string
	FilePath   string
	Similarity float32
}

// System defines the vector index operations.
type System interface {
	// Add indexes the entry keyed by its file name. An existing entry with the
	// same agent and file name is replaced.
	Add(ctx context.Context, e Entry) error

	// Query returns up to topK entries of the agent ordered by descending
	// similarity to vector. Unknown agents yield an empty result.
	Query(ctx context.Context, agentID string, vector []float32, topK int) ([]Hit, error)

	// Count returns the number of indexed files for the agent.
	Count(agentID string) int
}
