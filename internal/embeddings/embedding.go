// Package embeddings provides the domain system for storing uploaded files
// per agent and associating each file with an embedding vector.
package embeddings

import "context"

// FileEmbedding records one uploaded file and its embedding vector.
type FileEmbedding struct {
	AgentID  string    `json:"agent_id"`
	FileName string    `json:"file_name"`
	FilePath string    `json:"file_path"`
	Vector   []float32 `json:"embedding_vector"`
}

// Match is a file returned by similarity search.
type Match struct {
	FileName   string  `json:"file_name"`
	FilePath   string  `json:"file_path"`
	Similarity float32 `json:"similarity"`
}

// Embedder turns file contents into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, data []byte) ([]float32, error)
	Dimensions() int
}
