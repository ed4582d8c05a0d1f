package embeddings

import "context"

// System defines the interface for per-agent file embedding operations.
type System interface {
	// UploadAndEmbed writes data to <base>/<agentID>/<fileName>, embeds it,
	// and appends the resulting record to the agent's list.
	UploadAndEmbed(ctx context.Context, agentID, fileName string, data []byte) (*FileEmbedding, error)

	// ListForAgent returns the agent's records in upload order.
	ListForAgent(ctx context.Context, agentID string) ([]FileEmbedding, error)

	// Search embeds query and returns up to topK of the agent's files ranked by similarity.
	Search(ctx context.Context, agentID string, query []byte, topK int) ([]Match, error)
}
