package embeddings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/agent-studio/internal/config"
	"github.com/JaimeStill/agent-studio/pkg/bridge"
)

// UploadArgs are the arguments of uploadAndEmbedFile. Bytes travel as base64.
type UploadArgs struct {
	AgentID  string `json:"agent_id"`
	FileName string `json:"file_name"`
	Bytes    []byte `json:"bytes"`
}

// ListArgs are the arguments of listAgentEmbeddings.
type ListArgs struct {
	AgentID string `json:"agent_id"`
}

// SearchArgs are the arguments of searchAgentEmbeddings.
type SearchArgs struct {
	AgentID string `json:"agent_id"`
	Query   string `json:"query"`
	TopK    int    `json:"top_k"`
}

// Handler exposes the embedding store as bridge commands.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
	index         config.IndexConfig
}

// NewHandler creates a new embeddings command handler.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64, index config.IndexConfig) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger,
		maxUploadSize: maxUploadSize,
		index:         index,
	}
}

// Commands returns the command group for file embedding operations.
func (h *Handler) Commands() bridge.Group {
	return bridge.Group{
		Name:        "embeddings",
		Description: "Per-agent file upload, embedding and search",
		MapKind:     MapKind,
		Commands: []bridge.Command{
			{Name: "uploadAndEmbedFile", Handler: h.Upload, Description: "Store a file under an agent and embed it"},
			{Name: "listAgentEmbeddings", Handler: h.List, Description: "List an agent's embedded file names"},
			{Name: "searchAgentEmbeddings", Handler: h.Search, Description: "Rank an agent's files by similarity to a query"},
		},
	}
}

// Upload handles uploadAndEmbedFile. The shell receives null on success.
func (h *Handler) Upload(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := bridge.Decode[UploadArgs](raw)
	if err != nil {
		return nil, err
	}

	if h.maxUploadSize > 0 && int64(len(args.Bytes)) > h.maxUploadSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, len(args.Bytes), h.maxUploadSize)
	}

	if _, err := h.sys.UploadAndEmbed(ctx, args.AgentID, args.FileName, args.Bytes); err != nil {
		return nil, err
	}
	return nil, nil
}

// List handles listAgentEmbeddings and returns file names in upload order.
func (h *Handler) List(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := bridge.Decode[ListArgs](raw)
	if err != nil {
		return nil, err
	}

	records, err := h.sys.ListForAgent(ctx, args.AgentID)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.FileName
	}
	return names, nil
}

// Search handles searchAgentEmbeddings. A missing or oversized top_k is clamped
// to the configured bounds.
func (h *Handler) Search(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := bridge.Decode[SearchArgs](raw)
	if err != nil {
		return nil, err
	}

	return h.sys.Search(ctx, args.AgentID, []byte(args.Query), h.index.Clamp(args.TopK))
}
