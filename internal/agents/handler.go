package agents

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/JaimeStill/agent-studio/pkg/bridge"
	"github.com/JaimeStill/agent-studio/pkg/pagination"
)

type createArgs struct {
	Agent *CreateCommand `json:"agent"`
}

type idArgs struct {
	ID string `json:"id"`
}

type updateArgs struct {
	ID    string         `json:"id"`
	Agent *UpdateCommand `json:"agent"`
}

type statusArgs struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// searchArgs accepts sorting either as page.sort fields or as a compact
// "sort" expression such as "name,-created_at". The expression wins when set.
type searchArgs struct {
	Page    pagination.PageRequest `json:"page"`
	Sort    string                 `json:"sort"`
	Filters Filters                `json:"filters"`
}

var errAgentRequired = errors.New("agent is required")

// Handler exposes the agent registry as bridge commands.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a new agents command handler.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger,
	}
}

// Commands returns the command group for agent operations.
func (h *Handler) Commands() bridge.Group {
	return bridge.Group{
		Name:        "agents",
		Description: "Agent catalog and lifecycle",
		MapKind:     MapKind,
		Commands: []bridge.Command{
			{Name: "createAgent", Handler: h.Create, Description: "Register a new agent"},
			{Name: "getAgent", Handler: h.Find, Description: "Get an agent by id"},
			{Name: "listAgents", Handler: h.List, Description: "List every agent"},
			{Name: "searchAgents", Handler: h.Search, Description: "Filter, sort and page agents"},
			{Name: "updateAgent", Handler: h.Update, Description: "Replace an agent's fields"},
			{Name: "deleteAgent", Handler: h.Delete, Description: "Remove an agent"},
			{Name: "changeAgentStatus", Handler: h.ChangeStatus, Description: "Set an agent's status"},
		},
	}
}

// Create handles createAgent. The shell receives null on success.
func (h *Handler) Create(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := bridge.Decode[createArgs](raw)
	if err != nil {
		return nil, err
	}
	if args.Agent == nil {
		return nil, bridge.InvalidInput(errAgentRequired)
	}

	if _, err := h.sys.Create(ctx, *args.Agent); err != nil {
		return nil, err
	}
	return nil, nil
}

// Find handles getAgent.
func (h *Handler) Find(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := bridge.Decode[idArgs](raw)
	if err != nil {
		return nil, err
	}
	return h.sys.Find(ctx, args.ID)
}

// List handles listAgents.
func (h *Handler) List(ctx context.Context, raw json.RawMessage) (any, error) {
	return h.sys.List(ctx)
}

// Search handles searchAgents.
func (h *Handler) Search(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := bridge.Decode[searchArgs](raw)
	if err != nil {
		return nil, err
	}
	if args.Sort != "" {
		args.Page.Sort = pagination.ParseSortFields(args.Sort)
	}
	return h.sys.Search(ctx, args.Page, args.Filters)
}

// Update handles updateAgent. The shell receives null on success.
func (h *Handler) Update(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := bridge.Decode[updateArgs](raw)
	if err != nil {
		return nil, err
	}
	if args.Agent == nil {
		return nil, bridge.InvalidInput(errAgentRequired)
	}

	if _, err := h.sys.Update(ctx, args.ID, *args.Agent); err != nil {
		return nil, err
	}
	return nil, nil
}

// Delete handles deleteAgent. The shell receives null on success.
func (h *Handler) Delete(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := bridge.Decode[idArgs](raw)
	if err != nil {
		return nil, err
	}
	return nil, h.sys.Delete(ctx, args.ID)
}

// ChangeStatus handles changeAgentStatus. The shell receives null on success.
func (h *Handler) ChangeStatus(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := bridge.Decode[statusArgs](raw)
	if err != nil {
		return nil, err
	}

	status, err := ParseStatus(args.Status)
	if err != nil {
		return nil, err
	}

	if _, err := h.sys.ChangeStatus(ctx, args.ID, status); err != nil {
		return nil, err
	}
	return nil, nil
}
