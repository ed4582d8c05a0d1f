package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// HandlerFunc executes a command with its raw JSON arguments. A nil result is
// sent to the shell as JSON null.
type HandlerFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Command binds a command name to its handler.
type Command struct {
	Name        string
	Description string
	Handler     HandlerFunc
}

// Group is a set of commands owned by one domain system. MapKind classifies
// the domain's errors into bridge kinds; nil means every error is Internal.
type Group struct {
	Name        string
	Description string
	Commands    []Command
	MapKind     func(error) string
}

type entry struct {
	group   string
	handler HandlerFunc
	mapKind func(error) string
}

// Router dispatches requests to registered commands.
type Router struct {
	commands map[string]entry
	logger   *slog.Logger
}

// NewRouter creates an empty router.
func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		commands: make(map[string]entry),
		logger:   logger.With("system", "bridge"),
	}
}

// Register adds every command of the group. It panics when a command name is
// already registered.
func (r *Router) Register(group Group) {
	for _, cmd := range group.Commands {
		if _, exists := r.commands[cmd.Name]; exists {
			panic(fmt.Sprintf("bridge: command %q registered twice", cmd.Name))
		}
		r.commands[cmd.Name] = entry{
			group:   group.Name,
			handler: cmd.Handler,
			mapKind: group.MapKind,
		}
	}
}

// Commands returns the registered command names in sorted order.
func (r *Router) Commands() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Dispatch runs the command named by req and builds its response.
func (r *Router) Dispatch(ctx context.Context, req Request) Response {
	e, ok := r.commands[req.Command]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownCommand, req.Command)
		r.logger.Error("command failed", "command", req.Command, "kind", KindNotFound, "error", err)
		return errorResponse(req.ID, KindNotFound, err)
	}

	r.logger.Debug("command received", "command", req.Command, "group", e.group)

	result, err := e.handler(ctx, req.Args)
	if err != nil {
		kind := classify(err, e.mapKind)
		r.logger.Error("command failed", "command", req.Command, "kind", kind, "error", err)
		return errorResponse(req.ID, kind, err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		err = fmt.Errorf("encode result: %w", err)
		r.logger.Error("command failed", "command", req.Command, "kind", KindInternal, "error", err)
		return errorResponse(req.ID, KindInternal, err)
	}

	return Response{ID: req.ID, Result: data}
}

func classify(err error, mapKind func(error) string) string {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	if mapKind != nil {
		if kind := mapKind(err); kind != "" {
			return kind
		}
	}
	return KindInternal
}
