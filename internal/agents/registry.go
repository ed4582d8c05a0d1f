package agents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/JaimeStill/agent-studio/pkg/guard"
	"github.com/JaimeStill/agent-studio/pkg/pagination"
	"github.com/google/uuid"
)

// Option configures the registry returned by New.
type Option func(*registry)

// WithClock replaces the time source used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(r *registry) {
		r.now = now
	}
}

// WithIDGenerator replaces the generator used for agents created without an ID.
func WithIDGenerator(next func() string) Option {
	return func(r *registry) {
		r.newID = next
	}
}

// WithPagination sets the page size bounds applied by Search.
func WithPagination(cfg pagination.Config) Option {
	return func(r *registry) {
		r.pagination = cfg
	}
}

type registry struct {
	mu      guard.Mutex
	agents  map[string]*Agent
	retired map[string]struct{}

	now        func() time.Time
	newID      func() string
	pagination pagination.Config
	logger     *slog.Logger
}

// New creates an empty in-memory agent registry.
func New(logger *slog.Logger, opts ...Option) System {
	r := &registry{
		agents:     make(map[string]*Agent),
		retired:    make(map[string]struct{}),
		now:        time.Now,
		newID:      uuid.NewString,
		pagination: pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		logger:     logger.With("system", "agent"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *registry) Create(ctx context.Context, cmd CreateCommand) (*Agent, error) {
	status, err := createStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	return locked(r, func() (*Agent, error) {
		id := cmd.ID
		if id == "" {
			id = r.newID()
		}

		if _, exists := r.agents[id]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		if _, used := r.retired[id]; used {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}

		for _, a := range r.agents {
			if a.Name == cmd.Name {
				return nil, fmt.Errorf("%w: %q", ErrDuplicate, cmd.Name)
			}
		}

		now := r.timestamp()
		a := &Agent{
			ID:           id,
			Name:         cmd.Name,
			Description:  cmd.Description,
			Capabilities: capabilities(cmd.Capabilities),
			Status:       status,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		r.agents[id] = a

		r.logger.Info("agent created", "id", a.ID, "name", a.Name, "status", a.Status)
		return clone(a), nil
	})
}

func (r *registry) Find(ctx context.Context, id string) (*Agent, error) {
	return locked(r, func() (*Agent, error) {
		a, ok := r.agents[id]
		if !ok {
			return nil, ErrNotFound
		}
		return clone(a), nil
	})
}

func (r *registry) List(ctx context.Context) ([]Agent, error) {
	return locked(r, func() ([]Agent, error) {
		return r.snapshot(), nil
	})
}

func (r *registry) Search(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Agent], error) {
	return locked(r, func() (*pagination.PageResult[Agent], error) {
		matched := make([]Agent, 0, len(r.agents))
		for _, a := range r.snapshot() {
			if filters.Match(&a) && matchSearch(&a, page.Search) {
				matched = append(matched, a)
			}
		}

		pagination.Sort(matched, page.Sort, comparators, defaultSort)
		result := pagination.Paginate(matched, page, r.pagination)
		return &result, nil
	})
}

func (r *registry) Update(ctx context.Context, id string, cmd UpdateCommand) (*Agent, error) {
	var status Status
	if cmd.Status != "" {
		s, err := ParseStatus(string(cmd.Status))
		if err != nil {
			return nil, err
		}
		status = s
	}

	return locked(r, func() (*Agent, error) {
		a, ok := r.agents[id]
		if !ok {
			return nil, ErrNotFound
		}

		a.Name = cmd.Name
		a.Description = cmd.Description
		a.Capabilities = capabilities(cmd.Capabilities)
		if status != "" {
			a.Status = status
		}
		a.UpdatedAt = r.touch(a.UpdatedAt)

		r.logger.Info("agent updated", "id", a.ID, "name", a.Name)
		return clone(a), nil
	})
}

func (r *registry) Delete(ctx context.Context, id string) error {
	_, err := locked(r, func() (struct{}, error) {
		a, ok := r.agents[id]
		if !ok {
			return struct{}{}, ErrNotFound
		}

		delete(r.agents, id)
		r.retired[id] = struct{}{}

		r.logger.Info("agent deleted", "id", id, "name", a.Name)
		return struct{}{}, nil
	})
	return err
}

func (r *registry) ChangeStatus(ctx context.Context, id string, status Status) (*Agent, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}

	return locked(r, func() (*Agent, error) {
		a, ok := r.agents[id]
		if !ok {
			return nil, ErrNotFound
		}

		previous := a.Status
		a.Status = status
		a.UpdatedAt = r.touch(a.UpdatedAt)

		r.logger.Info("agent status changed", "id", a.ID, "from", previous, "to", status)
		return clone(a), nil
	})
}

// snapshot returns copies of all agents ordered by name. Callers hold the lock.
func (r *registry) snapshot() []Agent {
	result := make([]Agent, 0, len(r.agents))
	for _, a := range r.agents {
		result = append(result, *clone(a))
	}
	slices.SortFunc(result, comparators["name"])
	return result
}

func (r *registry) timestamp() time.Time {
	return r.now().UTC()
}

// touch returns the current time, advanced past previous when the clock has
// not moved forward, so that updated_at strictly increases on every mutation.
func (r *registry) touch(previous time.Time) time.Time {
	now := r.timestamp()
	if !now.After(previous) {
		now = previous.Add(time.Nanosecond)
	}
	return now
}

func createStatus(s Status) (Status, error) {
	if s == "" {
		return StatusActive, nil
	}
	status, err := ParseStatus(string(s))
	if err != nil {
		return "", err
	}
	if status == StatusInactive {
		return StatusActive, nil
	}
	return status, nil
}

func locked[T any](r *registry, fn func() (T, error)) (T, error) {
	result, err := guard.Value(&r.mu, fn)
	if errors.Is(err, guard.ErrPoisoned) {
		return result, fmt.Errorf("%w: %w", ErrLockFailure, err)
	}
	return result, err
}

func capabilities(c []string) []string {
	if c == nil {
		return []string{}
	}
	return slices.Clone(c)
}

func clone(a *Agent) *Agent {
	c := *a
	c.Capabilities = slices.Clone(a.Capabilities)
	return &c
}
